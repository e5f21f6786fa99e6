package model

import "time"

type ListingKind string

const (
	ListingKindItem ListingKind = "item"
	ListingKindGig  ListingKind = "gig"
)

type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusSold   ListingStatus = "sold"
)

type Listing struct {
	ID           uint64        `gorm:"primaryKey;autoIncrement"`
	SellerUID    string        `gorm:"column:seller_uid;size:128;index;not null"`
	Kind         ListingKind   `gorm:"column:kind;size:16;not null;default:item"`
	Title        string        `gorm:"size:120;not null"`
	Description  string        `gorm:"type:text;not null"`
	Price        uint          `gorm:"not null"`
	CategorySlug string        `gorm:"column:category_slug;size:64;index"`
	ImageURL     *string       `gorm:"size:512"`
	Status       ListingStatus `gorm:"column:status;size:16;index;not null;default:active"`
	// BuyerUID is set when the listing is marked sold to a named buyer and
	// cleared again on reopen.
	BuyerUID  *string   `gorm:"column:buyer_uid;size:128"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}
