package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/keirara04/labmarket-backend/internal/config"
	"github.com/keirara04/labmarket-backend/internal/db"
	"github.com/keirara04/labmarket-backend/internal/model"
	"gorm.io/gorm"
)

type seedListing struct {
	SellerUID    string
	Kind         model.ListingKind
	Title        string
	Description  string
	Price        uint
	CategorySlug string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(
		&model.Listing{},
		&model.Transaction{},
		&model.Review{},
		&model.TrustLedgerEntry{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&model.Listing{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if count > 0 && !forceSeed() {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	listings := buildSeedListings()
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range listings {
			l := &model.Listing{
				SellerUID:    listings[i].SellerUID,
				Kind:         listings[i].Kind,
				Title:        listings[i].Title,
				Description:  listings[i].Description,
				Price:        listings[i].Price,
				CategorySlug: listings[i].CategorySlug,
				Status:       model.ListingStatusActive,
			}
			if err := tx.Create(l).Error; err != nil {
				return fmt.Errorf("insert %q: %w", l.Title, err)
			}
		}
		log.Printf("seeded %d listings", len(listings))
		return nil
	})
}

func forceSeed() bool {
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true")
}

func buildSeedListings() []seedListing {
	return []seedListing{
		{SellerUID: "seed-user-ana", Kind: model.ListingKindItem, Title: "Organic Chemistry 2nd ed.", Description: "Lightly annotated, all chapters intact.", Price: 3500, CategorySlug: "textbooks"},
		{SellerUID: "seed-user-ana", Kind: model.ListingKindItem, Title: "Lab coat, size M", Description: "Washed twice, no stains.", Price: 1200, CategorySlug: "lab-gear"},
		{SellerUID: "seed-user-ben", Kind: model.ListingKindItem, Title: "TI-84 Plus calculator", Description: "Works fine, slightly scratched screen.", Price: 4500, CategorySlug: "electronics"},
		{SellerUID: "seed-user-ben", Kind: model.ListingKindGig, Title: "Stats tutoring, 1h", Description: "Intro stats and probability, on campus or online.", Price: 2000, CategorySlug: "tutoring"},
		{SellerUID: "seed-user-chiara", Kind: model.ListingKindGig, Title: "Poster printing + lamination", Description: "A1 conference posters, 24h turnaround.", Price: 1800, CategorySlug: "printing"},
		{SellerUID: "seed-user-chiara", Kind: model.ListingKindItem, Title: "Mini fridge", Description: "Dorm-sized, quiet compressor.", Price: 6000, CategorySlug: "dorm"},
	}
}
