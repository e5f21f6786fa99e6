package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	svc service.ListingService
	txn service.TransactionService
}

func NewListingHandler(svc service.ListingService, txn service.TransactionService) *ListingHandler {
	return &ListingHandler{svc: svc, txn: txn}
}

type ListingResponse struct {
	ID           uint64  `json:"id"`
	SellerUID    string  `json:"sellerUid"`
	Kind         string  `json:"kind"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        uint    `json:"price"`
	CategorySlug string  `json:"categorySlug"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Status       string  `json:"status"`
	BuyerUID     *string `json:"buyerUid,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

type CreateListingRequest struct {
	Kind         string  `json:"kind"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        uint    `json:"price"`
	CategorySlug string  `json:"categorySlug"`
	ImageURL     *string `json:"imageUrl"`
}

func toListingResponse(l *model.Listing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		SellerUID:    l.SellerUID,
		Kind:         string(l.Kind),
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		CategorySlug: l.CategorySlug,
		ImageURL:     l.ImageURL,
		Status:       string(l.Status),
		BuyerUID:     l.BuyerUID,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ListingHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	l, err := h.svc.Create(c.Request().Context(), uid, model.ListingKind(req.Kind), req.Title, req.Description, req.Price, req.CategorySlug, req.ImageURL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toListingResponse(l))
}

func (h *ListingHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	l, err := h.svc.Update(c.Request().Context(), id, uid, req.Title, req.Description, req.Price, req.CategorySlug, req.ImageURL)
	if err != nil {
		status, code := errorStatus(err)
		return c.JSON(status, NewErrorResponse(code, err.Error()))
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	l, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		status, code := errorStatus(err)
		return c.JSON(status, NewErrorResponse(code, "listing not found"))
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	kind := model.ListingKind(c.QueryParam("kind"))
	listings, total, err := h.svc.List(c.Request().Context(), limit, offset, c.QueryParam("category"), kind)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(&listings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listings, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	resp := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		resp = append(resp, toListingResponse(&listings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type MarkSoldRequest struct {
	BuyerUID *string `json:"buyerUid"`
}

type MarkSoldResponse struct {
	Listing     ListingResponse      `json:"listing"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// MarkSold is the seller's "mark as sold" action. With a buyerUid it opens a
// pending transaction for that buyer; without one it records an offline sale.
func (h *ListingHandler) MarkSold(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req MarkSoldRequest
	_ = c.Bind(&req)
	t, l, err := h.txn.Initiate(c.Request().Context(), id, uid, req.BuyerUID)
	if err != nil {
		status, code := errorStatus(err)
		return c.JSON(status, NewErrorResponse(code, err.Error()))
	}
	resp := MarkSoldResponse{Listing: toListingResponse(l)}
	if t != nil {
		tr := toTransactionResponse(t)
		resp.Transaction = &tr
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) Reopen(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	l, err := h.txn.ReopenListing(c.Request().Context(), id, uid)
	if err != nil {
		status, code := errorStatus(err)
		return c.JSON(status, NewErrorResponse(code, err.Error()))
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}
