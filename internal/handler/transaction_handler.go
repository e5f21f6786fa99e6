package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type TransactionHandler struct {
	svc service.TransactionService
}

func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type TransactionResponse struct {
	ID         uint64  `json:"id"`
	ListingID  uint64  `json:"listingId"`
	SellerUID  string  `json:"sellerUid"`
	BuyerUID   string  `json:"buyerUid"`
	Status     string  `json:"status"`
	ResolvedAt *string `json:"resolvedAt,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

func toTransactionResponse(t *model.Transaction) TransactionResponse {
	var resolvedAt *string
	if t.ResolvedAt != nil {
		val := t.ResolvedAt.Format(time.RFC3339)
		resolvedAt = &val
	}
	return TransactionResponse{
		ID:         t.ID,
		ListingID:  t.ListingID,
		SellerUID:  t.SellerUID,
		BuyerUID:   t.BuyerUID,
		Status:     string(t.Status),
		ResolvedAt: resolvedAt,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}

type ConfirmRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *TransactionHandler) Confirm(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid transaction id"))
	}
	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	t, err := h.svc.Confirm(c.Request().Context(), id, uid, req.Rating, req.Comment)
	if err != nil {
		status, code := errorStatus(err)
		return c.JSON(status, NewErrorResponse(code, err.Error()))
	}
	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

func (h *TransactionHandler) Reject(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid transaction id"))
	}
	t, err := h.svc.Reject(c.Request().Context(), id, uid)
	if err != nil {
		status, code := errorStatus(err)
		return c.JSON(status, NewErrorResponse(code, err.Error()))
	}
	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

type TransactionWithListingResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Listing     *ListingResponse    `json:"listing,omitempty"`
}

func toTransactionWithListingResponses(list []service.TransactionWithListing) []TransactionWithListingResponse {
	resp := make([]TransactionWithListingResponse, 0, len(list))
	for _, row := range list {
		item := TransactionWithListingResponse{Transaction: toTransactionResponse(&row.Transaction)}
		if row.Listing != nil {
			lr := toListingResponse(row.Listing)
			item.Listing = &lr
		}
		resp = append(resp, item)
	}
	return resp
}

// ListConfirmations feeds the buyer's "did you buy this?" panel.
func (h *TransactionHandler) ListConfirmations(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListPendingForBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch confirmations"))
	}
	return c.JSON(http.StatusOK, toTransactionWithListingResponses(list))
}

func (h *TransactionHandler) ListSales(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch sales"))
	}
	return c.JSON(http.StatusOK, toTransactionWithListingResponses(list))
}
