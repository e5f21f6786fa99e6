package handler

import (
	"net/http"
	"time"

	"github.com/keirara04/labmarket-backend/internal/model"
	"github.com/keirara04/labmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ProfileHandler serves the public read surface consumed by profile display:
// LabCred score with history, and reviews with average rating.
type ProfileHandler struct {
	trust   service.TrustService
	reviews service.ReviewService
}

func NewProfileHandler(trust service.TrustService, reviews service.ReviewService) *ProfileHandler {
	return &ProfileHandler{trust: trust, reviews: reviews}
}

type TrustEntryResponse struct {
	ID            uint64 `json:"id"`
	Delta         int64  `json:"delta"`
	Reason        string `json:"reason"`
	TransactionID uint64 `json:"transactionId"`
	CreatedAt     string `json:"createdAt"`
}

type TrustResponse struct {
	UID     string               `json:"uid"`
	Score   int64                `json:"score"`
	Entries []TrustEntryResponse `json:"entries"`
}

func (h *ProfileHandler) GetTrust(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	score, err := h.trust.Score(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch trust score"))
	}
	entries, err := h.trust.History(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch trust history"))
	}
	resp := TrustResponse{
		UID:     uid,
		Score:   score,
		Entries: make([]TrustEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, TrustEntryResponse{
			ID:            e.ID,
			Delta:         e.Delta,
			Reason:        e.Reason,
			TransactionID: e.TransactionID,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

type ReviewResponse struct {
	ID            uint64 `json:"id"`
	TransactionID uint64 `json:"transactionId"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment,omitempty"`
	AuthorUID     string `json:"authorUid"`
	CreatedAt     string `json:"createdAt"`
}

type ReviewListResponse struct {
	UID           string           `json:"uid"`
	AverageRating *float64         `json:"averageRating,omitempty"`
	Count         int64            `json:"count"`
	Reviews       []ReviewResponse `json:"reviews"`
}

func (h *ProfileHandler) GetReviews(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	list, err := h.reviews.ListForSubject(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch reviews"))
	}
	avg, count, err := h.reviews.AverageRating(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch rating"))
	}
	resp := ReviewListResponse{
		UID:           uid,
		AverageRating: avg,
		Count:         count,
		Reviews:       make([]ReviewResponse, 0, len(list)),
	}
	for _, rv := range list {
		resp.Reviews = append(resp.Reviews, toReviewResponse(&rv))
	}
	return c.JSON(http.StatusOK, resp)
}

func toReviewResponse(rv *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:            rv.ID,
		TransactionID: rv.TransactionID,
		Rating:        rv.Rating,
		Comment:       rv.Comment,
		AuthorUID:     rv.AuthorUID,
		CreatedAt:     rv.CreatedAt.Format(time.RFC3339),
	}
}
