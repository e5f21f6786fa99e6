package handler

import (
	"errors"
	"net/http"

	"github.com/keirara04/labmarket-backend/internal/service"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// errorStatus maps service sentinel errors to an HTTP status and error code.
// Conflict-class errors mean "this was already handled, refresh your view".
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrAlreadySold):
		return http.StatusConflict, "already_sold"
	case errors.Is(err, service.ErrNotSold):
		return http.StatusConflict, "not_sold"
	case errors.Is(err, service.ErrDuplicatePending):
		return http.StatusConflict, "duplicate_pending"
	case errors.Is(err, service.ErrAlreadyTerminal):
		return http.StatusConflict, "already_terminal"
	case errors.Is(err, service.ErrDuplicateCredit):
		return http.StatusConflict, "duplicate_credit"
	case errors.Is(err, service.ErrDuplicateReview):
		return http.StatusConflict, "duplicate_review"
	case errors.Is(err, service.ErrInvalidBuyer):
		return http.StatusBadRequest, "invalid_buyer"
	case errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest, "invalid_rating"
	default:
		return http.StatusBadRequest, "bad_request"
	}
}
