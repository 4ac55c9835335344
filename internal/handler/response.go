package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wheels/internal/repository"
	"wheels/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrUnknownRoute),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrDriverHasActiveTrip),
		errors.Is(err, service.ErrRiderHasActiveTrip),
		errors.Is(err, service.ErrRiderAlreadyInTrip),
		errors.Is(err, service.ErrNoSeatsLeft),
		errors.Is(err, service.ErrNoVehicleRegistered),
		errors.Is(err, service.ErrRiderNotInTrip),
		errors.Is(err, service.ErrNotTripMember),
		errors.Is(err, service.ErrTripNotActive),
		errors.Is(err, service.ErrTripNotCreated),
		errors.Is(err, service.ErrTripNotInProgress),
		errors.Is(err, service.ErrTripBusy):
		return http.StatusConflict

	// Ownership errors
	case errors.Is(err, service.ErrNotTripDriver):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
