package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wheels/internal/domain"
	"wheels/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID       string   `json:"trip_id"`
	DriverID     string   `json:"driver_id"`
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	DepartureAt  string   `json:"departure_at"`
	SeatCapacity int      `json:"seat_capacity"`
	SeatsLeft    int      `json:"seats_left"`
	Status       string   `json:"status"`
	RiderIDs     []string `json:"rider_ids"`
	ChatID       string   `json:"chat_id,omitempty"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		TripID:       trip.ID,
		DriverID:     trip.DriverID,
		Origin:       trip.Origin,
		Destination:  trip.Destination,
		DepartureAt:  trip.DepartureAt.Format(time.RFC3339),
		SeatCapacity: trip.SeatCapacity,
		SeatsLeft:    trip.SeatsLeft(),
		Status:       string(trip.Status),
		RiderIDs:     trip.RiderIDs,
		ChatID:       trip.ChatID,
	}
}

// CreateTripRequest is the HTTP request body for trip creation.
type CreateTripRequest struct {
	DriverID   string `json:"driver_id"`
	TemplateID string `json:"template_id"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		DriverID:   req.DriverID,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// AdmitRiderRequest is the HTTP request body for admitting a rider.
type AdmitRiderRequest struct {
	RiderID string `json:"rider_id"`
}

// AdmitRider handles POST /v1/trips/:id/riders
func (h *TripHandler) AdmitRider(c *gin.Context) {
	var req AdmitRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.AdmitRider(c.Request.Context(), service.AdmitRiderRequest{
		TripID:  c.Param("id"),
		RiderID: req.RiderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// StartTripResponse is the HTTP response for a start attempt.
type StartTripResponse struct {
	Started bool `json:"started"`
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	started, err := h.tripService.StartTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StartTripResponse{Started: started})
}

// CancelTripRequest is the HTTP request body for cancelling a trip.
type CancelTripRequest struct {
	UserID   string `json:"user_id"`
	IsDriver bool   `json:"is_driver"`
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var req CancelTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.tripService.CancelTrip(c.Request.Context(), service.CancelTripRequest{
		TripID:       c.Param("id"),
		ActingUserID: req.UserID,
		ActingDriver: req.IsDriver,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"cancelled": true})
}

// FinalizeTripRequest is the HTTP request body for finishing a trip.
type FinalizeTripRequest struct {
	DriverID string `json:"driver_id"`
}

// FinalizeTrip handles POST /v1/trips/:id/finish
func (h *TripHandler) FinalizeTrip(c *gin.Context) {
	var req FinalizeTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.FinalizeTrip(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}
