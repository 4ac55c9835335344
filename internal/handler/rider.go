package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wheels/internal/domain"
	"wheels/internal/repository"
	"wheels/internal/service"
)

// RiderHandler handles HTTP requests for riders.
type RiderHandler struct {
	riderRepo   repository.RiderRepository
	tripService *service.TripService
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riderRepo repository.RiderRepository, tripService *service.TripService) *RiderHandler {
	return &RiderHandler{riderRepo: riderRepo, tripService: tripService}
}

// RegisterRiderRequest is the HTTP request body for rider registration.
type RegisterRiderRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RiderResponse is the HTTP response for rider data.
type RiderResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	CurrentTripID string `json:"current_trip_id,omitempty"`
}

// Register handles POST /v1/riders/register
func (h *RiderHandler) Register(c *gin.Context) {
	var req RegisterRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	rider := &domain.Rider{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.riderRepo.Create(c.Request.Context(), rider); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RiderResponse{
		ID:    rider.ID,
		Name:  rider.Name,
		Phone: rider.Phone,
	})
}

// ActiveTrip handles GET /v1/riders/:id/trips/active
func (h *RiderHandler) ActiveTrip(c *gin.Context) {
	trip, err := h.tripService.ActiveTripForRider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// TripHistory handles GET /v1/riders/:id/trips/history
func (h *RiderHandler) TripHistory(c *gin.Context) {
	trips, err := h.tripService.HistoryForRider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}
