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

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverRepo  repository.DriverRepository
	tripService *service.TripService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverRepo repository.DriverRepository, tripService *service.TripService) *DriverHandler {
	return &DriverHandler{driverRepo: driverRepo, tripService: tripService}
}

// RegisterDriverRequest is the HTTP request body for driver registration.
type RegisterDriverRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	CurrentTripID string           `json:"current_trip_id,omitempty"`
	Vehicle       *VehicleResponse `json:"vehicle,omitempty"`
}

// VehicleResponse is the HTTP response for vehicle data.
type VehicleResponse struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
	Model string `json:"model"`
	Type  string `json:"type"`
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	resp := DriverResponse{
		ID:            driver.ID,
		Name:          driver.Name,
		Phone:         driver.Phone,
		CurrentTripID: driver.CurrentTripID,
	}
	if driver.Vehicle != nil {
		resp.Vehicle = &VehicleResponse{
			ID:    driver.Vehicle.ID,
			Plate: driver.Vehicle.Plate,
			Model: driver.Vehicle.Model,
			Type:  string(driver.Vehicle.Type),
		}
	}
	return resp
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	driver := &domain.Driver{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// RegisterVehicleRequest is the HTTP request body for vehicle registration.
type RegisterVehicleRequest struct {
	Plate string `json:"plate"`
	Model string `json:"model"`
	Type  string `json:"type"`
}

// RegisterVehicle handles PUT /v1/drivers/:id/vehicle
func (h *DriverHandler) RegisterVehicle(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicleType := domain.VehicleType(req.Type)
	if vehicleType != domain.VehicleTypeCar && vehicleType != domain.VehicleTypeMotorcycle {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "vehicle type must be CAR or MOTORCYCLE"})
		return
	}
	if req.Plate == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "plate is required"})
		return
	}

	driver, err := h.driverRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	driver.Vehicle = &domain.Vehicle{
		ID:    uuid.New().String(),
		Plate: req.Plate,
		Model: req.Model,
		Type:  vehicleType,
	}

	if err := h.driverRepo.Update(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// RouteResponse is the HTTP response for an available route template.
type RouteResponse struct {
	TemplateID   string `json:"template_id"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	SeatCapacity int    `json:"seat_capacity"`
}

// Routes handles GET /v1/drivers/:id/routes
func (h *DriverHandler) Routes(c *gin.Context) {
	routes, err := h.tripService.RoutesForDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		response = append(response, RouteResponse{
			TemplateID:   r.ID,
			Origin:       r.Origin,
			Destination:  r.Destination,
			SeatCapacity: r.SeatCapacity,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// ActiveTrip handles GET /v1/drivers/:id/trips/active
func (h *DriverHandler) ActiveTrip(c *gin.Context) {
	trip, err := h.tripService.ActiveTripForDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// TripHistory handles GET /v1/drivers/:id/trips/history
func (h *DriverHandler) TripHistory(c *gin.Context) {
	trips, err := h.tripService.HistoryForDriver(c.Request.Context(), c.Param("id"))
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
