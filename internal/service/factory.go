package service

import (
	"time"

	"github.com/google/uuid"

	"wheels/internal/domain"
)

// RouteTemplate is a predefined origin/destination pair trips are created
// from. Departure is a fixed offset from the moment of creation.
type RouteTemplate struct {
	ID              string
	Origin          string
	Destination     string
	DepartureOffset time.Duration
	SeatCapacity    int
}

const (
	defaultDepartureOffset = 15 * time.Minute
	defaultSeatCapacity    = 3

	// Single-occupant vehicles carry one rider regardless of template.
	motorcycleSeatCapacity = 1
)

// routeTemplates holds the fixed routes offered to drivers, in the order
// they are listed.
var routeTemplates = []RouteTemplate{
	{ID: "u-mutis", Origin: "Universidad", Destination: "Barrio Mutis", DepartureOffset: defaultDepartureOffset, SeatCapacity: defaultSeatCapacity},
	{ID: "u-cumbre", Origin: "Universidad", Destination: "Barrio La Cumbre", DepartureOffset: defaultDepartureOffset, SeatCapacity: defaultSeatCapacity},
	{ID: "mutis-u", Origin: "Barrio Mutis", Destination: "Universidad", DepartureOffset: defaultDepartureOffset, SeatCapacity: defaultSeatCapacity},
	{ID: "cumbre-u", Origin: "Barrio La Cumbre", Destination: "Universidad", DepartureOffset: defaultDepartureOffset, SeatCapacity: defaultSeatCapacity},
}

// TripFactory builds trip skeletons from route templates. It performs no
// persistence and no validation beyond template lookup.
type TripFactory struct{}

// NewTripFactory creates a new TripFactory.
func NewTripFactory() *TripFactory {
	return &TripFactory{}
}

// Build produces a new trip for the driver from the given template. The trip
// starts in the created state with no riders.
func (f *TripFactory) Build(driver *domain.Driver, templateID string) (*domain.Trip, error) {
	tpl, ok := f.lookup(templateID)
	if !ok {
		return nil, ErrUnknownRoute
	}

	now := time.Now()
	return &domain.Trip{
		ID:           uuid.New().String(),
		DriverID:     driver.ID,
		Origin:       tpl.Origin,
		Destination:  tpl.Destination,
		DepartureAt:  now.Add(tpl.DepartureOffset),
		SeatCapacity: f.capacityFor(driver, tpl),
		Status:       domain.TripStatusCreated,
		CreatedAt:    now,
	}, nil
}

// TemplatesFor lists the route templates with seat capacity adjusted to the
// driver's vehicle.
func (f *TripFactory) TemplatesFor(driver *domain.Driver) []RouteTemplate {
	out := make([]RouteTemplate, len(routeTemplates))
	for i, tpl := range routeTemplates {
		tpl.SeatCapacity = f.capacityFor(driver, tpl)
		out[i] = tpl
	}
	return out
}

func (f *TripFactory) lookup(templateID string) (RouteTemplate, bool) {
	for _, tpl := range routeTemplates {
		if tpl.ID == templateID {
			return tpl, true
		}
	}
	return RouteTemplate{}, false
}

func (f *TripFactory) capacityFor(driver *domain.Driver, tpl RouteTemplate) int {
	if driver.Vehicle != nil && driver.Vehicle.Type == domain.VehicleTypeMotorcycle {
		return motorcycleSeatCapacity
	}
	return tpl.SeatCapacity
}
