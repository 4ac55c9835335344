package service

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"wheels/internal/domain"
	"wheels/internal/redis"
	"wheels/internal/repository"
)

const tripLockTTL = 10 * time.Second

// departureGrace is the time after the scheduled departure at which a trip
// may start regardless of remaining seats.
const departureGrace = 2 * time.Minute

// TripService owns the trip state machine. It is the only component that
// mutates a trip's status or rider set, and it keeps driver/rider
// current-trip links consistent with every change. Mutations on the same
// trip are serialized through the lock store; all cross-entity writes of one
// operation commit in a single transaction.
type TripService struct {
	txm           repository.TxManager
	tripRepo      repository.TripRepository
	driverRepo    repository.DriverRepository
	riderRepo     repository.RiderRepository
	lockStore     redis.LockStoreInterface
	cacheStore    redis.CacheStoreInterface
	notifications *NotificationService
	factory       *TripFactory
}

// NewTripService creates a new TripService. lockStore and cacheStore may be
// nil, in which case locking and caching are skipped.
func NewTripService(
	txm repository.TxManager,
	tripRepo repository.TripRepository,
	driverRepo repository.DriverRepository,
	riderRepo repository.RiderRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notificationService *NotificationService,
	factory *TripFactory,
) *TripService {
	if factory == nil {
		factory = NewTripFactory()
	}
	if notificationService == nil {
		notificationService = NewNotificationService(nil)
	}
	return &TripService{
		txm:           txm,
		tripRepo:      tripRepo,
		driverRepo:    driverRepo,
		riderRepo:     riderRepo,
		lockStore:     lockStore,
		cacheStore:    cacheStore,
		notifications: notificationService,
		factory:       factory,
	}
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	DriverID   string
	TemplateID string
}

// CreateTrip builds a trip from a route template, creates its companion chat
// and links the driver to it, all in one transaction.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}

	hasActive, err := s.tripRepo.ExistsActiveByDriverID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, ErrDriverHasActiveTrip
	}

	if !driver.HasVehicle() {
		return nil, ErrNoVehicleRegistered
	}

	trip, err := s.factory.Build(driver, req.TemplateID)
	if err != nil {
		return nil, err
	}

	chat := &domain.Chat{
		ID:        uuid.New().String(),
		TripID:    trip.ID,
		CreatedAt: time.Now(),
	}
	trip.ChatID = chat.ID

	err = s.txm.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if err := repos.Trips.Create(ctx, trip); err != nil {
			return err
		}
		if err := repos.Chats.Create(ctx, chat); err != nil {
			return err
		}
		driver.CurrentTripID = trip.ID
		return repos.Drivers.Update(ctx, driver)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// AdmitRiderRequest contains the parameters for admitting a rider.
type AdmitRiderRequest struct {
	TripID  string
	RiderID string
}

// AdmitRider adds a rider to the trip's rider set and points the rider's
// current-trip link at it. Membership and capacity are checked before any
// write; the membership check wins over the capacity check.
func (s *TripService) AdmitRider(ctx context.Context, req AdmitRiderRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}

	var trip *domain.Trip
	err := s.withTripLock(ctx, req.TripID, func() error {
		var err error
		trip, err = s.tripRepo.GetByID(ctx, req.TripID)
		if err != nil {
			return err
		}

		rider, err := s.riderRepo.GetByID(ctx, req.RiderID)
		if err != nil {
			return err
		}

		if !trip.IsActive() {
			return ErrTripNotActive
		}
		if trip.HasRider(rider.ID) {
			return ErrRiderAlreadyInTrip
		}
		if rider.CurrentTripID != "" {
			return ErrRiderHasActiveTrip
		}
		if len(trip.RiderIDs) >= trip.SeatCapacity {
			return ErrNoSeatsLeft
		}

		return s.txm.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
			trip.RiderIDs = append(trip.RiderIDs, rider.ID)
			if err := repos.Trips.Update(ctx, trip); err != nil {
				return err
			}
			rider.CurrentTripID = trip.ID
			return repos.Riders.Update(ctx, rider)
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, req.TripID)
	return trip, nil
}

// StartTrip moves a created trip to in-progress when its departure
// conditions are met. Returns false with no error when it is simply not
// time yet.
func (s *TripService) StartTrip(ctx context.Context, tripID string) (bool, error) {
	if tripID == "" {
		return false, ErrInvalidTripID
	}

	started := false
	err := s.withTripLock(ctx, tripID, func() error {
		trip, err := s.tripRepo.GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		if trip.Status != domain.TripStatusCreated {
			return ErrTripNotCreated
		}

		now := time.Now()
		departed := !now.Before(trip.DepartureAt)
		// A zero-seat trip waits for nobody. See DESIGN.md on this rule.
		noSeats := trip.SeatCapacity == 0

		if !departed && !noSeats && now.Sub(trip.DepartureAt) < departureGrace {
			return nil
		}

		trip.Status = domain.TripStatusInProgress
		if err := s.tripRepo.Update(ctx, trip); err != nil {
			return err
		}

		started = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if started {
		s.invalidateCache(ctx, tripID)
	}
	return started, nil
}

// CancelTripRequest contains the parameters for cancelling a trip, or for a
// rider withdrawing from one.
type CancelTripRequest struct {
	TripID       string
	ActingUserID string
	ActingDriver bool
}

// CancelTrip handles both cancellation paths. A driver cancellation unlinks
// and notifies every rider, then removes the trip and its chat from the
// store. A rider cancellation removes only that rider and notifies the
// driver; the trip keeps its state and remaining riders.
func (s *TripService) CancelTrip(ctx context.Context, req CancelTripRequest) error {
	if req.TripID == "" {
		return ErrInvalidTripID
	}
	if req.ActingUserID == "" {
		return ErrInvalidUserID
	}

	err := s.withTripLock(ctx, req.TripID, func() error {
		trip, err := s.tripRepo.GetByID(ctx, req.TripID)
		if err != nil {
			return err
		}

		if !trip.IsActive() {
			return ErrTripNotActive
		}

		if req.ActingDriver {
			return s.cancelByDriver(ctx, trip, req.ActingUserID)
		}
		return s.cancelByRider(ctx, trip, req.ActingUserID)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, req.TripID)
	return nil
}

// cancelByDriver removes the whole trip. All unlinks and the delete commit
// together; notifications go out only after the commit.
func (s *TripService) cancelByDriver(ctx context.Context, trip *domain.Trip, driverID string) error {
	if trip.DriverID != driverID {
		return ErrNotTripDriver
	}

	riderIDs := slices.Clone(trip.RiderIDs)

	err := s.txm.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		for _, riderID := range riderIDs {
			rider, err := repos.Riders.GetByID(ctx, riderID)
			if err != nil {
				return err
			}
			rider.CurrentTripID = ""
			if err := repos.Riders.Update(ctx, rider); err != nil {
				return err
			}
		}

		driver, err := repos.Drivers.GetByID(ctx, trip.DriverID)
		if err != nil {
			return err
		}
		driver.CurrentTripID = ""
		if err := repos.Drivers.Update(ctx, driver); err != nil {
			return err
		}

		if trip.ChatID != "" {
			if err := repos.Chats.Delete(ctx, trip.ChatID); err != nil {
				return err
			}
		}

		return repos.Trips.Delete(ctx, trip.ID)
	})
	if err != nil {
		return err
	}

	for _, riderID := range riderIDs {
		s.notifications.NotifyTripCancelled(ctx, trip, riderID)
	}
	return nil
}

// cancelByRider removes one rider from the trip.
func (s *TripService) cancelByRider(ctx context.Context, trip *domain.Trip, riderID string) error {
	rider, err := s.riderRepo.GetByID(ctx, riderID)
	if err != nil {
		return err
	}

	if !trip.HasRider(rider.ID) {
		return ErrRiderNotInTrip
	}

	err = s.txm.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		trip.RiderIDs = slices.DeleteFunc(slices.Clone(trip.RiderIDs), func(id string) bool {
			return id == rider.ID
		})
		if err := repos.Trips.Update(ctx, trip); err != nil {
			return err
		}
		rider.CurrentTripID = ""
		return repos.Riders.Update(ctx, rider)
	})
	if err != nil {
		return err
	}

	s.notifications.NotifyRiderWithdrew(ctx, trip, rider)
	return nil
}

// FinalizeTrip moves an in-progress trip to finished, unlinking the driver
// and every rider. The trip row is kept for history.
func (s *TripService) FinalizeTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	var trip *domain.Trip
	err := s.withTripLock(ctx, tripID, func() error {
		var err error
		trip, err = s.tripRepo.GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		driver, err := s.driverRepo.GetByID(ctx, driverID)
		if err != nil {
			return err
		}

		if trip.Status != domain.TripStatusInProgress {
			return ErrTripNotInProgress
		}
		if trip.DriverID != driver.ID {
			return ErrNotTripDriver
		}

		return s.txm.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
			for _, riderID := range trip.RiderIDs {
				rider, err := repos.Riders.GetByID(ctx, riderID)
				if err != nil {
					return err
				}
				rider.CurrentTripID = ""
				if err := repos.Riders.Update(ctx, rider); err != nil {
					return err
				}
			}

			driver.CurrentTripID = ""
			if err := repos.Drivers.Update(ctx, driver); err != nil {
				return err
			}

			trip.Status = domain.TripStatusFinished
			return repos.Trips.Update(ctx, trip)
		})
	})
	if err != nil {
		return nil, err
	}

	for _, riderID := range trip.RiderIDs {
		s.notifications.NotifyTripFinished(ctx, trip, riderID)
	}

	s.invalidateCache(ctx, tripID)
	return trip, nil
}

// GetTrip retrieves a trip by ID, consulting the cache first.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetTrip(ctx, tripID); err == nil && cached != nil {
			return tripFromCache(cached), nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetTrip(ctx, tripToCache(trip))
	}

	return trip, nil
}

// ActiveTripForDriver retrieves the driver's active trip.
func (s *TripService) ActiveTripForDriver(ctx context.Context, driverID string) (*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	trip, err := s.tripRepo.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, repository.ErrNotFound
	}
	return trip, nil
}

// ActiveTripForRider retrieves the trip the rider is currently part of.
func (s *TripService) ActiveTripForRider(ctx context.Context, riderID string) (*domain.Trip, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	trip, err := s.tripRepo.GetActiveByRiderID(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, repository.ErrNotFound
	}
	return trip, nil
}

// HistoryForDriver retrieves the driver's finished and cancelled trips.
func (s *TripService) HistoryForDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.tripRepo.GetHistoryByDriverID(ctx, driverID)
}

// HistoryForRider retrieves the finished and cancelled trips the rider took
// part in.
func (s *TripService) HistoryForRider(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.tripRepo.GetHistoryByRiderID(ctx, riderID)
}

// RoutesForDriver lists the route templates available to the driver, with
// seat capacities adjusted to the registered vehicle.
func (s *TripService) RoutesForDriver(ctx context.Context, driverID string) ([]RouteTemplate, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return s.factory.TemplatesFor(driver), nil
}

// withTripLock serializes the callback against other mutations of the same
// trip. Without a lock store the callback runs unguarded.
func (s *TripService) withTripLock(ctx context.Context, tripID string, fn func() error) error {
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireTripLock(ctx, tripID, tripLockTTL)
		if err != nil {
			return err
		}
		if !locked {
			return ErrTripBusy
		}
		defer s.lockStore.ReleaseTripLock(ctx, tripID)
	}

	return fn()
}

func (s *TripService) invalidateCache(ctx context.Context, tripID string) {
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateTrip(ctx, tripID)
	}
}

func tripToCache(trip *domain.Trip) *redis.CachedTrip {
	return &redis.CachedTrip{
		ID:           trip.ID,
		DriverID:     trip.DriverID,
		Origin:       trip.Origin,
		Destination:  trip.Destination,
		DepartureAt:  trip.DepartureAt,
		SeatCapacity: trip.SeatCapacity,
		Status:       string(trip.Status),
		RiderIDs:     trip.RiderIDs,
		ChatID:       trip.ChatID,
	}
}

func tripFromCache(cached *redis.CachedTrip) *domain.Trip {
	return &domain.Trip{
		ID:           cached.ID,
		DriverID:     cached.DriverID,
		Origin:       cached.Origin,
		Destination:  cached.Destination,
		DepartureAt:  cached.DepartureAt,
		SeatCapacity: cached.SeatCapacity,
		Status:       domain.TripStatus(cached.Status),
		RiderIDs:     cached.RiderIDs,
		ChatID:       cached.ChatID,
	}
}
