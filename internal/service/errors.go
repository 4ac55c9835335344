package service

import "errors"

var (
	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidUserID is returned when the acting user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrUnknownRoute is returned when the route template ID is not defined.
	ErrUnknownRoute = errors.New("unknown route template")

	// ErrDriverHasActiveTrip is returned when the driver already owns an
	// active trip.
	ErrDriverHasActiveTrip = errors.New("driver already has an active trip")

	// ErrNoVehicleRegistered is returned when a driver without a vehicle
	// tries to create a trip.
	ErrNoVehicleRegistered = errors.New("driver has no registered vehicle")

	// ErrRiderAlreadyInTrip is returned when admitting a rider who is
	// already a member of the trip.
	ErrRiderAlreadyInTrip = errors.New("rider is already in the trip")

	// ErrRiderHasActiveTrip is returned when admitting a rider who is
	// already part of another active trip.
	ErrRiderHasActiveTrip = errors.New("rider already has an active trip")

	// ErrNoSeatsLeft is returned when the trip's seat capacity is exhausted.
	ErrNoSeatsLeft = errors.New("no seats available")

	// ErrTripNotActive is returned when admitting a rider into a finished
	// or cancelled trip.
	ErrTripNotActive = errors.New("trip is not active")

	// ErrTripNotCreated is returned when starting a trip that already left
	// the created state.
	ErrTripNotCreated = errors.New("trip is not in created state")

	// ErrTripNotInProgress is returned when finalizing a trip that is not
	// in progress.
	ErrTripNotInProgress = errors.New("trip is not in progress")

	// ErrNotTripDriver is returned when the acting user does not own the trip.
	ErrNotTripDriver = errors.New("only the trip's driver may do this")

	// ErrRiderNotInTrip is returned when a rider acts on a trip they are
	// not a member of.
	ErrRiderNotInTrip = errors.New("rider is not in this trip")

	// ErrNotTripMember is returned when a chat sender is neither the trip's
	// driver nor one of its riders.
	ErrNotTripMember = errors.New("user is not part of this trip")

	// ErrEmptyMessage is returned when posting an empty chat message.
	ErrEmptyMessage = errors.New("empty message body")

	// ErrTripBusy is returned when another operation holds the trip lock.
	ErrTripBusy = errors.New("trip is being modified, retry")
)
