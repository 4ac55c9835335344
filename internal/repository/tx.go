package repository

import "context"

// TxRepositories bundles the repositories scoped to one transaction.
type TxRepositories struct {
	Trips   TripRepository
	Drivers DriverRepository
	Riders  RiderRepository
	Chats   ChatRepository
}

// TxManager runs a function inside a single transaction. Every write made
// through the provided repositories is committed atomically, or rolled back
// if the function returns an error.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
