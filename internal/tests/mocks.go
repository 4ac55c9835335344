package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"wheels/internal/domain"
	"wheels/internal/redis"
	"wheels/internal/repository"
	"wheels/internal/service"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = copyTrip(trip)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTrip(trip), nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	m.trips[trip.ID] = copyTrip(trip)
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) ExistsActiveByDriverID(ctx context.Context, driverID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, trip := range m.trips {
		if trip.DriverID == driverID && trip.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, trip := range m.trips {
		if trip.DriverID == driverID && trip.IsActive() {
			return copyTrip(trip), nil
		}
	}
	return nil, nil
}

func (m *MockTripRepository) GetActiveByRiderID(ctx context.Context, riderID string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, trip := range m.trips {
		if trip.IsActive() && trip.HasRider(riderID) {
			return copyTrip(trip), nil
		}
	}
	return nil, nil
}

func (m *MockTripRepository) GetHistoryByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, trip := range m.trips {
		if trip.DriverID == driverID && !trip.IsActive() {
			result = append(result, copyTrip(trip))
		}
	}
	return result, nil
}

func (m *MockTripRepository) GetHistoryByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, trip := range m.trips {
		if !trip.IsActive() && trip.HasRider(riderID) {
			result = append(result, copyTrip(trip))
		}
	}
	return result, nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil
	}
	return copyTrip(trip)
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

func copyTrip(t *domain.Trip) *domain.Trip {
	out := *t
	out.RiderIDs = append([]string(nil), t.RiderIDs...)
	return &out
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *driver
	m.drivers[driver.ID] = &copy
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*domain.Rider

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{
		riders: make(map[string]*domain.Rider),
	}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rider
	return &copy, nil
}

func (m *MockRiderRepository) Update(ctx context.Context, rider *domain.Rider) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.riders[rider.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *rider
	m.riders[rider.ID] = &copy
	return nil
}

// GetRider returns rider for test assertions.
func (m *MockRiderRepository) GetRider(id string) *domain.Rider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.riders[id]
}

// ──────────────────────────────────────────────
// MOCK CHAT REPOSITORY
// ──────────────────────────────────────────────

// MockChatRepository is a mock implementation of ChatRepository.
type MockChatRepository struct {
	mu       sync.RWMutex
	chats    map[string]*domain.Chat
	messages map[string][]*domain.Message

	// Counters for verification
	CreateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	DeleteError error
}

// NewMockChatRepository creates a new mock chat repository.
func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{
		chats:    make(map[string]*domain.Chat),
		messages: make(map[string][]*domain.Message),
	}
}

// AddChat adds a chat to the mock repository.
func (m *MockChatRepository) AddChat(chat *domain.Chat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chat.ID] = chat
}

func (m *MockChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chat.ID] = chat
	return nil
}

func (m *MockChatRepository) GetByTripID(ctx context.Context, tripID string) (*domain.Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, chat := range m.chats {
		if chat.TripID == tripID {
			copy := *chat
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockChatRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chats[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.chats, id)
	delete(m.messages, id)
	return nil
}

func (m *MockChatRepository) AddMessage(ctx context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ChatID] = append(m.messages[msg.ChatID], msg)
	return nil
}

func (m *MockChatRepository) GetMessages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Message(nil), m.messages[chatID]...), nil
}

// CountChats returns the number of stored chats.
func (m *MockChatRepository) CountChats() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chats)
}

// ──────────────────────────────────────────────
// MOCK TX MANAGER
// ──────────────────────────────────────────────

// MockTxManager runs the callback directly against the mock repositories.
// There is no rollback: an error simply propagates, which is enough to
// verify the decision paths since validations run before any write.
type MockTxManager struct {
	Repos repository.TxRepositories

	// Counter for verification
	TxCallCount int32

	// Error injection: fails the transaction before the callback runs.
	BeginError error
}

// NewMockTxManager creates a pass-through transaction manager over the
// given mocks.
func NewMockTxManager(trips *MockTripRepository, drivers *MockDriverRepository, riders *MockRiderRepository, chats *MockChatRepository) *MockTxManager {
	return &MockTxManager{
		Repos: repository.TxRepositories{
			Trips:   trips,
			Drivers: drivers,
			Riders:  riders,
			Chats:   chats,
		},
	}
}

func (m *MockTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	atomic.AddInt32(&m.TxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	return fn(ctx, m.Repos)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

// HoldLock pre-acquires a trip lock so the next acquire fails.
func (m *MockLockStore) HoldLock(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[tripID] = true
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is an in-memory trip snapshot cache.
type MockCacheStore struct {
	mu    sync.RWMutex
	trips map[string]*redis.CachedTrip

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{trips: make(map[string]*redis.CachedTrip)}
}

func (m *MockCacheStore) GetTrip(ctx context.Context, tripID string) (*redis.CachedTrip, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[tripID], nil
}

func (m *MockCacheStore) SetTrip(ctx context.Context, trip *redis.CachedTrip) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockCacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, tripID)
	return nil
}

// CachedIDs returns the trip IDs currently cached.
func (m *MockCacheStore) CachedIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.trips))
	for id := range m.trips {
		ids = append(ids, id)
	}
	return ids
}

// ──────────────────────────────────────────────
// RECORDING SENDER
// ──────────────────────────────────────────────

// RecordingSender captures every notification handed to it.
type RecordingSender struct {
	mu   sync.Mutex
	sent []service.Notification

	// Error injection
	SendError error
}

// NewRecordingSender creates a new recording sender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

func (r *RecordingSender) Send(ctx context.Context, n service.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if r.SendError != nil {
		return r.SendError
	}
	return nil
}

// Sent returns the notifications recorded so far.
func (r *RecordingSender) Sent() []service.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]service.Notification(nil), r.sent...)
}

// SentTo returns the notifications recorded for one recipient.
func (r *RecordingSender) SentTo(recipientID string) []service.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []service.Notification
	for _, n := range r.sent {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

// ──────────────────────────────────────────────
// FIXTURE HELPERS
// ──────────────────────────────────────────────

// fixture bundles the mocks and services most tests need.
type fixture struct {
	Trips   *MockTripRepository
	Drivers *MockDriverRepository
	Riders  *MockRiderRepository
	Chats   *MockChatRepository
	Locks   *MockLockStore
	Cache   *MockCacheStore
	Sender  *RecordingSender

	TripService *service.TripService
	ChatService *service.ChatService
}

// newFixture wires a TripService and ChatService over fresh mocks.
func newFixture() *fixture {
	trips := NewMockTripRepository()
	drivers := NewMockDriverRepository()
	riders := NewMockRiderRepository()
	chats := NewMockChatRepository()
	locks := NewMockLockStore()
	cache := NewMockCacheStore()
	sender := NewRecordingSender()

	txm := NewMockTxManager(trips, drivers, riders, chats)
	notifications := service.NewNotificationService(sender)

	return &fixture{
		Trips:       trips,
		Drivers:     drivers,
		Riders:      riders,
		Chats:       chats,
		Locks:       locks,
		Cache:       cache,
		Sender:      sender,
		TripService: service.NewTripService(txm, trips, drivers, riders, locks, cache, notifications, service.NewTripFactory()),
		ChatService: service.NewChatService(chats, trips),
	}
}

// addDriverWithCar registers a driver with a car in the fixture.
func (f *fixture) addDriverWithCar(id string) *domain.Driver {
	driver := &domain.Driver{
		ID:    id,
		Name:  "Driver " + id,
		Phone: "300" + id,
		Vehicle: &domain.Vehicle{
			ID:    "veh-" + id,
			Plate: "ABC" + id,
			Model: "Spark GT",
			Type:  domain.VehicleTypeCar,
		},
	}
	f.Drivers.AddDriver(driver)
	return driver
}

// addRider registers a rider in the fixture.
func (f *fixture) addRider(id string) *domain.Rider {
	rider := &domain.Rider{
		ID:    id,
		Name:  "Rider " + id,
		Phone: "301" + id,
	}
	f.Riders.AddRider(rider)
	return rider
}
