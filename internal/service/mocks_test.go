package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

// mockStore hands out the mock repositories and runs WithTx callbacks
// against itself, so transactional code paths see the same mocks.
type mockStore struct {
	reservations  *MockReservationRepo
	vehicles      *MockVehicleRepo
	drivers       *MockDriverRepo
	users         *MockUserRepo
	payments      *MockPaymentRepo
	notifications *MockNotificationRepo
	txErr         error
}

func newMockStore() *mockStore {
	return &mockStore{
		reservations:  new(MockReservationRepo),
		vehicles:      new(MockVehicleRepo),
		drivers:       new(MockDriverRepo),
		users:         new(MockUserRepo),
		payments:      new(MockPaymentRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (s *mockStore) Reservations() repository.ReservationRepository   { return s.reservations }
func (s *mockStore) Vehicles() repository.VehicleRepository           { return s.vehicles }
func (s *mockStore) Drivers() repository.DriverRepository             { return s.drivers }
func (s *mockStore) Users() repository.UserRepository                 { return s.users }
func (s *mockStore) Payments() repository.PaymentRepository           { return s.payments }
func (s *mockStore) Notifications() repository.NotificationRepository { return s.notifications }

func (s *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.txErr != nil {
		return s.txErr
	}
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.reservations.AssertExpectations(t)
	s.vehicles.AssertExpectations(t)
	s.drivers.AssertExpectations(t)
	s.users.AssertExpectations(t)
	s.payments.AssertExpectations(t)
	s.notifications.AssertExpectations(t)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) FindOverlapping(ctx context.Context, kind domain.ResourceKind, resourceID int32, start, end time.Time, excludeID int32, policy domain.BoundaryPolicy) (*domain.Reservation, error) {
	args := m.Called(ctx, kind, resourceID, start, end, excludeID, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListStalePending(ctx context.Context, before time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListOverdueConfirmed(ctx context.Context, before time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) SetStatus(ctx context.Context, id int32, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockDriverRepo
type MockDriverRepo struct {
	mock.Mock
}

func (m *MockDriverRepo) GetByID(ctx context.Context, id int32) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}
func (m *MockDriverRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}
func (m *MockDriverRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Driver, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}
func (m *MockDriverRepo) SetAvailability(ctx context.Context, id int32, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByReservation(ctx context.Context, reservationID int32) ([]domain.PaymentTransaction, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).([]domain.PaymentTransaction), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
