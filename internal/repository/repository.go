package repository

import (
	"context"
	"time"

	"fleetrental-backend/internal/domain"
)

// Store bundles the repositories and provides transactional execution.
// WithTx runs fn against repositories bound to a single database
// transaction; fn returning an error rolls everything back.
type Store interface {
	Reservations() ReservationRepository
	Vehicles() VehicleRepository
	Drivers() DriverRepository
	Users() UserRepository
	Payments() PaymentRepository
	Notifications() NotificationRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	// GetByIDForUpdate locks the reservation row for the duration of the
	// surrounding transaction. Only meaningful inside WithTx.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error)
	// Update persists lifecycle fields with an optimistic version check and
	// fails with domain.ErrVersionConflict when a concurrent writer won.
	Update(ctx context.Context, r *domain.Reservation) error
	// FindOverlapping returns one active reservation whose interval conflicts
	// with [start, end] on the given resource, or nil when none does.
	FindOverlapping(ctx context.Context, kind domain.ResourceKind, resourceID int32, start, end time.Time, excludeID int32, policy domain.BoundaryPolicy) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListStalePending(ctx context.Context, before time.Time) ([]domain.Reservation, error)
	ListOverdueConfirmed(ctx context.Context, before time.Time) ([]domain.Reservation, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Vehicle, error)
	// SetStatus writes the availability status. Writing the current value
	// again is a no-op, not an error; a missing row is a NotFoundError.
	SetStatus(ctx context.Context, id int32, status domain.VehicleStatus) error
}

type DriverRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Driver, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Driver, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Driver, error)
	SetAvailability(ctx context.Context, id int32, available bool) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	ListByReservation(ctx context.Context, reservationID int32) ([]domain.PaymentTransaction, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
