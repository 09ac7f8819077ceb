package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fleetrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same repository code
// runs standalone or inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db           *sql.DB
	reservations repository.ReservationRepository
	vehicles     repository.VehicleRepository
	drivers      repository.DriverRepository
	users        repository.UserRepository
	payments     repository.PaymentRepository
	notes        repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		reservations: NewReservationRepository(db),
		vehicles:     NewVehicleRepository(db),
		drivers:      NewDriverRepository(db),
		users:        NewUserRepository(db),
		payments:     NewPaymentRepository(db),
		notes:        NewNotificationRepository(db),
	}
}

func (s *Store) Reservations() repository.ReservationRepository   { return s.reservations }
func (s *Store) Vehicles() repository.VehicleRepository           { return s.vehicles }
func (s *Store) Drivers() repository.DriverRepository             { return s.drivers }
func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Payments() repository.PaymentRepository           { return s.payments }
func (s *Store) Notifications() repository.NotificationRepository { return s.notes }

// WithTx runs fn against a store whose repositories share one transaction.
// Row locks taken via the ForUpdate getters live until commit or rollback.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := &Store{
		db:           s.db,
		reservations: newReservationRepository(tx),
		vehicles:     newVehicleRepository(tx),
		drivers:      newDriverRepository(tx),
		users:        newUserRepository(tx),
		payments:     newPaymentRepository(tx),
		notes:        newNotificationRepository(tx),
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
