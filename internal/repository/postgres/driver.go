package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

const driverColumns = `id, user_id, name, license_number, daily_rate_cents, status, available, version, created_on, updated_on`

type driverRepository struct {
	db dbtx
}

func NewDriverRepository(db *sql.DB) repository.DriverRepository {
	return &driverRepository{db: db}
}

func newDriverRepository(db dbtx) repository.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) GetByID(ctx context.Context, id int32) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *driverRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE user_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID), userID)
}

func (r *driverRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	query := `UPDATE drivers SET available=$1, version=version+1, updated_on=$2 WHERE id=$3`
	result, err := r.db.ExecContext(ctx, query, available, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "driver", ID: id}
	}
	return nil
}

func (r *driverRepository) scanOne(row *sql.Row, id int32) (*domain.Driver, error) {
	d := &domain.Driver{}
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.LicenseNumber, &d.DailyRateCents, &d.Status, &d.Available, &d.Version, &d.CreatedOn, &d.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "driver", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
