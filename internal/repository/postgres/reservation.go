package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

const reservationColumns = `id, reference, vehicle_id, user_id, driver_required, driver_id,
	pickup_date, return_date, pickup_location, return_location,
	vehicle_daily_rate_cents, driver_daily_rate_cents, days,
	base_price_cents, driver_price_cents, total_price_cents,
	status, trip_status, payment_status, bill_details, notes,
	version, created_on, updated_on`

type reservationRepository struct {
	db dbtx
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func newReservationRepository(db dbtx) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (reference, vehicle_id, user_id, driver_required, driver_id,
		pickup_date, return_date, pickup_location, return_location,
		vehicle_daily_rate_cents, driver_daily_rate_cents, days,
		base_price_cents, driver_price_cents, total_price_cents,
		status, trip_status, payment_status, bill_details, notes, version, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, 1, $21, $22)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		res.Reference, res.VehicleID, res.UserID, res.DriverRequired, res.DriverID,
		res.PickupDate, res.ReturnDate, res.PickupLocation, res.ReturnLocation,
		res.VehicleDailyRateCents, res.DriverDailyRateCents, res.Days,
		res.BasePriceCents, res.DriverPriceCents, res.TotalPriceCents,
		res.Status, res.TripStatus, res.PaymentStatus, res.BillDetails, res.Notes,
		now, now,
	).Scan(&res.ID)
	if err != nil {
		return err
	}
	res.Version = 1
	res.CreatedOn = now
	res.UpdatedOn = now
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `UPDATE reservations
		SET status=$1, trip_status=$2, payment_status=$3, bill_details=$4, notes=$5,
		    version=version+1, updated_on=$6
		WHERE id=$7 AND version=$8`
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		res.Status, res.TripStatus, res.PaymentStatus, res.BillDetails, res.Notes,
		now, res.ID, res.Version)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}
	res.Version++
	res.UpdatedOn = now
	return nil
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, kind domain.ResourceKind, resourceID int32, start, end time.Time, excludeID int32, policy domain.BoundaryPolicy) (*domain.Reservation, error) {
	var scope string
	switch kind {
	case domain.ResourceKindDriver:
		scope = "driver_required = TRUE AND driver_id = $1"
	default:
		scope = "vehicle_id = $1"
	}

	// Inclusive bounds: a same-day return/pickup counts as a conflict.
	overlap := "pickup_date <= $3 AND return_date >= $2"
	if policy == domain.BoundaryExclusive {
		overlap = "pickup_date < $3 AND return_date > $2"
	}

	query := fmt.Sprintf(`SELECT %s FROM reservations
		WHERE %s AND status IN ('PENDING', 'CONFIRMED') AND %s`,
		reservationColumns, scope, overlap)
	args := []interface{}{resourceID, start, end}
	if excludeID > 0 {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	query += " ORDER BY pickup_date LIMIT 1"

	res := &domain.Reservation{}
	err := scanReservation(r.db.QueryRowContext(ctx, query, args...), res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Reservation, int32, error) {
	where := "WHERE user_id = $1"
	return r.list(ctx, where, []interface{}{userID}, page, pageSize)
}

func (r *reservationRepository) ListAll(ctx context.Context, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if status != "" {
		return r.list(ctx, "WHERE status = $1", []interface{}{status}, page, pageSize)
	}
	return r.list(ctx, "", nil, page, pageSize)
}

func (r *reservationRepository) list(ctx context.Context, where string, args []interface{}, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	countQuery := "SELECT count(*) FROM reservations " + where
	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM reservations %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d",
		reservationColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reservations, err := collectReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

func (r *reservationRepository) ListStalePending(ctx context.Context, before time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = 'PENDING' AND pickup_date < $1 ORDER BY pickup_date`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) ListOverdueConfirmed(ctx context.Context, before time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = 'CONFIRMED' AND return_date < $1 ORDER BY return_date`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) scanOne(row *sql.Row, id int32) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := scanReservation(row, res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "reservation", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner, res *domain.Reservation) error {
	var billDetails, notes sql.NullString
	err := row.Scan(
		&res.ID, &res.Reference, &res.VehicleID, &res.UserID, &res.DriverRequired, &res.DriverID,
		&res.PickupDate, &res.ReturnDate, &res.PickupLocation, &res.ReturnLocation,
		&res.VehicleDailyRateCents, &res.DriverDailyRateCents, &res.Days,
		&res.BasePriceCents, &res.DriverPriceCents, &res.TotalPriceCents,
		&res.Status, &res.TripStatus, &res.PaymentStatus, &billDetails, &notes,
		&res.Version, &res.CreatedOn, &res.UpdatedOn,
	)
	if err != nil {
		return err
	}
	res.BillDetails = billDetails.String
	res.Notes = notes.String
	return nil
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
