package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository/postgres"
)

var reservationColumns = []string{
	"id", "reference", "vehicle_id", "user_id", "driver_required", "driver_id",
	"pickup_date", "return_date", "pickup_location", "return_location",
	"vehicle_daily_rate_cents", "driver_daily_rate_cents", "days",
	"base_price_cents", "driver_price_cents", "total_price_cents",
	"status", "trip_status", "payment_status", "bill_details", "notes",
	"version", "created_on", "updated_on",
}

func reservationRow(id int32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(reservationColumns).
		AddRow(id, "ref-abc", 10, 20, false, nil,
			now, now.Add(48*time.Hour), "Airport", "Airport",
			5000, 0, 2,
			10000, 0, 10000,
			"PENDING", "NOT_STARTED", "UNPAID", nil, nil,
			1, now, now)
}

func TestReservationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res := &domain.Reservation{
			Reference:             "ref-abc",
			VehicleID:             10,
			UserID:                20,
			PickupDate:            time.Now().Add(24 * time.Hour),
			ReturnDate:            time.Now().Add(72 * time.Hour),
			VehicleDailyRateCents: 5000,
			Days:                  2,
			BasePriceCents:        10000,
			TotalPriceCents:       10000,
			Status:                domain.ReservationStatusPending,
			TripStatus:            domain.TripStatusNotStarted,
			PaymentStatus:         domain.PaymentStatusUnpaid,
		}

		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(res.Reference, res.VehicleID, res.UserID, res.DriverRequired, res.DriverID,
				res.PickupDate, res.ReturnDate, res.PickupLocation, res.ReturnLocation,
				res.VehicleDailyRateCents, res.DriverDailyRateCents, res.Days,
				res.BasePriceCents, res.DriverPriceCents, res.TotalPriceCents,
				res.Status, res.TripStatus, res.PaymentStatus, res.BillDetails, res.Notes,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, res)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), res.ID)
		assert.Equal(t, int32(1), res.Version)
	})
}

func TestReservationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(reservationRow(1))

		res, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), res.ID)
		assert.Equal(t, domain.ReservationStatusPending, res.Status)
		assert.Equal(t, "ref-abc", res.Reference)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows(reservationColumns))

		_, err := repo.GetByID(ctx, 404)
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, int32(404), notFound.ID)
	})
}

func TestReservationRepository_GetByIDForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1 FOR UPDATE").
		WithArgs(int32(1)).
		WillReturnRows(reservationRow(1))

	res, err := repo.GetByIDForUpdate(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), res.ID)
}

func TestReservationRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res := &domain.Reservation{
			ID:            1,
			Status:        domain.ReservationStatusConfirmed,
			TripStatus:    domain.TripStatusNotStarted,
			PaymentStatus: domain.PaymentStatusUnpaid,
			Version:       1,
		}

		mock.ExpectExec("UPDATE reservations").
			WithArgs(res.Status, res.TripStatus, res.PaymentStatus, res.BillDetails, res.Notes,
				sqlmock.AnyArg(), res.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, res)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), res.Version)
	})

	t.Run("VersionConflict", func(t *testing.T) {
		res := &domain.Reservation{
			ID:            1,
			Status:        domain.ReservationStatusConfirmed,
			TripStatus:    domain.TripStatusNotStarted,
			PaymentStatus: domain.PaymentStatusUnpaid,
			Version:       1,
		}

		mock.ExpectExec("UPDATE reservations").
			WithArgs(res.Status, res.TripStatus, res.PaymentStatus, res.BillDetails, res.Notes,
				sqlmock.AnyArg(), res.ID, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, res)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
		assert.Equal(t, int32(1), res.Version)
	})
}

func TestReservationRepository_FindOverlapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	t.Run("VehicleConflictFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE vehicle_id = \\$1 AND status IN \\('PENDING', 'CONFIRMED'\\) AND pickup_date <= \\$3 AND return_date >= \\$2").
			WithArgs(int32(10), start, end).
			WillReturnRows(reservationRow(99))

		res, err := repo.FindOverlapping(ctx, domain.ResourceKindVehicle, 10, start, end, 0, domain.BoundaryInclusive)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Equal(t, int32(99), res.ID)
	})

	t.Run("NoConflict", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations").
			WithArgs(int32(10), start, end).
			WillReturnRows(sqlmock.NewRows(reservationColumns))

		res, err := repo.FindOverlapping(ctx, domain.ResourceKindVehicle, 10, start, end, 0, domain.BoundaryInclusive)
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("DriverScope", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE driver_required = TRUE AND driver_id = \\$1").
			WithArgs(int32(7), start, end).
			WillReturnRows(sqlmock.NewRows(reservationColumns))

		res, err := repo.FindOverlapping(ctx, domain.ResourceKindDriver, 7, start, end, 0, domain.BoundaryInclusive)
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("ExclusiveBoundary", func(t *testing.T) {
		mock.ExpectQuery("pickup_date < \\$3 AND return_date > \\$2").
			WithArgs(int32(10), start, end).
			WillReturnRows(sqlmock.NewRows(reservationColumns))

		res, err := repo.FindOverlapping(ctx, domain.ResourceKindVehicle, 10, start, end, 0, domain.BoundaryExclusive)
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("ExcludesGivenReservation", func(t *testing.T) {
		mock.ExpectQuery("AND id <> \\$4").
			WithArgs(int32(10), start, end, int32(55)).
			WillReturnRows(sqlmock.NewRows(reservationColumns))

		res, err := repo.FindOverlapping(ctx, domain.ResourceKindVehicle, 10, start, end, 55, domain.BoundaryInclusive)
		assert.NoError(t, err)
		assert.Nil(t, res)
	})
}

func TestReservationRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations WHERE user_id = \\$1").
		WithArgs(int32(20)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE user_id = \\$1 ORDER BY created_on DESC").
		WithArgs(int32(20), int32(20), int32(0)).
		WillReturnRows(reservationRow(1))

	list, total, err := repo.ListByUser(ctx, 20, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, list, 1)
}

func TestReservationRepository_ListStalePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	cutoff := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE status = 'PENDING' AND pickup_date < \\$1").
		WithArgs(cutoff).
		WillReturnRows(reservationRow(1))

	list, err := repo.ListStalePending(ctx, cutoff)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}
