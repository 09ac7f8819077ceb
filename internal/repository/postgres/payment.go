package postgres

import (
	"context"
	"database/sql"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

type paymentRepository struct {
	db dbtx
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func newPaymentRepository(db dbtx) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	query := `INSERT INTO payment_transactions (reservation_id, amount_cents, status, bill_details, recorded_by, created_on)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, tx.ReservationID, tx.AmountCents, tx.Status, tx.BillDetails, tx.RecordedBy, now).Scan(&tx.ID)
	if err != nil {
		return err
	}
	tx.CreatedOn = now
	return nil
}

func (r *paymentRepository) ListByReservation(ctx context.Context, reservationID int32) ([]domain.PaymentTransaction, error) {
	query := `SELECT id, reservation_id, amount_cents, status, bill_details, recorded_by, created_on
		FROM payment_transactions WHERE reservation_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.PaymentTransaction
	for rows.Next() {
		var tx domain.PaymentTransaction
		var billDetails sql.NullString
		if err := rows.Scan(&tx.ID, &tx.ReservationID, &tx.AmountCents, &tx.Status, &billDetails, &tx.RecordedBy, &tx.CreatedOn); err != nil {
			return nil, err
		}
		tx.BillDetails = billDetails.String
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
