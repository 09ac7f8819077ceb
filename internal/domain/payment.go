package domain

import "time"

// PaymentTransaction is an immutable record appended every time a
// reservation's payment status changes. The reservation row carries the
// latest status; the transaction rows carry the history.
type PaymentTransaction struct {
	ID            int32         `json:"id"`
	ReservationID int32         `json:"reservation_id"`
	AmountCents   int32         `json:"amount_cents"`
	Status        PaymentStatus `json:"status"`
	BillDetails   string        `json:"bill_details,omitempty"`
	RecordedBy    int32         `json:"recorded_by"`
	CreatedOn     time.Time     `json:"created_on"`
}
