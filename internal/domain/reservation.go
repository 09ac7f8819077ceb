package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

type TripStatus string

const (
	TripStatusNotStarted TripStatus = "NOT_STARTED"
	TripStatusStarted    TripStatus = "STARTED"
	TripStatusCompleted  TripStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
)

// ResourceKind identifies the two bookable resource types a reservation
// can hold an exclusivity claim on.
type ResourceKind string

const (
	ResourceKindVehicle ResourceKind = "vehicle"
	ResourceKindDriver  ResourceKind = "driver"
)

type Reservation struct {
	ID             int32     `json:"id"`
	Reference      string    `json:"reference"`
	VehicleID      int32     `json:"vehicle_id"`
	UserID         int32     `json:"user_id"`
	DriverRequired bool      `json:"driver_required"`
	DriverID       *int32    `json:"driver_id,omitempty"`
	PickupDate     time.Time `json:"pickup_date"`
	ReturnDate     time.Time `json:"return_date"`
	PickupLocation string    `json:"pickup_location"`
	ReturnLocation string    `json:"return_location"`
	// Rate snapshot fields, captured from the vehicle/driver at creation time.
	// All price fields are derived from these snapshots, not live rates.
	VehicleDailyRateCents int32             `json:"vehicle_daily_rate_cents"`
	DriverDailyRateCents  int32             `json:"driver_daily_rate_cents"`
	Days                  int32             `json:"days"`
	BasePriceCents        int32             `json:"base_price_cents"`
	DriverPriceCents      int32             `json:"driver_price_cents"`
	TotalPriceCents       int32             `json:"total_price_cents"`
	Status                ReservationStatus `json:"status"`
	TripStatus            TripStatus        `json:"trip_status"`
	PaymentStatus         PaymentStatus     `json:"payment_status"`
	BillDetails           string            `json:"bill_details,omitempty"`
	Notes                 string            `json:"notes,omitempty"`
	Version               int32             `json:"version"`
	CreatedOn             time.Time         `json:"created_on"`
	UpdatedOn             time.Time         `json:"updated_on"`
}

// Active reports whether the reservation currently holds an exclusivity
// claim on its vehicle (and driver, when one is attached). Cancelled and
// completed reservations never participate in conflict checks.
func (r *Reservation) Active() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// Terminal reports whether the reservation status admits no further transitions.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationStatusCancelled || r.Status == ReservationStatusCompleted
}

func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

func ValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusNotStarted, TripStatusStarted, TripStatusCompleted:
		return true
	}
	return false
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartiallyPaid, PaymentStatusPaid:
		return true
	}
	return false
}
