package service

import (
	"context"
	"time"

	"fleetrental-backend/internal/domain"
)

type CreateReservationInput struct {
	VehicleID      int32
	UserID         int32
	PickupDate     time.Time
	ReturnDate     time.Time
	DriverRequired bool
	DriverID       *int32
	PickupLocation string
	ReturnLocation string
	Notes          string
}

// AvailabilityResult is the read-only answer to "could this booking be made
// right now", including a price quote when it could.
type AvailabilityResult struct {
	Available      bool   `json:"available"`
	Days           int32  `json:"days,omitempty"`
	BasePriceCents int32  `json:"base_price_cents,omitempty"`
	Message        string `json:"message,omitempty"`
}

type ReservationService interface {
	Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	CheckAvailability(ctx context.Context, vehicleID int32, pickup, ret time.Time) (*AvailabilityResult, error)
	Get(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.Reservation, error)
	ListForUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListAll(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	TransitionStatus(ctx context.Context, actor domain.Actor, reservationID int32, target domain.ReservationStatus) (*domain.Reservation, error)
	UpdateTripStatus(ctx context.Context, actor domain.Actor, reservationID int32, target domain.TripStatus) (*domain.Reservation, error)
	SetPaymentStatus(ctx context.Context, actor domain.Actor, reservationID int32, status domain.PaymentStatus, billDetails string) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.Reservation, error)
}

type EmailService interface {
	SendReservationNotification(ctx context.Context, toEmail, toName, subject, body string) error
}

// VehicleHoldCache shrinks the window where two callers race on the same
// vehicle. Optional collaborator; nil disables it.
type VehicleHoldCache interface {
	AcquireVehicleHold(ctx context.Context, vehicleID int32, ttl time.Duration) (bool, error)
	ReleaseVehicleHold(ctx context.Context, vehicleID int32) error
}

// EventPublisher emits reservation lifecycle events. Optional collaborator;
// publish failures are advisory and never fail the operation.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, eventType string, res *domain.Reservation) error
}
