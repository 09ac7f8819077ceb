package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/events"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/utils"
)

// maxTxAttempts bounds retries when an optimistic version check loses to a
// concurrent writer. Business errors are never retried.
const maxTxAttempts = 3

type ReservationConfig struct {
	BoundaryPolicy              domain.BoundaryPolicy
	DefaultDriverDailyRateCents int32
	HoldTTL                     time.Duration
}

type reservationService struct {
	store    repository.Store
	sync     ResourceSynchronizer
	emailSvc EmailService
	cache    VehicleHoldCache
	producer EventPublisher
	cfg      ReservationConfig
}

func NewReservationService(
	store repository.Store,
	sync ResourceSynchronizer,
	emailSvc EmailService,
	cache VehicleHoldCache,
	producer EventPublisher,
	cfg ReservationConfig,
) ReservationService {
	return &reservationService{
		store:    store,
		sync:     sync,
		emailSvc: emailSvc,
		cache:    cache,
		producer: producer,
		cfg:      cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if err := validateInterval(input.PickupDate, input.ReturnDate); err != nil {
		return nil, err
	}
	if input.DriverRequired && input.DriverID == nil {
		return nil, &domain.ValidationError{Field: "driver_id", Reason: "driver id is required when a driver is requested"}
	}
	if !input.DriverRequired && input.DriverID != nil {
		return nil, &domain.ValidationError{Field: "driver_id", Reason: "driver id given but no driver was requested"}
	}

	// The cache hold narrows the race window between concurrent callers;
	// the row locks inside the transaction below settle it for real.
	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireVehicleHold(ctx, input.VehicleID, s.cfg.HoldTTL)
		if err != nil {
			logger.Warn("vehicle hold cache unavailable, relying on transaction alone", "vehicle_id", input.VehicleID, "error", err)
		} else if !ok {
			return nil, &domain.ConflictError{ResourceKind: domain.ResourceKindVehicle, ResourceID: input.VehicleID}
		} else {
			held = true
		}
	}
	if held {
		defer func() {
			if err := s.cache.ReleaseVehicleHold(ctx, input.VehicleID); err != nil {
				logger.Warn("failed to release vehicle hold", "vehicle_id", input.VehicleID, "error", err)
			}
		}()
	}

	var res *domain.Reservation
	err := s.store.WithTx(ctx, func(txs repository.Store) error {
		vehicle, err := txs.Vehicles().GetByIDForUpdate(ctx, input.VehicleID)
		if err != nil {
			return err
		}
		if !vehicle.Bookable() {
			return &domain.ValidationError{
				Field:  "vehicle_id",
				Reason: fmt.Sprintf("vehicle is %s and cannot accept bookings", strings.ToLower(string(vehicle.Status))),
			}
		}

		driverRate := int32(0)
		if input.DriverRequired {
			driver, err := txs.Drivers().GetByIDForUpdate(ctx, *input.DriverID)
			if err != nil {
				return err
			}
			if !driver.Bookable() {
				return &domain.ValidationError{Field: "driver_id", Reason: "driver is not active and available"}
			}
			driverRate = driver.DailyRateCents
			if driverRate <= 0 {
				driverRate = s.cfg.DefaultDriverDailyRateCents
			}
		}

		if conflict, err := txs.Reservations().FindOverlapping(ctx, domain.ResourceKindVehicle, input.VehicleID, input.PickupDate, input.ReturnDate, 0, s.cfg.BoundaryPolicy); err != nil {
			return err
		} else if conflict != nil {
			return &domain.ConflictError{
				ResourceKind:  domain.ResourceKindVehicle,
				ResourceID:    input.VehicleID,
				ReservationID: conflict.ID,
				Start:         conflict.PickupDate,
				End:           conflict.ReturnDate,
			}
		}
		if input.DriverRequired {
			if conflict, err := txs.Reservations().FindOverlapping(ctx, domain.ResourceKindDriver, *input.DriverID, input.PickupDate, input.ReturnDate, 0, s.cfg.BoundaryPolicy); err != nil {
				return err
			} else if conflict != nil {
				return &domain.ConflictError{
					ResourceKind:  domain.ResourceKindDriver,
					ResourceID:    *input.DriverID,
					ReservationID: conflict.ID,
					Start:         conflict.PickupDate,
					End:           conflict.ReturnDate,
				}
			}
		}

		quote, err := utils.QuoteReservation(input.PickupDate, input.ReturnDate, vehicle.DailyRateCents, driverRate, input.DriverRequired)
		if err != nil {
			return err
		}

		res = &domain.Reservation{
			Reference:             uuid.NewString(),
			VehicleID:             input.VehicleID,
			UserID:                input.UserID,
			DriverRequired:        input.DriverRequired,
			DriverID:              input.DriverID,
			PickupDate:            input.PickupDate,
			ReturnDate:            input.ReturnDate,
			PickupLocation:        input.PickupLocation,
			ReturnLocation:        input.ReturnLocation,
			VehicleDailyRateCents: vehicle.DailyRateCents,
			DriverDailyRateCents:  driverRate,
			Days:                  quote.Days,
			BasePriceCents:        quote.BasePriceCents,
			DriverPriceCents:      quote.DriverPriceCents,
			TotalPriceCents:       quote.TotalPriceCents,
			Status:                domain.ReservationStatusPending,
			TripStatus:            domain.TripStatusNotStarted,
			PaymentStatus:         domain.PaymentStatusUnpaid,
			Notes:                 input.Notes,
		}
		return txs.Reservations().Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, res, events.EventReservationCreated, "Reservation received",
		fmt.Sprintf("Your reservation %s for %s to %s is pending confirmation.",
			res.Reference, res.PickupDate.Format("2006-01-02"), res.ReturnDate.Format("2006-01-02")))
	return res, nil
}

func (s *reservationService) CheckAvailability(ctx context.Context, vehicleID int32, pickup, ret time.Time) (*AvailabilityResult, error) {
	if err := validateInterval(pickup, ret); err != nil {
		return nil, err
	}

	vehicle, err := s.store.Vehicles().GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Bookable() {
		return &AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("vehicle is %s and cannot accept bookings", strings.ToLower(string(vehicle.Status))),
		}, nil
	}

	conflict, err := s.store.Reservations().FindOverlapping(ctx, domain.ResourceKindVehicle, vehicleID, pickup, ret, 0, s.cfg.BoundaryPolicy)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return &AvailabilityResult{
			Available: false,
			Message: fmt.Sprintf("vehicle is already booked from %s to %s",
				conflict.PickupDate.Format("2006-01-02"), conflict.ReturnDate.Format("2006-01-02")),
		}, nil
	}

	quote, err := utils.QuoteReservation(pickup, ret, vehicle.DailyRateCents, 0, false)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{
		Available:      true,
		Days:           quote.Days,
		BasePriceCents: quote.BasePriceCents,
	}, nil
}

func (s *reservationService) Get(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.Reservation, error) {
	res, err := s.store.Reservations().GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || res.UserID == actor.UserID {
		return res, nil
	}
	if actor.Role == domain.RoleDriver && res.DriverID != nil {
		driver, err := s.store.Drivers().GetByUserID(ctx, actor.UserID)
		if err == nil && driver.ID == *res.DriverID {
			return res, nil
		}
	}
	return nil, &domain.AuthorizationError{Reason: "not allowed to view this reservation"}
}

func (s *reservationService) ListForUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.store.Reservations().ListByUser(ctx, userID, page, pageSize)
}

func (s *reservationService) ListAll(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, &domain.AuthorizationError{Reason: "only admins may list all reservations"}
	}
	return s.store.Reservations().ListAll(ctx, status, page, pageSize)
}

func (s *reservationService) TransitionStatus(ctx context.Context, actor domain.Actor, reservationID int32, target domain.ReservationStatus) (*domain.Reservation, error) {
	if !domain.ValidReservationStatus(target) {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", target)}
	}

	var res *domain.Reservation
	err := s.withTxRetry(ctx, func(txs repository.Store) error {
		cur, err := txs.Reservations().GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := authorizeStatusChange(actor, cur, target); err != nil {
			return err
		}
		effects, err := cur.Transition(target)
		if err != nil {
			return err
		}
		if err := s.sync.Apply(ctx, txs, effects); err != nil {
			return err
		}
		if err := txs.Reservations().Update(ctx, cur); err != nil {
			return err
		}
		res = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch target {
	case domain.ReservationStatusConfirmed:
		s.notify(ctx, res, events.EventReservationConfirmed, "Reservation confirmed",
			fmt.Sprintf("Your reservation %s has been confirmed.", res.Reference))
	case domain.ReservationStatusCancelled:
		s.notify(ctx, res, events.EventReservationCancelled, "Reservation cancelled",
			fmt.Sprintf("Your reservation %s has been cancelled.", res.Reference))
	case domain.ReservationStatusCompleted:
		s.notify(ctx, res, events.EventReservationCompleted, "Reservation completed",
			fmt.Sprintf("Your reservation %s is complete. Thank you.", res.Reference))
	}
	return res, nil
}

func (s *reservationService) UpdateTripStatus(ctx context.Context, actor domain.Actor, reservationID int32, target domain.TripStatus) (*domain.Reservation, error) {
	if !domain.ValidTripStatus(target) {
		return nil, &domain.ValidationError{Field: "trip_status", Reason: fmt.Sprintf("unknown trip status %q", target)}
	}

	var res *domain.Reservation
	err := s.withTxRetry(ctx, func(txs repository.Store) error {
		cur, err := txs.Reservations().GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if cur.DriverID == nil {
			return &domain.AuthorizationError{Reason: "no driver is assigned to this reservation"}
		}
		driver, err := txs.Drivers().GetByID(ctx, *cur.DriverID)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				return &domain.ResourceInconsistencyError{Entity: "driver", ID: *cur.DriverID}
			}
			return err
		}
		if driver.UserID != actor.UserID {
			return &domain.AuthorizationError{Reason: "only the assigned driver may update the trip status"}
		}

		effects, err := cur.TransitionTrip(target)
		if err != nil {
			return err
		}
		if err := s.sync.Apply(ctx, txs, effects); err != nil {
			return err
		}
		if err := txs.Reservations().Update(ctx, cur); err != nil {
			return err
		}
		res = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch target {
	case domain.TripStatusStarted:
		s.notify(ctx, res, events.EventTripStarted, "Trip started",
			fmt.Sprintf("Your trip for reservation %s has started.", res.Reference))
	case domain.TripStatusCompleted:
		s.notify(ctx, res, events.EventReservationCompleted, "Trip completed",
			fmt.Sprintf("Your trip for reservation %s is complete.", res.Reference))
	}
	return res, nil
}

func (s *reservationService) SetPaymentStatus(ctx context.Context, actor domain.Actor, reservationID int32, status domain.PaymentStatus, billDetails string) (*domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, &domain.AuthorizationError{Reason: "only admins may update the payment status"}
	}
	if !domain.ValidPaymentStatus(status) {
		return nil, &domain.ValidationError{Field: "payment_status", Reason: fmt.Sprintf("unknown payment status %q", status)}
	}

	var res *domain.Reservation
	err := s.withTxRetry(ctx, func(txs repository.Store) error {
		cur, err := txs.Reservations().GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		cur.PaymentStatus = status
		if billDetails != "" {
			cur.BillDetails = billDetails
		}
		payment := &domain.PaymentTransaction{
			ReservationID: cur.ID,
			AmountCents:   cur.TotalPriceCents,
			Status:        status,
			BillDetails:   billDetails,
			RecordedBy:    actor.UserID,
		}
		if err := txs.Payments().Create(ctx, payment); err != nil {
			return err
		}
		if err := txs.Reservations().Update(ctx, cur); err != nil {
			return err
		}
		res = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *reservationService) Cancel(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.Reservation, error) {
	return s.TransitionStatus(ctx, actor, reservationID, domain.ReservationStatusCancelled)
}

// withTxRetry reruns the whole transaction when a version check detects a
// concurrent writer. Nothing partial survives a lost race.
func (s *reservationService) withTxRetry(ctx context.Context, fn func(repository.Store) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.store.WithTx(ctx, fn)
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		logger.Warn("retrying reservation transaction after version conflict", "attempt", attempt+1)
	}
	return err
}

func authorizeStatusChange(actor domain.Actor, res *domain.Reservation, target domain.ReservationStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	if target == domain.ReservationStatusCancelled && res.UserID == actor.UserID {
		return nil
	}
	return &domain.AuthorizationError{Reason: fmt.Sprintf("not allowed to set reservation status to %s", target)}
}

func validateInterval(pickup, ret time.Time) error {
	if pickup.IsZero() || ret.IsZero() {
		return &domain.ValidationError{Field: "dates", Reason: "pickup and return dates are required"}
	}
	if !ret.After(pickup) {
		return &domain.ValidationError{Field: "return_date", Reason: "return date must be after pickup date"}
	}
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, pickup.Location())
	if pickup.Before(startOfToday) {
		return &domain.ValidationError{Field: "pickup_date", Reason: "pickup date must not be in the past"}
	}
	return nil
}

// notify records a notification row, emails the requester, and publishes a
// lifecycle event. All three are best-effort: the reservation change has
// already committed and is never rolled back for a messaging failure.
func (s *reservationService) notify(ctx context.Context, res *domain.Reservation, eventType, title, message string) {
	note := &domain.Notification{
		UserID:  res.UserID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":           eventType,
			"reservation_id": fmt.Sprintf("%d", res.ID),
		},
	}
	if err := s.store.Notifications().Create(ctx, note); err != nil {
		logger.Warn("failed to record notification", "reservation_id", res.ID, "error", err)
	}

	if s.emailSvc != nil {
		user, err := s.store.Users().GetByID(ctx, res.UserID)
		if err != nil {
			logger.Warn("failed to load user for email notification", "user_id", res.UserID, "error", err)
		} else if err := s.emailSvc.SendReservationNotification(ctx, user.Email, user.Name, title, message); err != nil {
			logger.Warn("failed to send reservation email", "reservation_id", res.ID, "error", err)
		}
	}

	if s.producer != nil {
		if err := s.producer.PublishReservationEvent(ctx, eventType, res); err != nil {
			logger.Warn("failed to publish reservation event", "reservation_id", res.ID, "event", eventType, "error", err)
		}
	}
}
