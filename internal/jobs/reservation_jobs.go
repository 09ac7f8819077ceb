package jobs

import (
	"context"
	"fmt"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
)

// ExpireStalePending cancels pending reservations whose pickup date has
// passed without a confirmation. Each cancellation runs through the service
// path so the state machine and synchronizer stay in charge.
func (jr *JobRunner) ExpireStalePending() {
	jr.runWithRecovery("ExpireStalePending", func() {
		ctx := context.Background()

		stale, err := jr.store.Reservations().ListStalePending(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list stale pending reservations", "error", err)
			return
		}

		cancelled := 0
		for _, res := range stale {
			if _, err := jr.reservations.TransitionStatus(ctx, domain.SystemActor, res.ID, domain.ReservationStatusCancelled); err != nil {
				logger.Error("Failed to cancel stale reservation", "reservation_id", res.ID, "error", err)
				continue
			}
			cancelled++
		}
		logger.Info("Cancelled stale pending reservations", "count", cancelled)
	})
}

// FlagOverdueReservations reminds about confirmed reservations past their
// return date. Completing them stays a human or driver action; the job only
// surfaces the overrun.
func (jr *JobRunner) FlagOverdueReservations() {
	jr.runWithRecovery("FlagOverdueReservations", func() {
		ctx := context.Background()

		overdue, err := jr.store.Reservations().ListOverdueConfirmed(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue reservations", "error", err)
			return
		}

		for _, res := range overdue {
			note := &domain.Notification{
				UserID:  res.UserID,
				Title:   "Reservation overdue",
				Message: fmt.Sprintf("Reservation %s was due back on %s.", res.Reference, res.ReturnDate.Format("2006-01-02")),
				Attributes: map[string]string{
					"type":           "reservation_overdue",
					"reservation_id": fmt.Sprintf("%d", res.ID),
				},
			}
			if err := jr.store.Notifications().Create(ctx, note); err != nil {
				logger.Error("Failed to record overdue notification", "reservation_id", res.ID, "error", err)
			}
			logger.Warn("Reservation overdue", "reservation_id", res.ID, "return_date", res.ReturnDate)
		}
		logger.Info("Flagged overdue reservations", "count", len(overdue))
	})
}
