package service

import (
	"context"
	"errors"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

// ResourceSynchronizer applies the resource-state effects computed by a
// reservation transition onto the vehicle and driver rows. It is the only
// seam through which the reservation flow touches other aggregates, so the
// propagation mechanism can be swapped without touching the state machine.
type ResourceSynchronizer interface {
	Apply(ctx context.Context, store repository.Store, effects []domain.Effect) error
}

type resourceSynchronizer struct{}

func NewResourceSynchronizer() ResourceSynchronizer {
	return &resourceSynchronizer{}
}

// Apply writes each effect as an absolute state, so reapplying an effect is
// a no-op rather than an error. A missing vehicle or driver is a fatal
// inconsistency and aborts the whole transition.
func (s *resourceSynchronizer) Apply(ctx context.Context, store repository.Store, effects []domain.Effect) error {
	for _, effect := range effects {
		var err error
		switch effect.Kind {
		case domain.EffectVehicleRented:
			err = store.Vehicles().SetStatus(ctx, effect.VehicleID, domain.VehicleStatusRented)
		case domain.EffectVehicleReleased:
			err = store.Vehicles().SetStatus(ctx, effect.VehicleID, domain.VehicleStatusAvailable)
		case domain.EffectDriverAllocated:
			err = store.Drivers().SetAvailability(ctx, effect.DriverID, false)
		case domain.EffectDriverReleased:
			err = store.Drivers().SetAvailability(ctx, effect.DriverID, true)
		}
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				return &domain.ResourceInconsistencyError{Entity: notFound.Entity, ID: notFound.ID}
			}
			return err
		}
	}
	return nil
}
