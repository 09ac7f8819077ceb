package domain

// EffectKind names a resource-state change a reservation transition requires.
// Effects are computed by the transition functions and applied by the
// resource synchronizer inside the same transaction as the reservation write.
type EffectKind string

const (
	EffectVehicleRented   EffectKind = "VEHICLE_RENTED"
	EffectVehicleReleased EffectKind = "VEHICLE_RELEASED"
	EffectDriverAllocated EffectKind = "DRIVER_ALLOCATED"
	EffectDriverReleased  EffectKind = "DRIVER_RELEASED"
)

type Effect struct {
	Kind      EffectKind
	VehicleID int32
	DriverID  int32
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCancelled, ReservationStatusCompleted},
	// CANCELLED and COMPLETED are terminal.
}

var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusNotStarted: {TripStatusStarted},
	TripStatusStarted:    {TripStatusCompleted},
}

// CanTransition reports whether the status transition is in the table.
func CanTransition(from, to ReservationStatus) bool {
	for _, t := range reservationTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition moves the reservation to target and returns the resource-state
// effects the move requires. Illegal moves, including re-requesting the
// current status, fail with a StateError and leave the reservation untouched.
func (r *Reservation) Transition(target ReservationStatus) ([]Effect, error) {
	if !CanTransition(r.Status, target) {
		return nil, &StateError{From: string(r.Status), To: string(target)}
	}

	var effects []Effect
	switch {
	case r.Status == ReservationStatusPending && target == ReservationStatusConfirmed:
		effects = r.allocationEffects()
	case r.Status == ReservationStatusConfirmed:
		// Both cancellation and completion release the allocated resources.
		effects = r.releaseEffects()
	case r.Status == ReservationStatusPending && target == ReservationStatusCancelled:
		// Nothing was allocated for a pending reservation.
	}

	r.Status = target
	return effects, nil
}

// TransitionTrip advances the driver-facing trip sub-state. It is legal only
// while the reservation is CONFIRMED. Completing the trip also forces the
// reservation itself to COMPLETED with the same release effects.
func (r *Reservation) TransitionTrip(target TripStatus) ([]Effect, error) {
	if r.Status != ReservationStatusConfirmed {
		return nil, &StateError{From: string(r.Status) + "/" + string(r.TripStatus), To: string(target)}
	}

	legal := false
	for _, t := range tripTransitions[r.TripStatus] {
		if t == target {
			legal = true
			break
		}
	}
	if !legal {
		return nil, &StateError{From: string(r.TripStatus), To: string(target)}
	}

	r.TripStatus = target
	if target == TripStatusCompleted {
		effects := r.releaseEffects()
		r.Status = ReservationStatusCompleted
		return effects, nil
	}
	return nil, nil
}

func (r *Reservation) allocationEffects() []Effect {
	effects := []Effect{{Kind: EffectVehicleRented, VehicleID: r.VehicleID}}
	if r.DriverRequired && r.DriverID != nil {
		effects = append(effects, Effect{Kind: EffectDriverAllocated, DriverID: *r.DriverID})
	}
	return effects
}

func (r *Reservation) releaseEffects() []Effect {
	effects := []Effect{{Kind: EffectVehicleReleased, VehicleID: r.VehicleID}}
	if r.DriverRequired && r.DriverID != nil {
		effects = append(effects, Effect{Kind: EffectDriverReleased, DriverID: *r.DriverID})
	}
	return effects
}
