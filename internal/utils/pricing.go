package utils

import (
	"time"

	"fleetrental-backend/internal/domain"
)

// PriceQuote is the line-item breakdown for a rental interval.
type PriceQuote struct {
	Days             int32
	BasePriceCents   int32
	DriverPriceCents int32
	TotalPriceCents  int32
}

// BillableDays returns the number of days billed for the interval: the
// elapsed time rounded up to whole days, never less than one full day.
// A booking shorter than 24h still bills a full day.
func BillableDays(pickup, ret time.Time) (int32, error) {
	if !ret.After(pickup) {
		return 0, &domain.ValidationError{Field: "return_date", Reason: "return date must be after pickup date"}
	}

	d := ret.Sub(pickup)
	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days, nil
}

// QuoteReservation prices a rental interval against the snapshotted daily
// rates. The driver line is present only when a driver is attached.
func QuoteReservation(pickup, ret time.Time, vehicleDailyRateCents, driverDailyRateCents int32, driverRequired bool) (PriceQuote, error) {
	if vehicleDailyRateCents <= 0 {
		return PriceQuote{}, &domain.ValidationError{Field: "vehicle_daily_rate", Reason: "daily rate must be positive"}
	}
	if driverRequired && driverDailyRateCents <= 0 {
		return PriceQuote{}, &domain.ValidationError{Field: "driver_daily_rate", Reason: "daily rate must be positive"}
	}

	days, err := BillableDays(pickup, ret)
	if err != nil {
		return PriceQuote{}, err
	}

	quote := PriceQuote{
		Days:           days,
		BasePriceCents: vehicleDailyRateCents * days,
	}
	if driverRequired {
		quote.DriverPriceCents = driverDailyRateCents * days
	}
	quote.TotalPriceCents = quote.BasePriceCents + quote.DriverPriceCents
	return quote, nil
}
