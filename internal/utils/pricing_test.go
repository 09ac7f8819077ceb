package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleetrental-backend/internal/domain"
)

func TestBillableDays(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ret  time.Time
		want int32
	}{
		{"ExactOneDay", base.Add(24 * time.Hour), 1},
		{"ExactTwoDays", base.Add(48 * time.Hour), 2},
		{"PartialDayRoundsUp", base.Add(25 * time.Hour), 2},
		{"ShortRentalBillsFullDay", base.Add(2 * time.Hour), 1},
		{"OneMinuteBillsFullDay", base.Add(time.Minute), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := BillableDays(base, tc.ret)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, days)
		})
	}
}

func TestBillableDays_InvalidInterval(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	var valErr *domain.ValidationError

	_, err := BillableDays(base, base)
	assert.ErrorAs(t, err, &valErr)

	_, err = BillableDays(base, base.Add(-time.Hour))
	assert.ErrorAs(t, err, &valErr)
}

func TestQuoteReservation(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("VehicleOnly", func(t *testing.T) {
		quote, err := QuoteReservation(pickup, pickup.Add(48*time.Hour), 5000, 0, false)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), quote.Days)
		assert.Equal(t, int32(10000), quote.BasePriceCents)
		assert.Equal(t, int32(0), quote.DriverPriceCents)
		assert.Equal(t, int32(10000), quote.TotalPriceCents)
	})

	t.Run("WithDriver", func(t *testing.T) {
		quote, err := QuoteReservation(pickup, pickup.Add(72*time.Hour), 5000, 2500, true)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), quote.Days)
		assert.Equal(t, int32(15000), quote.BasePriceCents)
		assert.Equal(t, int32(7500), quote.DriverPriceCents)
		assert.Equal(t, int32(22500), quote.TotalPriceCents)
	})

	t.Run("DriverRateIgnoredWithoutDriver", func(t *testing.T) {
		quote, err := QuoteReservation(pickup, pickup.Add(24*time.Hour), 5000, 2500, false)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), quote.DriverPriceCents)
		assert.Equal(t, int32(5000), quote.TotalPriceCents)
	})

	t.Run("NonPositiveRates", func(t *testing.T) {
		var valErr *domain.ValidationError

		_, err := QuoteReservation(pickup, pickup.Add(24*time.Hour), 0, 0, false)
		assert.ErrorAs(t, err, &valErr)

		_, err = QuoteReservation(pickup, pickup.Add(24*time.Hour), 5000, 0, true)
		assert.ErrorAs(t, err, &valErr)
	})
}

func TestQuoteReservation_LongerIntervalsCostMore(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	prev := int32(0)
	for days := 1; days <= 14; days++ {
		quote, err := QuoteReservation(pickup, pickup.Add(time.Duration(days)*24*time.Hour), 5000, 2500, true)
		assert.NoError(t, err)
		assert.Greater(t, quote.TotalPriceCents, prev)
		prev = quote.TotalPriceCents
	}
}
