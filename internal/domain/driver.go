package domain

import "time"

type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "ACTIVE"
	DriverStatusOnLeave  DriverStatus = "ON_LEAVE"
	DriverStatusInactive DriverStatus = "INACTIVE"
)

// Driver is referenced by the reservation flow but administered elsewhere.
// Only the Available flag is mutated by this service, and only while the
// driver is ACTIVE.
type Driver struct {
	ID             int32        `json:"id"`
	UserID         int32        `json:"user_id"`
	Name           string       `json:"name"`
	LicenseNumber  string       `json:"license_number"`
	DailyRateCents int32        `json:"daily_rate_cents"`
	Status         DriverStatus `json:"status"`
	Available      bool         `json:"available"`
	Version        int32        `json:"version"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// Bookable reports whether the driver can be attached to a new reservation.
func (d *Driver) Bookable() bool {
	return d.Status == DriverStatusActive && d.Available
}
