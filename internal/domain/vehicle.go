package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusRented      VehicleStatus = "RENTED"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusUnavailable VehicleStatus = "UNAVAILABLE"
)

// Vehicle is referenced by the reservation flow but administered elsewhere.
// Only the AVAILABLE <-> RENTED flip is driven by this service; MAINTENANCE
// and UNAVAILABLE are set by the fleet admin side and must be respected.
type Vehicle struct {
	ID             int32         `json:"id"`
	Make           string        `json:"make"`
	Model          string        `json:"model"`
	PlateNumber    string        `json:"plate_number"`
	DailyRateCents int32         `json:"daily_rate_cents"`
	Status         VehicleStatus `json:"status"`
	Version        int32         `json:"version"`
	CreatedOn      time.Time     `json:"created_on"`
	UpdatedOn      time.Time     `json:"updated_on"`
}

// Bookable reports whether a new reservation may be opened against the vehicle.
func (v *Vehicle) Bookable() bool {
	return v.Status == VehicleStatusAvailable
}
