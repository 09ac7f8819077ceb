package domain

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
	RoleDriver   Role = "DRIVER"
)

type User struct {
	ID          int32     `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Actor is the authenticated identity a request acts as. Identity issuance
// lives outside this service; the actor arrives via validated token claims.
type Actor struct {
	UserID int32
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// SystemActor is used by scheduled jobs that transition reservations
// without a human caller behind them.
var SystemActor = Actor{UserID: 0, Role: RoleAdmin}
