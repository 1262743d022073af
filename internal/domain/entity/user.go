package entity

import "time"

// Valid roles for User.
const (
	RoleAdmin      = "admin"
	RoleAdvisor    = "advisor"
	RoleTechnician = "technician"
)

// User is a system account, bound to a shop.
type User struct {
	ID           string
	ShopID       string
	Email        string
	PasswordHash string // bcrypt hash, never the plain password after persist
	Name         string
	Role         string // admin, advisor, technician
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
