package domain

import "time"

// UserRole separates administrators from ASM (customer portal) users.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// User is the identity record for both portals. PasswordHash is a bcrypt
// hash and must never appear on a read path.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Name         string
	Phone        string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
