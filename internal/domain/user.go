package domain

import "time"

// User is the domain model for account holders who submit tickets.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
