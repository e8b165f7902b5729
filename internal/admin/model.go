package admin

import "time"

// Admin represents a row in the admins table.
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
