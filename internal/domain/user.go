package domain

import "time"

// User represents an account. Users are provisioned out of band
// (cmd/useradmin); the API only reads them during login.
type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}
