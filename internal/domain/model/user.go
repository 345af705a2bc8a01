package model

import "time"

// User represents an authenticated actor of the commerce API.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
}
