// Package models holds the server's persistent entities as stored in
// PostgreSQL.
package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
