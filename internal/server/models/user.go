// Package models contains the persisted entity types and the fixed-shape
// response views built from them.
package models

import "time"

// User is a registered account. Email is unique (case-sensitive as stored)
// and the password hash never equals the plaintext. An inactive user is
// blocked from all authenticated operations.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
