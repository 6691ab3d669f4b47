package model

import "time"

// Admin represents an administrator record as stored in the `admins`
// table. The password is only ever persisted as a bcrypt hash; handlers
// define separate response types so the hash never leaks into JSON.
//
// Fields:
//
//	ID           – primary key identifier (UUID).
//	Email        – unique, trimmed, lowercased email address.
//	PasswordHash – bcrypt hashed password.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type Admin struct {
	ID           string    // admins.id
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	CreatedAt    time.Time // admins.created_at
	UpdatedAt    time.Time // admins.updated_at
}

// AdminRef is the display subset of an administrator attached to records
// the admin created or modified. It mirrors the attribution fields the
// API exposes: only the email.
type AdminRef struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
}
