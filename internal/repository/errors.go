// Package repository implements MySQL-backed storage for administrators,
// students and fees. This file defines the error values shared across
// repositories; sentinel values let handlers distinguish failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record lookup by id matches nothing.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when creating an administrator with an email
// that is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyPaid is returned when a payment is attempted against a fee
// whose status is already "paid". The conditional update that detects it
// guarantees a second pay attempt never overwrites the first.
var ErrAlreadyPaid = errors.New("fee already paid")

// DuplicateError reports a unique-key violation along with the offending
// field, so handlers can build a user-facing "this <field> already exists"
// message. Use errors.As to detect it.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}
