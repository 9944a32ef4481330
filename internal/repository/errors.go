package repository

import "errors"

// ErrNotFound is returned (wrapped) when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrStaleVersion is returned when a versioned update finds the row at a
// different version than the caller read.
var ErrStaleVersion = errors.New("stale version")
