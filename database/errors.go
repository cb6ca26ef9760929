package database

import "errors"

var (
	// ErrNotFound is returned when no entry matches a lookup.
	ErrNotFound = errors.New("not found")

	// ErrEmptyKey is returned when an item key is blank.
	ErrEmptyKey = errors.New("empty key")

	// ErrNoName is returned by a builder asked for an unnamed database.
	ErrNoName = errors.New("database name is required")

	// ErrSchemaTooNew is returned when the file on disk was written by a newer schema.
	ErrSchemaTooNew = errors.New("database schema is newer than the application")
)
