// Package database provides the document-store abstraction for the BEEPA
// tracker. It wraps SurrealDB behind a small interface so repositories stay
// independent of the driver.
//
// Transactions are BATCH-BASED: statements accumulate in an AtomicBatch and
// are wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION at execute time, so
// the whole batch succeeds or fails together. The bootstrap-admin path and
// MDA seeding depend on this guarantee; see transaction.go.
//
// Standard errors are defined for common failure cases and checked with
// errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // record missing
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid
	// reference, or an explicit THROW inside a transaction).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for document store operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
