// Package repository implements data access for the BEEPA tracker over the
// database abstraction. Each entity (MDA, reform, activity, user, settings,
// audit log) gets its own repository; parsing of SurrealDB's loosely typed
// results is centralized in helpers.go.
package repository
