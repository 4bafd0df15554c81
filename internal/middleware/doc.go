// Package middleware provides HTTP middleware for the API server: request
// identification, logging, panic recovery, CORS, identity verification, and
// user resolution.
package middleware
