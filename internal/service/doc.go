// Package service contains the business logic layer. Services depend on
// repository interfaces declared in this package and return sentinel errors
// from errors.go; handlers translate those into HTTP problem responses.
package service
