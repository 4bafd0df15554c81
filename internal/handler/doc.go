// Package handler contains the HTTP handlers for the API. Handlers decode
// requests, call services, and translate results or errors into JSON
// responses; business rules live in the service layer.
package handler
