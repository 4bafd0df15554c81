// Package model defines the domain types shared across the BEEPA tracker:
// MDAs, their reforms and weighted activities, user accounts with roles and
// lifecycle status, audit log entries, and the RFC 9457 problem-details error
// model used by the HTTP layer.
package model
