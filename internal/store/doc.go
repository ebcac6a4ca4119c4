// Package store defines interfaces for data persistence operations.
//
// The interfaces keep the services independent of PostgreSQL and of the
// object storage used for media. Implementations live under
// internal/platform; every implementation maps its driver errors onto the
// sentinel errors declared here so that callers can use errors.Is.
package store
