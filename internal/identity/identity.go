// Package identity models the external Identity Store: the system of record
// for user accounts. Pulseboard never owns user records; it reads them through
// Reader and reacts to lifecycle events.
package identity

import (
	"context"

	id "pulseboard/pkg/domain"
)

// User is the slice of the canonical identity record this service reads.
type User struct {
	ID        id.UserID
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	IsStaff   bool
}

// Reader exposes read access to the external identity provider.
// Implementations must return sentinel.ErrNotFound (wrapped is fine) for
// unknown users.
type Reader interface {
	FindByID(ctx context.Context, userID id.UserID) (User, error)
}
