package entity

import (
	"errors"
)

var (
	// ErrNotFound is returned when a record does not exist remotely.
	ErrNotFound = errors.New("not found")
	// ErrNotCached is returned when a mutation succeeded remotely but the
	// record was absent from the local mirror.
	ErrNotCached = errors.New("not in local mirror")
	// ErrNoActor is returned when an operation requires an authenticated
	// actor and none is present in the context.
	ErrNoActor = errors.New("no actor identity")
	// ErrRemote wraps failures of the remote table store. Local state is
	// guaranteed unchanged when an operation returns it.
	ErrRemote = errors.New("remote call failed")

	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrDriveNotLinked  = errors.New("google drive not linked")
)
