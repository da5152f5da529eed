package store

import "errors"

var (
	// ErrNotFound is returned when no document matches the query. For
	// ownership-scoped operations this deliberately covers both "does not
	// exist" and "not owned by the caller".
	ErrNotFound = errors.New("not found")

	// ErrAlreadyJoined is returned when the joining user is already in the
	// event's joinedUsers set.
	ErrAlreadyJoined = errors.New("already joined")
)
