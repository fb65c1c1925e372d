package store

import "errors"

// Failure taxonomy surfaced by the store and the services built on it.
// Callers branch with errors.Is; none of these are retried automatically —
// retry policy belongs to the caller.
var (
	// ErrInvalidArgument rejects a request that can never succeed
	// (self-connection request, blank group name).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports a missing document where existence is required.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable reports a transport or backend failure.
	ErrUnavailable = errors.New("store unavailable")

	// ErrAlreadyConnected rejects a friend request for a pair whose
	// connection is already accepted.
	ErrAlreadyConnected = errors.New("users are already connected")
)
