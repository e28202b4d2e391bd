package apperrors

import "errors"

// Command and transport errors shared by the client and network packages.
var (
	// ErrNotActive is returned by gated commands while it is not the local
	// player's turn.
	ErrNotActive = errors.New("not active")

	// ErrNotAllowed is returned by gated commands when the matching
	// server-granted permission has not arrived.
	ErrNotAllowed = errors.New("action not allowed")

	// ErrConnClosed is returned when sending on a closed connection.
	ErrConnClosed = errors.New("connection closed")

	// ErrSendBufferFull is returned when the outbound buffer is saturated.
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrNoMatch is returned by the matchmaker when the search ends
	// without a match.
	ErrNoMatch = errors.New("no match found")
)
