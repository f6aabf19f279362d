package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("poll not found")
	ErrInvalidPoll  = errors.New("invalid poll data")
	ErrBadRequest   = errors.New("bad request")
	ErrExpired      = errors.New("poll expired")
	ErrAlreadyVoted = errors.New("already voted")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage failure")
)
