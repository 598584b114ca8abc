package domain

import "errors"

var (
	// ErrNetwork indicates a transport failure or a non-2xx backend response
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse indicates a backend payload missing required fields
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidQuery indicates empty or unparsable channel or date input
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNoChannelsAvailable indicates there was nothing to match against
	ErrNoChannelsAvailable = errors.New("no channels available")

	// ErrChannelNotFound indicates no acceptable channel for the query or id
	ErrChannelNotFound = errors.New("channel not found")
)
