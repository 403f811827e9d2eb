package model

import "errors"

var (
	// ErrEncoding is returned when a salt element cannot be rendered as canonical text.
	ErrEncoding = errors.New("salt element is not encodable")

	// ErrInvalidParameter is returned when operator parameters violate their constraints.
	ErrInvalidParameter = errors.New("invalid operator parameter")

	// ErrUndefinedSlot is returned on a read of a name that was never assigned.
	ErrUndefinedSlot = errors.New("undefined assignment slot")

	// ErrState is returned when the experiment lifecycle is used out of order,
	// e.g. overrides set after parameters were finalized.
	ErrState = errors.New("experiment state violation")
)
