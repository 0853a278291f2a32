package worksheet

import "errors"

var (
	// ErrIndexOutOfRange is returned when a positional operation addresses
	// an entry that does not exist in the live sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrRatingNotFound is returned for an (option, outcome) pair that has
	// not been reconciled into the rating matrix.
	ErrRatingNotFound = errors.New("rating not found")

	ErrInvalidField   = errors.New("invalid rating field")
	ErrInvalidProfile = errors.New("invalid profile")
)
