package domain

import "errors"

var (
	// ErrZeroDenominator indicates a rational with denominator zero.
	ErrZeroDenominator = errors.New("denominator must be non-zero")
	// ErrInvalidConfig indicates a puzzle shape that cannot be generated.
	ErrInvalidConfig = errors.New("invalid puzzle config")
	// ErrUnknownVariant indicates a preset name that does not exist.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrSessionNotFound indicates no puzzle instance is stored under an id.
	ErrSessionNotFound = errors.New("session not found")
)
