package entities

import "errors"

var (
	ErrInvalidScheme      = errors.New("invalid vaccine scheme")
	ErrInvalidVaccine     = errors.New("invalid vaccine")
	ErrInconsistentScheme = errors.New("vaccine covers no disease of the scheme")
)
