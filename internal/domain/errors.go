package domain

import "errors"

// Sentinel errors shared across services and delivery. Wrap with fmt.Errorf("...: %w", err)
// and classify with errors.Is at the HTTP boundary.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrNoCoordinates      = errors.New("event does not have coordinates")
	ErrGeocodeNoResults   = errors.New("no geocoding results")
)
