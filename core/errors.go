package core

import "errors"

var (
	// ErrInvalidInput is returned by Simulate when launch parameters are
	// rejected before integration starts.
	ErrInvalidInput = errors.New("invalid simulation input")
	// ErrMaterialNotFound indicates an unknown material class.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrInvalidCatalog indicates a catalog document failed to load.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
