package atlas

import (
	"errors"
	"fmt"
)

// Domain errors for loading and describing datasets.
var (
	// ErrEmptyDataset indicates a source produced no usable features.
	ErrEmptyDataset = errors.New("atlas: dataset has no features")

	// ErrUnsupportedGeometry indicates a geometry type a component cannot handle.
	ErrUnsupportedGeometry = errors.New("atlas: unsupported geometry type")

	// ErrInvalidRange indicates a year range whose minimum exceeds its maximum.
	ErrInvalidRange = errors.New("atlas: invalid year range")
)

// LoadError wraps a failure to read or decode a dataset source.
type LoadError struct {
	Path    string
	Wrapped error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Wrapped)
}

func (e *LoadError) Unwrap() error {
	return e.Wrapped
}
