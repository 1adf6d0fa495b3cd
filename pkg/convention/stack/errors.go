package stack

import (
	"errors"
	"fmt"
)

var ErrUnsupportedRoute = errors.New("unsupported route path")

// ResolutionError means no usable image reference could be produced for a build context.
type ResolutionError struct {
	Context string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve image from %s: %v", e.Context, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a structural defect in a declared entity.
type ConfigurationError struct {
	Entity string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}
