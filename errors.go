package hilbert

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every error Config.Validate returns.
	ErrInvalidConfig = errors.New("invalid config")

	ErrLayerDiscontinuity = errors.New("start of layer does not match end of previous layer")
	ErrNonUnitStep        = errors.New("consecutive points are not one unit apart")
	ErrOddCenter          = errors.New("de-centered coordinate is not an integer")
)

// InvariantError reports a broken geometric invariant. A toolpath that
// produced one must not be written.
type InvariantError struct {
	Kind   error
	Layer  int
	Index  int
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("layer %d, point %d: %v (%s)", e.Layer, e.Index, e.Kind, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return e.Kind
}
