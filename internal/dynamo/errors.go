package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a computed position containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidBox indicates box dimensions that cannot be used, such as NaN.
	ErrInvalidBox = errors.New("dynamo: invalid box dimensions")

	// ErrInvalidEnergy indicates an energy level that could not be interpreted.
	ErrInvalidEnergy = errors.New("dynamo: invalid energy level")

	// ErrUnknownModel indicates a model name missing from the registry.
	ErrUnknownModel = errors.New("dynamo: unknown model")

	// ErrNotReady indicates the renderer could not accept a frame.
	ErrNotReady = errors.New("dynamo: renderer not ready")

	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// FrameError wraps an error with the frame it occurred in.
type FrameError struct {
	Frame   uint64
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
