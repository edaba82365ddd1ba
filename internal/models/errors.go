package models

import "fmt"

// UniverseFetchError aborts the current cycle only.
type UniverseFetchError struct {
	Stage string
	Err   error
}

func (e *UniverseFetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *UniverseFetchError) Unwrap() error { return e.Err }

// InstrumentEvalError skips one instrument for one cycle.
type InstrumentEvalError struct {
	InstrumentID string
	Stage        string
	Err          error
}

func (e *InstrumentEvalError) Error() string {
	return fmt.Sprintf("instrument %s: %s: %v", e.InstrumentID, e.Stage, e.Err)
}

func (e *InstrumentEvalError) Unwrap() error { return e.Err }

// DeliveryError is a failed send to one recipient.
type DeliveryError struct {
	Recipient int64
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %d: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
