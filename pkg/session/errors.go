package session

import (
	"errors"
	"fmt"
)

// ErrUnknownFeature is returned by Begin for a feature with no spec.
var ErrUnknownFeature = errors.New("session: unknown feature")

// Reason explains why an input was refused.
type Reason string

const (
	ReasonNoPendingOperation Reason = "no_pending_operation"
	ReasonWrongKind          Reason = "wrong_kind"
	ReasonTooManyInputs      Reason = "too_many_inputs"
	ReasonAwaitingOption     Reason = "awaiting_option"
	ReasonNotAwaitingOption  Reason = "not_awaiting_option"
	ReasonInvalidOption      Reason = "invalid_option"
)

// UnexpectedInputError reports input that the current state does not accept.
type UnexpectedInputError struct {
	State  string
	Reason Reason
	// Expected is filled for wrong_kind and invalid_option.
	Expected []InputKind
	Option   OptionKind
	Cause    error
}

func (e *UnexpectedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unexpected input in state %s: %s: %v", e.State, e.Reason, e.Cause)
	}
	return fmt.Sprintf("unexpected input in state %s: %s", e.State, e.Reason)
}

func (e *UnexpectedInputError) Unwrap() error { return e.Cause }

// InsufficientInputError reports a finalize before the operation is complete.
type InsufficientInputError struct {
	State         string
	Feature       Feature
	Have          int
	Need          int
	MissingOption OptionKind
}

func (e *InsufficientInputError) Error() string {
	if e.MissingOption != OptionNone && e.Have >= e.Need {
		return fmt.Sprintf("insufficient input in state %s: option %s not set", e.State, e.MissingOption)
	}
	return fmt.Sprintf("insufficient input in state %s: have %d, need %d", e.State, e.Have, e.Need)
}

// IsUnexpectedInput reports whether err is an *UnexpectedInputError.
func IsUnexpectedInput(err error) bool {
	var target *UnexpectedInputError
	return errors.As(err, &target)
}

// IsInsufficientInput reports whether err is an *InsufficientInputError.
func IsInsufficientInput(err error) bool {
	var target *InsufficientInputError
	return errors.As(err, &target)
}
