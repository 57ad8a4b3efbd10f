package qaoa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInstance is matched by every InvalidInstanceError.
	ErrInvalidInstance = errors.New("invalid knapsack instance")

	// ErrResourceExhausted is matched by every ResourceExhaustedError.
	ErrResourceExhausted = errors.New("resource budget exhausted")

	// ErrInvalidArgument is matched by every InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
)

/*
InvalidInstanceError reports a knapsack instance that cannot be emulated, such
as one with a negative capacity, a negative cost or no items at all.
*/
type InvalidInstanceError struct {
	Reason string
}

func (e *InvalidInstanceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInstance, e.Reason)
}

func (e *InvalidInstanceError) Is(target error) bool {
	return target == ErrInvalidInstance
}

/*
ResourceExhaustedError reports that a computation would grow past one of the
configured budgets. Requested is the amount that was asked for, Limit the
budget it was checked against.
*/
type ResourceExhaustedError struct {
	Resource  string
	Limit     uint64
	Requested uint64
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf(
		"%s: %s requested %d, limit %d",
		ErrResourceExhausted, e.Resource, e.Requested, e.Limit,
	)
}

func (e *ResourceExhaustedError) Is(target error) bool {
	return target == ErrResourceExhausted
}

// InvalidArgumentError reports a precondition violation on a call argument.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidArgument, e.Argument, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(argument, format string, args ...any) error {
	return &InvalidArgumentError{Argument: argument, Reason: fmt.Sprintf(format, args...)}
}
