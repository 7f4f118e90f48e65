package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpec matches every *InvalidSpecError.
	ErrInvalidSpec = errors.New("motion: invalid animation spec")
	// ErrTargetLost matches every *TargetLostError.
	ErrTargetLost = errors.New("motion: target lost")
)

// InvalidSpecError is returned by Register when a Spec cannot be animated.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("motion: invalid spec: %s: %s", e.Field, e.Reason)
}

func (e *InvalidSpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

func invalid(field, format string, args ...any) error {
	return &InvalidSpecError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// TargetLostError describes an animation killed because its target (or its
// scroll trigger) left the live document. It is logged, never returned.
type TargetLostError struct {
	ID     uint64
	Target string
}

func (e *TargetLostError) Error() string {
	return fmt.Sprintf("motion: animation %d: target %s left the document", e.ID, e.Target)
}

func (e *TargetLostError) Is(target error) bool {
	return target == ErrTargetLost
}

func targetName(t Target) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}
