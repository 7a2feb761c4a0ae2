package argument

import (
	"errors"
	"fmt"
)

// ErrInvalidArguments groups the argument combinations the binding engine
// rejects before or after tokenization. Conflict and selection errors match
// it under errors.Is.
var ErrInvalidArguments = errors.New("invalid arguments")

// DeclarationError reports a container definition the engine cannot bind.
type DeclarationError struct {
	Container string
	Field     string
	Reason    string
}

func (e *DeclarationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("container %s: %s", e.Container, e.Reason)
	}
	return fmt.Sprintf("container %s, field %s: %s", e.Container, e.Field, e.Reason)
}

// ConflictError reports mutually exclusive switch tokens both present in
// the raw argument vector.
type ConflictError struct {
	Container     string
	EnableOption  string
	DisableOption string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: options %s and %s are mutually exclusive",
		e.Container, e.EnableOption, e.DisableOption)
}

func (e *ConflictError) Is(target error) bool { return target == ErrInvalidArguments }

// SelectionError reports a required sub-command that was not chosen.
type SelectionError struct {
	Field string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: a command selection is required", e.Field)
}

func (e *SelectionError) Is(target error) bool { return target == ErrInvalidArguments }
