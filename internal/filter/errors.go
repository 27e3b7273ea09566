package filter

import "fmt"

// UnknownOperatorError reports an operator token missing from the registry
type UnknownOperatorError struct {
	Token string
	Path  string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q at %s", e.Token, e.Path)
}

// UnknownEntityError reports an include model token missing from the registry
type UnknownEntityError struct {
	Token string
	Path  string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q at %s", e.Token, e.Path)
}

// ValidationError is a rejected request attribute
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
