package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a binding failure class.
type ErrorCode string

const (
	// ErrNoMetadata indicates the target type has no registered binding metadata.
	ErrNoMetadata ErrorCode = "bind-no-metadata"
	// ErrRootNotFound indicates the declared root element is absent from the document.
	ErrRootNotFound ErrorCode = "bind-root-not-found"
	// ErrNotStruct indicates a binding entry point was invoked with a non-struct value.
	ErrNotStruct ErrorCode = "bind-not-struct"
	// ErrNilValue indicates a binding entry point was invoked with a nil value.
	ErrNilValue ErrorCode = "bind-nil-value"
)

// Binding describes a fatal binding error. Everything below this severity is
// handled permissively by the engines (missing fields stay unset, unknown
// content is captured by wildcards) and never surfaces as an error.
//
//nolint:errname // public API name uses the binding domain term.
type Binding struct {
	Code    string
	Type    string
	Message string
}

// Error formats the binding error, including the error code and, when known,
// the Go type the operation was bound against.
func (b *Binding) Error() string {
	if b == nil {
		return "binding <nil>"
	}
	if b.Type == "" {
		return fmt.Sprintf("[%s] %s", b.Code, b.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", b.Code, b.Type, b.Message)
}

// NewBinding builds a Binding error with a code, the affected type name, and a message.
func NewBinding(code ErrorCode, typeName, msg string) *Binding {
	return &Binding{Code: string(code), Type: typeName, Message: msg}
}

// NewBindingf formats a message and builds a Binding error.
func NewBindingf(code ErrorCode, typeName, format string, args ...any) *Binding {
	return NewBinding(code, typeName, fmt.Sprintf(format, args...))
}

// AsBinding extracts a Binding error from an error returned by the engines.
func AsBinding(err error) (*Binding, bool) {
	if err == nil {
		return nil, false
	}
	var b *Binding
	if errors.As(err, &b) && b != nil {
		return b, true
	}
	return nil, false
}

// IsCode reports whether err is a Binding error carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	b, ok := AsBinding(err)
	return ok && b.Code == string(code)
}
