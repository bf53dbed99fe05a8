package value

import "fmt"

// ErrClass classifies a UserError the way a registry ErrKind classifies a
// hive error: callers branch on the class rather than parsing the message.
type ErrClass string

// Standard error classes raised by the core.
const (
	ClassBounds        ErrClass = "bounds"
	ClassDivByZero     ErrClass = "div-by-zero"
	ClassMissingKey    ErrClass = "missing-key"
	ClassPointerConst  ErrClass = "pointer-const"
	ClassArgumentBind  ErrClass = "argument-bind"
	ClassFormat        ErrClass = "format"
	ClassInternalAbort ErrClass = "internal-abort"
)

// FormatError is raised when a string form fails to parse into the value
// it was supposed to denote (integer_of, real_of, list_of, and friends).
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return "format: " + e.Msg + ": " + e.Err.Error()
	}
	return "format: " + e.Msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// NewFormatError builds a FormatError with a formatted message.
func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// UserError is a runtime check failure: it carries an error class symbol
// and a message, mirroring the two-element value expected at the
// language boundary.
type UserError struct {
	Class   ErrClass
	Message string
	Details map[string]Value
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// NewUserError builds a UserError with no extra detail fields.
func NewUserError(class ErrClass, message string) *UserError {
	return &UserError{Class: class, Message: message}
}

// WithDetail attaches a detail field and returns the receiver for chaining.
func (e *UserError) WithDetail(key string, v Value) *UserError {
	if e.Details == nil {
		e.Details = make(map[string]Value, 1)
	}
	e.Details[key] = v
	return e
}
