package errors

import (
	"fmt"
)

// ErrType represents different types of errors
type ErrType string

const (
	// ErrTypeEnvironment represents failures to discover the installed app's version or identifier
	ErrTypeEnvironment ErrType = "environment"
	// ErrTypeTransport represents network/fetch failures while querying a store
	ErrTypeTransport ErrType = "transport"
	// ErrTypeParse represents store content that doesn't carry the expected version marker
	ErrTypeParse ErrType = "parse"
	// ErrTypeMalformedVersion represents a version string that can't be ordered
	ErrTypeMalformedVersion ErrType = "malformed_version"
	// ErrTypeConfig represents configuration errors
	ErrTypeConfig ErrType = "config"
	// ErrTypeValidation represents validation errors
	ErrTypeValidation ErrType = "validation"
	// ErrTypeAWS represents AWS service errors
	ErrTypeAWS ErrType = "aws"
)

// Sentinels usable with errors.Is; a CheckError matches the sentinel of its Type.
var (
	ErrEnvironment      = New(ErrTypeEnvironment, "environment lookup failed")
	ErrTransport        = New(ErrTypeTransport, "provider transport failed")
	ErrParse            = New(ErrTypeParse, "provider response could not be parsed")
	ErrMalformedVersion = New(ErrTypeMalformedVersion, "malformed version")
)

// rawContextKey is the context key holding the fetched content of a parse failure
const rawContextKey = "raw"

// CheckError represents a custom error with context
type CheckError struct {
	Type       ErrType
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s error: %s (caused by: %v)", e.Type, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *CheckError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a CheckError of the same Type
func (e *CheckError) Is(target error) bool {
	t, ok := target.(*CheckError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// New creates a new CheckError
func New(errType ErrType, message string) *CheckError {
	return &CheckError{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CheckError
func Wrap(errType ErrType, message string, err error) *CheckError {
	return &CheckError{
		Type:       errType,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *CheckError) WithContext(key string, value interface{}) *CheckError {
	e.Context[key] = value
	return e
}

// GetContext returns context value
func (e *CheckError) GetContext(key string) (interface{}, bool) {
	val, exists := e.Context[key]
	return val, exists
}

// Raw returns the fetched content attached to a parse error, if any
func (e *CheckError) Raw() string {
	val, _ := e.GetContext(rawContextKey)
	raw, _ := val.(string)
	return raw
}

func newTyped(errType ErrType, message string, err error) *CheckError {
	if err != nil {
		return Wrap(errType, message, err)
	}
	return New(errType, message)
}

// Common error constructors
func NewEnvironmentError(message string, err error) *CheckError {
	return newTyped(ErrTypeEnvironment, message, err)
}

func NewTransportError(message string, err error) *CheckError {
	return newTyped(ErrTypeTransport, message, err)
}

// NewParseError keeps the raw fetched content for diagnostics
func NewParseError(message string, raw string) *CheckError {
	return New(ErrTypeParse, message).WithContext(rawContextKey, raw)
}

func NewMalformedVersionError(version string, err error) *CheckError {
	return newTyped(ErrTypeMalformedVersion, fmt.Sprintf("cannot compare version %q", version), err).
		WithContext("version", version)
}

func NewConfigError(message string, err error) *CheckError {
	return newTyped(ErrTypeConfig, message, err)
}

func NewAWSError(message string, err error) *CheckError {
	return newTyped(ErrTypeAWS, message, err)
}

func NewValidationError(message string) *CheckError {
	return New(ErrTypeValidation, message)
}
