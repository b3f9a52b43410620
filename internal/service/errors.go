package service

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	// ErrDiscovery covers unresolved or ambiguous pairing; never fatal.
	ErrDiscovery ErrorType = iota
	// ErrParse covers malformed subtitle files; fatal for that pair only.
	ErrParse
	// ErrTranscode covers external process failures; fatal for one entry only.
	ErrTranscode
	// ErrResource covers disk/IO exhaustion; halts new scheduling.
	ErrResource
	ErrConfig
	ErrUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrDiscovery:
		return "Discovery"
	case ErrParse:
		return "Parse"
	case ErrTranscode:
		return "Transcode"
	case ErrResource:
		return "Resource"
	case ErrConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// PipelineError carries the error taxonomy plus free-form context fields.
type PipelineError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func WrapError(err error, errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   err,
	}
}

func (e *PipelineError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	e.Context[key] = value
	return e
}

func IsErrorType(err error, errorType ErrorType) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Type == errorType
	}
	return false
}
