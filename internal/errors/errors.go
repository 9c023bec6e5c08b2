// Package errors defines the error taxonomy of the analysis engine.
//
// Fatal errors (config, filesystem, timeout, aggregation) abort the run and
// yield no report. Parse warnings are recovered locally: the offending file
// is skipped and the warning travels with the report instead.
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"
)

// ErrorType classifies analysis errors.
type ErrorType string

const (
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypePathNotFound ErrorType = "path_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeParse        ErrorType = "parse"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeAnalysis     ErrorType = "analysis"
)

// ConfigError reports an invalid or missing configuration field. It is
// fatal and raised before any file I/O happens.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
}

// NewConfigError creates a new config error.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
	}
	return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// FileSystemError reports an unreadable or missing root path. Fatal.
type FileSystemError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
}

// NewFileSystemError creates a new filesystem error, classifying permission
// failures separately from missing paths.
func NewFileSystemError(op, path string, err error) *FileSystemError {
	errorType := ErrorTypePathNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}
	return &FileSystemError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
	}
}

func isPermissionError(err error) bool {
	return stderrors.Is(err, fs.ErrPermission)
}

// Error implements the error interface.
func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *FileSystemError) Unwrap() error {
	return e.Underlying
}

// ParseWarning records a recovered single-file extraction failure. The file
// is skipped, its classes are omitted, and the run continues.
type ParseWarning struct {
	Path   string
	Line   int
	Reason string
}

// NewParseWarning creates a new parse warning.
func NewParseWarning(path string, line int, reason string) *ParseWarning {
	return &ParseWarning{Path: path, Line: line, Reason: reason}
}

// Error implements the error interface.
func (e *ParseWarning) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse warning at %s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse warning at %s: %s", e.Path, e.Reason)
}

// TimeoutError reports that the analysis deadline expired before the run
// completed. Fatal: partial aggregated metrics are never returned.
type TimeoutError struct {
	Configured time.Duration
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(configured time.Duration) *TimeoutError {
	return &TimeoutError{Configured: configured}
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("analysis timed out after %s", e.Configured)
}

// AnalysisError reports an unexpected failure in an aggregation stage.
// Fatal; never silently swallowed.
type AnalysisError struct {
	Stage      string
	Underlying error
}

// NewAnalysisError creates a new analysis error.
func NewAnalysisError(stage string, err error) *AnalysisError {
	return &AnalysisError{Stage: stage, Underlying: err}
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis stage %s failed: %v", e.Stage, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}
