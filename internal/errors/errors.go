// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// PipelineError is reported by the keyword pipeline and maps to HTTP 400.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewPipelineError(stage string, err error) error {
	return &PipelineError{Stage: stage, Err: err}
}

// ValidationError lists request body problems and maps to HTTP 422.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func NewValidationError(problems ...string) error {
	return &ValidationError{Problems: problems}
}
