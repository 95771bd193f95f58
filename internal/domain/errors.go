package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals request parameters that fail validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexNotReady signals that the corpus index has not finished building.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrCorpusLoad signals a corpus source that could not be read.
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationFailed signals a generative provider failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrNotImplemented signals a feature disabled by configuration.
	ErrNotImplemented = errors.New("not implemented")
)

// LoadError reports which corpus source failed to load.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: source %q: %v", ErrCorpusLoad.Error(), e.Source, e.Err)
}

// Unwrap matches both ErrCorpusLoad and the underlying cause.
func (e *LoadError) Unwrap() []error { return []error{ErrCorpusLoad, e.Err} }

// NewLoadError creates a LoadError for the named source.
func NewLoadError(source string, err error) error {
	return &LoadError{Source: source, Err: err}
}

// GenerationFailureKind classifies a generative provider failure.
type GenerationFailureKind string

const (
	// FailureNetwork covers transport and API errors.
	FailureNetwork GenerationFailureKind = "network"
	// FailureTimeout covers an exceeded request deadline.
	FailureTimeout GenerationFailureKind = "timeout"
	// FailureEmpty covers a response without usable text.
	FailureEmpty GenerationFailureKind = "empty"
)

// GenerationError is the typed failure returned by a Generator.
type GenerationError struct {
	Kind GenerationFailureKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrGenerationFailed.Error(), e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed.Error(), e.Kind, e.Err)
}

// Unwrap matches both ErrGenerationFailed and the underlying cause.
func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGenerationFailed}
	}
	return []error{ErrGenerationFailed, e.Err}
}

// NewGenerationError creates a GenerationError of the given kind.
func NewGenerationError(kind GenerationFailureKind, err error) error {
	return &GenerationError{Kind: kind, Err: err}
}
