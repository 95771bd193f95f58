package domain

import "context"

// Generator sends a prompt to a generative text model and returns its raw text.
// Failures are reported as *GenerationError.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
