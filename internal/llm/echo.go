package llm

import (
	"context"
	"strings"
)

// EchoProvider is a deterministic offline provider. It answers every prompt
// with a canned acknowledgement, so the assistant keeps working with no API
// key and no local model server.
type EchoProvider struct{}

// NewEchoProvider creates a new echo provider.
func NewEchoProvider() *EchoProvider {
	return &EchoProvider{}
}

// Complete returns a canned response derived from the prompt.
func (p *EchoProvider) Complete(_ context.Context, prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "I didn't catch that. Could you say it again?", nil
	}
	return "I heard: " + trimmed, nil
}

// Name returns the provider identifier.
func (p *EchoProvider) Name() string {
	return "echo"
}

// Available always returns true.
func (p *EchoProvider) Available() bool {
	return true
}
