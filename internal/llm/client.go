package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("generative model not configured")

// Image is an inline image sent to the model.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client generates text from a named model.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Model    string
	Prompt   string
	Image    *Image
	JSONOnly bool // ask for application/json output

	// MaxTokens caps the reply length; zero leaves it to the model.
	MaxTokens int
}
