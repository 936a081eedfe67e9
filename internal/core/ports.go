package core

import (
	"context"
)

// GenerationOptions holds sampling settings passed to the generation service
type GenerationOptions struct {
	Temperature     float32
	MaxOutputTokens int
	TopK            int
	TopP            float32
}

// Or fills every unset field from defaults
func (o GenerationOptions) Or(defaults GenerationOptions) GenerationOptions {
	if o.Temperature == 0 {
		o.Temperature = defaults.Temperature
	}
	if o.MaxOutputTokens == 0 {
		o.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if o.TopK == 0 {
		o.TopK = defaults.TopK
	}
	if o.TopP == 0 {
		o.TopP = defaults.TopP
	}
	return o
}

// GenerationRequest is a single prompt with an optional inline image
type GenerationRequest struct {
	Prompt  string
	Image   *InlineImage
	Options GenerationOptions
}

// GeneratedText is the text returned by the generation service
type GeneratedText struct {
	Text      string
	ModelUsed string
}

// TextGenerationClient defines the interface for interacting with text/vision generation services
type TextGenerationClient interface {
	// Generate sends the request and returns the first candidate's text.
	// Implementations return ErrEmptyResponse when no candidate text is available.
	Generate(ctx context.Context, req *GenerationRequest) (*GeneratedText, error)
}
