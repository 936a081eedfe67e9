package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the TextGenerationClient interface using Google Gemini
type GeminiClient struct {
	client    *genai.Client
	modelName string
	defaults  core.GenerationOptions
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	defaults core.GenerationOptions,
	logger *zap.Logger,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
		defaults:  defaults,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Generate sends a prompt, with its image when present, and returns the first candidate's text
func (c *GeminiClient) Generate(ctx context.Context, req *core.GenerationRequest) (*core.GeneratedText, error) {
	// GenerativeModel carries its sampling settings, so each call gets its own
	model := c.client.GenerativeModel(c.modelName)
	applyOptions(model, req.Options.Or(c.defaults))

	resp, err := model.GenerateContent(ctx, buildParts(req)...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text, ok := responseText(resp)
	if !ok {
		return nil, fmt.Errorf("gemini: %w", core.ErrEmptyResponse)
	}

	c.logger.Debug("Gemini response received",
		zap.String("model", c.modelName),
		zap.Bool("with_image", req.Image != nil),
		zap.Int("response_length", len(text)))

	return &core.GeneratedText{Text: text, ModelUsed: c.modelName}, nil
}

func applyOptions(model *genai.GenerativeModel, opts core.GenerationOptions) {
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.TopP > 0 {
		model.SetTopP(opts.TopP)
	}
	if opts.TopK > 0 {
		model.SetTopK(int32(opts.TopK))
	}
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxOutputTokens))
	}
}

// buildParts puts the prompt first and the inline image after it
func buildParts(req *core.GenerationRequest) []genai.Part {
	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Image != nil && len(req.Image.Data) > 0 {
		parts = append(parts, genai.Blob{
			MIMEType: req.Image.MIMEType,
			Data:     req.Image.Data,
		})
	}
	return parts
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", false
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", false
	}
	return b.String(), true
}
