package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the TextGenerationClient interface using OpenAI
type OpenAIClient struct {
	client    *openai.Client
	modelName string
	defaults  core.GenerationOptions
	logger    *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL uses the public API.
func NewOpenAIClient(
	apiKey string,
	baseURL string,
	modelName string,
	defaults core.GenerationOptions,
	logger *zap.Logger,
) *OpenAIClient {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientCfg),
		modelName: modelName,
		defaults:  defaults,
		logger:    logger,
	}
}

// Close is a no-op; the HTTP client has nothing to release
func (c *OpenAIClient) Close() error {
	return nil
}

// Generate sends a prompt, with its image when present, and returns the first choice's text
func (c *OpenAIClient) Generate(ctx context.Context, req *core.GenerationRequest) (*core.GeneratedText, error) {
	opts := req.Options.Or(c.defaults)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    []openai.ChatCompletionMessage{buildMessage(req)},
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("openai: %w", core.ErrEmptyResponse)
	}

	c.logger.Debug("OpenAI response received",
		zap.String("model", resp.Model),
		zap.String("id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	model := resp.Model
	if model == "" {
		model = c.modelName
	}
	return &core.GeneratedText{Text: resp.Choices[0].Message.Content, ModelUsed: model}, nil
}

// buildMessage sends plain content for text prompts and a multi-part
// message with a data URI when an image is attached
func buildMessage(req *core.GenerationRequest) openai.ChatCompletionMessage {
	if req.Image == nil || len(req.Image.Data) == 0 {
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		}
	}

	mimeType := req.Image.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(req.Image.Data))

	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: req.Prompt,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	}
}
