package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/eco-scheduler/internal/utils"
	"go.uber.org/zap"
)

// ClassificationSource labels classification responses
const ClassificationSource = "Environmental Classification System v1.2"

// DefaultClassificationOptions are the sampling settings for classification prompts
var DefaultClassificationOptions = GenerationOptions{
	Temperature:     0.1,
	MaxOutputTokens: 1024,
	TopK:            40,
	TopP:            0.9,
}

// DefaultClassificationTimeout bounds each classification call
const DefaultClassificationTimeout = 30 * time.Second

// WasteClassifier produces a structured waste-type and disposal analysis
type WasteClassifier struct {
	client        TextGenerationClient
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	options       GenerationOptions
	timeout       time.Duration
	now           func() time.Time
}

// NewWasteClassifier creates a new waste classifier
func NewWasteClassifier(
	client TextGenerationClient,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	options GenerationOptions,
	timeout time.Duration,
) *WasteClassifier {
	if options == (GenerationOptions{}) {
		options = DefaultClassificationOptions
	}
	if timeout <= 0 {
		timeout = DefaultClassificationTimeout
	}
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger, 0)
	}
	return &WasteClassifier{
		client:        client,
		logger:        logger,
		textProcessor: textProcessor,
		options:       options,
		timeout:       timeout,
		now:           time.Now,
	}
}

// HasRequiredSections reports whether a classification follows the requested layout
func HasRequiredSections(text string) bool {
	return strings.Contains(text, WasteTypeHeader) && strings.Contains(text, DisposalHeader)
}

// Classify analyzes a waste item. If the first answer misses a required
// section the request is re-issued once with a stricter instruction.
func (c *WasteClassifier) Classify(ctx context.Context, item *WasteItem) (*Classification, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	name := c.textProcessor.NormalizeName(item.Name)
	req := &GenerationRequest{
		Prompt:  BuildClassificationPrompt(name, false),
		Options: c.options,
	}
	if item.HasImage() {
		req.Image = item.Image
	}

	resp, err := c.generate(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			return nil, ErrNoClassification
		}
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, ErrNoClassification
	}

	text := resp.Text
	model := resp.ModelUsed
	retried := false

	if !HasRequiredSections(text) {
		c.logger.Info("Classification missing required sections, retrying",
			zap.String("waste_name", name))
		retried = true

		req.Prompt = BuildClassificationPrompt(name, true)
		retry, err := c.generate(ctx, req)
		switch {
		case err != nil:
			c.logger.Warn("Classification retry failed, keeping first answer", zap.Error(err))
		case strings.TrimSpace(retry.Text) != "":
			text = retry.Text
			model = retry.ModelUsed
		}
	}

	if name != "" {
		text = fmt.Sprintf("**Item Analyzed:** %s\n\n%s", name, text)
	}

	return &Classification{
		Result:    text,
		Timestamp: c.now().UTC(),
		Source:    ClassificationSource,
		ModelUsed: model,
		Retried:   retried,
	}, nil
}

func (c *WasteClassifier) generate(ctx context.Context, req *GenerationRequest) (*GeneratedText, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Generate(callCtx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}
