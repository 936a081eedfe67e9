package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mikey/eco-scheduler/internal/utils"
	"go.uber.org/zap"
)

// DefaultDateOptions are the sampling settings for disposal date prompts
var DefaultDateOptions = GenerationOptions{
	Temperature:     0.2,
	MaxOutputTokens: 256,
	TopK:            40,
	TopP:            0.9,
}

// DefaultInferenceTimeout bounds a single-item inference call
const DefaultInferenceTimeout = 15 * time.Second

// inferenceStage names the steps of a single inference call for logging
type inferenceStage string

const (
	stagePromptBuilt      inferenceStage = "prompt_built"
	stageAwaitingResponse inferenceStage = "awaiting_response"
	stageParsedValid      inferenceStage = "parsed_valid"
	stageParsedFallback   inferenceStage = "parsed_fallback"
	stageClamped          inferenceStage = "clamped"
	stageDone             inferenceStage = "done"
	stageFailed           inferenceStage = "failed"
)

// EngineConfig configures a DateInferenceEngine
type EngineConfig struct {
	Options  GenerationOptions
	Timeout  time.Duration
	Location *time.Location
	// Now overrides the wall clock; nil means time.Now
	Now func() time.Time
}

// DateInferenceEngine asks a generation service for a disposal date and
// coerces the answer into a date inside the scheduling window
type DateInferenceEngine struct {
	client        TextGenerationClient
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	options       GenerationOptions
	timeout       time.Duration
	location      *time.Location
	now           func() time.Time
}

// NewDateInferenceEngine creates a new date inference engine
func NewDateInferenceEngine(
	client TextGenerationClient,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	cfg EngineConfig,
) *DateInferenceEngine {
	if cfg.Options == (GenerationOptions{}) {
		cfg.Options = DefaultDateOptions
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultInferenceTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger, 0)
	}

	return &DateInferenceEngine{
		client:        client,
		logger:        logger,
		textProcessor: textProcessor,
		options:       cfg.Options,
		timeout:       cfg.Timeout,
		location:      cfg.Location,
		now:           cfg.Now,
	}
}

// Window returns the scheduling window for the current moment
func (e *DateInferenceEngine) Window() DateWindow {
	return NewDateWindow(e.now(), e.location)
}

// Client returns the underlying generation client
func (e *DateInferenceEngine) Client() TextGenerationClient {
	return e.client
}

// PromptName returns the name used inside the prompt for an item
func (e *DateInferenceEngine) PromptName(item *WasteItem) string {
	name := e.textProcessor.NormalizeName(item.Name)
	if name == "" && item.HasImage() {
		return UnidentifiedWasteLabel
	}
	return name
}

// InferDate produces a disposal date for a waste item. Callers must check
// item.Validate first. Failures are reported in the result, never returned.
func (e *DateInferenceEngine) InferDate(ctx context.Context, item *WasteItem) (result InferenceResult) {
	label := strings.TrimSpace(item.Name)
	result.WasteName = label

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Date inference panicked",
				zap.String("waste_name", label),
				zap.Any("panic", r),
				zap.String("stage", string(stageFailed)))
			result = InferenceResult{WasteName: label, Error: MsgProcessingError}
		}
	}()

	window := e.Window()
	prompt := BuildDatePrompt(window, e.PromptName(item), item.HasImage())
	e.trace(label, stagePromptBuilt)

	req := &GenerationRequest{
		Prompt:  prompt,
		Options: e.options,
	}
	if item.HasImage() {
		req.Image = item.Image
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.trace(label, stageAwaitingResponse)
	resp, err := e.client.Generate(callCtx, req)
	if err != nil {
		e.trace(label, stageFailed)
		if errors.Is(err, ErrEmptyResponse) {
			result.Error = MsgNoResponse
			return result
		}
		e.logger.Warn("Generation service call failed",
			zap.String("waste_name", label),
			zap.Error(err))
		result.Error = MsgProcessingError
		return result
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		e.trace(label, stageFailed)
		result.Error = MsgNoResponse
		return result
	}

	date, fallback := window.Resolve(resp.Text)
	if fallback {
		e.trace(label, stageParsedFallback)
		e.logger.Info("No usable date in response, using fallback",
			zap.String("waste_name", label),
			zap.String("response", e.textProcessor.TruncateText(resp.Text, 120)))
	} else {
		e.trace(label, stageParsedValid)
	}
	e.trace(label, stageClamped)

	result.DisposalDate = window.Format(date)
	result.Degraded = fallback
	e.trace(label, stageDone)

	return result
}

func (e *DateInferenceEngine) trace(label string, stage inferenceStage) {
	e.logger.Debug("Date inference stage",
		zap.String("waste_name", label),
		zap.String("stage", string(stage)))
}
