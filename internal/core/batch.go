package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/mikey/eco-scheduler/internal/columns"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how batch rows get their dates
type Strategy string

const (
	// StrategyEngine runs the full inference pipeline for every row
	StrategyEngine Strategy = "engine"
	// StrategySampled draws a date inside the window and lets the service replace it
	// only with a strictly valid answer
	StrategySampled Strategy = "sampled"
)

// ParseStrategy parses a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyEngine:
		return StrategyEngine, nil
	case StrategySampled, "":
		return StrategySampled, nil
	default:
		return "", fmt.Errorf("unsupported batch strategy: %s", s)
	}
}

// DefaultBatchOptions are the sampling settings for sampled batch rows
var DefaultBatchOptions = GenerationOptions{
	Temperature:     0.2,
	MaxOutputTokens: 100,
}

const (
	// DefaultBatchCallTimeout bounds each upstream call made for a batch row
	DefaultBatchCallTimeout = 5 * time.Second
	// DefaultBatchConcurrency is the number of rows processed at once
	DefaultBatchConcurrency = 4
)

// ColumnResolver picks the waste-name column from a set of headers
type ColumnResolver interface {
	Resolve(headers []string) (string, bool)
}

// BatchConfig configures a BatchDateProcessor
type BatchConfig struct {
	Strategy    Strategy
	Concurrency int
	CallTimeout time.Duration
	Options     GenerationOptions
	// Rand returns a value in [0, n); nil means math/rand/v2
	Rand func(n int) int
}

// BatchDateProcessor assigns disposal dates to every row of a parsed dataset
type BatchDateProcessor struct {
	engine *DateInferenceEngine
	logger *zap.Logger
	cfg    BatchConfig
}

// NewBatchDateProcessor creates a new batch processor
func NewBatchDateProcessor(engine *DateInferenceEngine, logger *zap.Logger, cfg BatchConfig) *BatchDateProcessor {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategySampled
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultBatchConcurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultBatchCallTimeout
	}
	if cfg.Options == (GenerationOptions{}) {
		cfg.Options = DefaultBatchOptions
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.IntN
	}

	return &BatchDateProcessor{
		engine: engine,
		logger: logger,
		cfg:    cfg,
	}
}

// Strategy returns the strategy used for every row
func (p *BatchDateProcessor) Strategy() Strategy {
	return p.cfg.Strategy
}

// Process assigns a date to each row. Structural problems (no rows, no
// waste-name column) fail the whole batch; everything else is captured per row.
// A nil resolver matches the standard waste-name aliases. Rows carry no column
// order, so headers are offered to the resolver sorted; use ProcessTable when
// the source order is known.
func (p *BatchDateProcessor) Process(ctx context.Context, rows []Row, resolver ColumnResolver) (*BatchResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	headers := make([]string, 0, len(rows[0]))
	for header := range rows[0] {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	return p.ProcessTable(ctx, headers, rows, resolver)
}

// ProcessTable is Process with the headers in source column order, so the
// first matching column wins.
func (p *BatchDateProcessor) ProcessTable(ctx context.Context, headers []string, rows []Row, resolver ColumnResolver) (*BatchResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	if resolver == nil {
		resolver = columns.NewWasteNameResolver(p.logger)
	}

	column, ok := resolver.Resolve(headers)
	if !ok {
		p.logger.Warn("No waste name column found", zap.Strings("headers", headers))
		return nil, ErrMissingWasteColumn
	}

	startTime := time.Now()
	results := make([]InferenceResult, len(rows))

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i, row := range rows {
		i, cell := i, row[column]
		g.Go(func() error {
			results[i] = p.processRow(ctx, i, cell)
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResult{Results: results}
	for _, r := range results {
		if r.Failed() {
			batch.ErrorCount++
		} else {
			batch.SuccessCount++
		}
	}

	p.logger.Info("Processed batch",
		zap.String("strategy", string(p.cfg.Strategy)),
		zap.String("column", column),
		zap.Int("rows", len(rows)),
		zap.Int("success", batch.SuccessCount),
		zap.Int("errors", batch.ErrorCount),
		zap.Duration("duration", time.Since(startTime)))

	return batch, nil
}

// processRow never panics: an unexpected failure yields a shifted fallback date
func (p *BatchDateProcessor) processRow(ctx context.Context, index int, cell string) (result InferenceResult) {
	name := strings.TrimSpace(cell)
	if name == "" {
		return InferenceResult{WasteName: EmptyNameLabel, Error: MsgEmptyWasteName}
	}

	defer func() {
		if r := recover(); r != nil {
			window := p.engine.Window()
			p.logger.Error("Error processing waste item",
				zap.Int("row", index),
				zap.String("waste_name", name),
				zap.Any("panic", r))
			result = InferenceResult{
				WasteName:    name,
				DisposalDate: window.Format(window.Offset(FallbackOffsetDays)),
				Degraded:     true,
			}
		}
	}()

	switch p.cfg.Strategy {
	case StrategyEngine:
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
		defer cancel()
		return p.engine.InferDate(callCtx, &WasteItem{Name: name})
	default:
		return p.sample(ctx, name)
	}
}

// sample draws a candidate inside the window and keeps the service's answer
// only when it is an exact, in-window date
func (p *BatchDateProcessor) sample(ctx context.Context, name string) InferenceResult {
	window := p.engine.Window()
	candidate := window.Offset(p.cfg.Rand(HorizonDays) + 1)
	result := InferenceResult{
		WasteName:    name,
		DisposalDate: window.Format(candidate),
		Degraded:     true,
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()

	resp, err := p.engine.Client().Generate(callCtx, &GenerationRequest{
		Prompt:  BuildBatchDatePrompt(window, p.engine.PromptName(&WasteItem{Name: name})),
		Options: p.cfg.Options,
	})
	if err != nil {
		p.logger.Warn("AI service error, keeping sampled date",
			zap.String("waste_name", name),
			zap.Error(err))
		return result
	}
	if resp == nil {
		return result
	}

	if date, ok := window.AcceptExact(resp.Text); ok {
		result.DisposalDate = window.Format(date)
		result.Degraded = false
	}
	return result
}
