package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mikey/eco-scheduler/internal/adapters/csvrows"
	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

// Runner drives the scheduler services from the command line and prints
// human readable summaries, or JSON when requested
type Runner struct {
	engine     *core.DateInferenceEngine
	batch      *core.BatchDateProcessor
	classifier *core.WasteClassifier
	resolver   core.ColumnResolver
	logger     *zap.Logger
	out        io.Writer
	jsonOutput bool
}

// NewRunner creates a new CLI runner writing to out
func NewRunner(
	engine *core.DateInferenceEngine,
	batch *core.BatchDateProcessor,
	classifier *core.WasteClassifier,
	resolver core.ColumnResolver,
	logger *zap.Logger,
	out io.Writer,
	jsonOutput bool,
) *Runner {
	return &Runner{
		engine:     engine,
		batch:      batch,
		classifier: classifier,
		resolver:   resolver,
		logger:     logger,
		out:        out,
		jsonOutput: jsonOutput,
	}
}

// ProcessCSV assigns dates to every row of a CSV document and prints the results
func (r *Runner) ProcessCSV(ctx context.Context, in io.Reader) (*core.BatchResult, error) {
	table, err := csvrows.ParseTable(in)
	if err != nil {
		return nil, err
	}
	rows := table.Rows

	r.logger.Debug("Parsed CSV input", zap.Int("rows", len(rows)), zap.Strings("headers", table.Headers))

	startTime := time.Now()
	result, err := r.batch.ProcessTable(ctx, table.Headers, rows, r.resolver)
	if err != nil {
		return nil, err
	}
	duration := time.Since(startTime)

	if r.jsonOutput {
		return result, r.writeJSON(result)
	}

	window := r.engine.Window()
	fmt.Fprintf(r.out, "\n=== Batch Summary ===\n")
	fmt.Fprintf(r.out, "Rows: %d\n", len(rows))
	fmt.Fprintf(r.out, "Strategy: %s\n", r.batch.Strategy())
	fmt.Fprintf(r.out, "Window: %s to %s\n", window.Format(window.Today), window.Format(window.HorizonEnd))

	fmt.Fprintf(r.out, "\n=== Results ===\n")
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWASTE\tDATE\tNOTE")
	for i, res := range result.Results {
		note := ""
		switch {
		case res.Failed():
			note = res.Error
		case res.Degraded:
			note = "estimated"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, res.WasteName, res.DisposalDate, note)
	}
	if err := tw.Flush(); err != nil {
		return result, err
	}

	fmt.Fprintf(r.out, "\nSucceeded: %d\n", result.SuccessCount)
	fmt.Fprintf(r.out, "Failed: %d\n", result.ErrorCount)
	fmt.Fprintf(r.out, "Processing time: %v\n", duration)

	return result, nil
}

// InferDate assigns a date to one item and prints the result
func (r *Runner) InferDate(ctx context.Context, item *core.WasteItem) (core.InferenceResult, error) {
	if err := item.Validate(); err != nil {
		return core.InferenceResult{}, err
	}

	startTime := time.Now()
	result := r.engine.InferDate(ctx, item)
	duration := time.Since(startTime)

	if r.jsonOutput {
		return result, r.writeJSON(result)
	}

	fmt.Fprintf(r.out, "\n=== Item Summary ===\n")
	fmt.Fprintf(r.out, "Name: %s\n", item.Name)
	if item.HasImage() {
		fmt.Fprintf(r.out, "Image: %s, %d bytes\n", item.Image.MIMEType, len(item.Image.Data))
	}

	fmt.Fprintf(r.out, "\n=== Results ===\n")
	if result.Failed() {
		fmt.Fprintf(r.out, "Error: %s\n", result.Error)
	} else {
		fmt.Fprintf(r.out, "Disposal date: %s\n", result.DisposalDate)
		fmt.Fprintf(r.out, "Estimated: %t\n", result.Degraded)
	}
	fmt.Fprintf(r.out, "Processing time: %v\n", duration)

	return result, nil
}

// Classify analyzes one item and prints the classification
func (r *Runner) Classify(ctx context.Context, item *core.WasteItem) (*core.Classification, error) {
	startTime := time.Now()
	classification, err := r.classifier.Classify(ctx, item)
	if err != nil {
		r.logger.Error("Failed to classify item", zap.Error(err))
		return nil, err
	}
	duration := time.Since(startTime)

	if r.jsonOutput {
		return classification, r.writeJSON(classification)
	}

	fmt.Fprintf(r.out, "\n=== Classification ===\n")
	fmt.Fprintf(r.out, "%s\n", classification.Result)
	fmt.Fprintf(r.out, "\nSource: %s\n", classification.Source)
	fmt.Fprintf(r.out, "Model used: %s\n", classification.ModelUsed)
	fmt.Fprintf(r.out, "Processing time: %v\n", duration)

	return classification, nil
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
