package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mikey/eco-scheduler/internal/adapters/cli"
	"github.com/mikey/eco-scheduler/internal/core"
	"github.com/mikey/eco-scheduler/internal/di"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, logger *zap.Logger, runner *cli.Runner, llmClient ports.LLMClient) error {
	defer logger.Sync()
	defer func() {
		if err := llmClient.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}()

	ctx := context.Background()

	if flags.SingleItem() {
		item, err := readItem(flags)
		if err != nil {
			return err
		}
		if flags.Classify {
			_, err = runner.Classify(ctx, item)
			return err
		}
		_, err = runner.InferDate(ctx, item)
		return err
	}

	// Read CSV from file or stdin
	var in io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		in = file
		logger.Info("Reading CSV from file", zap.String("file", flags.InputFile))
	} else {
		in = os.Stdin
		logger.Info("Reading CSV from stdin")
	}

	_, err := runner.ProcessCSV(ctx, in)
	return err
}

func readItem(flags *di.CLIFlags) (*core.WasteItem, error) {
	item := &core.WasteItem{Name: flags.Name}
	if flags.ImageFile == "" {
		return item, nil
	}

	data, err := os.ReadFile(flags.ImageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") && !mtype.Is("image/webp") && !mtype.Is("image/gif") {
		return nil, fmt.Errorf("unsupported image type: %s", mtype.String())
	}
	item.Image = &core.InlineImage{Data: data, MIMEType: mtype.String()}
	return item, nil
}
