package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"digit-vision/config"
	app "digit-vision/internal/application"
	"digit-vision/internal/container"
	"digit-vision/internal/domain/entity"
	"digit-vision/internal/infrastructure/imagesource"
	"digit-vision/internal/infrastructure/inference"
	"digit-vision/internal/infrastructure/storage"
	"digit-vision/internal/infrastructure/vision"
	"digit-vision/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("Classification failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	modelPath := flag.String("model", cfg.ModelPath, "path to the ONNX model")
	idx := flag.Int("idx", -1, "treat the input as an MNIST IDX file and classify image n")
	debug := flag.Bool("debug", false, "enable debug logging")
	scores := flag.Bool("scores", false, "print the raw score vector")
	resamplerName := flag.String("resampler", cfg.Resampler, "resampler: imaging or gocv")
	engine := flag.String("engine", cfg.InferenceEngine, "inference engine: onnxruntime or born")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one image path, got %d", flag.NArg())
	}

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return err
	}

	resampler, err := vision.NewResampler(*resamplerName)
	if err != nil {
		return err
	}

	loader, err := inference.NewLoader(inference.Options{
		Engine:      *engine,
		ModelPath:   *modelPath,
		InputName:   cfg.ModelInputName,
		OutputName:  cfg.ModelOutputName,
		LibraryPath: cfg.RuntimeLibPath,
	}, logger)
	if err != nil {
		return err
	}
	defer inference.ShutdownRuntime()
	names := app.TensorNames{Input: cfg.ModelInputName, Output: cfg.ModelOutputName}
	c := container.New(storage.NewMemorySessionRepository(), loader, resampler, names, logger)

	ctx := context.Background()
	path := flag.Arg(0)

	var prediction *entity.Prediction
	if *idx >= 0 {
		grid, err := imagesource.FromIDX(path, *idx)
		if err != nil {
			return err
		}
		prediction, err = c.ClassificationService.Classify(ctx, grid)
		if err != nil {
			return err
		}
	} else {
		prediction, err = c.ClassificationService.ClassifyFile(ctx, path)
		if err != nil {
			return err
		}
	}

	fmt.Println(prediction.Digit)
	if *scores {
		fmt.Println(formatScores(prediction.Scores))
	}
	return nil
}

func formatScores(scores entity.ScoreVector) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%d:%.4f", i, s)
	}
	return strings.Join(parts, " ")
}
