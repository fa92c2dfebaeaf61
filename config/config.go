package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultModelPath   = "assets/mnist-12.onnx"
	DefaultInputName   = "Input3"
	DefaultOutputName  = "Plus214_Output_0"
	DefaultCanvasSize  = 280
	DefaultPenWidth    = 20.0
	DefaultResampler   = "imaging"
	DefaultEngine      = "onnxruntime"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	maxCanvasSize      = 4096
)

type Config struct {
	ModelPath       string
	ModelInputName  string
	ModelOutputName string
	Resampler       string

	InferenceEngine string
	RuntimeLibPath  string

	LogLevel  string
	LogFormat string

	TelegramToken string
	DatabaseURL   string

	CanvasSize int
	PenWidth   float64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		ModelPath:       getEnv("MODEL_PATH", DefaultModelPath),
		ModelInputName:  getEnv("MODEL_INPUT_NAME", DefaultInputName),
		ModelOutputName: os.Getenv("MODEL_OUTPUT_NAME"),
		Resampler:       getEnv("RESAMPLER", DefaultResampler),
		InferenceEngine: getEnv("INFERENCE_ENGINE", DefaultEngine),
		RuntimeLibPath:  os.Getenv("ONNXRUNTIME_LIB"),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:       getEnv("LOG_FORMAT", DefaultLogFormat),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CanvasSize:      DefaultCanvasSize,
		PenWidth:        DefaultPenWidth,
	}
	// Пустая переменная MODEL_OUTPUT_NAME означает «единственный выход модели»,
	// поэтому значение по умолчанию подставляем только если её нет вовсе.
	if _, ok := os.LookupEnv("MODEL_OUTPUT_NAME"); !ok {
		cfg.ModelOutputName = DefaultOutputName
	}

	if v := strings.TrimSpace(os.Getenv("CANVAS_SIZE")); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 || size > maxCanvasSize {
			return nil, fmt.Errorf("invalid CANVAS_SIZE %q", v)
		}
		cfg.CanvasSize = size
	}

	if v := strings.TrimSpace(os.Getenv("PEN_WIDTH")); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width <= 0 {
			return nil, fmt.Errorf("invalid PEN_WIDTH %q", v)
		}
		cfg.PenWidth = width
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
