package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"MODEL_PATH", "MODEL_INPUT_NAME", "RESAMPLER", "INFERENCE_ENGINE", "CANVAS_SIZE", "PEN_WIDTH", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultModelPath, cfg.ModelPath)
	require.Equal(t, DefaultInputName, cfg.ModelInputName)
	require.Equal(t, DefaultResampler, cfg.Resampler)
	require.Equal(t, DefaultEngine, cfg.InferenceEngine)
	require.Equal(t, DefaultCanvasSize, cfg.CanvasSize)
	require.Equal(t, DefaultPenWidth, cfg.PenWidth)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MODEL_PATH", "/models/digits.onnx")
	t.Setenv("MODEL_INPUT_NAME", "image")
	t.Setenv("MODEL_OUTPUT_NAME", "")
	t.Setenv("CANVAS_SIZE", "560")
	t.Setenv("PEN_WIDTH", "32.5")
	t.Setenv("INFERENCE_ENGINE", "born")
	t.Setenv("ONNXRUNTIME_LIB", "/opt/onnxruntime/lib/libonnxruntime.so")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/models/digits.onnx", cfg.ModelPath)
	require.Equal(t, "image", cfg.ModelInputName)
	require.Empty(t, cfg.ModelOutputName)
	require.Equal(t, 560, cfg.CanvasSize)
	require.Equal(t, 32.5, cfg.PenWidth)
	require.Equal(t, "born", cfg.InferenceEngine)
	require.Equal(t, "/opt/onnxruntime/lib/libonnxruntime.so", cfg.RuntimeLibPath)
}

func TestLoad_InvalidCanvas(t *testing.T) {
	t.Setenv("CANVAS_SIZE", "-1")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CANVAS_SIZE", "")
	t.Setenv("PEN_WIDTH", "thick")
	_, err = Load()
	require.Error(t, err)
}
