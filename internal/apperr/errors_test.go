package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
)

func TestNewConfig(t *testing.T) {
	err := apperr.NewConfig("iterations and time are mutually exclusive")

	if err.Error() != "iterations and time are mutually exclusive" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewConfigWrap(t *testing.T) {
	inner := fmt.Errorf("unknown method")
	err := apperr.NewConfigWrap("invalid clock", inner)

	if err.Error() != "invalid clock: unknown method" {
		t.Errorf("expected 'invalid clock: unknown method', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestConfigError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewConfigf("batch size %d is negative", -1)

	wrapped := fmt.Errorf("build runner: %w", original)
	doubleWrapped := fmt.Errorf("load spec: %w", wrapped)

	var ce *apperr.ConfigError
	if !errors.As(doubleWrapped, &ce) {
		t.Fatal("errors.As should find ConfigError through double wrapping")
	}
	if ce.Message != "batch size -1 is negative" {
		t.Errorf("unexpected message %q", ce.Message)
	}
}

func TestMeasurementError_Message(t *testing.T) {
	err := apperr.NewMeasurement("parse", "calibration elapsed time is zero")
	if err.Error() != `measurement failed for task "parse": calibration elapsed time is zero` {
		t.Errorf("unexpected message %q", err.Error())
	}

	anon := apperr.NewMeasurement("", "no samples")
	if anon.Error() != "measurement failed: no samples" {
		t.Errorf("unexpected message %q", anon.Error())
	}
}

func TestTaskError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("run: %w", apperr.NewTask("encode", apperr.PhaseMeasure, cause))

	var te *apperr.TaskError
	if !errors.As(err, &te) {
		t.Fatal("errors.As should find TaskError")
	}
	if te.Phase != apperr.PhaseMeasure || te.Task != "encode" {
		t.Errorf("unexpected task error %+v", te)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
}

func TestConfigError_NotFoundForPlainErrors(t *testing.T) {
	wrapped := fmt.Errorf("storage error: %w", fmt.Errorf("connection refused"))

	var ce *apperr.ConfigError
	if errors.As(wrapped, &ce) {
		t.Fatal("errors.As should NOT find ConfigError in plain error chain")
	}
}
