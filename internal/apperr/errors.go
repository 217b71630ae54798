package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by readers when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ConfigError reports an invalid or contradictory benchmark configuration.
// It is fatal and raised before any task is measured.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewConfig(msg string) *ConfigError {
	return &ConfigError{Message: msg}
}

func NewConfigf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

func NewConfigWrap(msg string, err error) *ConfigError {
	return &ConfigError{Message: msg, Err: err}
}

// MeasurementError reports a measurement that cannot yield finite statistics,
// e.g. a zero elapsed time during calibration or an empty sample set.
type MeasurementError struct {
	Task    string
	Message string
}

func (e *MeasurementError) Error() string {
	if e.Task != "" {
		return fmt.Sprintf("measurement failed for task %q: %s", e.Task, e.Message)
	}
	return "measurement failed: " + e.Message
}

func NewMeasurement(task, msg string) *MeasurementError {
	return &MeasurementError{Task: task, Message: msg}
}

// Phase names the lifecycle step in which a task body failed.
type Phase string

const (
	PhaseCalibrate Phase = "calibrate"
	PhaseWarmup    Phase = "warmup"
	PhaseSetup     Phase = "setup"
	PhaseMeasure   Phase = "measure"
	PhaseTeardown  Phase = "teardown"
)

// TaskError wraps a failure raised by user code (task body or hook).
type TaskError struct {
	Task  string
	Phase Phase
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed during %s: %v", e.Task, e.Phase, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func NewTask(task string, phase Phase, err error) *TaskError {
	return &TaskError{Task: task, Phase: phase, Err: err}
}
