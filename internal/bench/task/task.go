// Package task turns user functions into measurable tasks.
//
// The calling convention of a body is fixed when the task is created and
// selects a loop specialised for it, so a batch pays nothing per call beyond
// the call itself (plus the error check for bodies that can fail).
package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/microbench/internal/bench/clock"
)

// Kind is the calling convention of a task body.
type Kind int

const (
	// Sync bodies cannot fail: func().
	Sync Kind = iota
	// SyncErr bodies return an error: func() error, func(context.Context) error.
	SyncErr
	// Async bodies return a channel that yields the outcome of the call:
	// func() <-chan error, func(context.Context) <-chan error.
	Async
)

func (k Kind) String() string {
	switch k {
	case Sync:
		return "sync"
	case SyncErr:
		return "sync-err"
	case Async:
		return "async"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrUnsupportedBody is returned by New for bodies of an unknown type.
var ErrUnsupportedBody = errors.New("unsupported task body type")

// invoker runs a body n times and returns the elapsed milliseconds between
// the clock reading right before the first call and right after the last.
type invoker func(ctx context.Context, n int, now clock.Now) (float64, error)

// Task is a named, immutable unit of work.
type Task struct {
	name   string
	kind   Kind
	invoke invoker
}

// New builds a task from body. Supported body types:
//
//	func()
//	func() error
//	func(context.Context) error
//	func() <-chan error
//	func(context.Context) <-chan error
func New(name string, body any) (*Task, error) {
	if name == "" {
		return nil, errors.New("task name is empty")
	}

	t := &Task{name: name}
	switch fn := body.(type) {
	case func():
		t.kind, t.invoke = Sync, compileSync(fn)
	case func() error:
		t.kind, t.invoke = SyncErr, compileSyncErr(func(context.Context) error { return fn() })
	case func(context.Context) error:
		t.kind, t.invoke = SyncErr, compileSyncErr(fn)
	case func() <-chan error:
		t.kind, t.invoke = Async, compileAsync(func(context.Context) <-chan error { return fn() })
	case func(context.Context) <-chan error:
		t.kind, t.invoke = Async, compileAsync(fn)
	case nil:
		return nil, fmt.Errorf("task %q: body is nil", name)
	default:
		return nil, fmt.Errorf("task %q: %w: %T", name, ErrUnsupportedBody, body)
	}
	return t, nil
}

func (t *Task) Name() string { return t.name }
func (t *Task) Kind() Kind   { return t.kind }

// Invoke calls the body n times and returns the elapsed milliseconds.
// n <= 0 returns immediately without calling the body. A panic in the body
// is recovered and returned as an error.
func (t *Task) Invoke(ctx context.Context, n int, now clock.Now) (elapsed float64, err error) {
	if n <= 0 {
		return 0, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.invoke(ctx, n, now)
}

func compileSync(fn func()) invoker {
	return func(_ context.Context, n int, now clock.Now) (float64, error) {
		start := now()
		for i := n; i > 0; i-- {
			fn()
		}
		return now() - start, nil
	}
}

func compileSyncErr(fn func(context.Context) error) invoker {
	return func(ctx context.Context, n int, now clock.Now) (float64, error) {
		start := now()
		for i := n; i > 0; i-- {
			if err := fn(ctx); err != nil {
				return now() - start, err
			}
		}
		return now() - start, nil
	}
}

// compileAsync awaits each call before issuing the next one. A nil channel
// counts as an immediately completed call.
func compileAsync(fn func(context.Context) <-chan error) invoker {
	return func(ctx context.Context, n int, now clock.Now) (float64, error) {
		start := now()
		for i := n; i > 0; i-- {
			done := fn(ctx)
			if done == nil {
				continue
			}
			if err := <-done; err != nil {
				return now() - start, err
			}
		}
		return now() - start, nil
	}
}
