// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package runloop provides a single-goroutine, run-to-completion task queue.
// Tasks run one at a time in the order they were queued; a task never
// interleaves with another.
package runloop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/metrics"
	"github.com/rs/zerolog"
)

var (
	// ErrStopped is returned when a task is offered to a closed loop.
	ErrStopped = errors.New("run loop stopped")
	// ErrTaskPanicked is returned by Do when the task panicked.
	ErrTaskPanicked = errors.New("run loop task panicked")
)

// Loop executes queued tasks on one goroutine. The queue is unbounded so
// Post never blocks the caller.
type Loop struct {
	name   string
	logger zerolog.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a loop. Close must be called to stop its goroutine.
func New(name string) *Loop {
	l := &Loop{
		name:   name,
		logger: log.WithComponent("runloop").With().Str("loop", name).Logger(),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Post queues fn without waiting. It reports false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	metrics.RunLoopQueueDepth.Inc()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do queues fn and waits for it to finish. Do must not be called from a task
// running on the same loop.
//
// If ctx ends first Do returns ctx.Err(); the task may still run later.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	var taskErr error
	ok := l.Post(func() {
		defer close(finished)
		defer func() {
			if r := recover(); r != nil {
				taskErr = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
				l.recordPanic(r)
			}
		}()
		fn()
	})
	if !ok {
		return ErrStopped
	}
	select {
	case <-finished:
		return taskErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, drains what is already queued and waits for
// the loop goroutine to exit. Close must not be called from a task.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		select {
		case l.wake <- struct{}{}:
		default:
		}
	})
	<-l.done
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		task, ok := l.next()
		if !ok {
			return
		}
		l.exec(task)
	}
}

func (l *Loop) next() (func(), bool) {
	for {
		l.mu.Lock()
		if len(l.queue) > 0 {
			task := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()
			metrics.RunLoopQueueDepth.Dec()
			return task, true
		}
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return nil, false
		}
		<-l.wake
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.recordPanic(r)
		}
	}()
	task()
}

func (l *Loop) recordPanic(r any) {
	metrics.RunLoopPanicsTotal.Inc()
	l.logger.Error().
		Str(log.FieldEvent, "runloop.panic").
		Interface("panic", r).
		Bytes("stack", debug.Stack()).
		Msg("recovered from panic in run loop task")
}
