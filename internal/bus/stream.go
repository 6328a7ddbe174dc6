// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package bus is an in-memory, in-process fan-out of typed events.
package bus

import (
	"sync"

	"github.com/ManuGH/sampleplayer/internal/metrics"
)

// Stream fans published values out to every subscriber. Each subscriber sees
// values in publish order. Publish never blocks: slow subscribers buffer
// without bound instead of stalling the publisher.
type Stream[T any] struct {
	name string

	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	closed bool
}

// NewStream returns an open stream. name labels the backlog metric.
func NewStream[T any](name string) *Stream[T] {
	return &Stream[T]{name: name, subs: make(map[*Subscription[T]]struct{})}
}

// Publish appends v to every subscriber's queue. Values published after Close
// are dropped.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for sub := range s.subs {
		sub.enqueue(v)
	}
}

// Subscribe registers a new subscriber. Subscribing to a closed stream
// yields a subscription whose channel is already closed.
func (s *Stream[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		stream: s,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		out:    make(chan T),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		sub.ended = true
	} else {
		s.subs[sub] = struct{}{}
	}
	s.mu.Unlock()

	go sub.pump()
	return sub
}

// Close ends the stream. Subscribers still receive everything published
// before Close, then their channels close.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[*Subscription[T]]struct{})
	s.mu.Unlock()

	for sub := range subs {
		sub.end()
	}
}

func (s *Stream[T]) remove(sub *Subscription[T]) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

// Subscription is one subscriber's ordered view of a stream.
type Subscription[T any] struct {
	stream *Stream[T]

	mu      sync.Mutex
	pending []T
	ended   bool

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	out      chan T
	done     chan struct{}
}

// C delivers values in publish order. It is closed after the stream or the
// subscription is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.out
}

// Close detaches the subscriber and discards anything not yet received.
func (s *Subscription[T]) Close() error {
	s.stream.remove(s)
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

func (s *Subscription[T]) enqueue(v T) {
	s.mu.Lock()
	s.pending = append(s.pending, v)
	backlog := len(s.pending)
	s.mu.Unlock()
	metrics.SetEventBacklog(s.stream.name, backlog)
	s.signal()
}

func (s *Subscription[T]) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// reportBacklog publishes what was queued while the last batch was delivered.
func (s *Subscription[T]) reportBacklog() {
	s.mu.Lock()
	backlog := len(s.pending)
	s.mu.Unlock()
	metrics.SetEventBacklog(s.stream.name, backlog)
}

func (s *Subscription[T]) pump() {
	defer close(s.done)
	defer close(s.out)
	for {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		ended := s.ended
		s.mu.Unlock()

		for _, v := range batch {
			select {
			case s.out <- v:
			case <-s.stop:
				return
			}
		}
		if len(batch) > 0 {
			s.reportBacklog()
			continue
		}
		if ended {
			return
		}
		select {
		case <-s.wake:
		case <-s.stop:
			return
		}
	}
}
