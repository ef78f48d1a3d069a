// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sage-x-project/entitykit/core/resilience"
)

// Logger is the narrow logging capability a Scheduler needs, satisfied by
// observability/logging.ErrorLogger.
type Logger interface {
	Error(msg string, fields ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBackoff overrides the retry backoff strategy. Defaults to
// resilience.ExponentialBackoff(100ms, 2.0, 5s).
func WithBackoff(b resilience.BackoffStrategy) Option {
	return func(s *Scheduler) { s.backoff = b }
}

// WithLogger overrides the Scheduler's Logger.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithMetrics overrides the Scheduler's Metrics.
func WithMetrics(mt Metrics) Option {
	return func(s *Scheduler) { s.metrics = mt }
}

// Scheduler is the API Client Queue Scheduler: a single state machine
// driving a ProcessNext delegate, retrying failed dispatches with backoff.
// A Scheduler is single-threaded by contract — events are expected to
// arrive from one logical operation queue — but its methods are safe to
// call from any goroutine since they serialize on an internal mutex.
type Scheduler struct {
	mu          sync.Mutex
	state       State
	processNext ProcessNext
	backoff     resilience.BackoffStrategy
	attempt     int
	timer       *time.Timer
	generation  int
	logger      Logger
	metrics     Metrics
}

// NewScheduler returns a Scheduler in state idle, driving processNext.
func NewScheduler(processNext ProcessNext, opts ...Option) *Scheduler {
	s := &Scheduler{
		state:       StateIdle,
		processNext: processNext,
		backoff:     resilience.ExponentialBackoff(100*time.Millisecond, 2.0, 5*time.Second),
		logger:      noopLogger{},
		metrics:     noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the scheduler's current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DidEnqueueNewRequest notifies the scheduler that a new request was
// queued. From idle it invokes processNext; from waitingForRetry it
// invalidates the pending timer first and invokes processNext; from
// processing it is ignored (a dispatch is already in flight).
func (s *Scheduler) DidEnqueueNewRequest(ctx context.Context) {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		s.runLoop(ctx)
	case StateWaitingForRetry:
		s.invalidateTimerLocked()
		s.mu.Unlock()
		s.runLoop(ctx)
	default: // StateProcessing
		s.mu.Unlock()
	}
}

// Flush forces a processNext invocation regardless of current state,
// invalidating any pending retry timer first.
func (s *Scheduler) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateWaitingForRetry {
		s.invalidateTimerLocked()
	}
	s.mu.Unlock()
	s.runLoop(ctx)
}

// RequestDidSucceed reports that the in-flight dispatch completed
// successfully, resetting the retry attempt counter and invoking
// processNext again.
func (s *Scheduler) RequestDidSucceed(ctx context.Context) {
	s.mu.Lock()
	s.attempt = 0
	s.mu.Unlock()
	s.runLoop(ctx)
}

// RequestDidFail reports that the in-flight dispatch failed, scheduling a
// single retry timer and entering waitingForRetry. The caller is
// responsible for only reporting failure for a dispatch the scheduler is
// still tracking (guarantee iii: a stale failure for a request a flush
// already superseded must not be reported).
func (s *Scheduler) RequestDidFail(ctx context.Context) {
	s.mu.Lock()
	s.attempt++
	delay := s.backoff(s.attempt)
	s.invalidateTimerLocked()
	gen := s.generation
	from := s.state
	s.state = StateWaitingForRetry
	s.timer = time.AfterFunc(delay, func() { s.timerFired(gen) })
	attempt := s.attempt
	s.mu.Unlock()
	s.metrics.RecordRetryScheduled(attempt)
	s.metrics.RecordTransition(from.String(), StateWaitingForRetry.String())
}

func (s *Scheduler) timerFired(gen int) {
	s.mu.Lock()
	if gen != s.generation || s.state != StateWaitingForRetry {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()
	s.runLoop(context.Background())
}

// invalidateTimerLocked stops any pending retry timer and bumps the
// generation counter so a race with an already-firing timer's callback is
// ignored, per guarantee (i): at most one retry timer exists at a time.
func (s *Scheduler) invalidateTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

// runLoop implements the concurrent-dispatch loop: it invokes processNext,
// and for as long as the delegate returns ProcessedConcurrent it
// re-invokes processNext synchronously in the same activation, stopping
// at the first ProcessedBarrier or DidNotProcess and setting the
// scheduler's final state from that result.
func (s *Scheduler) runLoop(ctx context.Context) {
	for {
		result := s.processNext(ctx)
		s.metrics.RecordProcessNext(result.String())
		switch result {
		case ProcessedConcurrent:
			continue
		case ProcessedBarrier:
			s.mu.Lock()
			from := s.state
			s.state = StateProcessing
			s.mu.Unlock()
			s.metrics.RecordTransition(from.String(), StateProcessing.String())
			return
		default: // DidNotProcess
			s.mu.Lock()
			from := s.state
			s.state = StateIdle
			s.mu.Unlock()
			s.metrics.RecordTransition(from.String(), StateIdle.String())
			return
		}
	}
}
