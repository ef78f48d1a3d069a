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
)

// Request is one unit of work queued for a Dispatcher. Barrier requests
// must fully complete (success or failure observed by the Scheduler)
// before any later request begins; concurrent requests may be dispatched
// alongside others and may complete in any order, per spec §5's ordering
// guarantee for barrier vs. concurrent requests.
type Request struct {
	Payload any
	Barrier bool
}

// Dispatcher is a FIFO-ordered ProcessNext delegate backed by a
// RequestSender. It is the default, concrete implementation of the
// processNext contract: ProcessNext dequeues the head of the queue, sends it
// via the RequestSender in its own goroutine, and reports the outcome
// back to the attached Scheduler.
type Dispatcher struct {
	mu        sync.Mutex
	pending   []Request
	sender    RequestSender
	scheduler *Scheduler
	logger    Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger overrides the Dispatcher's Logger.
func WithDispatcherLogger(l Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher returns a Dispatcher sending requests through sender. Call
// Attach with the Scheduler that will drive it before enqueuing work.
func NewDispatcher(sender RequestSender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{sender: sender, logger: noopLogger{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Attach binds the Dispatcher to the Scheduler it reports outcomes to.
func (d *Dispatcher) Attach(s *Scheduler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduler = s
}

// Enqueue appends a request to the tail of the queue. Callers are
// expected to follow this with Scheduler.DidEnqueueNewRequest.
func (d *Dispatcher) Enqueue(r Request) {
	d.mu.Lock()
	d.pending = append(d.pending, r)
	d.mu.Unlock()
}

// Len reports the number of requests still queued.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// ProcessNext implements the ProcessNext delegate signature: it dequeues
// the head request, if any, dispatches it asynchronously via the
// RequestSender, and reports ProcessedBarrier or ProcessedConcurrent so
// the Scheduler's concurrent-dispatch loop knows whether to immediately
// ask for more.
func (d *Dispatcher) ProcessNext(ctx context.Context) ProcessResult {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return DidNotProcess
	}
	req := d.pending[0]
	d.pending = d.pending[1:]
	d.mu.Unlock()

	go d.send(ctx, req)

	if req.Barrier {
		return ProcessedBarrier
	}
	return ProcessedConcurrent
}

func (d *Dispatcher) send(ctx context.Context, req Request) {
	err := d.sender.Send(ctx, req.Payload)

	d.mu.Lock()
	s := d.scheduler
	d.mu.Unlock()
	if s == nil {
		return
	}

	if err != nil {
		d.logger.Error("request dispatch failed", "error", err)
		// Put the failed request back at the head so the retry resends it.
		d.mu.Lock()
		d.pending = append([]Request{req}, d.pending...)
		d.mu.Unlock()
		s.RequestDidFail(ctx)
		return
	}
	s.RequestDidSucceed(ctx)
}
