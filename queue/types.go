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

import "context"

// State is the scheduler's state.
type State int

const (
	// StateIdle means there is no in-flight dispatch and no pending retry.
	StateIdle State = iota
	// StateProcessing means a dispatch is awaiting requestDidSucceed/requestDidFail.
	StateProcessing
	// StateWaitingForRetry means a failed dispatch scheduled a retry timer.
	StateWaitingForRetry
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateWaitingForRetry:
		return "waitingForRetry"
	default:
		return "unknown"
	}
}

// ProcessResult is the delegate's report of what processNext did.
type ProcessResult int

const (
	// DidNotProcess means there was nothing to dequeue.
	DidNotProcess ProcessResult = iota
	// ProcessedBarrier means a barrier request was sent; the scheduler
	// waits for requestDidSucceed/requestDidFail before considering more.
	ProcessedBarrier
	// ProcessedConcurrent means a concurrent request was sent; the
	// scheduler re-invokes processNext in the same activation.
	ProcessedConcurrent
)

func (r ProcessResult) String() string {
	switch r {
	case DidNotProcess:
		return "didNotProcess"
	case ProcessedBarrier:
		return "processedBarrier"
	case ProcessedConcurrent:
		return "processedConcurrent"
	default:
		return "unknown"
	}
}

// ProcessNext is the delegate invoked by the scheduler every time it needs
// to decide whether to dequeue and dispatch a request. Implementations
// report the dispatch's kind via ProcessResult and are responsible for
// eventually calling RequestDidSucceed/RequestDidFail on the scheduler for
// any ProcessedBarrier or ProcessedConcurrent dispatch.
type ProcessNext func(ctx context.Context) ProcessResult

// RequestSender accepts a dequeued request and ultimately signals back to
// the scheduler via RequestDidSucceed/RequestDidFail. A ProcessNext
// delegate typically wraps one of these per dequeue.
type RequestSender interface {
	Send(ctx context.Context, req any) error
}
