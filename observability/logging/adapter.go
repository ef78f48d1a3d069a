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

package logging

import "context"

// ErrorLogger adapts a context-aware, Field-based Logger to the narrow
// `Error(msg string, fields ...any)` shape expected by corekit.Manager's
// and queue.Scheduler's Logger options. Those components run outside of
// any one request's context, so ErrorLogger always reports against a
// fixed background context; callers needing request-scoped fields should
// call Logger.With beforehand and adapt the result.
type ErrorLogger struct {
	ctx    context.Context
	logger Logger
}

// NewErrorLogger wraps logger for use as a corekit.Logger / queue.Logger.
func NewErrorLogger(logger Logger) *ErrorLogger {
	return &ErrorLogger{ctx: context.Background(), logger: logger}
}

// Error reports an error as a structured log entry. fields is interpreted
// as alternating string keys and values, the convention corekit and queue
// already use at their call sites.
func (e *ErrorLogger) Error(msg string, fields ...any) {
	e.logger.Error(e.ctx, msg, keyValueFields(fields)...)
}

func keyValueFields(kv []any) []Field {
	fields := make([]Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, Any(key, kv[i+1]))
	}
	return fields
}
