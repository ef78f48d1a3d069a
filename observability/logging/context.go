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

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	traceIDKey    contextKey = "trace_id"
	spanIDKey     contextKey = "span_id"
	entityTypeKey contextKey = "entity_type"
	storeLevelKey contextKey = "store_level"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if v := ctx.Value(traceIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithSpanID adds a span ID to the context.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

// GetSpanID retrieves the span ID from the context.
func GetSpanID(ctx context.Context) string {
	if v := ctx.Value(spanIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithEntityType tags the context with the entity type a Core Manager
// operation is acting on.
func WithEntityType(ctx context.Context, entityType string) context.Context {
	return context.WithValue(ctx, entityTypeKey, entityType)
}

// GetEntityType retrieves the entity type from the context.
func GetEntityType(ctx context.Context) string {
	if v := ctx.Value(entityTypeKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithStoreLevel tags the context with the store level (e.g. "local",
// "remote") a log entry pertains to.
func WithStoreLevel(ctx context.Context, level string) context.Context {
	return context.WithValue(ctx, storeLevelKey, level)
}

// GetStoreLevel retrieves the store level from the context.
func GetStoreLevel(ctx context.Context) string {
	if v := ctx.Value(storeLevelKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// extractContextFields extracts all known context fields.
func extractContextFields(ctx context.Context) []Field {
	fields := make([]Field, 0, 5)

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, String("request_id", requestID))
	}

	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, String("trace_id", traceID))
	}

	if spanID := GetSpanID(ctx); spanID != "" {
		fields = append(fields, String("span_id", spanID))
	}

	if entityType := GetEntityType(ctx); entityType != "" {
		fields = append(fields, String("entity_type", entityType))
	}

	if storeLevel := GetStoreLevel(ctx); storeLevel != "" {
		fields = append(fields, String("store_level", storeLevel))
	}

	return fields
}
