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

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is a Logger backed by go.uber.org/zap, for deployments that
// want zap's sinks, sampling, and encoders instead of StructuredLogger's
// plain JSON writer.
type ZapLogger struct {
	base         *zap.Logger
	atomicLevel  zap.AtomicLevel
	mu           sync.Mutex
	fields       []Field
	samplingRate float64
}

// NewZapLogger builds a production-encoder ZapLogger at the given level.
func NewZapLogger(level Level) (*ZapLogger, error) {
	al := zap.NewAtomicLevelAt(toZapLevel(level))
	cfg := zap.NewProductionConfig()
	cfg.Level = al

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{base: base, atomicLevel: al, samplingRate: 1.0}, nil
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func (l *ZapLogger) log(ctx context.Context, level zapcore.Level, msg string, fields ...Field) {
	ce := l.base.Check(level, msg)
	if ce == nil {
		return
	}

	l.mu.Lock()
	persistent := l.fields
	l.mu.Unlock()

	all := make([]Field, 0, len(persistent)+len(fields)+4)
	all = append(all, extractContextFields(ctx)...)
	all = append(all, persistent...)
	all = append(all, fields...)

	ce.Write(toZapFields(all)...)
}

// Debug logs a debug message, applying the configured sampling rate.
func (l *ZapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.mu.Lock()
	rate := l.samplingRate
	l.mu.Unlock()

	if rate < 1.0 && rand.Float64() > rate {
		return
	}
	l.log(ctx, zapcore.DebugLevel, msg, fields...)
}

// Info logs an informational message.
func (l *ZapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields...)
}

// Warn logs a warning message.
func (l *ZapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields...)
}

// Error logs an error message.
func (l *ZapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields...)
}

// Fatal logs a fatal message; zap exits the process after writing it.
func (l *ZapLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.FatalLevel, msg, fields...)
}

// With creates a child ZapLogger with persistent fields appended.
func (l *ZapLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make([]Field, len(l.fields)+len(fields))
	copy(merged, l.fields)
	copy(merged[len(l.fields):], fields)

	return &ZapLogger{base: l.base, atomicLevel: l.atomicLevel, fields: merged, samplingRate: l.samplingRate}
}

// SetLevel sets the minimum log level.
func (l *ZapLogger) SetLevel(level Level) {
	l.atomicLevel.SetLevel(toZapLevel(level))
}

// SetSamplingRate sets the sampling rate for debug logs.
func (l *ZapLogger) SetSamplingRate(rate float64) {
	if rate < 0.0 {
		rate = 0.0
	}
	if rate > 1.0 {
		rate = 1.0
	}

	l.mu.Lock()
	l.samplingRate = rate
	l.mu.Unlock()
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}
