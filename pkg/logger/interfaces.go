/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) Logger
	SetLevel(level zerolog.Level)
}

// zlogger implements Logger without touching global state.
type zlogger struct {
	logger zerolog.Logger
}

// New builds a standalone Logger from config. A nil config uses DefaultConfig.
// A log file opened for it stays open for the life of the process.
func New(config *Config) (Logger, error) {
	l, _, err := build(config)
	if err != nil {
		return nil, err
	}

	return &zlogger{logger: l}, nil
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(l zerolog.Logger) Logger {
	return &zlogger{logger: l}
}

// Global returns a Logger backed by the package-level logger as it is now.
func Global() Logger {
	return &zlogger{logger: globalLogger}
}

func (z *zlogger) Debug() *zerolog.Event { return z.logger.Debug() }
func (z *zlogger) Info() *zerolog.Event  { return z.logger.Info() }
func (z *zlogger) Warn() *zerolog.Event  { return z.logger.Warn() }
func (z *zlogger) Error() *zerolog.Event { return z.logger.Error() }
func (z *zlogger) With() zerolog.Context { return z.logger.With() }

func (z *zlogger) WithComponent(component string) Logger {
	return &zlogger{logger: z.logger.With().Str("component", component).Logger()}
}

func (z *zlogger) SetLevel(level zerolog.Level) {
	z.logger = z.logger.Level(level)
}

// NewTestLogger creates a no-op logger for testing that discards all output
func NewTestLogger() Logger {
	return &zlogger{logger: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}
