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

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
	OutputFile    = "file"
	OutputDiscard = "discard"

	defaultLogFilePerms = 0o600
)

var (
	errMissingLogFile = errors.New("log output is file but no file path was set")
	errUnknownOutput  = errors.New("unknown log output")
)

var (
	globalLogger zerolog.Logger
	// globalOutput is the log file opened by Init, if any.
	globalOutput io.Closer
)

type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

func init() {
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init replaces the global logger. The viewer owns the terminal, so callers
// running interactively should point Output at a file or discard. A log file
// opened by an earlier Init is closed.
func Init(config *Config) error {
	l, closer, err := build(config)
	if err != nil {
		return err
	}

	prev := globalOutput

	globalLogger = l
	globalOutput = closer
	log.Logger = globalLogger

	if prev != nil {
		return prev.Close()
	}

	return nil
}

// Shutdown closes the log file opened by Init and falls back to stderr.
func Shutdown() error {
	prev := globalOutput

	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	globalOutput = nil
	log.Logger = globalLogger

	if prev != nil {
		return prev.Close()
	}

	return nil
}

func build(config *Config) (zerolog.Logger, io.Closer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output, closer, err := openOutput(config)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			if closer != nil {
				_ = closer.Close()
			}

			return zerolog.Nop(), nil, err
		}
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger(), closer, nil
}

// openOutput returns the writer for config and, for log files, the handle
// to close.
func openOutput(config *Config) (io.Writer, io.Closer, error) {
	switch config.Output {
	case OutputStdout:
		return os.Stdout, nil, nil
	case OutputStderr, "":
		return os.Stderr, nil, nil
	case OutputDiscard:
		return io.Discard, nil, nil
	case OutputFile:
		if config.File == "" {
			return nil, nil, errMissingLogFile
		}

		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultLogFilePerms)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", config.File, err)
		}

		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownOutput, config.Output)
	}
}
