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

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/carverauto/flowlogs/pkg/logger"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")
)

// EnvConfigLoader loads configuration from environment variables named after
// the json tags of dst, upper-cased and joined with underscores. With the
// FLOWLOGS_ prefix, NATS.StreamName is read from FLOWLOGS_NATS_STREAM_NAME.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

// NewEnvConfigLoader creates a new environment variable config loader.
func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

// Load implements ConfigLoader. A complete document in <prefix>CONFIG_JSON wins
// over individual variables.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	if raw := os.Getenv(e.prefix + "CONFIG_JSON"); raw != "" {
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
		}

		e.logger.Info().Msg("Loaded configuration from CONFIG_JSON environment variable")

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	return e.loadStruct(v, e.prefix)
}

func (e *EnvConfigLoader) loadStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		envName := prefix + strings.ToUpper(name)

		if err := e.setField(field, envName); err != nil {
			return err
		}
	}

	return nil
}

func (e *EnvConfigLoader) setField(field reflect.Value, envName string) error {
	if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
		if !hasEnvPrefix(envName + "_") {
			return nil
		}

		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}

		return e.loadStruct(field.Elem(), envName+"_")
	}

	if field.Kind() == reflect.Struct {
		return e.loadStruct(field, envName+"_")
	}

	raw, ok := os.LookupEnv(envName)
	if !ok || raw == "" {
		return nil
	}

	if err := setFromString(field, raw); err != nil {
		return fmt.Errorf("%s: %w", envName, err)
	}

	e.logger.Debug().Str("env", envName).Msg("Loaded value from environment variable")

	return nil
}

func setFromString(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}

		field.SetInt(n)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return json.Unmarshal([]byte(raw), field.Addr().Interface())
		}

		parts := strings.Split(raw, ",")
		out := reflect.MakeSlice(field.Type(), 0, len(parts))

		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = reflect.Append(out, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}

		field.Set(out)
	default:
		return json.Unmarshal([]byte(raw), field.Addr().Interface())
	}

	return nil
}

// hasEnvPrefix reports whether any variable starts with prefix, so optional
// nested blocks stay nil when nothing configures them.
func hasEnvPrefix(prefix string) bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}

	return false
}
