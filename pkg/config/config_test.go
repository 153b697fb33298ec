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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flowlogs.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeConfig(t, `{
		"source": "nats",
		"time_format": "24h",
		"hidden_columns": ["protocol"],
		"nats": {"url": "nats://127.0.0.1:4222", "stream_name": "flowlogs", "subject": "flowlogs.l3"}
	}`)

	var cfg models.ViewerConfig

	require.NoError(t, NewConfig(logger.NewTestLogger()).Load(context.Background(), path, &cfg))
	require.NoError(t, ValidateConfig(&cfg))

	assert.Equal(t, models.SourceNATS, cfg.Source)
	assert.Equal(t, models.TimeFormat24h, cfg.TimeFormat)
	assert.Equal(t, []string{"protocol"}, cfg.HiddenColumns)
	require.NotNil(t, cfg.NATS)
	assert.Equal(t, "flowlogs.l3", cfg.NATS.Subject)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeConfig(t, `{"source": "file", "fiel": "flows.json"}`)

	var cfg models.ViewerConfig

	err := NewConfig(nil).Load(context.Background(), path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fiel")
}

func TestValidateAfterLoadSurfacesErrors(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeConfig(t, `{"source": "cnpg", "cnpg": {"database": "flows"}}`)

	var cfg models.ViewerConfig

	require.NoError(t, NewConfig(nil).Load(context.Background(), path, &cfg))

	err := ValidateConfig(&cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingCNPGHost))
}

func TestLoadFileRequiresPath(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	var cfg models.ViewerConfig

	err := NewConfig(nil).Load(context.Background(), "", &cfg)
	assert.True(t, errors.Is(err, errMissingConfigPath))
}

func TestLoadInvalidSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "kv")

	var cfg models.ViewerConfig

	err := NewConfig(nil).Load(context.Background(), "ignored.json", &cfg)
	assert.True(t, errors.Is(err, errInvalidConfigSource))
}

func TestEnvLoaderIndividualVariables(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "")
	t.Setenv("FLOWLOGS_SOURCE", "cnpg")
	t.Setenv("FLOWLOGS_LIMIT", "250")
	t.Setenv("FLOWLOGS_HIDDEN_COLUMNS", "protocol, dest_port")
	t.Setenv("FLOWLOGS_CNPG_HOST", "cnpg-rw.flows")
	t.Setenv("FLOWLOGS_CNPG_PORT", "6432")
	t.Setenv("FLOWLOGS_CNPG_DATABASE", "telemetry")

	cfg := models.DefaultViewerConfig()

	require.NoError(t, NewConfig(nil).Load(context.Background(), "", cfg))
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, models.SourceCNPG, cfg.Source)
	assert.Equal(t, 250, cfg.Limit)
	assert.Equal(t, []string{"protocol", "dest_port"}, cfg.HiddenColumns)
	require.NotNil(t, cfg.CNPG)
	assert.Equal(t, "cnpg-rw.flows", cfg.CNPG.Host)
	assert.Equal(t, 6432, cfg.CNPG.Port)
	assert.Nil(t, cfg.NATS, "unconfigured blocks stay nil")
	assert.Equal(t, models.TimeFormat12h, cfg.TimeFormat, "defaults survive when unset")
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("FLOWLOGS_CONFIG_JSON", `{"source": "file", "file": "/var/log/flows.jsonl"}`)

	var cfg models.ViewerConfig

	require.NoError(t, NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix).Load(context.Background(), "", &cfg))
	assert.Equal(t, "/var/log/flows.jsonl", cfg.File)
}

func TestEnvLoaderBadValue(t *testing.T) {
	t.Setenv("FLOWLOGS_LIMIT", "lots")

	var cfg models.ViewerConfig

	err := NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix).Load(context.Background(), "", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLOWLOGS_LIMIT")
}

func TestEnvLoaderRejectsNonPointer(t *testing.T) {
	loader := NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix)

	assert.ErrorIs(t, loader.Load(context.Background(), "", models.ViewerConfig{}), ErrDstMustBeNonNilPointer)

	n := 0
	assert.ErrorIs(t, loader.Load(context.Background(), "", &n), ErrDstMustBePointerToStruct)
}

func TestEnvSelected(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	assert.True(t, EnvSelected())

	t.Setenv("CONFIG_SOURCE", "file")
	assert.False(t, EnvSelected())

	t.Setenv("CONFIG_SOURCE", "")
	assert.False(t, EnvSelected())
}
