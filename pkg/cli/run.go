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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/carverauto/flowlogs/pkg/columns"
	"github.com/carverauto/flowlogs/pkg/config"
	"github.com/carverauto/flowlogs/pkg/logger"
	"github.com/carverauto/flowlogs/pkg/models"
	"github.com/carverauto/flowlogs/pkg/sources"
	"github.com/carverauto/flowlogs/pkg/table"
)

// openSource is replaced in tests.
var openSource = sources.New

// Run loads the viewer configuration, opens the flow log source and either
// starts the interactive table or prints a plain one to out.
func Run(ctx context.Context, cmd *CmdConfig, out io.Writer) error {
	viewer, err := loadViewerConfig(ctx, cmd)
	if err != nil {
		return err
	}

	interactive := !cmd.Plain && isTerminal(out)

	log, err := initLogger(viewer, interactive)
	if err != nil {
		return err
	}

	defer func() {
		if err := logger.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}()

	src, err := openSource(ctx, viewer, logger.Global())
	if err != nil {
		return fmt.Errorf("%w: %w", errSourceFailed, err)
	}

	defer func() {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close flow log source")
		}
	}()

	rows, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", errLoadFailed, err)
	}

	log.Info().Str("source", viewer.Source).Int("rows", len(rows)).Msg("Loaded flow logs")

	builderOpts, err := builderOptions(viewer)
	if err != nil {
		return err
	}

	if !interactive {
		descs := columns.NewBuilder(builderOpts...).Build(nil)
		hideColumns(descs, viewer.HiddenColumns)

		return table.RenderPlain(out, descs, rows)
	}

	return runInteractive(ctx, viewer, src, rows, builderOpts, log)
}

func runInteractive(
	ctx context.Context,
	viewer *models.ViewerConfig,
	src sources.Source,
	rows []*models.FlowLog,
	builderOpts []columns.Option,
	log logger.Logger,
) error {
	styles := table.DefaultStyles()
	builderOpts = append(builderOpts, columns.WithActionRenderer(table.NewActionIndicator(styles)))

	model := table.New(
		table.WithStyles(styles),
		table.WithBuilder(columns.NewBuilder(builderOpts...)),
		table.WithLogger(logger.Global().WithComponent("table")),
		table.WithRows(rows),
		table.WithMaxRows(viewer.Limit),
		table.WithHiddenColumns(viewer.HiddenColumns),
	)

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if viewer.Source == models.SourceFile && viewer.File == "-" {
		// stdin carries the flow logs, read keys from the terminal
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	p := tea.NewProgram(model, programOpts...)

	streamCtx, stop := context.WithCancel(ctx)
	defer stop()

	if streamer, ok := src.(sources.Streamer); ok {
		go func() {
			err := streamer.Stream(streamCtx, func(f *models.FlowLog) {
				p.Send(table.RowsMsg{Rows: []*models.FlowLog{f}})
			})
			if err != nil {
				log.Warn().Err(err).Msg("Flow log stream stopped")
				p.Send(table.ErrMsg{Err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	return nil
}

// loadViewerConfig merges defaults, the config file or environment, and flags.
func loadViewerConfig(ctx context.Context, cmd *CmdConfig) (*models.ViewerConfig, error) {
	viewer := models.DefaultViewerConfig()

	if cmd.ConfigFile != "" || config.EnvSelected() {
		loader := config.NewConfig(logger.Global().WithComponent("config"))
		if err := loader.Load(ctx, cmd.ConfigFile, viewer); err != nil {
			return nil, fmt.Errorf("%w: %w", errConfigLoadFailed, err)
		}
	}

	applyOverrides(viewer, cmd)

	if err := config.ValidateConfig(viewer); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}

	return viewer, nil
}

func applyOverrides(viewer *models.ViewerConfig, cmd *CmdConfig) {
	if cmd.Source != "" {
		viewer.Source = cmd.Source
	}

	if cmd.File != "" {
		viewer.File = cmd.File
	}

	if cmd.LimitSet {
		viewer.Limit = cmd.Limit
	}

	if cmd.TimeFormat != "" {
		viewer.TimeFormat = cmd.TimeFormat
	}

	if cmd.Timezone != "" {
		viewer.Timezone = cmd.Timezone
	}

	if len(cmd.HiddenColumns) > 0 {
		viewer.HiddenColumns = cmd.HiddenColumns
	}
}

func initLogger(viewer *models.ViewerConfig, interactive bool) (logger.Logger, error) {
	cfg := viewer.Logging

	if cfg == nil {
		if interactive {
			cfg = logger.InteractiveConfig()
		} else {
			cfg = logger.DefaultConfig()
		}
	}

	if err := logger.Init(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errLoggerInit, err)
	}

	return logger.Global().WithComponent("cli"), nil
}

func builderOptions(viewer *models.ViewerConfig) ([]columns.Option, error) {
	loc, err := viewer.Location()
	if err != nil {
		return nil, err
	}

	layout := columns.Layout12h
	if viewer.TimeFormat == models.TimeFormat24h {
		layout = columns.Layout24h
	}

	return []columns.Option{
		columns.WithTimeLayout(layout),
		columns.WithLocation(loc),
		columns.WithLogger(logger.Global().WithComponent("columns")),
	}, nil
}

func hideColumns(descs []columns.Descriptor, ids []string) {
	for _, id := range ids {
		if i := columns.Find(descs, id); i >= 0 && descs[i].Kind == columns.KindData {
			descs[i].Visible = false
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
