// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/filexor/pkg/config"
	"github.com/walteh/filexor/pkg/log"
	"github.com/walteh/filexor/pkg/operation"
	"github.com/walteh/filexor/pkg/schedule"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the raw command line values before they become a config.Config
type rootFlags struct {
	configFile string
	debug      bool
	strict     bool

	mask       string
	output     string
	inputDir   string
	delete     bool
	overwrite  bool
	intervalMS int
	xor        string
	single     bool
	watch      bool
	maxProbe   int
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "filexor",
		Short: "XOR files matching a mask into an output directory",
		Long: `filexor picks up files matching a mask in the input directory, XORs
their content with a repeating 8-byte key and writes the result to the
output directory. Existing outputs get a numeric suffix unless --overwrite
is set. It runs once with --single, otherwise it polls until interrupted.`,
		Example: `  filexor -m '*.bin' -o out -x 00000000000000FF -s
  filexor -m '*.dat' -o /srv/out -d -i 500 --watch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(f.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	addRootFlags(cmd, f)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags registers the flags; the short forms are the ones the tool has always had
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.mask, "mask", "m", "", "input file mask")
	flags.StringVarP(&f.output, "output", "o", "", "directory for the resulting files")
	flags.StringVar(&f.inputDir, "dir", config.DefaultInputDir, "directory scanned for input files")
	flags.BoolVarP(&f.delete, "delete", "d", false, "delete input files after writing")
	flags.BoolVarP(&f.overwrite, "overwrite", "w", false, "overwrite existing output files")
	flags.IntVarP(&f.intervalMS, "interval", "i", int(config.DefaultInterval.Milliseconds()), "poll interval in milliseconds")
	flags.StringVarP(&f.xor, "xor", "x", "0000000000000000", "8-byte XOR value in hex")
	flags.BoolVarP(&f.single, "single", "s", false, "process once and exit")
	flags.BoolVar(&f.watch, "watch", false, "also wake on filesystem events")
	flags.IntVar(&f.maxProbe, "max-probe", config.DefaultMaxProbe, "maximum numeric suffix tried per file, 0 for no limit")
	flags.BoolVar(&f.strict, "strict", false, "exit non-zero if any file failed in single-run mode")

	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "config file (.hcl, .yaml, .json)")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// resolveConfig layers explicitly set flags over the config file (or the defaults) and validates the result
func resolveConfig(ctx context.Context, flags *pflag.FlagSet, f *rootFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.Load(ctx, f.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = *loaded
	}

	if flags.Changed("mask") {
		cfg.Mask = f.mask
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("dir") {
		cfg.InputDir = f.inputDir
	}
	if flags.Changed("delete") {
		cfg.Delete = f.delete
	}
	if flags.Changed("overwrite") {
		cfg.Overwrite = f.overwrite
	}
	if flags.Changed("interval") {
		cfg.Interval = msToDuration(f.intervalMS)
	}
	if flags.Changed("xor") {
		key, err := config.ParseKey(f.xor)
		if err != nil {
			return nil, err
		}
		cfg.Key = key
	}
	if flags.Changed("single") {
		cfg.Single = f.single
	}
	if flags.Changed("watch") {
		cfg.Watch = f.watch
	}
	if flags.Changed("max-probe") {
		cfg.MaxProbe = f.maxProbe
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// 🏃 run resolves the configuration, prepares the output directory and drives the scheduler
func run(cmd *cobra.Command, f *rootFlags) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(ctx, cmd.Flags(), f)
	if err != nil {
		return errors.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}

	console := log.NewWithLogger(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
	ctx = log.NewContext(ctx, console)
	console.Header(cfg.String())

	op, err := operation.NewProcessOperation(operation.Options{Config: cfg, Logger: console})
	if err != nil {
		return errors.Errorf("creating process operation: %w", err)
	}

	var notifier schedule.Notifier
	if cfg.Watch && !cfg.Single {
		n, err := schedule.NewFSNotifier(cfg.InputDir, cfg.Mask)
		if err != nil {
			console.Warningf("filesystem events unavailable, polling only: %v", err)
		} else {
			notifier = n
		}
	}

	sched, err := schedule.New(schedule.Options{
		Operation: op,
		Single:    cfg.Single,
		Interval:  cfg.Interval,
		Notifier:  notifier,
	})
	if err != nil {
		if n, ok := notifier.(*schedule.FSNotifier); ok {
			n.Close()
		}
		return errors.Errorf("creating scheduler: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return errors.Errorf("running scheduler: %w", err)
	}

	if !cfg.Single {
		console.Info("stopped")
		return nil
	}

	report := sched.LastReport()
	if err := renderSummary(cmd.OutOrStdout(), report); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering summary")
	}
	if report == nil || report.Empty() {
		return nil
	}

	c := report.Counts()
	failed := c.Unreadable + c.Unwritable + c.DeleteFailed
	if !report.Failed() {
		console.Successf("%d/%d files processed", c.Succeeded, c.Total())
		return nil
	}

	console.Warningf("%d of %d files failed", failed, c.Total())
	if f.strict {
		return errors.Errorf("%d of %d files failed", failed, c.Total())
	}
	return nil
}
