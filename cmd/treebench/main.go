// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command treebench repeatedly builds, searches and tears down
// balanced and unbalanced search trees over a shuffled key set,
// reporting tree operations per second for each method.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biogo/treebench/bench"
	"github.com/biogo/treebench/tree"
)

var (
	cfg         = bench.Default()
	cfgPath     string
	duration    time.Duration
	metricsAddr string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "treebench (flags)",
	Short: "tree data structure stress benchmark",
	Long: `treebench exercises five search tree methods (` + strings.Join(bench.Methods()[1:], ", ") + `)
over a shared shuffled key set, verifying every lookup and reporting
tree operations per second per method.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBench,
}

func main() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.Method, "tree-method", cfg.Method,
		"tree method to exercise: "+strings.Join(bench.Methods(), ", "))
	f.Uint32Var(&cfg.Size, "tree-size", cfg.Size,
		"number of nodes in the benchmark array")
	f.Uint64Var(&cfg.Ops, "tree-ops", 0,
		"stop after this many rounds (0, no limit)")
	f.BoolVar(&cfg.Verify, "verify", false,
		"also run reverse-order and shuffled-order lookup passes")
	f.Uint32Var(&cfg.Seed, "seed", cfg.Seed, "shuffle seed")
	f.IntVar(&cfg.Instances, "instances", 1,
		"number of independent benchmark instances")
	f.DurationVarP(&duration, "duration", "d", 10*time.Second,
		"the duration to run (0, run forever)")
	f.StringVar(&cfgPath, "config", "",
		"yaml config file; command line flags override it")
	f.StringVar(&metricsAddr, "metrics-addr", "",
		"expose prometheus metrics on this address")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("treebench:", err)
		os.Exit(exitCode(err))
	}
}

func runBench(cmd *cobra.Command, _ []string) error {
	if cfgPath != "" {
		if err := applyConfigFile(cmd); err != nil {
			return err
		}
	}

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	var reg prometheus.Registerer
	if metricsAddr != "" {
		reg = prometheus.DefaultRegisterer
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				log.Error("metrics listener failed", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", metricsAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	col, err := bench.RunInstances(ctx, cfg, log, reg)
	if col != nil {
		col.Report(log)
	}
	return err
}

// applyConfigFile loads the yaml config, keeping any value that was
// set explicitly on the command line.
func applyConfigFile(cmd *cobra.Command) error {
	fileCfg, err := bench.Load(cfgPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if !f.Changed("tree-method") {
		cfg.Method = fileCfg.Method
	}
	if !f.Changed("tree-size") {
		cfg.Size = fileCfg.Size
	}
	if !f.Changed("tree-ops") {
		cfg.Ops = fileCfg.Ops
	}
	if !f.Changed("verify") {
		cfg.Verify = fileCfg.Verify
	}
	if !f.Changed("seed") {
		cfg.Seed = fileCfg.Seed
	}
	if !f.Changed("instances") {
		cfg.Instances = fileCfg.Instances
	}
	if !f.Changed("duration") && fileCfg.Duration != 0 {
		duration = fileCfg.Duration
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.DisableCaller = true
	if verbose {
		c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return c.Build()
}

// exitCode distinguishes verification failure from resource
// exhaustion and from a method this build cannot run.
func exitCode(err error) int {
	switch {
	case errors.Is(err, tree.ErrUnavailable):
		return 2
	case errors.Is(err, tree.ErrResource):
		return 3
	default:
		return 1
	}
}
