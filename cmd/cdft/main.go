/*
 * main.go, part of cdft.
 *
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//cdft obtains conceptual DFT reactivity descriptors for the molecules
//given in a configuration file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/config"
	"github.com/rmera/cdft/grid"
	"github.com/rmera/cdft/pipeline"
	"github.com/rmera/cdft/rdjson"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cdft:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cdft",
		Short:         "Conceptual DFT reactivity descriptors from QM calculations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCommand(), newStatsCommand())
	return cmd
}

type runOptions struct {
	configPath  string
	metricsPath string
	name        string
}

func newRunCommand() *cobra.Command {
	opts := new(runOptions)
	cmd := &cobra.Command{
		Use:   "run [molecule files]",
		Short: "Process the jobs in the configuration file",
		Long: "Process the jobs in the configuration file. If molecule files are given, they\n" +
			"form an additional job: one file in the FOA approximation, or the neutral,\n" +
			"cation and anion files, in that order, in the FD approximation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (default: CDFT_ environment variables only)")
	f.StringVar(&opts.metricsPath, "metrics", "", "write the prometheus metrics to this file at the end")
	f.StringVarP(&opts.name, "name", "n", "", "name for the job given on the command line")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func run(ctx context.Context, opts *runOptions, args []string) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Jobs = append(cfg.Jobs, config.Job{Name: opts.name, Files: args})
		config.ApplyDefaults(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if len(cfg.Jobs) == 0 {
		return fmt.Errorf("nothing to do: no jobs in the configuration or the command line")
	}
	log, err := pipeline.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()
	o, err := cfg.Options()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	metrics, err := pipeline.NewMetrics(reg)
	if err != nil {
		return err
	}
	sink := cfg.Sink()
	reqs := make([]pipeline.Request, 0, len(cfg.Jobs))
	for _, j := range cfg.Jobs {
		reqs = append(reqs, pipeline.Request{Name: j.Name, Molecules: readMolecules(log, j.Files), Options: o})
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	R := &pipeline.Runner{Workers: cfg.Workers, Logger: log, Metrics: metrics, Sink: sink}
	var results []*pipeline.Result
	var runErr error
	switch cfg.Analysis {
	case config.AnalysisReaction:
		results, _, runErr = R.Reaction(ctx, reqs)
	case config.AnalysisComplex:
		if len(reqs) < 2 {
			return fmt.Errorf("complex analysis needs the complex and at least one part, got %d jobs", len(reqs))
		}
		results, _, runErr = R.Complex(ctx, reqs[0], reqs[1:])
	default:
		results, runErr = R.Run(ctx, reqs)
	}
	if err := sink.WriteSummary(results); err != nil {
		log.Error("writing summary failed", zap.Error(err))
	}
	if opts.metricsPath != "" {
		if err := prometheus.WriteToTextfile(opts.metricsPath, reg); err != nil {
			log.Error("writing metrics failed", zap.Error(err))
		}
	}
	return runErr
}

//readMolecules reads every file. A file that can't be read gives
//an empty molecule, which the pipeline will skip.
func readMolecules(log *zap.Logger, files []string) []*cdft.Molecule {
	ret := make([]*cdft.Molecule, len(files))
	for i, f := range files {
		mol, err := rdjson.ReadMoleculeFile(f)
		if err != nil {
			log.Warn("could not read molecule", zap.String("file", f), zap.Error(err))
		}
		ret[i] = mol
	}
	return ret
}

func newStatsCommand() *cobra.Command {
	var factor float64
	var bins int
	cmd := &cobra.Command{
		Use:   "stats cube [cube...]",
		Short: "Print statistics and a suggested isosurface level for cube files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-30s %12s %12s %12s %12s %12s\n", "file", "mean", "sd", "min", "max", "isolevel")
			for _, name := range args {
				G, err := grid.ReadCubeFile(name)
				if err != nil {
					return err
				}
				S, err := G.Stats()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-30s %12.5e %12.5e %12.5e %12.5e %12.5e\n", name, S.Mean, S.SD, S.Min, S.Max, S.IsoLevel(factor))
				if bins > 0 {
					H, err := G.Histogram(bins)
					if err != nil {
						return err
					}
					H.Normalize()
					fmt.Fprintln(out, H)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&factor, "factor", "f", 2, "isolevel is mean + factor*SD")
	cmd.Flags().IntVarP(&bins, "bins", "b", 0, "also print a normalized histogram of the values with this many bins")
	return cmd
}
