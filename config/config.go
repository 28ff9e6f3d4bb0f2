/*
 * config.go, part of cdft.
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

//Package config loads the configuration of the cdft program from YAML files
//and CDFT_ environment variables, and turns it into pipeline options.
package config

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/pipeline"
)

//Defaults
const (
	DefaultApproximation = "FOA"
	DefaultHardness      = "not"
	DefaultBandMode      = "EW"
	DefaultPadding       = 4.0
	DefaultOutputDir     = "cdft_out"
	DefaultDOSSigma      = 0.2
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

//Config is the whole configuration of a cdft run.
type Config struct {
	Approximation string         `mapstructure:"approximation"`
	LocalHardness string         `mapstructure:"local_hardness"`
	Band          BandConfig     `mapstructure:"band"`
	Hardness      HardnessConfig `mapstructure:"hardness"`
	Grid          GridConfig     `mapstructure:"grid"`
	Density       float64        `mapstructure:"density"` //e/Å^3
	MEP           bool           `mapstructure:"mep"`
	Protein       bool           `mapstructure:"protein"`
	Workers       int            `mapstructure:"workers"`
	Analysis      string         `mapstructure:"analysis"`
	Output        OutputConfig   `mapstructure:"output"`
	Log           LogConfig      `mapstructure:"log"`
	Jobs          []Job          `mapstructure:"jobs"`
}

//BandConfig selects the orbital band. A zero cutoff uses the frontier orbitals.
type BandConfig struct {
	Mode   string  `mapstructure:"mode"`
	Cutoff float64 `mapstructure:"cutoff"` //eV
}

//HardnessConfig contains the factors of the local hardness formulas.
type HardnessConfig struct {
	LCP   float64 `mapstructure:"lcp"`
	EE    float64 `mapstructure:"ee"`
	Fukui float64 `mapstructure:"fukui"`
}

//GridConfig sets the volumetric grids. With Points and Total both 0,
//no grids are built.
type GridConfig struct {
	Points  int       `mapstructure:"points"`
	Total   int       `mapstructure:"total"`
	Padding float64   `mapstructure:"padding"`
	Workers int       `mapstructure:"workers"`
	ROI     ROIConfig `mapstructure:"roi"`
}

//ROIConfig restricts the grids to a cube around Center. It is
//used only if HalfWidth is positive.
type ROIConfig struct {
	Center    []float64 `mapstructure:"center"`
	HalfWidth float64   `mapstructure:"half_width"`
}

type OutputConfig struct {
	Dir         string  `mapstructure:"dir"`
	Compression string  `mapstructure:"compression"`
	DOS         bool    `mapstructure:"dos"`
	DOSSigma    float64 `mapstructure:"dos_sigma"`
	Plots       bool    `mapstructure:"plots"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

//Analyses of a whole set of jobs. With AnalysisReaction, the jobs are the frames
//of a reaction path or trajectory, in order. With AnalysisComplex, the first job is
//a complex and the rest are its parts, whose atoms, in order, are those of the complex.
const (
	AnalysisNone     = ""
	AnalysisReaction = "reaction"
	AnalysisComplex  = "complex"
)

//Job is one molecule to process. Files contains one JSON molecule file in the
//frozen orbital approximation, or the neutral, cation and anion files, in that
//order, in the finite difference one.
type Job struct {
	Name  string   `mapstructure:"name"`
	Files []string `mapstructure:"files"`
}

//ApplyDefaults fills the zero-value fields of cfg with the defaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Approximation == "" {
		cfg.Approximation = DefaultApproximation
	}
	if cfg.LocalHardness == "" {
		cfg.LocalHardness = DefaultHardness
	}
	if cfg.Band.Mode == "" {
		cfg.Band.Mode = DefaultBandMode
	}
	d := cdft.DefaultHardnessParams()
	if cfg.Hardness.LCP == 0 {
		cfg.Hardness.LCP = d.LCP
	}
	if cfg.Hardness.EE == 0 {
		cfg.Hardness.EE = d.EE
	}
	if cfg.Hardness.Fukui == 0 {
		cfg.Hardness.Fukui = d.FukuiPotential
	}
	if cfg.Grid.Padding == 0 {
		cfg.Grid.Padding = DefaultPadding
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Output.DOSSigma == 0 {
		cfg.Output.DOSSigma = DefaultDOSSigma
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	for i, j := range cfg.Jobs {
		if j.Name == "" && len(j.Files) > 0 {
			cfg.Jobs[i].Name = jobName(j.Files[0])
		}
	}
}

//jobName returns the file name without directories or extensions.
func jobName(file string) string {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		file = file[i+1:]
	}
	if i := strings.Index(file, "."); i > 0 {
		file = file[:i]
	}
	return file
}

//Validate checks that every option has a meaningful value.
func (c *Config) Validate() error {
	approx, err := cdft.ParseApproximation(c.Approximation)
	if err != nil {
		return fmt.Errorf("config: approximation: %w", err)
	}
	if _, err := cdft.ParseHardnessMethod(c.LocalHardness); err != nil {
		return fmt.Errorf("config: local_hardness: %w", err)
	}
	if _, err := cdft.ParseBandMode(c.Band.Mode); err != nil {
		return fmt.Errorf("config: band.mode: %w", err)
	}
	if c.Band.Cutoff < 0 {
		return fmt.Errorf("config: band.cutoff must be >= 0, got %g", c.Band.Cutoff)
	}
	if c.Grid.Points < 0 || c.Grid.Total < 0 {
		return fmt.Errorf("config: grid.points and grid.total must be >= 0, got %d and %d", c.Grid.Points, c.Grid.Total)
	}
	if c.Grid.Padding < 0 {
		return fmt.Errorf("config: grid.padding must be >= 0, got %g", c.Grid.Padding)
	}
	if c.Grid.ROI.HalfWidth > 0 && len(c.Grid.ROI.Center) != 3 {
		return fmt.Errorf("config: grid.roi.center needs 3 coordinates, got %d", len(c.Grid.ROI.Center))
	}
	if c.Density < 0 {
		return fmt.Errorf("config: density must be >= 0, got %g", c.Density)
	}
	switch c.Analysis {
	case AnalysisNone, AnalysisReaction, AnalysisComplex:
	default:
		return fmt.Errorf("config: analysis %q is invalid; expected reaction|complex or empty", c.Analysis)
	}
	switch c.Output.Compression {
	case "", "zst", "gz":
	default:
		return fmt.Errorf("config: output.compression %q is invalid; expected zst|gz or empty", c.Output.Compression)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	want := 1
	if approx == cdft.FiniteDifference {
		want = 3
	}
	for i, j := range c.Jobs {
		if len(j.Files) != want {
			return fmt.Errorf("config: job %d (%s) has %d files, the %s approximation needs %d", i, j.Name, len(j.Files), approx, want)
		}
	}
	return nil
}

//Options returns the pipeline options given by the configuration.
func (c *Config) Options() (pipeline.Options, error) {
	o := pipeline.DefaultOptions()
	var err error
	if o.Approx, err = cdft.ParseApproximation(c.Approximation); err != nil {
		return o, err
	}
	if o.Hardness, err = cdft.ParseHardnessMethod(c.LocalHardness); err != nil {
		return o, err
	}
	if o.Band.Mode, err = cdft.ParseBandMode(c.Band.Mode); err != nil {
		return o, err
	}
	o.Band.Cutoff = c.Band.Cutoff
	o.HardnessParams = cdft.HardnessParams{LCP: c.Hardness.LCP, EE: c.Hardness.EE, FukuiPotential: c.Hardness.Fukui}.OrDefaults()
	o.GridPoints = c.Grid.Points
	o.GridTotal = c.Grid.Total
	o.GridPadding = c.Grid.Padding
	o.GridWorkers = c.Grid.Workers
	if r := c.Grid.ROI; r.HalfWidth > 0 && len(r.Center) == 3 {
		o.ROI = &pipeline.ROI{Center: r3.Vec{X: r.Center[0], Y: r.Center[1], Z: r.Center[2]}, HalfWidth: r.HalfWidth}
	}
	o.Density = c.Density
	o.MEP = c.MEP
	o.Protein = c.Protein
	return o, nil
}

//Sink returns a file sink with the output configuration.
func (c *Config) Sink() *pipeline.FileSink {
	return &pipeline.FileSink{
		Dir:         c.Output.Dir,
		Compression: c.Output.Compression,
		DOS:         c.Output.DOS,
		DOSSigma:    c.Output.DOSSigma,
		Plots:       c.Output.Plots,
	}
}
