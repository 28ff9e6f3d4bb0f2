/*
 * loader.go, part of cdft.
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

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CDFT"

//newViper returns a viper that reads YAML and takes CDFT_ environment
//variables, so "grid.points" is overridden by CDFT_GRID_POINTS.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

//setDefaults registers every scalar key, so the environment
//can set keys the file doesn't mention.
func setDefaults(v *viper.Viper) {
	v.SetDefault("approximation", DefaultApproximation)
	v.SetDefault("local_hardness", DefaultHardness)
	v.SetDefault("band.mode", DefaultBandMode)
	v.SetDefault("band.cutoff", 0.0)
	v.SetDefault("hardness.lcp", 0.0)
	v.SetDefault("hardness.ee", 0.0)
	v.SetDefault("hardness.fukui", 0.0)
	v.SetDefault("grid.points", 0)
	v.SetDefault("grid.total", 0)
	v.SetDefault("grid.padding", DefaultPadding)
	v.SetDefault("grid.workers", 0)
	v.SetDefault("grid.roi.half_width", 0.0)
	v.SetDefault("density", 0.0)
	v.SetDefault("mep", false)
	v.SetDefault("protein", false)
	v.SetDefault("workers", 0)
	v.SetDefault("analysis", AnalysisNone)
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.compression", "")
	v.SetDefault("output.dos", false)
	v.SetDefault("output.dos_sigma", DefaultDOSSigma)
	v.SetDefault("output.plots", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

//Load reads the YAML file at path, applies the CDFT_ environment overrides
//and the defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
	}
	return unmarshal(v)
}

//LoadFromEnv builds the configuration from the environment only.
//Jobs can't be given this way, so they are normally added from the command line.
func LoadFromEnv() (*Config, error) {
	return unmarshal(newViper())
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
