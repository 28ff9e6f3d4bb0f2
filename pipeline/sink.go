/*
 * sink.go, part of cdft.
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

package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/rmera/cdft/comphard"
	"github.com/rmera/cdft/condensed"
	"github.com/rmera/cdft/grid"
	"github.com/rmera/cdft/rdjson"
	"github.com/rmera/cdft/rdplot"
)

//FileSink writes the results of each molecule to files in Dir: a JSON record with
//the global descriptors and hardness estimates, tab-separated tables with the condensed
//and per-residue descriptors, cube files with the volumetric descriptors and,
//optionally, plots.
type FileSink struct {
	Dir         string
	Compression string  //"", "zst" or "gz", for cube files
	DOS         bool    //plot the density of states
	DOSSigma    float64 //broadening for the DOS, eV
	Plots       bool    //plot per-residue descriptors
}

//Record is the JSON summary of the results for one molecule.
type Record struct {
	ID             string
	Name           string
	Approximation  string
	HardnessMethod string
	Band           string
	Global         map[string]float64
	Estimates      map[string]float64         `json:",omitempty"`
	Residues       []comphard.ResidueEstimate `json:",omitempty"`
	Warnings       []*rdjson.Error            `json:",omitempty"`
}

//NewRecord builds the JSON summary of res.
func NewRecord(res *Result) *Record {
	rec := &Record{
		ID:             res.ID,
		Name:           res.Name,
		Approximation:  res.Options.Approx.String(),
		HardnessMethod: res.Options.Hardness.String(),
		Band:           res.Options.Band.String(),
	}
	if res.Global != nil {
		rec.Global = res.Global.Record()
	}
	if res.Estimates != nil {
		rec.Estimates = res.Estimates.Record()
	}
	if res.Protein != nil {
		rec.Residues = res.Protein.Residues
	}
	rec.Warnings = lo.Map(res.Warnings, func(w StageError, _ int) *rdjson.Error {
		return rdjson.NewError(res.Name, w.Stage, w.Err)
	})
	return rec
}

//base returns the prefix for the file names of a result.
func base(res *Result) string {
	name := res.Name
	if name == "" {
		name = res.ID
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' || r == ':' {
			return '_'
		}
		return r
	}, name)
}

func (F *FileSink) path(res *Result, suffix string) string {
	return filepath.Join(F.Dir, base(res)+"_"+suffix)
}

//Write writes all the available results in res.
func (F *FileSink) Write(res *Result) error {
	if err := os.MkdirAll(F.Dir, 0o755); err != nil {
		return err
	}
	if err := F.writeJSON(F.path(res, "global.json"), NewRecord(res)); err != nil {
		return err
	}
	if err := F.tables(res); err != nil {
		return err
	}
	if err := F.cubes(res); err != nil {
		return err
	}
	return F.plots(res)
}

//WriteDifference writes the differences in d like the results of a molecule,
//with file names prefixed by the names of the results involved.
func (F *FileSink) WriteDifference(d *Difference) error {
	return F.Write(d.Result())
}

func (F *FileSink) writeJSON(name string, v interface{}) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	w.Write(header)
	w.WriteAll(rows)
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func (F *FileSink) tables(res *Result) error {
	if res.Condensed != nil {
		rows := lo.Map(res.Condensed.Rows(), func(r condensed.Row, _ int) []string {
			return []string{strconv.Itoa(r.ID), r.Atom, r.Family, ftoa(r.Value)}
		})
		if err := writeTSV(F.path(res, "condensed.tsv"), []string{"id", "atom", "family", "value"}, rows); err != nil {
			return err
		}
	}
	if len(res.Residues) > 0 {
		rows := lo.Map(res.Residues, func(r condensed.ResidueStat, _ int) []string {
			return []string{r.Chain, strconv.Itoa(r.ID), r.Name, r.Family, ftoa(r.Mean), ftoa(r.SD)}
		})
		if err := writeTSV(F.path(res, "residues.tsv"), []string{"chain", "id", "residue", "family", "mean", "sd"}, rows); err != nil {
			return err
		}
	}
	return nil
}

//cubes writes every available grid, naming each file after the approximation
//and the descriptor.
func (F *FileSink) cubes(res *Result) error {
	ext := ".cube"
	if F.Compression != "" {
		ext += "." + F.Compression
	}
	approx := res.Options.Approx.String()
	type named struct {
		label string
		g     *grid.Grid
	}
	var grids []named
	if L := res.Local; L != nil {
		grids = append(grids, named{"EAS", L.EAS}, named{"NAS", L.NAS}, named{"RAS", L.RAS}, named{"Dual", L.Dual})
		if L.Hardness != nil {
			grids = append(grids, named{"Hardness_" + L.HardnessMethod.String(), L.Hardness})
		}
	}
	if D := res.Derived; D != nil {
		grids = append(grids, named{"Softness", D.Softness}, named{"Hypersoftness", D.Hypersoftness}, named{"Multiphilic", D.Multiphilic})
	}
	if res.MEP != nil {
		grids = append(grids, named{"MEP", res.MEP})
	}
	for _, n := range grids {
		if !n.g.Populated() {
			continue
		}
		comment := fmt.Sprintf("%s %s, band %s", n.label, approx, res.Options.Band)
		if err := grid.WriteCubeFile(F.path(res, approx+"_"+n.label+ext), n.g, comment); err != nil {
			return err
		}
	}
	return nil
}

func (F *FileSink) plots(res *Result) error {
	if F.DOS && res.Molecule != nil && res.Molecule.Orbitals() > 0 {
		sigma := F.DOSSigma
		if sigma <= 0 {
			sigma = 0.2
		}
		if err := rdplot.DOSPlot(res.Molecule, sigma, res.Name+" DOS", F.path(res, "dos.png")); err != nil {
			return err
		}
	}
	if F.Plots && len(res.Residues) > 0 {
		for _, fam := range []string{"RAS", "Dual"} {
			if err := rdplot.ResiduePlot(res.Residues, fam, res.Name+" "+fam, F.path(res, fam+"_residues.png")); err != nil {
				return err
			}
		}
	}
	return nil
}

//WriteSummary writes, to summary.json in Dir, the errors and warnings of all
//the results given.
func (F *FileSink) WriteSummary(results []*Result) error {
	if err := os.MkdirAll(F.Dir, 0o755); err != nil {
		return err
	}
	summary := struct {
		Processed int
		Skipped   int
		Failed    int
		Errors    []*rdjson.Error
	}{}
	for _, r := range results {
		if r == nil {
			continue
		}
		switch {
		case r.Skipped:
			summary.Skipped++
		case r.Err != nil:
			summary.Failed++
			summary.Errors = append(summary.Errors, rdjson.NewError(r.Name, r.Err.Stage, r.Err.Err))
		default:
			summary.Processed++
		}
		for _, w := range r.Warnings {
			summary.Errors = append(summary.Errors, rdjson.NewError(r.Name, w.Stage, w.Err))
		}
	}
	return F.writeJSON(filepath.Join(F.Dir, "summary.json"), summary)
}
