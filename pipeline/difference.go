/*
 * difference.go, part of cdft.
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
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/condensed"
	"github.com/rmera/cdft/global"
	"github.com/rmera/cdft/grid"
	"github.com/rmera/cdft/local"
)

//Difference contains the descriptors of one result minus those of one or more
//others: the change between two frames of a reaction path or trajectory, or the
//interaction between the fragments of a complex. Fields are nil when they were
//not available for every result involved.
type Difference struct {
	Name       string
	Minuend    string   //name of the result the others are subtracted from
	Subtracted []string //names of the results subtracted
	Options    Options  //those of the minuend
	Global     *global.Descriptors
	Condensed  *condensed.Descriptors
	Local      *local.Set
	MEP        *grid.Grid
	Warnings   []StageError //descriptors that could not be subtracted
}

//Result returns the differences as a Result, so they can be written by a Sink.
func (D *Difference) Result() *Result {
	return &Result{ID: D.Name, Name: D.Name, Options: D.Options, Global: D.Global,
		Condensed: D.Condensed, Local: D.Local, MEP: D.MEP, Warnings: D.Warnings}
}

//usable returns true if r was processed without critical errors.
func usable(r *Result) bool {
	return r != nil && !r.Skipped && r.Err == nil && r.Global != nil
}

//Differences returns the descriptors of each result minus those of the previous one,
//as for consecutive frames of a reaction path or a trajectory. Results that were
//skipped or failed are left out, so the difference spans the gap.
func Differences(results []*Result) []*Difference {
	ok := lo.Filter(results, func(r *Result, _ int) bool { return usable(r) })
	ret := make([]*Difference, 0, len(ok))
	for i := 1; i < len(ok); i++ {
		ret = append(ret, subtract(ok[i], ok[i-1:i]))
	}
	return ret
}

//ComplexDifference returns the descriptors of whole, a complex, minus the sum of
//those of its parts. The atoms of the parts, in order, must be those of the complex for the
//condensed descriptors to be subtracted, and all the results must share a grid
//geometry for the volumetric ones.
func ComplexDifference(whole *Result, parts ...*Result) (*Difference, error) {
	if !usable(whole) {
		return nil, cdft.NewError(cdft.MissingInput, "complex was not processed", "pipeline.ComplexDifference")
	}
	if len(parts) == 0 {
		return nil, cdft.NewError(cdft.MissingInput, "no parts given", "pipeline.ComplexDifference")
	}
	for _, p := range parts {
		if !usable(p) {
			return nil, cdft.Errorf(cdft.MissingInput, "pipeline.ComplexDifference", "part %q was not processed", resultName(p))
		}
	}
	return subtract(whole, parts), nil
}

func resultName(r *Result) string {
	if r == nil {
		return "<nil>"
	}
	return r.Name
}

//subtract returns whole minus each of parts. All of them must be usable.
func subtract(whole *Result, parts []*Result) *Difference {
	names := lo.Map(parts, func(r *Result, _ int) string { return r.Name })
	D := &Difference{
		Name:       whole.Name + "-" + strings.Join(names, "+"),
		Minuend:    whole.Name,
		Subtracted: names,
		Options:    whole.Options,
	}
	warn := func(stage string, err error) {
		D.Warnings = append(D.Warnings, StageError{Stage: stage, Err: err})
	}
	D.Global = whole.Global.Sub(lo.Map(parts, func(r *Result, _ int) *global.Descriptors { return r.Global })...)

	if cp := lo.Map(parts, func(r *Result, _ int) *condensed.Descriptors { return r.Condensed }); whole.Condensed != nil && !lo.Contains(cp, nil) {
		sum := cp[0]
		if len(cp) > 1 {
			sum = condensed.Join(cp...)
		}
		var err error
		if D.Condensed, err = whole.Condensed.Sub(sum); err != nil {
			warn(StageCondensed, err)
		}
	}
	if lp := lo.Map(parts, func(r *Result, _ int) *local.Set { return r.Local }); whole.Local != nil && !lo.Contains(lp, nil) {
		var err error
		if D.Local, err = whole.Local.Sub(lp...); err != nil {
			warn(StageLocal, err)
		}
	}
	if mp := lo.Map(parts, func(r *Result, _ int) *grid.Grid { return r.MEP }); whole.MEP != nil && !lo.Contains(mp, nil) {
		mep := whole.MEP.Copy(whole.MEP.Name)
		for _, m := range mp {
			if err := mep.AddScaled(-1, m); err != nil {
				warn(StageMEP, err)
				mep = nil
				break
			}
		}
		D.MEP = mep
	}
	return D
}

//commonGeometry returns copies of reqs that all use a grid spanning the atoms
//of every request, so their volumetric descriptors can be subtracted. The requests
//are returned unchanged if no grids were requested or a geometry was already given.
func commonGeometry(reqs []Request) ([]Request, error) {
	if len(reqs) == 0 || !reqs[0].Options.Volumetric() || reqs[0].Options.Geometry != nil {
		return reqs, nil
	}
	var atoms []*cdft.Atom
	for _, r := range reqs {
		if len(r.Molecules) > 0 && !r.Molecules[0].Empty() {
			atoms = append(atoms, r.Molecules[0].Atoms...)
		}
	}
	if len(atoms) == 0 {
		return reqs, nil
	}
	g, err := reqs[0].Options.gridAround(atoms)
	if err != nil {
		return nil, cdft.ErrDecorate(err, "pipeline.commonGeometry")
	}
	ret := make([]Request, len(reqs))
	for i, r := range reqs {
		r.Options.Geometry = g
		ret[i] = r
	}
	return ret, nil
}

//DifferenceSink is a Sink that can also write differences.
type DifferenceSink interface {
	WriteDifference(d *Difference) error
}

//Reaction processes the frames of a reaction path or a trajectory on a common grid, and
//returns their results, in order, and the differences between consecutive frames.
//Differences are written if the Sink is a DifferenceSink.
func (R *Runner) Reaction(ctx context.Context, frames []Request) ([]*Result, []*Difference, error) {
	reqs, err := commonGeometry(frames)
	if err != nil {
		return nil, nil, err
	}
	results, err := R.Run(ctx, reqs)
	if err != nil {
		return results, nil, err
	}
	diffs := Differences(results)
	for _, d := range diffs {
		R.difference(d)
	}
	return results, diffs, nil
}

//Complex processes a complex, whole, and its parts on a common grid, and returns the
//results, the complex first, and the descriptors of the complex minus those of the parts.
func (R *Runner) Complex(ctx context.Context, whole Request, parts []Request) ([]*Result, *Difference, error) {
	reqs, err := commonGeometry(append([]Request{whole}, parts...))
	if err != nil {
		return nil, nil, err
	}
	results, err := R.Run(ctx, reqs)
	if err != nil {
		return results, nil, err
	}
	d, err := ComplexDifference(results[0], results[1:]...)
	if err != nil {
		R.logger().Error("complex difference failed", zap.String("complex", whole.Name), zap.Error(err))
		return results, nil, fmt.Errorf("complex %s: %w", whole.Name, err)
	}
	R.difference(d)
	return results, d, nil
}

//difference logs and writes d.
func (R *Runner) difference(d *Difference) {
	log := R.logger().With(zap.String("difference", d.Name))
	for _, w := range d.Warnings {
		log.Warn("descriptors not subtracted", zap.String("stage", w.Stage), zap.Error(w.Err))
	}
	log.Info("difference obtained", zap.Float64("delta_hardness", d.Global.Hardness),
		zap.Float64("delta_chemical_potential", d.Global.ChemicalPotential), zap.Float64("delta_energy", d.Global.Energy))
	ds, ok := R.Sink.(DifferenceSink)
	if !ok {
		return
	}
	if err := ds.WriteDifference(d); err != nil {
		log.Error("writing difference failed", zap.Error(err))
		d.Warnings = append(d.Warnings, StageError{Stage: StageWrite, Err: err})
	}
}
