/*
 * process.go, part of cdft.
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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/comphard"
	"github.com/rmera/cdft/condensed"
	"github.com/rmera/cdft/global"
	"github.com/rmera/cdft/grid"
	"github.com/rmera/cdft/gridgen"
	"github.com/rmera/cdft/local"
)

//Stage names
const (
	StageRead      = "read"
	StageGlobal    = "global"
	StageCondensed = "condensed"
	StageHardness  = "comphard"
	StageGrids     = "grids"
	StageLocal     = "local"
	StageMEP       = "mep"
	StageWrite     = "write"
)

//Result contains everything obtained for one request. Fields are nil
//for the stages that were not run.
type Result struct {
	ID       string
	Name     string
	Options  Options
	Molecule *cdft.Molecule //the neutral state

	Global    *global.Descriptors
	Condensed *condensed.Descriptors
	Residues  []condensed.ResidueStat
	Estimates *comphard.Estimates
	Protein   *comphard.ProteinEstimates
	Local     *local.Set
	Derived   *local.Derived
	MEP       *grid.Grid

	Skipped  bool
	Warnings []StageError //non-critical errors
	Err      *StageError  //the error that stopped the processing, if any
}

//StageError is an error obtained at a given stage of the processing.
type StageError struct {
	Stage string
	Err   error
}

func (S *StageError) Error() string {
	return S.Stage + ": " + S.Err.Error()
}

func (S *StageError) Unwrap() error {
	return S.Err
}

//stageObserver receives the duration of each stage.
type stageObserver func(stage string, d time.Duration)

//Process runs all the calculations requested for one molecule, in order.
//Non-critical errors are added to the Warnings of the result, and the processing
//continues. An empty molecule stops the processing, giving a non-critical
//SkippedEmptyMolecule error. Other errors stop the processing, and are
//returned. The result is never nil.
func Process(req Request) (*Result, error) {
	return process(req, nil)
}

type run struct {
	req Request
	res *Result
	obs stageObserver
}

func process(req Request, obs stageObserver) (*Result, error) {
	R := &run{req: req, res: &Result{ID: req.ID, Name: req.Name, Options: req.Options}, obs: obs}
	res := R.res
	if err := R.check(); err != nil {
		return res, err
	}
	res.Molecule = req.Molecules[0]
	stages := []struct {
		name string
		f    func() error
	}{
		{StageGlobal, R.global},
		{StageCondensed, R.condensed},
		{StageHardness, R.comphard},
		{StageLocal, R.volumetric},
		{StageMEP, R.mep},
	}
	for _, s := range stages {
		start := time.Now()
		err := s.f()
		if R.obs != nil {
			R.obs(s.name, time.Since(start))
		}
		if err == nil {
			continue
		}
		se := &StageError{Stage: s.name, Err: err}
		if cdft.IsCritical(err) {
			res.Err = se
			return res, se
		}
		res.Warnings = append(res.Warnings, *se)
		if cdft.IsKind(err, cdft.DegenerateHardness) {
			//everything after the global descriptors needs the hardness
			break
		}
	}
	return res, nil
}

//check verifies the number of molecules and that none of them is empty.
func (R *run) check() error {
	mols := R.req.Molecules
	want := 1
	if R.req.Options.Approx == cdft.FiniteDifference {
		want = 3
	}
	if len(mols) != want {
		err := &StageError{Stage: StageRead, Err: cdft.Errorf(cdft.MissingInput, "pipeline.Process", "%s needs %d molecules, got %d", R.req.Options.Approx, want, len(mols))}
		R.res.Err = err
		return err
	}
	for _, m := range mols {
		if m.Empty() {
			R.res.Skipped = true
			err := &StageError{Stage: StageRead, Err: cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "pipeline.Process")}
			R.res.Warnings = append(R.res.Warnings, *err)
			return err
		}
	}
	return nil
}

func (R *run) fd() bool {
	return R.req.Options.Approx == cdft.FiniteDifference
}

func (R *run) global() error {
	var err error
	m := R.req.Molecules
	if R.fd() {
		R.res.Global, err = global.FiniteDifference(m[0], m[1], m[2])
	} else {
		R.res.Global, err = global.FrozenOrbital(m[0])
	}
	return err
}

func (R *run) condensed() error {
	var C *condensed.Calculator
	var err error
	m := R.req.Molecules
	o := R.req.Options
	if R.fd() {
		C, err = condensed.NewFiniteDifference(m[0], m[1], m[2])
	} else {
		if !m[0].HasCoefficients() || len(m[0].Basis) == 0 {
			return nil //only orbital energies, nothing to condense.
		}
		C, err = condensed.NewFrozenOrbital(m[0])
	}
	if err != nil {
		return err
	}
	C.Params = o.HardnessParams
	if _, err = C.Fukui(o.Band); err != nil {
		return err
	}
	if _, err = C.RD(R.res.Global, o.Band); err != nil {
		return err
	}
	_, herr := C.Hardness(R.res.Global, o.Band)
	if cdft.IsCritical(herr) {
		return herr
	}
	R.res.Condensed = C.Descriptors()
	if o.Protein {
		if R.res.Residues, err = condensed.AggregateResidues(R.res.Condensed, condensed.Residues(m[0].Atoms)); err != nil {
			return err
		}
	}
	return herr
}

func (R *run) density() float64 {
	if d := R.req.Options.Density; d > 0 {
		return d
	}
	return R.req.Molecules[0].Density
}

func (R *run) comphard() error {
	var err error
	if R.req.Options.Protein {
		R.res.Protein, err = comphard.Protein(R.res.Global, R.res.Condensed, condensed.Residues(R.res.Molecule.Atoms), R.density())
		if err == nil {
			R.res.Estimates = R.res.Protein.Estimates
		}
		return err
	}
	R.res.Estimates, err = comphard.Calculate(R.res.Global, R.res.Condensed, R.density())
	return err
}

//builder returns a grid builder for mol, with the requested geometry.
func (R *run) builder(mol *cdft.Molecule, geometry *grid.Grid) (*gridgen.Builder, error) {
	o := R.req.Options
	B, err := gridgen.New(mol, geometry, gridgen.Workers(o.GridWorkers))
	if err != nil {
		return nil, err
	}
	if o.ROI != nil {
		if err := B.RedefineBounds(o.ROI.Center, o.ROI.HalfWidth); err != nil {
			return nil, err
		}
	}
	return B, nil
}

//geometry returns the grid geometry for the request: the one given in the options or,
//if none, one derived from the neutral molecule.
func (R *run) geometry() (*grid.Grid, error) {
	o := R.req.Options
	if o.Geometry.Populated() {
		return o.Geometry.CopyGeometry(""), nil
	}
	return o.gridAround(R.res.Molecule.Atoms)
}

//volumetric builds the density grids and the volumetric descriptors.
//In the finite difference approximation, the three densities are obtained concurrently.
func (R *run) volumetric() error {
	o := R.req.Options
	if !o.Volumetric() {
		return nil
	}
	geom, err := R.geometry()
	if err != nil {
		return err
	}
	start := time.Now()
	var set *local.Set
	if R.fd() {
		dens := make([]*grid.Grid, 3)
		var eg errgroup.Group
		for i, m := range R.req.Molecules {
			eg.Go(func() error {
				B, err := R.builder(m, geom)
				if err != nil {
					return err
				}
				dens[i], err = B.TotalDensity()
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		R.observe(StageGrids, start)
		set, err = local.FiniteDifference(dens[0], dens[1], dens[2])
	} else {
		set, err = R.frozenOrbitalGrids(geom, start)
	}
	if err != nil {
		return err
	}
	R.res.Local = set
	if err := set.CalcHardness(R.res.Global, o.Hardness, o.HardnessParams); err != nil {
		return err
	}
	R.res.Derived, err = set.Derived(R.res.Global)
	return err
}

func (R *run) frozenOrbitalGrids(geom *grid.Grid, start time.Time) (*local.Set, error) {
	o := R.req.Options
	B, err := R.builder(R.res.Molecule, geom)
	if err != nil {
		return nil, err
	}
	var eas, nas, rho *grid.Grid
	if o.Band.Frontier() {
		eas, err = B.HOMODensity()
		if err == nil {
			nas, err = B.LUMODensity()
		}
	} else {
		eas, err = B.BandDensity(o.Band, cdft.Occupied)
		if err == nil {
			nas, err = B.BandDensity(o.Band, cdft.Virtual)
		}
	}
	if err != nil {
		return nil, err
	}
	if o.Hardness.NeedsDensity() {
		if rho, err = B.TotalDensity(); err != nil {
			return nil, err
		}
	}
	R.observe(StageGrids, start)
	return local.FrozenOrbital(eas, nas, rho)
}

func (R *run) mep() error {
	if !R.req.Options.MEP || !R.req.Options.Volumetric() {
		return nil
	}
	geom, err := R.geometry()
	if err != nil {
		return err
	}
	B, err := R.builder(R.res.Molecule, geom)
	if err != nil {
		return err
	}
	R.res.MEP, err = B.MEP()
	return err
}

func (R *run) observe(stage string, start time.Time) {
	if R.obs != nil {
		R.obs(stage, time.Since(start))
	}
}
