/*
 * options.go, part of cdft.
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

//Package pipeline runs the cdft descriptor calculations for single molecules
//and batches of them, and writes the results.
package pipeline

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/grid"
)

//ROI is a region of interest: a cube of side 2*HalfWidth Å around Center.
type ROI struct {
	Center    r3.Vec
	HalfWidth float64
}

//Options contains all the parameters for the processing of one request.
type Options struct {
	Approx         cdft.Approximation
	Hardness       cdft.HardnessMethod
	HardnessParams cdft.HardnessParams
	Band           cdft.Band

	//Grids. If both GridPoints and GridTotal are 0, no volumetric
	//descriptors are obtained. GridTotal takes precedence.
	GridPoints  int //voxels per axis
	GridTotal   int //total voxels
	GridPadding float64
	ROI         *ROI
	GridWorkers int
	//If not nil, the grids use this geometry instead of one built around the
	//molecule. Descriptor grids can only be compared if they share geometry.
	Geometry *grid.Grid

	Density float64 //empirical electron density, e/Å^3. If 0, the molecule's is used.
	MEP     bool
	Protein bool
}

//DefaultOptions returns the frozen orbital approximation, with no volumetric
//descriptors.
func DefaultOptions() Options {
	return Options{
		Approx:         cdft.FrozenOrbital,
		Hardness:       cdft.NoHardness,
		HardnessParams: cdft.DefaultHardnessParams(),
		GridPadding:    4,
	}
}

//Volumetric returns true if grids are requested.
func (O Options) Volumetric() bool {
	return O.GridPoints > 0 || O.GridTotal > 0 || O.Geometry.Populated()
}

//Request is one molecule to be processed. Molecules contains one state
//in the frozen orbital approximation, and the neutral, cationic and anionic
//states, in that order, in the finite difference approximation.
type Request struct {
	ID        string
	Name      string
	Molecules []*cdft.Molecule
	Options   Options
}

//gridAround returns the grid geometry requested by O for the given atoms.
func (O Options) gridAround(atoms []*cdft.Atom) (*grid.Grid, error) {
	if O.GridTotal > 0 {
		return grid.FromAtomsTotal(atoms, O.GridTotal, O.GridPadding)
	}
	return grid.FromAtoms(atoms, O.GridPoints, O.GridPadding)
}
