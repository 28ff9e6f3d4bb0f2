/*
 * gridgen.go, part of cdft.
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

//Package gridgen evaluates orbital densities, electron densities and the
//molecular electrostatic potential of a molecule on voxel grids.
package gridgen

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/grid"
)

//Points closer than this (Å) to a point charge see the potential at this distance.
const minMEPDistance = 0.1

//Builder fills grids for one molecule. It owns the molecule and its grid
//geometry for its whole lifetime; callers must not modify the molecule
//while the Builder is in use. Different Builders can be used concurrently.
type Builder struct {
	mol     *cdft.Molecule
	geom    *grid.Grid
	basis   *cdft.BasisSet
	workers int
}

//Option sets optional parameters of a Builder.
type Option func(*Builder)

//Workers sets the maximum number of goroutines used to fill a grid.
//Values < 1 mean runtime.NumCPU().
func Workers(n int) Option {
	return func(B *Builder) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		B.workers = n
	}
}

//New returns a Builder for mol, using the geometry (not the data) of geometry.
//An empty geometry is accepted: the Builder will then produce only empty grids.
func New(mol *cdft.Molecule, geometry *grid.Grid, opts ...Option) (*Builder, error) {
	if mol.Empty() {
		return nil, cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "gridgen.New")
	}
	if geometry == nil {
		return nil, cdft.NewError(cdft.MissingInput, "no grid geometry", "gridgen.New")
	}
	B := &Builder{mol: mol, workers: runtime.NumCPU()}
	if geometry.Populated() {
		B.geom = geometry.CopyGeometry("")
	} else {
		B.geom = grid.Empty(mol.Atoms)
	}
	for _, o := range opts {
		o(B)
	}
	return B, nil
}

//NewFromResolution returns a Builder for a grid of perAxis voxels per axis around
//the molecule, padded by padding Å. perAxis == 0 gives a Builder of empty grids.
func NewFromResolution(mol *cdft.Molecule, perAxis int, padding float64, opts ...Option) (*Builder, error) {
	if mol.Empty() {
		return nil, cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "gridgen.NewFromResolution")
	}
	g, err := grid.FromAtoms(mol.Atoms, perAxis, padding)
	if err != nil {
		return nil, cdft.ErrDecorate(err, "gridgen.NewFromResolution")
	}
	return New(mol, g, opts...)
}

//Geometry returns an empty copy of the grid geometry used by the builder.
func (B *Builder) Geometry() *grid.Grid {
	if !B.geom.Populated() {
		return grid.Empty(B.mol.Atoms)
	}
	return B.geom.CopyGeometry("")
}

//RedefineBounds restricts the grids produced to a cube of side 2*halfWidth
//around center, keeping the spacing. It does nothing for empty geometries.
func (B *Builder) RedefineBounds(center r3.Vec, halfWidth float64) error {
	if !B.geom.Populated() {
		return nil
	}
	return cdft.ErrDecorate(B.geom.RedefineBounds(center, halfWidth), "Builder.RedefineBounds")
}

func (B *Builder) compiled() (*cdft.BasisSet, error) {
	if B.basis != nil {
		return B.basis, nil
	}
	if !B.mol.HasBasis() {
		return nil, cdft.NewError(cdft.MissingInput, "molecule has no basis set or MO coefficients", "Builder")
	}
	bs, err := B.mol.CompileBasis()
	if err != nil {
		return nil, err
	}
	B.basis = bs
	return bs, nil
}

//OrbitalDensity returns the density of the ith orbital, |psi_i|^2, in e/Å^3,
//for one electron.
func (B *Builder) OrbitalDensity(i int) (*grid.Grid, error) {
	if i < 0 || i >= B.mol.Orbitals() {
		return nil, cdft.Errorf(cdft.OrbitalIndexOutOfRange, "Builder.OrbitalDensity", "orbital %d, %d orbitals", i, B.mol.Orbitals())
	}
	g, err := B.weighted(fmt.Sprintf("orbital %d", i), []int{i}, []float64{1})
	return g, cdft.ErrDecorate(err, "Builder.OrbitalDensity")
}

//HOMODensity returns the density of the highest occupied orbital.
func (B *Builder) HOMODensity() (*grid.Grid, error) {
	g, err := B.OrbitalDensity(B.mol.HOMO)
	if err == nil {
		g.Name = "HOMO"
	}
	return g, err
}

//LUMODensity returns the density of the lowest unoccupied orbital.
func (B *Builder) LUMODensity() (*grid.Grid, error) {
	g, err := B.OrbitalDensity(B.mol.LUMO())
	if err == nil {
		g.Name = "LUMO"
	}
	return g, err
}

//TotalDensity returns the electron density of the molecule, the sum of the densities
//of all the occupied orbitals, weighted by their occupation.
func (B *Builder) TotalDensity() (*grid.Grid, error) {
	var idx []int
	var w []float64
	for i := 0; i < B.mol.Orbitals(); i++ {
		if o := B.mol.Occupation(i); o > 0 {
			idx = append(idx, i)
			w = append(w, o)
		}
	}
	if len(idx) == 0 {
		return nil, cdft.NewError(cdft.MissingInput, "no occupied orbitals", "Builder.TotalDensity")
	}
	g, err := B.weighted("density", idx, w)
	return g, cdft.ErrDecorate(err, "Builder.TotalDensity")
}

//BandDensity returns the weighted density of the orbitals in the band
//next to the HOMO (side cdft.Occupied) or LUMO (side cdft.Virtual).
//The weights add up to 1, see cdft.Molecule.BandOrbitals.
func (B *Builder) BandDensity(band cdft.Band, side cdft.Side) (*grid.Grid, error) {
	idx, w, err := B.mol.BandOrbitals(band, side)
	if err != nil {
		return nil, cdft.ErrDecorate(err, "Builder.BandDensity")
	}
	name := "occupied band"
	if side == cdft.Virtual {
		name = "virtual band"
	}
	g, err := B.weighted(name, idx, w)
	return g, cdft.ErrDecorate(err, "Builder.BandDensity")
}

//MEP returns the electrostatic potential of the atomic partial charges
//of the molecule, in V (eV per unit positive charge).
func (B *Builder) MEP() (*grid.Grid, error) {
	atoms := B.mol.Atoms
	return B.fill("MEP", 0, func(p r3.Vec, _ []float64) float64 {
		var v float64
		for _, a := range atoms {
			if a.Charge == 0 {
				continue
			}
			d := math.Max(r3.Norm(r3.Sub(p, a.Pos)), minMEPDistance)
			v += a.Charge / d
		}
		return v * cdft.CoulombeVA
	})
}

//weighted fills a grid with sum_i w_i |psi_i|^2, in e/Å^3.
func (B *Builder) weighted(name string, orbitals []int, w []float64) (*grid.Grid, error) {
	if !B.geom.Populated() {
		return grid.Empty(B.mol.Atoms), nil
	}
	bs, err := B.compiled()
	if err != nil {
		return nil, err
	}
	coefs := make([][]float64, len(orbitals))
	for j, i := range orbitals {
		coefs[j] = mat.Col(nil, i, B.mol.MOs)
	}
	conv := math.Pow(cdft.A2Bohr, 3)
	return B.fill(name, bs.Len(), func(p r3.Vec, buf []float64) float64 {
		phi := bs.Values(p, buf)
		var rho float64
		for j, c := range coefs {
			var psi float64
			for mu, v := range phi {
				psi += c[mu] * v
			}
			rho += w[j] * psi * psi
		}
		return rho * conv
	})
}

//fill evaluates f at every voxel. Each x plane of the grid is one task,
//and at most B.workers planes are evaluated at the same time.
func (B *Builder) fill(name string, scratch int, f func(p r3.Vec, buf []float64) float64) (*grid.Grid, error) {
	if !B.geom.Populated() {
		return grid.Empty(B.mol.Atoms), nil
	}
	G := B.geom.CopyGeometry(name)
	G.Atoms = B.mol.Atoms
	var eg errgroup.Group
	eg.SetLimit(B.workers)
	for i := 0; i < G.N[0]; i++ {
		eg.Go(func() error {
			buf := make([]float64, scratch)
			for j := 0; j < G.N[1]; j++ {
				for k := 0; k < G.N[2]; k++ {
					v := f(G.Point(i, j, k), buf)
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return cdft.Errorf(cdft.DegenerateNormalization, "Builder.fill", "non-finite value in %s at voxel %d,%d,%d", name, i, j, k)
					}
					G.Data[G.Index(i, j, k)] = v
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return G, nil
}
