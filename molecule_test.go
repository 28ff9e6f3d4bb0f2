/*
 * molecule_test.go, part of cdft.
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

package cdft_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/internal/fixture"
)

func TestMoleculeValidate(Te *testing.T) {
	mol := fixture.Chain()
	require.NoError(Te, mol.Validate())

	mol.OrbEnergies[0], mol.OrbEnergies[1] = mol.OrbEnergies[1], mol.OrbEnergies[0]
	assert.True(Te, cdft.IsKind(mol.Validate(), cdft.MissingInput))

	mol = fixture.Chain()
	mol.HOMO = 6
	err := mol.Validate()
	assert.True(Te, errors.Is(err, cdft.ErrOrbitalIndexOutOfRange))
	assert.True(Te, cdft.IsCritical(err))

	err = cdft.EmptyMolecule().Validate()
	assert.True(Te, errors.Is(err, cdft.ErrSkippedEmptyMolecule))
	assert.False(Te, cdft.IsCritical(err))
}

func TestFrontierEnergies(Te *testing.T) {
	mol := fixture.Frontier(-7, -1)
	h, err := mol.HOMOEnergy()
	require.NoError(Te, err)
	l, err := mol.LUMOEnergy()
	require.NoError(Te, err)
	assert.Equal(Te, -7.0, h)
	assert.Equal(Te, -1.0, l)
	mol.HOMO = 2
	_, err = mol.LUMOEnergy()
	assert.True(Te, cdft.IsKind(err, cdft.OrbitalIndexOutOfRange))
}

func TestOccupations(Te *testing.T) {
	mol := fixture.Chain()
	assert.Equal(Te, 6, mol.NElectrons())
	assert.Equal(Te, 2.0, mol.Occupation(0))
	assert.Equal(Te, 2.0, mol.Occupation(2))
	assert.Equal(Te, 0.0, mol.Occupation(3))
	_, cat, _ := fixture.States(-100, -99.4, -100.3)
	assert.Equal(Te, 1.0, cat.Occupation(2))
	mol.Electrons = 0
	mol.HOMO = 1
	assert.Equal(Te, 4, mol.NElectrons())
}

func TestAtomContributions(Te *testing.T) {
	h2 := fixture.H2()
	c, err := h2.AtomContributions(0)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.5, c[0], 1e-9)
	assert.InDelta(Te, 0.5, c[1], 1e-9)

	mol := fixture.Chain()
	c, err = mol.AtomContributions(0)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.45/0.67, c[0], 1e-9)
	assert.InDelta(Te, 1.0, floats.Sum(c), 1e-12)

	_, err = mol.AtomContributions(6)
	assert.True(Te, cdft.IsKind(err, cdft.OrbitalIndexOutOfRange))

	pop, err := mol.AtomPopulations()
	require.NoError(Te, err)
	assert.InDelta(Te, 6.0, floats.Sum(pop), 1e-9)
}

func TestLightCopy(Te *testing.T) {
	mol := fixture.Chain()
	cp := mol.LightCopy()
	assert.Equal(Te, mol.Len(), cp.Len())
	assert.Nil(Te, cp.MOs)
	assert.Empty(Te, cp.OrbEnergies)
	cp.Atoms[0].Charge = 10
	assert.Equal(Te, -0.2, mol.Atoms[0].Charge)
}

func TestBasisNormalization(Te *testing.T) {
	mol := fixture.SingleGaussian(0.5, 2)
	bs, err := mol.CompileBasis()
	require.NoError(Te, err)
	v := bs.Values(r3.Vec{}, nil)
	assert.InDelta(Te, math.Pow(1/math.Pi, 0.75), v[0], 1e-12)

	//a px function with alpha=1, evaluated 1 bohr away along x.
	mol.Basis[0] = &cdft.BasisFunction{Atom: 0, L: [3]int{1, 0, 0}, Exponents: []float64{1}, Coefs: []float64{1}}
	bs, err = mol.CompileBasis()
	require.NoError(Te, err)
	v = bs.Values(r3.Vec{X: cdft.Bohr2A}, v)
	expected := math.Pow(2/math.Pi, 0.75) * 2 * math.Exp(-1)
	assert.InDelta(Te, expected, v[0], 1e-9)

	//contracted functions are renormalized: a contraction of two identical
	//primitives is the same function as a single one.
	mol.Basis[0] = &cdft.BasisFunction{Atom: 0, Exponents: []float64{0.5, 0.5}, Coefs: []float64{3, 3}}
	bs, err = mol.CompileBasis()
	require.NoError(Te, err)
	v = bs.Values(r3.Vec{}, v)
	assert.InDelta(Te, math.Pow(1/math.Pi, 0.75), v[0], 1e-12)

	_, err = fixture.Frontier(-7, -1).CompileBasis()
	assert.True(Te, cdft.IsKind(err, cdft.MissingInput))
}

func TestErrorDecoration(Te *testing.T) {
	err := cdft.NewError(cdft.GeometryMismatch, "grids differ", "Grid.Add")
	wrapped := cdft.ErrDecorate(err, "Caller")
	assert.Equal(Te, []string{"Grid.Add", "Caller"}, err.Decorate(""))
	assert.True(Te, errors.Is(wrapped, cdft.ErrGeometryMismatch))
	assert.False(Te, errors.Is(wrapped, cdft.ErrInvalidGeometry))
	assert.Contains(Te, wrapped.Error(), "geometry mismatch")
}

func TestParseOptions(Te *testing.T) {
	h, err := cdft.ParseHardnessMethod("mepEE")
	require.NoError(Te, err)
	assert.Equal(Te, cdft.MepEE, h)
	assert.True(Te, h.NeedsDensity())
	_, err = cdft.ParseHardnessMethod("magic")
	assert.True(Te, errors.Is(err, cdft.ErrUnknownHardnessMethod))
	a, err := cdft.ParseApproximation("fd")
	require.NoError(Te, err)
	assert.Equal(Te, cdft.FiniteDifference, a)
	b, err := cdft.ParseBandMode("BD")
	require.NoError(Te, err)
	assert.Equal(Te, "BD", b.String())
	assert.True(Te, cdft.Band{}.Frontier())
}

func TestBandOrbitals(Te *testing.T) {
	mol := fixture.Chain()
	idx, w, err := mol.BandOrbitals(cdft.Band{Cutoff: 1, Mode: cdft.EnergyWeighted}, cdft.Occupied)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2, 1}, idx)
	assert.InDelta(Te, 1/(1+math.Exp(-0.5)), w[0], 1e-12)
	assert.InDelta(Te, 1.0, floats.Sum(w), 1e-12)

	idx, w, err = mol.BandOrbitals(cdft.Band{Cutoff: 1, Mode: cdft.BandDensity}, cdft.Virtual)
	require.NoError(Te, err)
	assert.Equal(Te, []int{3, 4}, idx)
	assert.Equal(Te, []float64{0.5, 0.5}, w)

	idx, _, err = mol.BandOrbitals(cdft.Band{Cutoff: 0.1}, cdft.Virtual)
	require.NoError(Te, err)
	assert.Equal(Te, []int{3}, idx)

	mol.HOMO = 5
	_, _, err = mol.BandOrbitals(cdft.Band{}, cdft.Virtual)
	assert.True(Te, errors.Is(err, cdft.ErrOrbitalIndexOutOfRange))
}

func TestElements(Te *testing.T) {
	assert.Equal(Te, 8, cdft.AtomicNumber("O"))
	assert.Equal(Te, 0, cdft.AtomicNumber("Xx"))
	assert.Equal(Te, "N", cdft.SymbolFromNumber(7))
	a := &cdft.Atom{Symbol: "C"}
	assert.Equal(Te, 6, a.Z())
	a.Number = 14
	assert.Equal(Te, 14, a.Z())
}
