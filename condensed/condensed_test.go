/*
 * condensed_test.go, part of cdft.
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

package condensed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/global"
	"github.com/rmera/cdft/internal/fixture"
)

func foa(Te *testing.T, band cdft.Band) (*Calculator, *Fukui) {
	C, err := NewFrozenOrbital(fixture.Chain())
	require.NoError(Te, err)
	F, err := C.Fukui(band)
	require.NoError(Te, err)
	return C, F
}

func TestBandModes(Te *testing.T) {
	//two orbitals in each band
	_, ew := foa(Te, cdft.Band{Cutoff: 1, Mode: cdft.EnergyWeighted})
	_, bd := foa(Te, cdft.Band{Cutoff: 1, Mode: cdft.BandDensity})
	assert.False(Te, floats.EqualApprox(ew.EAS, bd.EAS, 1e-9))
	assert.False(Te, floats.EqualApprox(ew.NAS, bd.NAS, 1e-9))
	assert.InDelta(Te, 1.0, floats.Sum(ew.EAS), 1e-12)
	assert.InDelta(Te, 1.0, floats.Sum(bd.NAS), 1e-12)

	//only the frontier orbitals
	_, ew = foa(Te, cdft.Band{Cutoff: 0.1, Mode: cdft.EnergyWeighted})
	_, bd = foa(Te, cdft.Band{Cutoff: 0.1, Mode: cdft.BandDensity})
	_, fr := foa(Te, cdft.Band{})
	assert.Equal(Te, ew.EAS, bd.EAS)
	assert.Equal(Te, ew.NAS, bd.NAS)
	assert.Equal(Te, fr.EAS, bd.EAS)
}

func TestBandConsistency(Te *testing.T) {
	band := cdft.Band{Cutoff: 1, Mode: cdft.BandDensity}
	g, err := global.FrozenOrbital(fixture.Chain())
	require.NoError(Te, err)
	C, _ := foa(Te, band)
	_, err = C.RD(g, cdft.Band{Cutoff: 1, Mode: cdft.EnergyWeighted})
	assert.True(Te, errors.Is(err, cdft.ErrInconsistentBandParameters))
	_, err = C.RD(g, band)
	require.NoError(Te, err)
	_, err = C.Hardness(g, cdft.Band{Cutoff: 2, Mode: cdft.BandDensity})
	assert.True(Te, errors.Is(err, cdft.ErrInconsistentBandParameters))
	_, err = C.Hardness(g, band)
	require.NoError(Te, err)
	assert.Equal(Te, band, C.Descriptors().Band)
}

func TestCallOrder(Te *testing.T) {
	g, err := global.FrozenOrbital(fixture.Chain())
	require.NoError(Te, err)
	C, err := NewFrozenOrbital(fixture.Chain())
	require.NoError(Te, err)
	_, err = C.RD(g, cdft.Band{})
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
	_, err = C.Hardness(g, cdft.Band{})
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
	_, err = NewFrozenOrbital(fixture.Frontier(-7, -1))
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
	_, err = NewFrozenOrbital(cdft.EmptyMolecule())
	assert.True(Te, errors.Is(err, cdft.ErrSkippedEmptyMolecule))
}

func TestFiniteDifference(Te *testing.T) {
	n, c, a := fixture.States(-100, -99.4, -100.3)
	g, err := global.FiniteDifference(n, c, a)
	require.NoError(Te, err)
	C, err := NewFiniteDifference(n, c, a)
	require.NoError(Te, err)
	_, err = C.Fukui(cdft.Band{Cutoff: 1})
	assert.True(Te, errors.Is(err, cdft.ErrInconsistentBandParameters))
	F, err := C.Fukui(cdft.Band{})
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{0.3, 0.5, 0.2}, F.EAS, 1e-12)
	assert.InDeltaSlice(Te, []float64{0.3, 0.3, 0.4}, F.NAS, 1e-12)

	R, err := C.RD(g, cdft.Band{})
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{0, -0.2, 0.2}, R.Dual, 1e-12)
	assert.InDelta(Te, g.ElectroAccepting*0.4-g.ElectroDonating*0.2, R.Netphilicity[2], 1e-12)
	assert.InDelta(Te, g.Softness*0.4, R.Softness[1], 1e-12)
	assert.InDelta(Te, g.Electrophilicity*0.2, R.Multiphilic[2], 1e-12)

	H, err := C.Hardness(g, cdft.Band{})
	require.NoError(Te, err)
	assert.InDelta(Te, g.Hardness, floats.Dot(H.C, R.RAS), 1e-9)
	assert.InDelta(Te, g.Hardness*R.RAS[0], H.D[0], 1e-12)
	assert.InDelta(Te, g.Hardness, floats.Sum(H.A), 1e-9)
	pop := R.ElectronDensity
	assert.InDelta(Te, 0.5*g.Hardness, floats.Dot(pop, H.B)/float64(g.Electrons), 1e-9)

	//every variant is proportional to the global hardness
	hard := *g
	hard.Hardness = 10 * g.Hardness
	H10, err := C.Hardness(&hard, cdft.Band{})
	require.NoError(Te, err)
	for _, v := range [][2][]float64{{H.A, H10.A}, {H.B, H10.B}, {H.C, H10.C}, {H.D, H10.D}} {
		for i := range v[0] {
			assert.InDelta(Te, 10*v[0][i], v[1][i], 1e-9)
		}
	}

	_, err = NewFiniteDifference(n, c, fixture.H2())
	assert.True(Te, errors.Is(err, cdft.ErrGeometryMismatch))
}

func TestMEP(Te *testing.T) {
	mol := fixture.Chain()
	g, err := global.FrozenOrbital(mol)
	require.NoError(Te, err)
	C, err := NewFrozenOrbital(mol)
	require.NoError(Te, err)
	_, err = C.Fukui(cdft.Band{})
	require.NoError(Te, err)
	R, err := C.RD(g, cdft.Band{})
	require.NoError(Te, err)
	expected := cdft.CoulombeVA * (-0.3/1.4 + 0.5/2.8)
	assert.InDelta(Te, expected, R.MEP[0], 1e-9)
	assert.InDelta(Te, 6.0, floats.Sum(R.ElectronDensity), 1e-9)
}

func TestSingleAtomHardness(Te *testing.T) {
	mol := fixture.SingleGaussian(0.5, 2)
	g, err := global.FrozenOrbital(mol)
	require.NoError(Te, err)
	C, err := NewFrozenOrbital(mol)
	require.NoError(Te, err)
	_, err = C.Fukui(cdft.Band{})
	require.NoError(Te, err)
	_, err = C.RD(g, cdft.Band{})
	require.NoError(Te, err)
	H, err := C.Hardness(g, cdft.Band{})
	assert.True(Te, cdft.IsKind(err, cdft.DegenerateNormalization))
	assert.False(Te, cdft.IsCritical(err))
	require.NotNil(Te, H)
	assert.Nil(Te, H.C)
	assert.Equal(Te, []float64{0}, H.B)
	assert.InDelta(Te, g.Hardness, H.A[0], 1e-12)
}

func TestResidues(Te *testing.T) {
	n, c, a := fixture.States(-100, -99.4, -100.3)
	C, err := NewFiniteDifference(n, c, a)
	require.NoError(Te, err)
	_, err = C.Fukui(cdft.Band{})
	require.NoError(Te, err)
	D := C.Descriptors()

	res := Residues(n.Atoms)
	require.Len(Te, res, 2)
	assert.Equal(Te, "ALA", res[0].Name)
	assert.Equal(Te, []int{0, 1}, res[0].Atoms)
	assert.Equal(Te, 2, res[1].ID)

	stats, err := AggregateResidues(D, res)
	require.NoError(Te, err)
	require.Len(Te, stats, 4)
	assert.Equal(Te, "EAS", stats[0].Family)
	assert.InDelta(Te, 0.4, stats[0].Mean, 1e-12)
	assert.InDelta(Te, 0.1, stats[0].SD, 1e-12)
	assert.InDelta(Te, 0.2, stats[1].Mean, 1e-12)
	assert.Equal(Te, 0.0, stats[1].SD)

	rows := D.Rows()
	assert.Len(Te, rows, 6)
	assert.Equal(Te, Row{ID: 3, Atom: "O1", Family: "NAS", Value: rows[5].Value}, rows[5])

	_, err = AggregateResidues(D, nil)
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
}

func TestDescriptorsSub(Te *testing.T) {
	atoms := fixture.Chain().Atoms
	a := &Descriptors{Atoms: atoms, Approx: cdft.FiniteDifference,
		Fukui:    &Fukui{EAS: []float64{0.5, 0.3, 0.2}, NAS: []float64{0.1, 0.1, 0.8}},
		Hardness: &Hardness{A: []float64{1, 2, 3}, D: []float64{1, 1, 1}}}
	b := &Descriptors{Atoms: atoms, Approx: cdft.FiniteDifference,
		Fukui: &Fukui{EAS: []float64{0.4, 0.4, 0.2}, NAS: []float64{0.2, 0.1, 0.7}},
		RD:    &RD{RAS: []float64{1, 1, 1}}}
	d, err := a.Sub(b)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{0.1, -0.1, 0}, d.Fukui.EAS, 1e-12)
	assert.InDeltaSlice(Te, []float64{-0.1, 0, 0.1}, d.Fukui.NAS, 1e-12)
	//only in one of the sets
	assert.Nil(Te, d.RD)
	assert.Nil(Te, d.Hardness)
	assert.Equal(Te, 0.5, a.Fukui.EAS[0])

	//a complex minus its fragments
	whole := &Descriptors{Atoms: append(append([]*cdft.Atom{}, atoms...), atoms...), Approx: cdft.FiniteDifference,
		Fukui:    &Fukui{EAS: []float64{1, 1, 1, 1, 1, 1}, NAS: []float64{0, 0, 0, 0, 0, 0}},
		Hardness: &Hardness{A: []float64{1, 1, 1, 1, 1, 1}}}
	parts := Join(a, a)
	assert.Len(Te, parts.Atoms, 6)
	require.NotNil(Te, parts.Hardness)
	assert.Nil(Te, parts.Hardness.B)
	cd, err := whole.Sub(parts)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{0.5, 0.7, 0.8, 0.5, 0.7, 0.8}, cd.Fukui.EAS, 1e-12)
	assert.InDeltaSlice(Te, []float64{0, -1, -2, 0, -1, -2}, cd.Hardness.A, 1e-12)
	assert.Nil(Te, Join(a, b).Hardness)

	_, err = whole.Sub(a)
	assert.True(Te, errors.Is(err, cdft.ErrGeometryMismatch))
}
