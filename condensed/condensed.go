/*
 * condensed.go, part of cdft.
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

//Package condensed obtains atom-condensed local reactivity descriptors,
//optionally restricted to an energy band around the frontier orbitals,
//and their averages over the residues of a protein.
package condensed

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/global"
)

//Fukui contains the condensed Fukui functions. EAS is the susceptibility to
//electrophilic attack (f-) and NAS to nucleophilic attack (f+).
type Fukui struct {
	EAS []float64
	NAS []float64
}

//RD contains the condensed reactivity descriptors derived from the Fukui functions.
type RD struct {
	RAS             []float64
	Dual            []float64 //NAS-EAS
	Netphilicity    []float64 //omega+ NAS - omega- EAS
	Softness        []float64
	Hypersoftness   []float64
	Multiphilic     []float64
	ElectronDensity []float64
	MEP             []float64 //eV per unit charge
}

//Hardness contains four condensed local hardness variants:
//A, the local chemical potential approximation, eta*n_k/N;
//B, the electron-electron potential of the atomic populations, normalized so sum(n*B)/N = eta;
//C, the Fukui potential of the RAS, normalized so sum(RAS*C) = eta;
//D, the Fukui-weighted global hardness, eta*RAS.
//All of them are multiplied by the corresponding factor of the Params. C is nil,
//and B is zero, if they can't be normalized (for instance, in one-atom systems).
type Hardness struct {
	A []float64
	B []float64
	C []float64
	D []float64
}

//Calculator obtains the condensed descriptors of one molecule. The calls
//must be made in order: Fukui, RD, Hardness, all with the same band.
//A Calculator is not safe for concurrent use.
type Calculator struct {
	Params cdft.HardnessParams

	approx   cdft.Approximation
	mol      *cdft.Molecule //the neutral molecule in finite difference
	cation   *cdft.Molecule
	anion    *cdft.Molecule
	band     *cdft.Band
	fukui    *Fukui
	rd       *RD
	hardness *Hardness
}

//NewFrozenOrbital returns a Calculator that uses the frontier orbitals of mol,
//which needs MO coefficients.
func NewFrozenOrbital(mol *cdft.Molecule) (*Calculator, error) {
	if mol.Empty() {
		return nil, cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "condensed.NewFrozenOrbital")
	}
	if !mol.HasCoefficients() || len(mol.Basis) == 0 {
		return nil, cdft.NewError(cdft.MissingInput, "frozen orbital condensed descriptors need MO coefficients and a basis", "condensed.NewFrozenOrbital")
	}
	return &Calculator{approx: cdft.FrozenOrbital, mol: mol, Params: cdft.DefaultHardnessParams()}, nil
}

//NewFiniteDifference returns a Calculator that uses the atomic partial charges
//of the neutral, cationic and anionic states of a molecule.
func NewFiniteDifference(neutral, cation, anion *cdft.Molecule) (*Calculator, error) {
	if neutral.Empty() || cation.Empty() || anion.Empty() {
		return nil, cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "condensed.NewFiniteDifference")
	}
	if neutral.Len() != cation.Len() || neutral.Len() != anion.Len() {
		return nil, cdft.Errorf(cdft.GeometryMismatch, "condensed.NewFiniteDifference", "states with %d, %d and %d atoms", neutral.Len(), cation.Len(), anion.Len())
	}
	return &Calculator{approx: cdft.FiniteDifference, mol: neutral, cation: cation, anion: anion, Params: cdft.DefaultHardnessParams()}, nil
}

//Approx returns the approximation used by the calculator.
func (C *Calculator) Approx() cdft.Approximation {
	return C.approx
}

//checkBand stores the band on the first call, and compares against it
//on later calls.
func (C *Calculator) checkBand(b cdft.Band, caller string) error {
	if C.approx == cdft.FiniteDifference && !b.Frontier() {
		return cdft.Errorf(cdft.InconsistentBandParameters, caller, "band %s requested in the finite difference approximation", b)
	}
	if C.band == nil {
		C.band = &b
		return nil
	}
	if *C.band != b {
		return cdft.Errorf(cdft.InconsistentBandParameters, caller, "band %s, but %s was used before", b, *C.band)
	}
	return nil
}

//Fukui obtains the condensed Fukui functions.
func (C *Calculator) Fukui(band cdft.Band) (*Fukui, error) {
	if err := C.checkBand(band, "Calculator.Fukui"); err != nil {
		return nil, err
	}
	F := new(Fukui)
	var err error
	if C.approx == cdft.FiniteDifference {
		qn, qc, qa := C.mol.Charges(), C.cation.Charges(), C.anion.Charges()
		F.EAS = make([]float64, len(qn))
		F.NAS = make([]float64, len(qn))
		floats.SubTo(F.EAS, qc, qn)
		floats.SubTo(F.NAS, qn, qa)
	} else {
		if F.EAS, err = C.bandContributions(band, cdft.Occupied); err != nil {
			return nil, cdft.ErrDecorate(err, "Calculator.Fukui")
		}
		if F.NAS, err = C.bandContributions(band, cdft.Virtual); err != nil {
			return nil, cdft.ErrDecorate(err, "Calculator.Fukui")
		}
	}
	C.fukui, C.rd, C.hardness = F, nil, nil
	return F, nil
}

//bandContributions returns the weighted sum of the atomic contributions of the orbitals in the band.
func (C *Calculator) bandContributions(band cdft.Band, side cdft.Side) ([]float64, error) {
	idx, w, err := C.mol.BandOrbitals(band, side)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, C.mol.Len())
	for j, i := range idx {
		c, err := C.mol.AtomContributions(i)
		if err != nil {
			return nil, err
		}
		floats.AddScaled(ret, w[j], c)
	}
	return ret, nil
}

//RD obtains the condensed descriptors derived from the Fukui functions. Fukui must
//have been called before, with the same band.
func (C *Calculator) RD(g *global.Descriptors, band cdft.Band) (*RD, error) {
	if C.fukui == nil {
		return nil, cdft.NewError(cdft.MissingInput, "Fukui functions not calculated", "Calculator.RD")
	}
	if g == nil {
		return nil, cdft.NewError(cdft.MissingInput, "no global descriptors", "Calculator.RD")
	}
	if err := C.checkBand(band, "Calculator.RD"); err != nil {
		return nil, err
	}
	if g.Degenerate() {
		return nil, cdft.NewError(cdft.DegenerateHardness, "zero global hardness", "Calculator.RD")
	}
	n := C.mol.Len()
	F := C.fukui
	R := &RD{
		RAS:           make([]float64, n),
		Dual:          make([]float64, n),
		Netphilicity:  make([]float64, n),
		Softness:      make([]float64, n),
		Hypersoftness: make([]float64, n),
		Multiphilic:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		R.RAS[i] = (F.EAS[i] + F.NAS[i]) / 2
		R.Dual[i] = F.NAS[i] - F.EAS[i]
		R.Netphilicity[i] = g.ElectroAccepting*F.NAS[i] - g.ElectroDonating*F.EAS[i]
		R.Softness[i] = g.Softness * R.RAS[i]
		R.Hypersoftness[i] = g.Softness * g.Softness * R.Dual[i]
		R.Multiphilic[i] = g.Electrophilicity * R.Dual[i]
	}
	var err error
	if R.ElectronDensity, err = C.populations(); err != nil {
		return nil, cdft.ErrDecorate(err, "Calculator.RD")
	}
	R.MEP = pairSum(C.mol.Atoms, C.mol.Charges())
	floats.Scale(cdft.CoulombeVA, R.MEP)
	C.rd, C.hardness = R, nil
	return R, nil
}

//populations returns the electron population of each atom. If the molecule
//has MO coefficients, they are used, otherwise the populations are obtained
//as Z-q.
func (C *Calculator) populations() ([]float64, error) {
	if C.mol.HasCoefficients() && len(C.mol.Basis) > 0 {
		return C.mol.AtomPopulations()
	}
	ret := make([]float64, C.mol.Len())
	for i, a := range C.mol.Atoms {
		ret[i] = float64(a.Z()) - a.Charge
	}
	return ret, nil
}

//pairSum returns, for each atom i, sum_{j!=i} v_j/r_ij, with r in Å.
func pairSum(atoms []*cdft.Atom, v []float64) []float64 {
	ret := make([]float64, len(atoms))
	for i, a := range atoms {
		for j, b := range atoms {
			if i == j {
				continue
			}
			d := r3.Norm(r3.Sub(a.Pos, b.Pos))
			if d < 1e-6 {
				continue
			}
			ret[i] += v[j] / d
		}
	}
	return ret
}

//Hardness obtains the condensed local hardness variants. RD must have been
//called before, with the same band. If the C variant can't be normalized, the other
//variants are returned together with a non-critical DegenerateNormalization error.
func (C *Calculator) Hardness(g *global.Descriptors, band cdft.Band) (*Hardness, error) {
	if C.rd == nil {
		return nil, cdft.NewError(cdft.MissingInput, "RD descriptors not calculated", "Calculator.Hardness")
	}
	if g == nil {
		return nil, cdft.NewError(cdft.MissingInput, "no global descriptors", "Calculator.Hardness")
	}
	if err := C.checkBand(band, "Calculator.Hardness"); err != nil {
		return nil, err
	}
	p := C.Params.OrDefaults()
	pop := C.rd.ElectronDensity
	N := float64(g.Electrons)
	if N <= 0 {
		N = floats.Sum(pop)
	}
	n := len(pop)
	H := &Hardness{A: make([]float64, n), D: make([]float64, n)}
	for i := range pop {
		H.A[i] = p.LCP * g.Hardness * pop[i] / N
		H.D[i] = g.Hardness * C.rd.RAS[i]
	}
	var err error
	H.B = pairSum(C.mol.Atoms, pop)
	if eeNorm := floats.Dot(pop, H.B) / N; math.Abs(eeNorm) < 1e-12 {
		err = cdft.NewError(cdft.DegenerateNormalization, "electron-electron potential can't be normalized", "Calculator.Hardness")
	} else {
		floats.Scale(p.EE*g.Hardness/eeNorm, H.B)
	}
	vf := pairSum(C.mol.Atoms, C.rd.RAS)
	norm := floats.Dot(vf, C.rd.RAS)
	if math.Abs(norm) < 1e-12 {
		err = cdft.NewError(cdft.DegenerateNormalization, "Fukui potential can't be normalized", "Calculator.Hardness")
	} else {
		floats.Scale(p.FukuiPotential*g.Hardness/norm, vf)
		H.C = vf
	}
	C.hardness = H
	return H, err
}

//Descriptors returns all the descriptors obtained so far.
func (C *Calculator) Descriptors() *Descriptors {
	D := &Descriptors{Atoms: C.mol.Atoms, Approx: C.approx, Fukui: C.fukui, RD: C.rd, Hardness: C.hardness}
	if C.band != nil {
		D.Band = *C.band
	}
	return D
}
