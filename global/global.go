/*
 * global.go, part of cdft.
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

//Package global obtains the global reactivity descriptors of a molecule,
//in the frozen orbital or the finite difference approximation.
package global

import (
	"math"

	"github.com/rmera/cdft"
)

//Hardness values with a smaller absolute value are considered zero.
const hardnessTol = 1e-10

//Descriptors contains the global reactivity descriptors of a molecule.
//In the frozen orbital approximation the energies are in eV. In the finite
//difference approximation they are in the units of the total energies of
//the molecules.
type Descriptors struct {
	Approx            cdft.Approximation
	IP                float64 //ionization potential
	EA                float64 //electron affinity
	ChemicalPotential float64
	Hardness          float64
	Softness          float64
	Electrophilicity  float64
	Energy            float64
	HOF               float64 //heat of formation
	HOMOEnergy        float64
	LUMOEnergy        float64
	Electrons         int

	MaxElectronTransfer float64
	ElectroDonating     float64 //omega-
	ElectroAccepting    float64 //omega+

	//Delta is true if the values are differences between descriptor sets (see Sub).
	Delta bool
	//some operand of the difference had a zero hardness
	partial bool
}

//FrozenOrbital obtains the descriptors from the HOMO and LUMO energies of mol.
//If the HOMO and LUMO are degenerate, the descriptors that do not depend on
//the hardness are still returned, together with a DegenerateHardness error.
func FrozenOrbital(mol *cdft.Molecule) (*Descriptors, error) {
	if mol.Empty() {
		return nil, cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "global.FrozenOrbital")
	}
	h, err := mol.HOMOEnergy()
	if err != nil {
		return nil, cdft.ErrDecorate(err, "global.FrozenOrbital")
	}
	l, err := mol.LUMOEnergy()
	if err != nil {
		return nil, cdft.ErrDecorate(err, "global.FrozenOrbital")
	}
	D := &Descriptors{
		Approx:            cdft.FrozenOrbital,
		IP:                -h,
		EA:                -l,
		ChemicalPotential: (h + l) / 2,
		Hardness:          l - h,
		Energy:            mol.Energy,
		HOF:               mol.HeatOfFormation,
		HOMOEnergy:        h,
		LUMOEnergy:        l,
		Electrons:         mol.NElectrons(),
	}
	return D, cdft.ErrDecorate(D.derive(), "global.FrozenOrbital")
}

//FiniteDifference obtains the descriptors from the total energies of the neutral,
//cationic and anionic states of a molecule. Orbital energies, if present, are
//taken from the neutral state.
func FiniteDifference(neutral, cation, anion *cdft.Molecule) (*Descriptors, error) {
	if neutral.Empty() || cation.Empty() || anion.Empty() {
		return nil, cdft.NewError(cdft.SkippedEmptyMolecule, "empty molecule", "global.FiniteDifference")
	}
	I := cation.Energy - neutral.Energy
	A := neutral.Energy - anion.Energy
	D := &Descriptors{
		Approx:            cdft.FiniteDifference,
		IP:                I,
		EA:                A,
		ChemicalPotential: -(I + A) / 2,
		Hardness:          I - A,
		Energy:            neutral.Energy,
		HOF:               neutral.HeatOfFormation,
		Electrons:         neutral.NElectrons(),
	}
	if h, err := neutral.HOMOEnergy(); err == nil {
		D.HOMOEnergy = h
	}
	if l, err := neutral.LUMOEnergy(); err == nil {
		D.LUMOEnergy = l
	}
	return D, cdft.ErrDecorate(D.derive(), "global.FiniteDifference")
}

//derive fills the descriptors that depend on the hardness.
func (D *Descriptors) derive() error {
	if math.Abs(D.Hardness) < hardnessTol {
		return cdft.Errorf(cdft.DegenerateHardness, "", "hardness is %g", D.Hardness)
	}
	mu, eta := D.ChemicalPotential, D.Hardness
	D.Softness = 1 / eta
	D.Electrophilicity = mu * mu / (2 * eta)
	D.MaxElectronTransfer = -mu / eta
	I, A := D.IP, D.EA
	D.ElectroDonating = (3*I + A) * (3*I + A) / (16 * (I - A))
	D.ElectroAccepting = (I + 3*A) * (I + 3*A) / (16 * (I - A))
	return nil
}

//Degenerate returns true if the hardness is zero, in which case
//the descriptors that depend on it are not set. For differences, it
//returns true if any of the sets subtracted was degenerate.
func (D *Descriptors) Degenerate() bool {
	if D.Delta {
		return D.partial
	}
	return math.Abs(D.Hardness) < hardnessTol
}

//Sub returns a new set with the descriptors of D minus those of each of others,
//for instance, those of a frame of a reaction path minus the previous frame, or
//those of a complex minus those of its fragments. The approximation is that of D.
//If any set involved is degenerate, the hardness-dependent differences are not
//meaningful, and the result is Degenerate.
func (D *Descriptors) Sub(others ...*Descriptors) *Descriptors {
	R := *D
	R.Delta = true
	R.partial = D.Degenerate()
	for _, o := range others {
		R.partial = R.partial || o.Degenerate()
		R.IP -= o.IP
		R.EA -= o.EA
		R.ChemicalPotential -= o.ChemicalPotential
		R.Hardness -= o.Hardness
		R.Softness -= o.Softness
		R.Electrophilicity -= o.Electrophilicity
		R.Energy -= o.Energy
		R.HOF -= o.HOF
		R.HOMOEnergy -= o.HOMOEnergy
		R.LUMOEnergy -= o.LUMOEnergy
		R.Electrons -= o.Electrons
		R.MaxElectronTransfer -= o.MaxElectronTransfer
		R.ElectroDonating -= o.ElectroDonating
		R.ElectroAccepting -= o.ElectroAccepting
	}
	return &R
}

//Record returns the descriptors as a flat map.
func (D *Descriptors) Record() map[string]float64 {
	r := map[string]float64{
		"HOF":       D.HOF,
		"ECP":       D.ChemicalPotential,
		"Hardness":  D.Hardness,
		"Energy":    D.Energy,
		"IP":        D.IP,
		"EA":        D.EA,
		"HOMO":      D.HOMOEnergy,
		"LUMO":      D.LUMOEnergy,
		"Electrons": float64(D.Electrons),
	}
	if !D.Degenerate() {
		r["Softness"] = D.Softness
		r["Electrophilicity"] = D.Electrophilicity
		r["MaxElectronTransfer"] = D.MaxElectronTransfer
		r["ElectroDonating"] = D.ElectroDonating
		r["ElectroAccepting"] = D.ElectroAccepting
	}
	return r
}
