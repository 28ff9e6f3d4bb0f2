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

package cdft

import (
	"fmt"
	"strings"
)

//Unit conversions and physical constants.
const (
	Bohr2A     = 0.529177210903 //Å per bohr
	A2Bohr     = 1 / Bohr2A
	Hartree2eV = 27.211386245988
	//Coulomb constant in eV·Å/e², so q1*q2/r with r in Å gives eV.
	CoulombeVA = 14.399645478425
)

//Approximation selects how Fukui-type quantities are obtained.
type Approximation int

const (
	//FrozenOrbital uses the frontier orbitals of a single calculation.
	FrozenOrbital Approximation = iota
	//FiniteDifference uses the neutral, cationic and anionic states.
	FiniteDifference
)

func (a Approximation) String() string {
	if a == FiniteDifference {
		return "FD"
	}
	return "FOA"
}

//ParseApproximation accepts "FOA" or "FD" (and the long names), case insensitive.
func ParseApproximation(s string) (Approximation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "foa", "frozen", "frozen orbital", "frozen-orbital":
		return FrozenOrbital, nil
	case "fd", "finite", "finite difference", "finite-difference":
		return FiniteDifference, nil
	}
	return FrozenOrbital, fmt.Errorf("unknown approximation %q", s)
}

//HardnessMethod is the local hardness formula used for volumetric descriptors.
type HardnessMethod int

const (
	NoHardness HardnessMethod = iota
	LCP
	MepEE
	FukuiPotential
)

var hardnessTags = map[HardnessMethod]string{
	NoHardness:     "not",
	LCP:            "LCP",
	MepEE:          "mepEE",
	FukuiPotential: "fukui",
}

func (h HardnessMethod) String() string {
	if s, ok := hardnessTags[h]; ok {
		return s
	}
	return fmt.Sprintf("hardness(%d)", int(h))
}

//NeedsDensity is true for the methods that require the total electron density.
func (h HardnessMethod) NeedsDensity() bool {
	return h == LCP || h == MepEE
}

//ParseHardnessMethod parses the method tags "not", "LCP", "mepEE" and "fukui"
//(or "Fukui potential"). Anything else gives an UnknownHardnessMethod error.
func ParseHardnessMethod(s string) (HardnessMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "not", "none":
		return NoHardness, nil
	case "lcp":
		return LCP, nil
	case "mepee":
		return MepEE, nil
	case "fukui", "fukui potential", "fukui_potential", "fukuipotential":
		return FukuiPotential, nil
	}
	return NoHardness, Errorf(UnknownHardnessMethod, "ParseHardnessMethod", "method %q", s)
}

//BandMode is the orbital weighting for band-restricted descriptors.
type BandMode int

const (
	//EnergyWeighted weights each orbital by exp(-|E-E_edge|).
	EnergyWeighted BandMode = iota
	//BandDensity sums all the orbitals in the band with the same weight.
	BandDensity
)

func (b BandMode) String() string {
	if b == BandDensity {
		return "BD"
	}
	return "EW"
}

//ParseBandMode accepts "EW" or "BD".
func ParseBandMode(s string) (BandMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "EW":
		return EnergyWeighted, nil
	case "BD":
		return BandDensity, nil
	}
	return EnergyWeighted, fmt.Errorf("unknown band mode %q", s)
}

//Band is an energy window (eV) next to the HOMO/LUMO edge.
//A zero Cutoff means "use the single frontier orbital".
type Band struct {
	Cutoff float64
	Mode   BandMode
}

//Frontier returns true if the band reduces to the frontier orbital.
func (b Band) Frontier() bool {
	return b.Cutoff <= 0
}

func (b Band) String() string {
	if b.Frontier() {
		return "frontier"
	}
	return fmt.Sprintf("%s %.3f eV", b.Mode, b.Cutoff)
}

//Side tells band functions which edge to use.
type Side int

const (
	//Occupied side, the HOMO edge (electrophilic attack).
	Occupied Side = iota
	//Virtual side, the LUMO edge (nucleophilic attack).
	Virtual
)

//HardnessParams holds the constant factors of the local hardness formulas.
//They multiply, respectively, the LCP, the electron-electron and the
//Fukui-potential expressions.
type HardnessParams struct {
	LCP            float64
	EE             float64
	FukuiPotential float64
}

//DefaultHardnessParams returns the factors: 1 for LCP, 1/2 for the
//electron-electron potential and 1 for the Fukui potential.
func DefaultHardnessParams() HardnessParams {
	return HardnessParams{LCP: 1, EE: 0.5, FukuiPotential: 1}
}

//OrDefaults replaces the zero factors with the default ones.
func (H HardnessParams) OrDefaults() HardnessParams {
	d := DefaultHardnessParams()
	if H.LCP == 0 {
		H.LCP = d.LCP
	}
	if H.EE == 0 {
		H.EE = d.EE
	}
	if H.FukuiPotential == 0 {
		H.FukuiPotential = d.FukuiPotential
	}
	return H
}
