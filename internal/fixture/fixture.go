/*
 * fixture.go, part of cdft.
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

//Package fixture builds small molecules with known electronic structure,
//for the tests of the cdft packages.
package fixture

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
)

//SingleGaussian returns a one-atom molecule with one normalized s function
//of exponent alpha (bohr^-2) holding the given number of electrons
//in its only occupied orbital. A second, virtual orbital on the same function is added
//so the molecule has a LUMO.
func SingleGaussian(alpha float64, electrons int) *cdft.Molecule {
	return &cdft.Molecule{
		Name:        "gauss",
		Atoms:       []*cdft.Atom{{Name: "X1", Symbol: "He", ID: 1, Molname: "GAU", Molid: 1}},
		OrbEnergies: []float64{-10, -1},
		HOMO:        0,
		Electrons:   electrons,
		Occupations: []float64{float64(electrons), 0},
		Basis: []*cdft.BasisFunction{
			{Atom: 0, Exponents: []float64{alpha}, Coefs: []float64{1}},
		},
		MOs: mat.NewDense(1, 2, []float64{1, 1}),
	}
}

//H2 returns a minimal-basis hydrogen molecule along the z axis, with
//the bonding orbital occupied. Energies are in eV.
func H2() *cdft.Molecule {
	atoms := []*cdft.Atom{
		{Name: "H1", Symbol: "H", ID: 1, Molname: "HYD", Molid: 1, Charge: 0, Pos: r3.Vec{Z: -0.37}},
		{Name: "H2", Symbol: "H", ID: 2, Molname: "HYD", Molid: 1, Charge: 0, Pos: r3.Vec{Z: 0.37}},
	}
	b := []*cdft.BasisFunction{
		{Atom: 0, Exponents: []float64{3.42525091, 0.62391373, 0.16885540}, Coefs: []float64{0.15432897, 0.53532814, 0.44463454}},
		{Atom: 1, Exponents: []float64{3.42525091, 0.62391373, 0.16885540}, Coefs: []float64{0.15432897, 0.53532814, 0.44463454}},
	}
	S := 0.6593 //overlap of the two STO-3G 1s functions at 1.4 bohr
	cb := 1 / math.Sqrt(2*(1+S))
	ca := 1 / math.Sqrt(2*(1-S))
	return &cdft.Molecule{
		Name:         "H2",
		Atoms:        atoms,
		OrbEnergies:  []float64{-15.9, 19.2},
		HOMO:         0,
		Electrons:    2,
		Multiplicity: 1,
		Energy:       -1.1167,
		Basis:        b,
		MOs:          mat.NewDense(2, 2, []float64{cb, ca, cb, -ca}),
		Overlap:      mat.NewSymDense(2, []float64{1, S, S, 1}),
	}
}

//Chain returns a three-atom, six-orbital molecule in an orthogonal basis,
//with two s functions per atom. The three lower orbitals are occupied.
//Orbital energies are -12, -10, -9.5, -1, -0.6 and 2 eV, so a band of 1 eV
//holds two orbitals on each side of the gap, and a band of 0.1 eV only one.
//The atoms belong to two residues.
func Chain() *cdft.Molecule {
	atoms := []*cdft.Atom{
		{Name: "C1", Symbol: "C", ID: 1, Molname: "ALA", Molid: 1, Chain: "A", Charge: -0.2, Pos: r3.Vec{X: 0}},
		{Name: "N1", Symbol: "N", ID: 2, Molname: "ALA", Molid: 1, Chain: "A", Charge: -0.3, Pos: r3.Vec{X: 1.4}},
		{Name: "O1", Symbol: "O", ID: 3, Molname: "GLY", Molid: 2, Chain: "A", Charge: 0.5, Pos: r3.Vec{X: 2.8}},
	}
	var basis []*cdft.BasisFunction
	for i := range atoms {
		basis = append(basis,
			&cdft.BasisFunction{Atom: i, Exponents: []float64{1.2}, Coefs: []float64{1}},
			&cdft.BasisFunction{Atom: i, Exponents: []float64{0.3}, Coefs: []float64{1}},
		)
	}
	//columns are orbitals. Each column is unnormalized on purpose, contributions are
	//normalized anyway.
	mos := mat.NewDense(6, 6, []float64{
		0.6, 0.1, 0.7, 0.1, 0.2, 0.3,
		0.3, 0.1, 0.2, 0.1, 0.1, 0.3,
		0.4, 0.2, 0.1, 0.6, 0.2, 0.3,
		0.2, 0.1, 0.1, 0.5, 0.1, 0.3,
		0.1, 0.8, 0.1, 0.1, 0.7, 0.3,
		0.1, 0.4, 0.1, 0.1, 0.5, 0.3,
	})
	return &cdft.Molecule{
		Name:         "chain",
		Atoms:        atoms,
		OrbEnergies:  []float64{-12, -10, -9.5, -1, -0.6, 2},
		HOMO:         2,
		Electrons:    6,
		Multiplicity: 1,
		Energy:       -100,
		Basis:        basis,
		MOs:          mos,
		Density:      0.3,
	}
}

//Frontier returns a molecule with only orbital energies, with the given
//HOMO and LUMO energies.
func Frontier(homo, lumo float64) *cdft.Molecule {
	return &cdft.Molecule{
		Name:        "frontier",
		Atoms:       []*cdft.Atom{{Name: "C1", Symbol: "C", ID: 1}},
		OrbEnergies: []float64{homo - 5, homo, lumo},
		HOMO:        1,
		Electrons:   4,
	}
}

//States returns a neutral, a cationic and an anionic copy of the
//Chain molecule, with the given total energies. The partial charges
//of each state differ so finite difference condensed descriptors are not zero.
func States(eneutral, ecation, eanion float64) (neutral, cation, anion *cdft.Molecule) {
	neutral = Chain()
	neutral.Energy = eneutral
	cation = Chain()
	cation.Name = "chain+"
	cation.Energy = ecation
	cation.Charge = 1
	cation.Electrons = 5
	cation.Occupations = []float64{2, 2, 1, 0, 0, 0}
	cation.Multiplicity = 2
	anion = Chain()
	anion.Name = "chain-"
	anion.Energy = eanion
	anion.Charge = -1
	anion.Electrons = 7
	anion.Occupations = []float64{2, 2, 2, 1, 0, 0}
	anion.HOMO = 3
	anion.Multiplicity = 2
	cq := []float64{0.1, 0.2, 0.7}
	aq := []float64{-0.5, -0.6, 0.1}
	for i := range neutral.Atoms {
		cation.Atoms[i].Charge = cq[i]
		anion.Atoms[i].Charge = aq[i]
	}
	return neutral, cation, anion
}
