/*
 * molecule.go, part of cdft.
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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//EmptyName is the name a parser gives to a molecule it could not read.
const EmptyName = "empty"

//Atom contains the information for one atom of a molecule, including
//its coordinates, in Å, and its partial charge.
type Atom struct {
	Name    string
	Symbol  string
	Number  int //atomic number
	ID      int
	Molname string //residue name, if any
	Molid   int    //residue number, if any
	Chain   string
	Charge  float64
	Pos     r3.Vec
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

//Z returns the atomic number of the atom, taken from the symbol
//if the Number field is not set.
func (A *Atom) Z() int {
	if A.Number > 0 {
		return A.Number
	}
	return AtomicNumber(A.Symbol)
}

//Molecule is one electronic state of a molecule, as given by a QM program.
//Orbital energies are in eV, in ascending order. MOs has one column per orbital
//and one row per basis function. Energy and HeatOfFormation are in whatever units
//the QM program gives them, and are used only for differences.
type Molecule struct {
	Name            string
	Atoms           []*Atom
	OrbEnergies     []float64
	HOMO            int
	Electrons       int
	Energy          float64
	HeatOfFormation float64
	Charge          int
	Multiplicity    int
	Occupations     []float64 //optional, if nil, a closed-shell filling is assumed.
	Basis           []*BasisFunction
	MOs             *mat.Dense
	Overlap         *mat.SymDense //optional. If present, Mulliken partitions are used
	Density         float64       //optional empirical electron density, e/Å^3
}

//EmptyMolecule returns the sentinel molecule that parsers give when
//they fail to obtain useful information from a file.
func EmptyMolecule() *Molecule {
	return &Molecule{Name: EmptyName}
}

//Empty returns true if the molecule is nil, the "empty" sentinel, or has no atoms.
func (M *Molecule) Empty() bool {
	return M == nil || M.Name == EmptyName || len(M.Atoms) == 0
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//Orbitals returns the number of orbitals in the molecule.
func (M *Molecule) Orbitals() int {
	return len(M.OrbEnergies)
}

//LUMO returns the index of the lowest unoccupied orbital.
func (M *Molecule) LUMO() int {
	return M.HOMO + 1
}

//HOMOEnergy returns the energy of the highest occupied orbital.
func (M *Molecule) HOMOEnergy() (float64, error) {
	if M.HOMO < 0 || M.HOMO >= M.Orbitals() {
		return 0, Errorf(OrbitalIndexOutOfRange, "Molecule.HOMOEnergy", "HOMO index %d, %d orbitals", M.HOMO, M.Orbitals())
	}
	return M.OrbEnergies[M.HOMO], nil
}

//LUMOEnergy returns the energy of the lowest unoccupied orbital.
func (M *Molecule) LUMOEnergy() (float64, error) {
	l := M.LUMO()
	if l < 0 || l >= M.Orbitals() {
		return 0, Errorf(OrbitalIndexOutOfRange, "Molecule.LUMOEnergy", "LUMO index %d, %d orbitals", l, M.Orbitals())
	}
	return M.OrbEnergies[l], nil
}

//NElectrons returns the number of electrons. If the Electrons field
//is not set, a closed shell with HOMO+1 doubly occupied orbitals is assumed.
func (M *Molecule) NElectrons() int {
	if M.Electrons > 0 {
		return M.Electrons
	}
	if len(M.Occupations) > 0 {
		return int(math.Round(floats.Sum(M.Occupations)))
	}
	return 2 * (M.HOMO + 1)
}

//Occupation returns the number of electrons in the ith orbital.
func (M *Molecule) Occupation(i int) float64 {
	if len(M.Occupations) > 0 {
		if i < 0 || i >= len(M.Occupations) {
			return 0
		}
		return M.Occupations[i]
	}
	if i < 0 || i > M.HOMO {
		return 0
	}
	left := float64(M.NElectrons() - 2*i)
	return math.Max(0, math.Min(2, left))
}

//HasBasis returns true if the molecule carries enough information to
//evaluate orbitals at arbitrary points.
func (M *Molecule) HasBasis() bool {
	return len(M.Basis) > 0 && M.MOs != nil
}

//HasCoefficients returns true if MO coefficients are available.
func (M *Molecule) HasCoefficients() bool {
	return M.MOs != nil
}

//Validate checks the invariants of the molecule: sorted orbital energies,
//a HOMO index within range, and consistent basis and MO dimensions.
func (M *Molecule) Validate() error {
	if M.Empty() {
		return NewError(SkippedEmptyMolecule, "molecule is empty", "Molecule.Validate")
	}
	if !sort.Float64sAreSorted(M.OrbEnergies) {
		return NewError(MissingInput, "orbital energies are not sorted", "Molecule.Validate")
	}
	if M.Orbitals() > 0 && (M.HOMO < 0 || M.HOMO >= M.Orbitals()) {
		return Errorf(OrbitalIndexOutOfRange, "Molecule.Validate", "HOMO index %d, %d orbitals", M.HOMO, M.Orbitals())
	}
	if M.MOs != nil {
		r, c := M.MOs.Dims()
		if len(M.Basis) > 0 && r != len(M.Basis) {
			return Errorf(MissingInput, "Molecule.Validate", "%d basis functions but %d MO coefficient rows", len(M.Basis), r)
		}
		if c != M.Orbitals() {
			return Errorf(MissingInput, "Molecule.Validate", "%d orbital energies but %d MO columns", M.Orbitals(), c)
		}
		if M.Overlap != nil && M.Overlap.SymmetricDim() != r {
			return Errorf(MissingInput, "Molecule.Validate", "overlap matrix of order %d for %d basis functions", M.Overlap.SymmetricDim(), r)
		}
	}
	for i, b := range M.Basis {
		if b.Atom < 0 || b.Atom >= M.Len() {
			return Errorf(MissingInput, "Molecule.Validate", "basis function %d on atom %d, molecule has %d atoms", i, b.Atom, M.Len())
		}
	}
	return nil
}

//LightCopy returns a structural copy of the molecule: the name and a copy of the atoms,
//without any electronic information.
func (M *Molecule) LightCopy() *Molecule {
	ret := &Molecule{Name: M.Name, Charge: M.Charge, Multiplicity: M.Multiplicity}
	ret.Atoms = make([]*Atom, len(M.Atoms))
	for i, v := range M.Atoms {
		ret.Atoms[i] = v.Copy()
	}
	return ret
}

//Charges returns a slice with the partial charges of all atoms.
func (M *Molecule) Charges() []float64 {
	ret := make([]float64, len(M.Atoms))
	for i, v := range M.Atoms {
		ret[i] = v.Charge
	}
	return ret
}

//OrbitalCoefficients returns a copy of the coefficients of the ith orbital.
func (M *Molecule) OrbitalCoefficients(i int) ([]float64, error) {
	if M.MOs == nil {
		return nil, NewError(MissingInput, "no MO coefficients", "Molecule.OrbitalCoefficients")
	}
	_, c := M.MOs.Dims()
	if i < 0 || i >= c {
		return nil, Errorf(OrbitalIndexOutOfRange, "Molecule.OrbitalCoefficients", "orbital %d, %d orbitals", i, c)
	}
	return mat.Col(nil, i, M.MOs), nil
}

//AtomContributions returns the share of the ith orbital on each atom, normalized to 1.
//If the overlap matrix is present, a Mulliken partition is used, otherwise
//the squared coefficients are summed (orthogonal basis, as in semiempirical methods).
func (M *Molecule) AtomContributions(i int) ([]float64, error) {
	c, err := M.OrbitalCoefficients(i)
	if err != nil {
		return nil, ErrDecorate(err, "Molecule.AtomContributions")
	}
	if len(M.Basis) != len(c) {
		return nil, Errorf(MissingInput, "Molecule.AtomContributions", "%d basis functions for %d coefficients", len(M.Basis), len(c))
	}
	ret := make([]float64, M.Len())
	var sc []float64
	if M.Overlap != nil {
		sc = make([]float64, len(c))
		cv := mat.NewVecDense(len(c), c)
		scv := mat.NewVecDense(len(c), sc)
		scv.MulVec(M.Overlap, cv)
	}
	for mu, v := range c {
		if sc != nil {
			ret[M.Basis[mu].Atom] += v * sc[mu]
		} else {
			ret[M.Basis[mu].Atom] += v * v
		}
	}
	total := floats.Sum(ret)
	if math.Abs(total) < 1e-12 {
		return nil, Errorf(DegenerateNormalization, "Molecule.AtomContributions", "orbital %d has zero norm", i)
	}
	floats.Scale(1/total, ret)
	return ret, nil
}

//AtomPopulations returns the electron population on each atom, i.e. the
//occupation-weighted sum of the contributions of all occupied orbitals.
func (M *Molecule) AtomPopulations() ([]float64, error) {
	ret := make([]float64, M.Len())
	for i := 0; i < M.Orbitals(); i++ {
		occ := M.Occupation(i)
		if occ == 0 {
			continue
		}
		c, err := M.AtomContributions(i)
		if err != nil {
			return nil, ErrDecorate(err, fmt.Sprintf("Molecule.AtomPopulations: orbital %d", i))
		}
		floats.AddScaled(ret, occ, c)
	}
	return ret, nil
}
