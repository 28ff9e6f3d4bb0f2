/*
 * rdjson.go, part of cdft.
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

//Package rdjson reads and writes cdft molecules, and the errors obtained while
//processing them, in JSON format.
package rdjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
)

//A ready-to-serialize container for an atom. Coords are in Å.
type Atom struct {
	Name    string
	Symbol  string
	Number  int `json:",omitempty"`
	ID      int
	Molname string `json:",omitempty"`
	Molid   int    `json:",omitempty"`
	Chain   string `json:",omitempty"`
	Charge  float64
	Coords  [3]float64
}

//A ready-to-serialize container for a basis function.
type BasisFunction struct {
	Atom      int
	L         [3]int
	Exponents []float64
	Coefs     []float64
}

//Molecule is the JSON representation of a cdft.Molecule. MOs has one
//slice of coefficients per orbital. Overlap, if present, is the full
//overlap matrix, one slice per row.
type Molecule struct {
	Name            string
	Atoms           []Atom
	OrbEnergies     []float64
	HOMO            int
	Electrons       int
	Energy          float64
	HeatOfFormation float64         `json:",omitempty"`
	Charge          int             `json:",omitempty"`
	Multiplicity    int             `json:",omitempty"`
	Occupations     []float64       `json:",omitempty"`
	Basis           []BasisFunction `json:",omitempty"`
	MOs             [][]float64     `json:",omitempty"`
	Overlap         [][]float64     `json:",omitempty"`
	Density         float64         `json:",omitempty"`
}

//Encode puts mol in a ready-to-serialize container.
func Encode(mol *cdft.Molecule) *Molecule {
	J := &Molecule{
		Name:            mol.Name,
		OrbEnergies:     mol.OrbEnergies,
		HOMO:            mol.HOMO,
		Electrons:       mol.Electrons,
		Energy:          mol.Energy,
		HeatOfFormation: mol.HeatOfFormation,
		Charge:          mol.Charge,
		Multiplicity:    mol.Multiplicity,
		Occupations:     mol.Occupations,
		Density:         mol.Density,
	}
	for _, a := range mol.Atoms {
		J.Atoms = append(J.Atoms, Atom{Name: a.Name, Symbol: a.Symbol, Number: a.Number, ID: a.ID, Molname: a.Molname,
			Molid: a.Molid, Chain: a.Chain, Charge: a.Charge, Coords: [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z}})
	}
	for _, b := range mol.Basis {
		J.Basis = append(J.Basis, BasisFunction{Atom: b.Atom, L: b.L, Exponents: b.Exponents, Coefs: b.Coefs})
	}
	if mol.MOs != nil {
		_, c := mol.MOs.Dims()
		for i := 0; i < c; i++ {
			J.MOs = append(J.MOs, mat.Col(nil, i, mol.MOs))
		}
	}
	if mol.Overlap != nil {
		n := mol.Overlap.SymmetricDim()
		for i := 0; i < n; i++ {
			row := make([]float64, n)
			for j := range row {
				row[j] = mol.Overlap.At(i, j)
			}
			J.Overlap = append(J.Overlap, row)
		}
	}
	return J
}

//Decode returns the cdft.Molecule in the container, after validating it.
func (J *Molecule) Decode() (*cdft.Molecule, error) {
	mol := &cdft.Molecule{
		Name:            J.Name,
		OrbEnergies:     J.OrbEnergies,
		HOMO:            J.HOMO,
		Electrons:       J.Electrons,
		Energy:          J.Energy,
		HeatOfFormation: J.HeatOfFormation,
		Charge:          J.Charge,
		Multiplicity:    J.Multiplicity,
		Occupations:     J.Occupations,
		Density:         J.Density,
	}
	for _, a := range J.Atoms {
		at := &cdft.Atom{Name: a.Name, Symbol: a.Symbol, Number: a.Number, ID: a.ID, Molname: a.Molname, Molid: a.Molid,
			Chain: a.Chain, Charge: a.Charge, Pos: r3.Vec{X: a.Coords[0], Y: a.Coords[1], Z: a.Coords[2]}}
		if at.Number == 0 {
			at.Number = cdft.AtomicNumber(at.Symbol)
		}
		mol.Atoms = append(mol.Atoms, at)
	}
	for _, b := range J.Basis {
		mol.Basis = append(mol.Basis, &cdft.BasisFunction{Atom: b.Atom, L: b.L, Exponents: b.Exponents, Coefs: b.Coefs})
	}
	if len(J.MOs) > 0 {
		nb := len(J.MOs[0])
		mol.MOs = mat.NewDense(nb, len(J.MOs), nil)
		for i, c := range J.MOs {
			if len(c) != nb {
				return nil, cdft.Errorf(cdft.MissingInput, "Molecule.Decode", "orbital %d has %d coefficients, expected %d", i, len(c), nb)
			}
			mol.MOs.SetCol(i, c)
		}
	}
	if len(J.Overlap) > 0 {
		n := len(J.Overlap)
		mol.Overlap = mat.NewSymDense(n, nil)
		for i, row := range J.Overlap {
			if len(row) != n {
				return nil, cdft.Errorf(cdft.MissingInput, "Molecule.Decode", "overlap row %d has %d elements, expected %d", i, len(row), n)
			}
			for j := i; j < n; j++ {
				mol.Overlap.SetSym(i, j, row[j])
			}
		}
	}
	if err := mol.Validate(); err != nil {
		return nil, cdft.ErrDecorate(err, "Molecule.Decode")
	}
	return mol, nil
}

//ReadMolecule decodes a JSON molecule from r.
func ReadMolecule(r io.Reader) (*cdft.Molecule, error) {
	J := new(Molecule)
	if err := json.NewDecoder(r).Decode(J); err != nil {
		return nil, fmt.Errorf("rdjson.ReadMolecule: %w", err)
	}
	return J.Decode()
}

//ReadMoleculeFile reads a JSON molecule from the file name, which can be
//compressed with zstd (".zst") or gzip (".gz"). On failure, it returns the
//empty molecule, together with the error.
func ReadMoleculeFile(name string) (*cdft.Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return cdft.EmptyMolecule(), err
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return cdft.EmptyMolecule(), err
		}
		defer d.Close()
		r = d
	case strings.HasSuffix(name, ".gz"):
		d, err := gzip.NewReader(f)
		if err != nil {
			return cdft.EmptyMolecule(), err
		}
		defer d.Close()
		r = d
	}
	mol, err := ReadMolecule(r)
	if err != nil {
		return cdft.EmptyMolecule(), fmt.Errorf("%s: %w", name, err)
	}
	return mol, nil
}

//WriteMolecule writes mol to w, in JSON format.
func WriteMolecule(w io.Writer, mol *cdft.Molecule) error {
	enc := json.NewEncoder(w)
	return enc.Encode(Encode(mol))
}

//An easily JSON-serializable error, for the errors obtained when
//processing a molecule.
type Error struct {
	Molecule   string
	Stage      string
	Kind       string `json:",omitempty"`
	Critical   bool
	Message    string
	Decoration []string `json:",omitempty"`
}

//NewError takes an error and some additional info to create a json-marshal-able error.
func NewError(molecule, stage string, err error) *Error {
	J := &Error{Molecule: molecule, Stage: stage, Message: err.Error(), Critical: cdft.IsCritical(err)}
	var e *cdft.Error
	if errors.As(err, &e) {
		J.Kind = e.Kind().String()
		J.Message = e.Message()
		J.Decoration = append([]string(nil), e.Decorate("")...)
	}
	return J
}

//Error implements the error interface
func (J *Error) Error() string {
	return fmt.Sprintf("%s (%s): %s", J.Molecule, J.Stage, J.Message)
}
