/*
 * descriptors.go, part of cdft.
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
	"gonum.org/v1/gonum/floats"

	"github.com/rmera/cdft"
)

//Descriptors collects the condensed descriptors of a molecule.
//Any of Fukui, RD and Hardness can be nil, if not calculated.
type Descriptors struct {
	Atoms    []*cdft.Atom
	Approx   cdft.Approximation
	Band     cdft.Band
	Fukui    *Fukui
	RD       *RD
	Hardness *Hardness
}

//Family is one condensed descriptor, with one value per atom.
type Family struct {
	Name   string
	Values []float64
}

//Families returns the available descriptors, always in the same order.
func (D *Descriptors) Families() []Family {
	var ret []Family
	add := func(name string, v []float64) {
		if v != nil {
			ret = append(ret, Family{Name: name, Values: v})
		}
	}
	if D.Fukui != nil {
		add("EAS", D.Fukui.EAS)
		add("NAS", D.Fukui.NAS)
	}
	if r := D.RD; r != nil {
		add("RAS", r.RAS)
		add("Dual", r.Dual)
		add("Netphilicity", r.Netphilicity)
		add("Softness", r.Softness)
		add("Hypersoftness", r.Hypersoftness)
		add("Multiphilic", r.Multiphilic)
		add("ElectronDensity", r.ElectronDensity)
		add("MEP", r.MEP)
	}
	if h := D.Hardness; h != nil {
		add("HardnessA", h.A)
		add("HardnessB", h.B)
		add("HardnessC", h.C)
		add("HardnessD", h.D)
	}
	return ret
}

//Row is one value of a condensed descriptor table. ID is the ID of the atom.
type Row struct {
	ID     int
	Atom   string
	Family string
	Value  float64
}

//Rows returns the descriptors as table rows, by family and then by atom.
func (D *Descriptors) Rows() []Row {
	var ret []Row
	for _, f := range D.Families() {
		for i, v := range f.Values {
			a := D.Atoms[i]
			ret = append(ret, Row{ID: a.ID, Atom: a.Name, Family: f.Name, Value: v})
		}
	}
	return ret
}

//subSlices returns a-b, or nil if either is nil.
func subSlices(a, b []float64) []float64 {
	if a == nil || b == nil {
		return nil
	}
	return floats.SubTo(make([]float64, len(a)), a, b)
}

//Sub returns a new set with the descriptors of D minus those of o, atom by atom.
//Both sets must have the same number of atoms, in the same order. Only the
//descriptors present in both sets are in the result. The atoms, approximation
//and band are those of D.
func (D *Descriptors) Sub(o *Descriptors) (*Descriptors, error) {
	if len(D.Atoms) != len(o.Atoms) {
		return nil, cdft.Errorf(cdft.GeometryMismatch, "Descriptors.Sub", "%d and %d atoms", len(D.Atoms), len(o.Atoms))
	}
	R := &Descriptors{Atoms: D.Atoms, Approx: D.Approx, Band: D.Band}
	if D.Fukui != nil && o.Fukui != nil {
		R.Fukui = &Fukui{EAS: subSlices(D.Fukui.EAS, o.Fukui.EAS), NAS: subSlices(D.Fukui.NAS, o.Fukui.NAS)}
	}
	if a, b := D.RD, o.RD; a != nil && b != nil {
		R.RD = &RD{
			RAS:             subSlices(a.RAS, b.RAS),
			Dual:            subSlices(a.Dual, b.Dual),
			Netphilicity:    subSlices(a.Netphilicity, b.Netphilicity),
			Softness:        subSlices(a.Softness, b.Softness),
			Hypersoftness:   subSlices(a.Hypersoftness, b.Hypersoftness),
			Multiphilic:     subSlices(a.Multiphilic, b.Multiphilic),
			ElectronDensity: subSlices(a.ElectronDensity, b.ElectronDensity),
			MEP:             subSlices(a.MEP, b.MEP),
		}
	}
	if a, b := D.Hardness, o.Hardness; a != nil && b != nil {
		R.Hardness = &Hardness{A: subSlices(a.A, b.A), B: subSlices(a.B, b.B), C: subSlices(a.C, b.C), D: subSlices(a.D, b.D)}
	}
	return R, nil
}

//Join concatenates the descriptors of the fragments of a system, in order,
//so the result can be compared to the descriptors of the whole system.
//Only the descriptors present in every fragment are kept. The approximation
//and band are those of the first fragment.
func Join(parts ...*Descriptors) *Descriptors {
	if len(parts) == 0 {
		return &Descriptors{}
	}
	R := &Descriptors{Approx: parts[0].Approx, Band: parts[0].Band}
	var fams [][]Family
	for _, p := range parts {
		R.Atoms = append(R.Atoms, p.Atoms...)
		fams = append(fams, p.Families())
	}
	joined := make(map[string][]float64)
	for _, f := range fams[0] {
		var v []float64
		for _, pf := range fams {
			found := false
			for _, g := range pf {
				if g.Name == f.Name {
					v = append(v, g.Values...)
					found = true
					break
				}
			}
			if !found {
				v = nil
				break
			}
		}
		if v != nil {
			joined[f.Name] = v
		}
	}
	if joined["EAS"] != nil || joined["NAS"] != nil {
		R.Fukui = &Fukui{EAS: joined["EAS"], NAS: joined["NAS"]}
	}
	if joined["RAS"] != nil || joined["Dual"] != nil {
		R.RD = &RD{
			RAS:             joined["RAS"],
			Dual:            joined["Dual"],
			Netphilicity:    joined["Netphilicity"],
			Softness:        joined["Softness"],
			Hypersoftness:   joined["Hypersoftness"],
			Multiphilic:     joined["Multiphilic"],
			ElectronDensity: joined["ElectronDensity"],
			MEP:             joined["MEP"],
		}
	}
	if joined["HardnessA"] != nil || joined["HardnessD"] != nil {
		R.Hardness = &Hardness{A: joined["HardnessA"], B: joined["HardnessB"], C: joined["HardnessC"], D: joined["HardnessD"]}
	}
	return R
}
