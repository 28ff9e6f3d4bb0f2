/*
 * residues.go, part of cdft.
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
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/rmera/cdft"
)

//Residue is a group of atoms sharing chain and residue number.
type Residue struct {
	Chain string
	ID    int
	Name  string
	Atoms []int //indexes in the molecule
}

type resKey struct {
	chain string
	id    int
}

//Residues groups the atoms by residue, in the order in which each residue
//first appears.
func Residues(atoms []*cdft.Atom) []Residue {
	key := func(i int) resKey { return resKey{atoms[i].Chain, atoms[i].Molid} }
	idx := lo.Range(len(atoms))
	groups := lo.GroupBy(idx, key)
	order := lo.Uniq(lo.Map(idx, func(i int, _ int) resKey { return key(i) }))
	return lo.Map(order, func(k resKey, _ int) Residue {
		members := groups[k]
		return Residue{Chain: k.chain, ID: k.id, Name: atoms[members[0]].Molname, Atoms: members}
	})
}

//ResidueStat is the mean and population standard deviation of one condensed
//descriptor over the atoms of one residue.
type ResidueStat struct {
	Chain  string
	ID     int
	Name   string
	Family string
	Mean   float64
	SD     float64
}

//AggregateResidues returns the per-residue statistics of every available family,
//by family and then by residue.
func AggregateResidues(D *Descriptors, residues []Residue) ([]ResidueStat, error) {
	if D == nil || len(residues) == 0 {
		return nil, cdft.NewError(cdft.MissingInput, "no descriptors or residues", "condensed.AggregateResidues")
	}
	var ret []ResidueStat
	for _, f := range D.Families() {
		for _, r := range residues {
			for _, i := range r.Atoms {
				if i < 0 || i >= len(f.Values) {
					return nil, cdft.Errorf(cdft.MissingInput, "condensed.AggregateResidues", "residue %d has atom %d, but there are %d values", r.ID, i, len(f.Values))
				}
			}
			vals := lo.Map(r.Atoms, func(i int, _ int) float64 { return f.Values[i] })
			mean, sd := stat.PopMeanStdDev(vals, nil)
			ret = append(ret, ResidueStat{Chain: r.Chain, ID: r.ID, Name: r.Name, Family: f.Name, Mean: mean, SD: sd})
		}
	}
	return ret, nil
}
