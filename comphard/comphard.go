/*
 * comphard.go, part of cdft.
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

//Package comphard obtains alternative estimates of the hardness of a molecule
//from its global and condensed local descriptors, and from an empirical
//electron density.
package comphard

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/condensed"
	"github.com/rmera/cdft/global"
)

//Constants of the Thomas-Fermi kinetic energy and the Dirac exchange, in atomic units.
const (
	CF = 2.871234
	Cx = 0.738559
)

//Names of the estimates.
const (
	LCP = "LCP"
	EE  = "EE"
	TF  = "TF"
	TFD = "TFD"
)

//Estimates holds the hardness estimates, in eV. Estimates that could not be
//obtained with the data given are listed in Unavailable, and their value is 0.
//
//	LCP: sum_k RAS_k * HardnessA_k
//	EE: sum_k RAS_k * HardnessB_k
//	TF: (10/9) C_F rho^(2/3) / N, Thomas-Fermi
//	TFD: TF - (4/9) C_x rho^(1/3) / N, Thomas-Fermi-Dirac
type Estimates struct {
	LCP         float64
	EE          float64
	TF          float64
	TFD         float64
	Unavailable []string
}

//Available returns true if the estimate name was obtained.
func (E *Estimates) Available(name string) bool {
	for _, v := range E.Unavailable {
		if v == name {
			return false
		}
	}
	return true
}

//Record returns the available estimates as a map.
func (E *Estimates) Record() map[string]float64 {
	ret := make(map[string]float64, 4)
	for name, v := range map[string]float64{LCP: E.LCP, EE: E.EE, TF: E.TF, TFD: E.TFD} {
		if E.Available(name) {
			ret[name] = v
		}
	}
	return ret
}

//Calculate obtains the hardness estimates. cnd can be nil, or lack the RD or hardness
//descriptors, in which case LCP and EE are unavailable. The density, in e/Å^3,
//can be 0 or negative, in which case TF and TFD are unavailable.
func Calculate(g *global.Descriptors, cnd *condensed.Descriptors, density float64) (*Estimates, error) {
	if g == nil {
		return nil, cdft.NewError(cdft.MissingInput, "no global descriptors", "comphard.Calculate")
	}
	E := new(Estimates)
	if cnd != nil && cnd.RD != nil && cnd.Hardness != nil {
		E.LCP = weighted(cnd.RD.RAS, cnd.Hardness.A, nil)
		E.EE = weighted(cnd.RD.RAS, cnd.Hardness.B, nil)
	} else {
		E.Unavailable = append(E.Unavailable, LCP, EE)
	}
	if density > 0 && g.Electrons > 0 {
		rho := density * math.Pow(cdft.Bohr2A, 3)
		n := float64(g.Electrons)
		tf := (10.0 / 9.0) * CF * math.Pow(rho, 2.0/3.0) / n
		tfd := tf - (4.0/9.0)*Cx*math.Cbrt(rho)/n
		E.TF = tf * cdft.Hartree2eV
		E.TFD = tfd * cdft.Hartree2eV
	} else {
		E.Unavailable = append(E.Unavailable, TF, TFD)
	}
	return E, nil
}

//weighted returns sum_k w_k v_k over the indexes in idx, or all if idx is nil.
func weighted(w, v []float64, idx []int) float64 {
	if idx == nil {
		return floats.Dot(w, v)
	}
	var ret float64
	for _, k := range idx {
		ret += w[k] * v[k]
	}
	return ret
}

//ResidueEstimate contains the LCP and EE estimates restricted to one residue.
type ResidueEstimate struct {
	Chain string
	ID    int
	Name  string
	LCP   float64
	EE    float64
}

//ProteinEstimates contains the estimates for the whole system, and
//per residue.
type ProteinEstimates struct {
	*Estimates
	Residues []ResidueEstimate
}

//Protein obtains the estimates for a protein, including the contribution of
//each residue to the LCP and EE estimates. It requires the condensed RD and hardness
//descriptors and at least one residue.
func Protein(g *global.Descriptors, cnd *condensed.Descriptors, residues []condensed.Residue, density float64) (*ProteinEstimates, error) {
	if cnd == nil || cnd.RD == nil || cnd.Hardness == nil {
		return nil, cdft.NewError(cdft.MissingInput, "protein estimates need the condensed descriptors", "comphard.Protein")
	}
	if len(residues) == 0 {
		return nil, cdft.NewError(cdft.MissingInput, "protein estimates need residues", "comphard.Protein")
	}
	E, err := Calculate(g, cnd, density)
	if err != nil {
		return nil, cdft.ErrDecorate(err, "comphard.Protein")
	}
	P := &ProteinEstimates{Estimates: E, Residues: make([]ResidueEstimate, 0, len(residues))}
	n := len(cnd.RD.RAS)
	for _, r := range residues {
		for _, k := range r.Atoms {
			if k < 0 || k >= n {
				return nil, cdft.Errorf(cdft.MissingInput, "comphard.Protein", "residue %d has atom %d, but there are %d atoms", r.ID, k, n)
			}
		}
		P.Residues = append(P.Residues, ResidueEstimate{
			Chain: r.Chain,
			ID:    r.ID,
			Name:  r.Name,
			LCP:   weighted(cnd.RD.RAS, cnd.Hardness.A, r.Atoms),
			EE:    weighted(cnd.RD.RAS, cnd.Hardness.B, r.Atoms),
		})
	}
	return P, nil
}
