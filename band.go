/*
 * band.go, part of cdft.
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
	"math"

	"gonum.org/v1/gonum/floats"
)

//BandOrbitals returns the indexes of the orbitals in the band next to the
//HOMO (side Occupied) or the LUMO (side Virtual) edge, and their weights,
//which add up to 1. Orbitals are included if their energy is within b.Cutoff eV
//of the edge. A frontier band returns only the edge orbital, with weight 1.
//With the BandDensity mode all the orbitals have the same weight, with the
//EnergyWeighted mode each weight is proportional to exp(-|E-E_edge|).
func (M *Molecule) BandOrbitals(b Band, side Side) ([]int, []float64, error) {
	edge := M.HOMO
	if side == Virtual {
		edge = M.LUMO()
	}
	if edge < 0 || edge >= M.Orbitals() {
		return nil, nil, Errorf(OrbitalIndexOutOfRange, "Molecule.BandOrbitals", "edge orbital %d, %d orbitals", edge, M.Orbitals())
	}
	if b.Frontier() {
		return []int{edge}, []float64{1}, nil
	}
	e0 := M.OrbEnergies[edge]
	var idx []int
	if side == Occupied {
		for i := edge; i >= 0 && e0-M.OrbEnergies[i] <= b.Cutoff; i-- {
			idx = append(idx, i)
		}
	} else {
		for i := edge; i < M.Orbitals() && M.OrbEnergies[i]-e0 <= b.Cutoff; i++ {
			idx = append(idx, i)
		}
	}
	w := make([]float64, len(idx))
	for j, i := range idx {
		if b.Mode == BandDensity {
			w[j] = 1
		} else {
			w[j] = math.Exp(-math.Abs(M.OrbEnergies[i] - e0))
		}
	}
	floats.Scale(1/floats.Sum(w), w)
	return idx, w, nil
}
