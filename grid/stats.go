/*
 * stats.go, part of cdft.
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

package grid

import (
	"math"

	"github.com/rmera/cdft"
)

//Stats contains summary statistics of the values in a grid.
//SD is the population standard deviation.
type Stats struct {
	Mean float64
	Max  float64
	SD   float64
	Min  float64
}

//Stats obtains the mean, maximum, standard deviation and minimum of
//the grid in one pass, using Welford's algorithm.
func (G *Grid) Stats() (Stats, error) {
	if len(G.Data) == 0 {
		return Stats{}, cdft.NewError(cdft.GeometryMismatch, "grid is empty", "Grid.Stats")
	}
	st := Stats{Max: math.Inf(-1), Min: math.Inf(1)}
	var m2 float64
	for i, v := range G.Data {
		n := float64(i + 1)
		d := v - st.Mean
		st.Mean += d / n
		m2 += d * (v - st.Mean)
		if v > st.Max {
			st.Max = v
		}
		if v < st.Min {
			st.Min = v
		}
	}
	st.SD = math.Sqrt(m2 / float64(len(G.Data)))
	return st, nil
}

//IsoLevel returns a value adequate for an isosurface of the grid:
//the mean plus factor standard deviations.
func (S Stats) IsoLevel(factor float64) float64 {
	return S.Mean + factor*S.SD
}
