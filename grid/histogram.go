/*
 * histogram.go, part of cdft.
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
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rmera/cdft"
)

//Histogram is the distribution of the values of a grid. Counts[i]
//holds the values in [Dividers[i], Dividers[i+1]).
type Histogram struct {
	Dividers   []float64
	Counts     []float64
	Total      int
	Normalized bool
}

//Histogram returns the distribution of the voxel values of the grid in bins
//bins of the same width, between the minimum and the maximum value.
func (G *Grid) Histogram(bins int) (*Histogram, error) {
	if bins < 1 {
		return nil, cdft.Errorf(cdft.InvalidGeometry, "Grid.Histogram", "%d bins requested", bins)
	}
	st, err := G.Stats()
	if err != nil {
		return nil, cdft.ErrDecorate(err, "Grid.Histogram")
	}
	max := st.Max
	if max == st.Min {
		max = st.Min + 1
	}
	//the last divider is moved up a bit, so the maximum falls in the last bin.
	max = math.Nextafter(max, math.Inf(1))
	div := floats.Span(make([]float64, bins+1), st.Min, max)
	return NewHistogram(div, G.Data), nil
}

//NewHistogram returns the histogram of data with the given dividers.
//Values outside the dividers are not counted. data is not modified.
func NewHistogram(dividers, data []float64) *Histogram {
	H := &Histogram{Dividers: append([]float64(nil), dividers...)}
	raw := append([]float64(nil), data...)
	sort.Float64s(raw)
	//stat.Histogram panics with values out of range
	hi := sort.SearchFloat64s(raw, dividers[len(dividers)-1])
	lo := sort.SearchFloat64s(raw, dividers[0])
	raw = raw[lo:hi]
	H.Total = len(raw)
	H.Counts = stat.Histogram(nil, H.Dividers, raw, nil)
	return H
}

//Normalize divides each count by the total number of values.
func (H *Histogram) Normalize() {
	if H.Normalized || H.Total == 0 {
		return
	}
	floats.Scale(1/float64(H.Total), H.Counts)
	H.Normalized = true
}

func (H *Histogram) String() string {
	d := make([]string, 0, len(H.Counts))
	for i, v := range H.Counts {
		d = append(d, fmt.Sprintf("%11.4e %11.4e %9.3f", H.Dividers[i], H.Dividers[i+1], v))
	}
	return strings.Join(d, "\n")
}
