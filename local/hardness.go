/*
 * hardness.go, part of cdft.
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

package local

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/global"
	"github.com/rmera/cdft/grid"
)

//Source voxels holding less than this fraction of the largest
//value are left out of the Coulomb sums.
const sourceCutoff = 1e-6

//CalcHardness obtains the local hardness grid of the set with the given method,
//and stores it in S.Hardness.
//
//	LCP: k*eta*rho(r)/N, the local chemical potential approximation.
//	mepEE: V_ee(r), the electron-electron potential of rho, scaled so
//	sum(rho(r)*eta(r))*dV/N = k*eta.
//	fukui: the Fukui potential of the RAS, scaled so sum(f(r)*eta(r)) = k*eta.
//
//NoHardness sets S.Hardness to nil. LCP and mepEE require S.Density.
func (S *Set) CalcHardness(g *global.Descriptors, method cdft.HardnessMethod, params cdft.HardnessParams) error {
	if method == cdft.NoHardness {
		S.Hardness, S.HardnessMethod = nil, cdft.NoHardness
		return nil
	}
	switch method {
	case cdft.LCP, cdft.MepEE, cdft.FukuiPotential:
	default:
		return cdft.Errorf(cdft.UnknownHardnessMethod, "Set.CalcHardness", "method %d", int(method))
	}
	if g == nil {
		return cdft.NewError(cdft.MissingInput, "no global descriptors", "Set.CalcHardness")
	}
	if method.NeedsDensity() && !S.Density.Populated() {
		return cdft.Errorf(cdft.MissingInput, "Set.CalcHardness", "%s hardness requires the electron density", method)
	}
	params = params.OrDefaults()
	var h *grid.Grid
	switch method {
	case cdft.LCP:
		n := electrons(g, S.Density)
		h = S.Density.Copy("hardness").Scale(params.LCP * g.Hardness / n)
	case cdft.MepEE:
		n := electrons(g, S.Density)
		vee, err := CoulombPotential(S.Density, S.Density, true)
		if err != nil {
			return cdft.ErrDecorate(err, "Set.CalcHardness")
		}
		//electron-averaged potential, sum(rho(r)*V(r))*dV/N
		norm := floats.Dot(S.Density.Data, vee.Data) * S.Density.VoxelVolume() / n
		if math.Abs(norm) < 1e-300 {
			return cdft.NewError(cdft.DegenerateNormalization, "density with zero self-interaction", "Set.CalcHardness")
		}
		h = vee.Scale(params.EE * g.Hardness / norm)
		h.Name = "hardness"
	case cdft.FukuiPotential:
		vf, err := CoulombPotential(S.RAS, S.RAS, false)
		if err != nil {
			return cdft.ErrDecorate(err, "Set.CalcHardness")
		}
		norm := floats.Dot(S.RAS.Data, vf.Data)
		if math.Abs(norm) < 1e-300 {
			return cdft.NewError(cdft.DegenerateNormalization, "Fukui function with zero self-interaction", "Set.CalcHardness")
		}
		h = vf.Scale(params.FukuiPotential * g.Hardness / norm)
		h.Name = "hardness"
	}
	S.Hardness, S.HardnessMethod = h, method
	return nil
}

//electrons returns the number of electrons from the global descriptors or,
//if not available there, the integral of the density.
func electrons(g *global.Descriptors, density *grid.Grid) float64 {
	if g.Electrons > 0 {
		return float64(g.Electrons)
	}
	return density.Integral()
}

//CoulombPotential returns the Coulomb potential, in eV per unit charge, created by the
//charge distribution src on the points of the grid target, which must have the same
//geometry as src. If density is true, src is taken as a density, in e/Å^3,
//otherwise as the charge in each voxel. The interaction of each voxel with itself is
//that of a uniformly charged sphere of the same volume.
func CoulombPotential(target, src *grid.Grid, density bool) (*grid.Grid, error) {
	if !target.SameGeometry(src) {
		return nil, cdft.NewError(cdft.GeometryMismatch, "target and source grids differ", "local.CoulombPotential")
	}
	ret := target.CopyGeometry("potential")
	dv := src.VoxelVolume()
	q := make([]float64, 0, src.Len())
	pos := make([]r3.Vec, 0, src.Len())
	cut := sourceCutoff * math.Max(floats.Max(src.Data), -floats.Min(src.Data))
	for i := 0; i < src.N[0]; i++ {
		for j := 0; j < src.N[1]; j++ {
			for k := 0; k < src.N[2]; k++ {
				v := src.At(i, j, k)
				if math.Abs(v) <= cut {
					continue
				}
				if density {
					v *= dv
				}
				q = append(q, v)
				pos = append(pos, src.Point(i, j, k))
			}
		}
	}
	//self term for a sphere of volume dv: (3/2) q/R
	R := math.Cbrt(3 * dv / (4 * math.Pi))
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i := 0; i < ret.N[0]; i++ {
		eg.Go(func() error {
			for j := 0; j < ret.N[1]; j++ {
				for k := 0; k < ret.N[2]; k++ {
					p := ret.Point(i, j, k)
					idx := ret.Index(i, j, k)
					self := src.Data[idx]
					if density {
						self *= dv
					}
					v := 1.5 * self / R
					for n, s := range pos {
						d := r3.Norm(r3.Sub(p, s))
						if d < 1e-9 {
							continue
						}
						v += q[n] / d
					}
					ret.Data[idx] = v * cdft.CoulombeVA
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
