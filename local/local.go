/*
 * local.go, part of cdft.
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

//Package local obtains volumetric local reactivity descriptors: Fukui functions,
//the dual descriptor and local hardness, from density grids.
package local

import (
	"github.com/rmera/cdft"
	"github.com/rmera/cdft/global"
	"github.com/rmera/cdft/grid"
)

//Set is a set of volumetric local descriptors. EAS is the susceptibility to
//electrophilic attack (f-), NAS to nucleophilic attack (f+) and RAS to
//radical attack (f0). Dual is NAS-EAS, positive where nucleophilic attack is favored.
//Density and Hardness are nil unless available.
type Set struct {
	Approx         cdft.Approximation
	EAS            *grid.Grid
	NAS            *grid.Grid
	RAS            *grid.Grid
	Dual           *grid.Grid
	Density        *grid.Grid
	Hardness       *grid.Grid
	HardnessMethod cdft.HardnessMethod
}

func sameGeometry(caller string, grids ...*grid.Grid) error {
	for _, g := range grids[1:] {
		if g == nil {
			continue
		}
		if !grids[0].SameGeometry(g) {
			return cdft.NewError(cdft.GeometryMismatch, "density grids with different geometries", caller)
		}
	}
	return nil
}

//FrozenOrbital builds the descriptors from the HOMO and LUMO densities. The EAS and NAS
//are the HOMO and LUMO densities normalized so the sum of their voxels is 1.
//density is the total electron density, and can be nil.
//The input grids are not modified.
func FrozenOrbital(homo, lumo, density *grid.Grid) (*Set, error) {
	if err := sameGeometry("local.FrozenOrbital", homo, lumo, density); err != nil {
		return nil, err
	}
	S := &Set{Approx: cdft.FrozenOrbital, Density: density}
	S.EAS = homo.Copy("EAS")
	if err := S.EAS.Normalize(); err != nil {
		return nil, cdft.ErrDecorate(err, "local.FrozenOrbital")
	}
	S.NAS = lumo.Copy("NAS")
	if err := S.NAS.Normalize(); err != nil {
		return nil, cdft.ErrDecorate(err, "local.FrozenOrbital")
	}
	return S, cdft.ErrDecorate(S.combine(), "local.FrozenOrbital")
}

//FiniteDifference builds the descriptors from the total densities of the neutral,
//cationic and anionic states of a molecule, all of which must have the same geometry.
//NAS is rho(anion)-rho(neutral) and EAS is rho(neutral)-rho(cation). The neutral
//density is kept as the Density of the set.
func FiniteDifference(neutral, cation, anion *grid.Grid) (*Set, error) {
	if err := sameGeometry("local.FiniteDifference", neutral, cation, anion); err != nil {
		return nil, err
	}
	if cation == nil || anion == nil {
		return nil, cdft.NewError(cdft.MissingInput, "finite difference needs three densities", "local.FiniteDifference")
	}
	S := &Set{Approx: cdft.FiniteDifference, Density: neutral}
	var err error
	if S.EAS, err = neutral.Sub(cation); err != nil {
		return nil, cdft.ErrDecorate(err, "local.FiniteDifference")
	}
	S.EAS.Name = "EAS"
	if S.NAS, err = anion.Sub(neutral); err != nil {
		return nil, cdft.ErrDecorate(err, "local.FiniteDifference")
	}
	S.NAS.Name = "NAS"
	return S, cdft.ErrDecorate(S.combine(), "local.FiniteDifference")
}

//combine obtains the RAS and Dual from the EAS and NAS.
func (S *Set) combine() error {
	var err error
	if S.RAS, err = S.EAS.Add(S.NAS); err != nil {
		return err
	}
	S.RAS.Scale(0.5).Name = "RAS"
	if S.Dual, err = S.NAS.Sub(S.EAS); err != nil {
		return err
	}
	S.Dual.Name = "Dual"
	return nil
}

//subGrid returns g minus each of others, or nil if any of them is nil.
func subGrid(g *grid.Grid, others []*grid.Grid) (*grid.Grid, error) {
	if g == nil {
		return nil, nil
	}
	r := g.Copy(g.Name)
	for _, o := range others {
		if o == nil {
			return nil, nil
		}
		if err := r.AddScaled(-1, o); err != nil {
			return nil, err
		}
	}
	return r, nil
}

//the grids of a Set, the hardness last.
var setGrids = []func(*Set) **grid.Grid{
	func(s *Set) **grid.Grid { return &s.EAS },
	func(s *Set) **grid.Grid { return &s.NAS },
	func(s *Set) **grid.Grid { return &s.RAS },
	func(s *Set) **grid.Grid { return &s.Dual },
	func(s *Set) **grid.Grid { return &s.Density },
	func(s *Set) **grid.Grid { return &s.Hardness },
}

//Sub returns a new set with the grids of S minus those of each of others, voxel
//by voxel: for instance, a frame of a reaction path minus the previous one, or
//a complex minus its fragments. All the grids must have the same geometry, so the
//sets need to be built on a common grid. A grid missing from any of the sets is
//nil in the result. The hardness is subtracted only if all the sets used the same
//method.
func (S *Set) Sub(others ...*Set) (*Set, error) {
	R := &Set{Approx: S.Approx, HardnessMethod: S.HardnessMethod}
	for _, o := range others {
		if o.HardnessMethod != S.HardnessMethod {
			R.HardnessMethod = cdft.NoHardness
		}
	}
	sub := make([]*grid.Grid, len(others))
	for i, field := range setGrids {
		if i == len(setGrids)-1 && R.HardnessMethod == cdft.NoHardness {
			break
		}
		for j, o := range others {
			sub[j] = *field(o)
		}
		g, err := subGrid(*field(S), sub)
		if err != nil {
			return nil, cdft.ErrDecorate(err, "Set.Sub")
		}
		*field(R) = g
	}
	if R.Hardness == nil {
		R.HardnessMethod = cdft.NoHardness
	}
	return R, nil
}

//Derived contains the local descriptors that combine Fukui functions
//with global descriptors.
type Derived struct {
	Softness      *grid.Grid //S*RAS
	Hypersoftness *grid.Grid //S^2*Dual
	Multiphilic   *grid.Grid //omega*Dual
}

//Derived obtains the local softness, hypersoftness and multiphilic descriptor.
func (S *Set) Derived(g *global.Descriptors) (*Derived, error) {
	if g == nil {
		return nil, cdft.NewError(cdft.MissingInput, "no global descriptors", "Set.Derived")
	}
	if g.Degenerate() {
		return nil, cdft.NewError(cdft.DegenerateHardness, "zero global hardness", "Set.Derived")
	}
	D := &Derived{
		Softness:      S.RAS.Copy("softness").Scale(g.Softness),
		Hypersoftness: S.Dual.Copy("hypersoftness").Scale(g.Softness * g.Softness),
		Multiphilic:   S.Dual.Copy("multiphilic").Scale(g.Electrophilicity),
	}
	return D, nil
}
