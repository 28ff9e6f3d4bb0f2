/*
 * grid.go, part of cdft.
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

//Package grid implements voxel grids: scalar fields sampled on a regular
//3D lattice, used both to hold densities and to write volumetric output.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
)

//Grid is a scalar field on a regular lattice. Origin is the position of the
//(0,0,0) voxel, in Å. Data is stored with the x index varying slowest and the
//z index fastest.
type Grid struct {
	Name    string
	Origin  r3.Vec
	Spacing [3]float64
	N       [3]int
	Atoms   []*cdft.Atom
	Data    []float64
}

//New returns a zeroed grid with the given geometry.
func New(origin r3.Vec, spacing [3]float64, n [3]int, atoms []*cdft.Atom) (*Grid, error) {
	for i := 0; i < 3; i++ {
		if spacing[i] <= 0 || math.IsNaN(spacing[i]) {
			return nil, cdft.Errorf(cdft.InvalidGeometry, "grid.New", "spacing %v", spacing)
		}
		if n[i] <= 0 {
			return nil, cdft.Errorf(cdft.InvalidGeometry, "grid.New", "voxel counts %v", n)
		}
	}
	return &Grid{Origin: origin, Spacing: spacing, N: n, Atoms: atoms, Data: make([]float64, n[0]*n[1]*n[2])}, nil
}

//Empty returns a grid with no voxels. It is a valid value, but any
//arithmetic with it fails.
func Empty(atoms []*cdft.Atom) *Grid {
	return &Grid{Atoms: atoms}
}

//bounding box of the atoms, in Å
func bounds(atoms []*cdft.Atom) (min, max r3.Vec) {
	if len(atoms) == 0 {
		return
	}
	min = atoms[0].Pos
	max = atoms[0].Pos
	for _, a := range atoms[1:] {
		min = r3.Vec{X: math.Min(min.X, a.Pos.X), Y: math.Min(min.Y, a.Pos.Y), Z: math.Min(min.Z, a.Pos.Z)}
		max = r3.Vec{X: math.Max(max.X, a.Pos.X), Y: math.Max(max.Y, a.Pos.Y), Z: math.Max(max.Z, a.Pos.Z)}
	}
	return min, max
}

//FromAtoms returns a grid with perAxis voxels on each axis, spanning
//the bounding box of atoms expanded by padding Å in every direction.
//The first and last voxels of each axis lie on the faces of the box.
//A perAxis of 0 gives an empty grid, which is not an error.
func FromAtoms(atoms []*cdft.Atom, perAxis int, padding float64) (*Grid, error) {
	if perAxis == 0 {
		return Empty(atoms), nil
	}
	if perAxis < 0 || len(atoms) == 0 {
		return nil, cdft.Errorf(cdft.InvalidGeometry, "grid.FromAtoms", "%d voxels per axis for %d atoms", perAxis, len(atoms))
	}
	min, max := bounds(atoms)
	pad := r3.Vec{X: padding, Y: padding, Z: padding}
	min = r3.Sub(min, pad)
	max = r3.Add(max, pad)
	ext := r3.Sub(max, min)
	n := [3]int{perAxis, perAxis, perAxis}
	if perAxis == 1 {
		//a single voxel, at the center of the box.
		sp := [3]float64{ext.X, ext.Y, ext.Z}
		for i, v := range sp {
			if v <= 0 {
				sp[i] = 1
			}
		}
		return New(r3.Scale(0.5, r3.Add(min, max)), sp, n, atoms)
	}
	d := float64(perAxis - 1)
	sp := [3]float64{ext.X / d, ext.Y / d, ext.Z / d}
	return New(min, sp, n, atoms)
}

//FromAtomsTotal is like FromAtoms, but takes the total number of voxels
//desired, and uses the same spacing on all axes. The number of voxels actually
//obtained is close to, but not necessarily equal to, total.
func FromAtomsTotal(atoms []*cdft.Atom, total int, padding float64) (*Grid, error) {
	if total == 0 {
		return Empty(atoms), nil
	}
	if total < 0 || len(atoms) == 0 {
		return nil, cdft.Errorf(cdft.InvalidGeometry, "grid.FromAtomsTotal", "%d voxels for %d atoms", total, len(atoms))
	}
	min, max := bounds(atoms)
	pad := r3.Vec{X: padding, Y: padding, Z: padding}
	min = r3.Sub(min, pad)
	ext := r3.Sub(r3.Add(max, pad), min)
	vol := ext.X * ext.Y * ext.Z
	if vol <= 0 {
		return nil, cdft.Errorf(cdft.InvalidGeometry, "grid.FromAtomsTotal", "box %v has no volume", ext)
	}
	h := math.Cbrt(vol / float64(total))
	n := [3]int{
		int(math.Max(1, math.Round(ext.X/h))),
		int(math.Max(1, math.Round(ext.Y/h))),
		int(math.Max(1, math.Round(ext.Z/h))),
	}
	return New(min, [3]float64{h, h, h}, n, atoms)
}

//Populated returns true if the grid has voxels.
func (G *Grid) Populated() bool {
	return G != nil && G.N[0] > 0 && G.N[1] > 0 && G.N[2] > 0 && len(G.Data) == G.N[0]*G.N[1]*G.N[2]
}

//Len returns the number of voxels.
func (G *Grid) Len() int {
	return len(G.Data)
}

//Index returns the position in Data of the voxel i,j,k.
func (G *Grid) Index(i, j, k int) int {
	return (i*G.N[1]+j)*G.N[2] + k
}

//Point returns the position of the voxel i,j,k in Å.
func (G *Grid) Point(i, j, k int) r3.Vec {
	return r3.Vec{
		X: G.Origin.X + float64(i)*G.Spacing[0],
		Y: G.Origin.Y + float64(j)*G.Spacing[1],
		Z: G.Origin.Z + float64(k)*G.Spacing[2],
	}
}

//At returns the value at voxel i,j,k.
func (G *Grid) At(i, j, k int) float64 {
	return G.Data[G.Index(i, j, k)]
}

//Set puts v in the voxel i,j,k
func (G *Grid) Set(i, j, k int, v float64) {
	G.Data[G.Index(i, j, k)] = v
}

//VoxelVolume returns the volume of one voxel in Å^3.
func (G *Grid) VoxelVolume() float64 {
	return G.Spacing[0] * G.Spacing[1] * G.Spacing[2]
}

//SameGeometry returns true if both grids are populated and have the
//same origin, spacing and voxel counts.
func (G *Grid) SameGeometry(o *Grid) bool {
	if !G.Populated() || !o.Populated() || G.N != o.N {
		return false
	}
	const tol = 1e-8
	for i := 0; i < 3; i++ {
		if math.Abs(G.Spacing[i]-o.Spacing[i]) > tol {
			return false
		}
	}
	return r3.Norm(r3.Sub(G.Origin, o.Origin)) <= tol
}

//CopyGeometry returns a zeroed grid with the geometry (and atoms) of G.
func (G *Grid) CopyGeometry(name string) *Grid {
	return &Grid{Name: name, Origin: G.Origin, Spacing: G.Spacing, N: G.N, Atoms: G.Atoms, Data: make([]float64, len(G.Data))}
}

//Copy returns a deep copy of the data of G, with the given name.
func (G *Grid) Copy(name string) *Grid {
	r := G.CopyGeometry(name)
	copy(r.Data, G.Data)
	return r
}

//RedefineBounds centers the grid on center, spanning halfWidth Å
//in each direction, and keeping the current spacing. The data
//is reset to zero. It is meant to be used before the grid is filled.
func (G *Grid) RedefineBounds(center r3.Vec, halfWidth float64) error {
	if halfWidth <= 0 {
		return cdft.Errorf(cdft.InvalidGeometry, "Grid.RedefineBounds", "half width %g", halfWidth)
	}
	if G.Spacing[0] <= 0 || G.Spacing[1] <= 0 || G.Spacing[2] <= 0 {
		return cdft.NewError(cdft.InvalidGeometry, "grid has no spacing", "Grid.RedefineBounds")
	}
	G.Origin = r3.Sub(center, r3.Vec{X: halfWidth, Y: halfWidth, Z: halfWidth})
	for i := 0; i < 3; i++ {
		G.N[i] = int(math.Ceil(2 * halfWidth / G.Spacing[i]))
	}
	G.Data = make([]float64, G.N[0]*G.N[1]*G.N[2])
	return nil
}

func (G *Grid) compatible(o *Grid, caller string) error {
	if !G.SameGeometry(o) {
		return cdft.Errorf(cdft.GeometryMismatch, caller, "%q %v and %q %v", G.Name, G.N, o.Name, o.N)
	}
	return nil
}

//Add returns a new grid with the element-wise sum of G and o.
func (G *Grid) Add(o *Grid) (*Grid, error) {
	if err := G.compatible(o, "Grid.Add"); err != nil {
		return nil, err
	}
	r := G.Copy(G.Name)
	floats.Add(r.Data, o.Data)
	return r, nil
}

//Sub returns a new grid with G-o
func (G *Grid) Sub(o *Grid) (*Grid, error) {
	if err := G.compatible(o, "Grid.Sub"); err != nil {
		return nil, err
	}
	r := G.Copy(G.Name)
	floats.Sub(r.Data, o.Data)
	return r, nil
}

//AddScaled adds alpha*o to G, in place.
func (G *Grid) AddScaled(alpha float64, o *Grid) error {
	if err := G.compatible(o, "Grid.AddScaled"); err != nil {
		return err
	}
	floats.AddScaled(G.Data, alpha, o.Data)
	return nil
}

//Scale multiplies every voxel by f, in place, and returns G.
func (G *Grid) Scale(f float64) *Grid {
	floats.Scale(f, G.Data)
	return G
}

//Map applies f to every voxel, in place, and returns G.
func (G *Grid) Map(f func(float64) float64) *Grid {
	for i, v := range G.Data {
		G.Data[i] = f(v)
	}
	return G
}

//Sum returns the sum of all voxels.
func (G *Grid) Sum() float64 {
	return floats.Sum(G.Data)
}

//Integral returns the sum of all voxels times the voxel volume.
func (G *Grid) Integral() float64 {
	return G.Sum() * G.VoxelVolume()
}

//Normalize divides every voxel by the sum of the voxels, so the
//new sum is 1.
func (G *Grid) Normalize() error {
	if !G.Populated() {
		return cdft.NewError(cdft.GeometryMismatch, "grid is empty", "Grid.Normalize")
	}
	s := G.Sum()
	if math.Abs(s) < 1e-300 || math.IsNaN(s) {
		return cdft.Errorf(cdft.DegenerateNormalization, "Grid.Normalize", "grid %q sums to %g", G.Name, s)
	}
	G.Scale(1 / s)
	return nil
}
