/*
 * basis.go, part of cdft.
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

	"gonum.org/v1/gonum/spatial/r3"
)

//Primitives with alpha*r^2 above this value contribute nothing
//we can represent in a density grid.
const expCutoff = 40.0

//BasisFunction is a contracted cartesian Gaussian function centered on an atom.
//Exponents are in bohr^-2. L holds the cartesian powers of x, y and z
//(i.e. {0,0,0} is an s function, {1,0,0} a px function, and so on).
//The contraction coefficients refer to normalized primitives.
type BasisFunction struct {
	Atom      int
	L         [3]int
	Exponents []float64
	Coefs     []float64
}

//AngularMomentum returns the total angular momentum of the function.
func (B *BasisFunction) AngularMomentum() int {
	return B.L[0] + B.L[1] + B.L[2]
}

//compiled primitive data for one basis function
type cfunction struct {
	center r3.Vec //in bohr
	l      [3]int
	alpha  []float64
	coef   []float64 //includes normalization constants
}

//BasisSet is a read-only, compiled version of the basis of a molecule,
//which can evaluate every basis function at a point. It is safe to use from
//several goroutines at the same time.
type BasisSet struct {
	funcs []cfunction
}

//Len returns the number of basis functions.
func (B *BasisSet) Len() int {
	return len(B.funcs)
}

//CompileBasis normalizes the basis of the molecule and returns a BasisSet.
func (M *Molecule) CompileBasis() (*BasisSet, error) {
	if len(M.Basis) == 0 {
		return nil, NewError(MissingInput, "molecule has no basis set", "Molecule.CompileBasis")
	}
	ret := &BasisSet{funcs: make([]cfunction, len(M.Basis))}
	for i, b := range M.Basis {
		if b.Atom < 0 || b.Atom >= M.Len() {
			return nil, Errorf(MissingInput, "Molecule.CompileBasis", "basis function %d on atom %d, molecule has %d atoms", i, b.Atom, M.Len())
		}
		if len(b.Exponents) == 0 || len(b.Exponents) != len(b.Coefs) {
			return nil, Errorf(MissingInput, "Molecule.CompileBasis", "basis function %d has %d exponents and %d coefficients", i, len(b.Exponents), len(b.Coefs))
		}
		f := cfunction{
			center: r3.Scale(A2Bohr, M.Atoms[b.Atom].Pos),
			l:      b.L,
			alpha:  append([]float64(nil), b.Exponents...),
			coef:   make([]float64, len(b.Coefs)),
		}
		L := b.AngularMomentum()
		for j, a := range b.Exponents {
			if a <= 0 {
				return nil, Errorf(MissingInput, "Molecule.CompileBasis", "non-positive exponent in basis function %d", i)
			}
			f.coef[j] = b.Coefs[j] * primitiveNorm(a, b.L)
		}
		//renormalize the contraction
		var s float64
		for j, aj := range b.Exponents {
			for k, ak := range b.Exponents {
				ov := math.Pow(2*math.Sqrt(aj*ak)/(aj+ak), float64(L)+1.5)
				s += b.Coefs[j] * b.Coefs[k] * ov
			}
		}
		if s <= 0 {
			return nil, Errorf(DegenerateNormalization, "Molecule.CompileBasis", "basis function %d has zero norm", i)
		}
		s = 1 / math.Sqrt(s)
		for j := range f.coef {
			f.coef[j] *= s
		}
		ret.funcs[i] = f
	}
	return ret, nil
}

//Values evaluates every basis function at p (in Å) and puts the
//results in dst, which is allocated if nil or too short. The values
//are in bohr^-3/2.
func (B *BasisSet) Values(p r3.Vec, dst []float64) []float64 {
	if len(dst) < len(B.funcs) {
		dst = make([]float64, len(B.funcs))
	}
	p = r3.Scale(A2Bohr, p)
	for i, f := range B.funcs {
		d := r3.Sub(p, f.center)
		r2 := r3.Norm2(d)
		var radial float64
		for j, a := range f.alpha {
			ar2 := a * r2
			if ar2 > expCutoff {
				continue
			}
			radial += f.coef[j] * math.Exp(-ar2)
		}
		if radial == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = radial * ipow(d.X, f.l[0]) * ipow(d.Y, f.l[1]) * ipow(d.Z, f.l[2])
	}
	return dst[:len(B.funcs)]
}

//normalization constant for a cartesian Gaussian primitive
func primitiveNorm(alpha float64, l [3]int) float64 {
	L := l[0] + l[1] + l[2]
	n := math.Pow(2*alpha/math.Pi, 0.75) * math.Pow(4*alpha, float64(L)/2)
	return n / math.Sqrt(doubleFact(2*l[0]-1)*doubleFact(2*l[1]-1)*doubleFact(2*l[2]-1))
}

//doubleFact returns n!!, with (-1)!! = 0!! = 1
func doubleFact(n int) float64 {
	ret := 1.0
	for ; n > 1; n -= 2 {
		ret *= float64(n)
	}
	return ret
}

func ipow(x float64, n int) float64 {
	switch n {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, float64(n))
}
