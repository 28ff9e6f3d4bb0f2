/*
 * cube.go, part of cdft.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
)

//WriteCube writes G to w in the Gaussian cube format. The geometry
//is written in bohr. comment goes in the second line of the file.
func WriteCube(w io.Writer, G *Grid, comment string) error {
	if !G.Populated() {
		return cdft.NewError(cdft.GeometryMismatch, "can't write an empty grid", "grid.WriteCube")
	}
	out := bufio.NewWriter(w)
	name := G.Name
	if name == "" {
		name = "cdft grid"
	}
	fmt.Fprintf(out, "%s\n%s\n", name, strings.ReplaceAll(comment, "\n", " "))
	o := r3.Scale(cdft.A2Bohr, G.Origin)
	fmt.Fprintf(out, "%5d %12.6f %12.6f %12.6f\n", len(G.Atoms), o.X, o.Y, o.Z)
	for i := 0; i < 3; i++ {
		var v [3]float64
		v[i] = G.Spacing[i] * cdft.A2Bohr
		fmt.Fprintf(out, "%5d %12.6f %12.6f %12.6f\n", G.N[i], v[0], v[1], v[2])
	}
	for _, a := range G.Atoms {
		p := r3.Scale(cdft.A2Bohr, a.Pos)
		z := a.Z()
		fmt.Fprintf(out, "%5d %12.6f %12.6f %12.6f %12.6f\n", z, float64(z), p.X, p.Y, p.Z)
	}
	//each z-row starts in a new line.
	for i := 0; i < G.N[0]; i++ {
		for j := 0; j < G.N[1]; j++ {
			for k := 0; k < G.N[2]; k++ {
				fmt.Fprintf(out, " %12.5E", G.At(i, j, k))
				if k%6 == 5 && k != G.N[2]-1 {
					out.WriteString("\n")
				}
			}
			out.WriteString("\n")
		}
	}
	return out.Flush()
}

//WriteCubeFile writes G to the file name. If name ends in ".zst" or ".gz", the
//file is compressed with zstd or gzip, respectively.
func WriteCubeFile(name string, G *Grid, comment string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	var w io.WriteCloser
	switch {
	case strings.HasSuffix(name, ".zst"):
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	case strings.HasSuffix(name, ".gz"):
		w = gzip.NewWriter(f)
	default:
		return WriteCube(f, G, comment)
	}
	if err != nil {
		return err
	}
	if err = WriteCube(w, G, comment); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

//ReadCube reads a grid in the Gaussian cube format from r.
//Only orthogonal axes are supported.
func ReadCube(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	next := func() ([]string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, io.ErrUnexpectedEOF
		}
		line++
		return strings.Fields(sc.Text()), nil
	}
	parse := func(fields []string, n int) ([]float64, error) {
		if len(fields) < n {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, n, len(fields))
		}
		ret := make([]float64, n)
		for i := 0; i < n; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			ret[i] = v
		}
		return ret, nil
	}
	if !sc.Scan() {
		return nil, cdft.NewError(cdft.MissingInput, "empty cube file", "grid.ReadCube")
	}
	name := strings.TrimSpace(sc.Text())
	sc.Scan()
	line = 2
	f, err := next()
	if err != nil {
		return nil, err
	}
	h, err := parse(f, 4)
	if err != nil {
		return nil, err
	}
	natoms := int(h[0])
	if natoms < 0 {
		natoms = -natoms //negative means MO cube, with an extra line after the atoms
	}
	origin := r3.Scale(cdft.Bohr2A, r3.Vec{X: h[1], Y: h[2], Z: h[3]})
	var n [3]int
	var spacing [3]float64
	for i := 0; i < 3; i++ {
		f, err = next()
		if err != nil {
			return nil, err
		}
		ax, err := parse(f, 4)
		if err != nil {
			return nil, err
		}
		n[i] = int(ax[0])
		spacing[i] = ax[i+1] * cdft.Bohr2A
	}
	atoms := make([]*cdft.Atom, natoms)
	for i := range atoms {
		f, err = next()
		if err != nil {
			return nil, err
		}
		at, err := parse(f, 5)
		if err != nil {
			return nil, err
		}
		z := int(at[0])
		atoms[i] = &cdft.Atom{ID: i + 1, Number: z, Symbol: cdft.SymbolFromNumber(z), Pos: r3.Scale(cdft.Bohr2A, r3.Vec{X: at[2], Y: at[3], Z: at[4]})}
	}
	if int(h[0]) < 0 {
		if _, err = next(); err != nil {
			return nil, err
		}
	}
	G, err := New(origin, spacing, n, atoms)
	if err != nil {
		return nil, cdft.ErrDecorate(err, "grid.ReadCube")
	}
	G.Name = name
	read := 0
	for read < len(G.Data) {
		f, err = next()
		if err != nil {
			return nil, fmt.Errorf("grid.ReadCube: %d of %d values read: %w", read, len(G.Data), err)
		}
		for _, s := range f {
			if read >= len(G.Data) {
				break
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			G.Data[read] = v
			read++
		}
	}
	return G, nil
}

//ReadCubeFile reads a cube file, decompressing it if the name ends in ".zst" or ".gz".
func ReadCubeFile(name string) (*Grid, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		r = d
	case strings.HasSuffix(name, ".gz"):
		d, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		r = d
	}
	return ReadCube(r)
}
