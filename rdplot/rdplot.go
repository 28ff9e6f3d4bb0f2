/*
 * rdplot.go, part of cdft.
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

//Package rdplot produces plots of the density of states of a molecule and of
//per-residue condensed descriptors.
package rdplot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/condensed"
)

//DOS returns the density of states of mol, obtained by broadening each orbital energy
//with a normalized Gaussian of standard deviation sigma (eV), sampled in points
//equally spaced values between the lowest and highest orbital energy, padded by 3 sigma.
//Each orbital contributes 1, regardless of its occupation.
func DOS(mol *cdft.Molecule, sigma float64, points int) (plotter.XYs, error) {
	if mol.Orbitals() == 0 {
		return nil, cdft.NewError(cdft.MissingInput, "no orbital energies", "rdplot.DOS")
	}
	if sigma <= 0 || points < 2 {
		return nil, cdft.Errorf(cdft.InvalidGeometry, "rdplot.DOS", "sigma %g and %d points", sigma, points)
	}
	e := mol.OrbEnergies
	min := floats.Min(e) - 3*sigma
	max := floats.Max(e) + 3*sigma
	step := (max - min) / float64(points-1)
	norm := 1 / (sigma * math.Sqrt(2*math.Pi))
	ret := make(plotter.XYs, points)
	for i := range ret {
		x := min + float64(i)*step
		var y float64
		for _, v := range e {
			d := (x - v) / sigma
			y += norm * math.Exp(-d*d/2)
		}
		ret[i].X = x
		ret[i].Y = y
	}
	return ret, nil
}

//DOSPlot saves a plot of the density of states of mol in filename (the format is
//given by the extension), marking the HOMO and LUMO energies.
func DOSPlot(mol *cdft.Molecule, sigma float64, title, filename string) error {
	dos, err := DOS(mol, sigma, 500)
	if err != nil {
		return cdft.ErrDecorate(err, "rdplot.DOSPlot")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "E (eV)"
	p.Y.Label.Text = "DOS (states/eV)"
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(dos)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	ymax := floats.Max(lineY(dos))
	for i, idx := range []int{mol.HOMO, mol.LUMO()} {
		if idx < 0 || idx >= mol.Orbitals() {
			continue
		}
		e := mol.OrbEnergies[idx]
		edge, err := plotter.NewLine(plotter.XYs{{X: e, Y: 0}, {X: e, Y: ymax}})
		if err != nil {
			return err
		}
		r, g, b := colors(i, 2)
		edge.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		edge.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(edge)
		p.Legend.Add([]string{"HOMO", "LUMO"}[i], edge)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

func lineY(xy plotter.XYs) []float64 {
	ret := make([]float64, len(xy))
	for i, v := range xy {
		ret[i] = v.Y
	}
	return ret
}

//errorPoints is a set of points with vertical error bars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

//ResiduePlot saves a bar plot with the mean of the given descriptor family
//for each residue, with the standard deviation as error bars.
func ResiduePlot(stats []condensed.ResidueStat, family, title, filename string) error {
	var sel []condensed.ResidueStat
	for _, s := range stats {
		if s.Family == family {
			sel = append(sel, s)
		}
	}
	if len(sel) == 0 {
		return cdft.Errorf(cdft.MissingInput, "rdplot.ResiduePlot", "no residue data for %s", family)
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.Y.Label.Text = family
	vals := make(plotter.Values, len(sel))
	ep := errorPoints{XYs: make(plotter.XYs, len(sel)), YErrors: make(plotter.YErrors, len(sel))}
	names := make([]string, len(sel))
	for i, s := range sel {
		vals[i] = s.Mean
		ep.XYs[i].X = float64(i)
		ep.XYs[i].Y = s.Mean
		ep.YErrors[i].Low = s.SD
		ep.YErrors[i].High = s.SD
		names[i] = fmt.Sprintf("%s%d%s", s.Name, s.ID, s.Chain)
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(10))
	if err != nil {
		return err
	}
	r, g, b := colors(0, 1)
	bars.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	errs, err := plotter.NewYErrorBars(ep)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), bars, errs)
	p.NominalX(names...)
	width := vg.Length(math.Max(6, float64(len(sel))*0.25)) * vg.Inch
	return p.Save(width, 4*vg.Inch, filename)
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

//colors returns the key-th of steps colors, spread over the hue circle,
//skipping the yellows.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	h := hp + 20.0
	if hp < 55 {
		h = hp - 20.0
	}
	return iHVS2RGB(h, 1.0, 1.0)
}
