/*
 * pipeline_test.go, part of cdft.
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

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft"
	"github.com/rmera/cdft/grid"
	"github.com/rmera/cdft/internal/fixture"
)

func TestProcessFrozenOrbital(Te *testing.T) {
	o := DefaultOptions()
	o.Protein = true
	res, err := Process(Request{Name: "chain", Molecules: []*cdft.Molecule{fixture.Chain()}, Options: o})
	require.NoError(Te, err)
	assert.Empty(Te, res.Warnings)
	require.NotNil(Te, res.Global)
	assert.InDelta(Te, 8.5, res.Global.Hardness, 1e-12)
	assert.InDelta(Te, -5.25, res.Global.ChemicalPotential, 1e-12)
	require.NotNil(Te, res.Condensed)
	assert.Len(Te, res.Condensed.RD.RAS, 3)
	assert.NotEmpty(Te, res.Residues)
	require.NotNil(Te, res.Protein)
	assert.Len(Te, res.Protein.Residues, 2)
	require.NotNil(Te, res.Estimates)
	assert.True(Te, res.Estimates.Available("TF"))
	assert.Nil(Te, res.Local)
	assert.Nil(Te, res.MEP)
}

func TestProcessOnlyEnergies(Te *testing.T) {
	res, err := Process(Request{Name: "frontier", Molecules: []*cdft.Molecule{fixture.Frontier(-7, -1)}, Options: DefaultOptions()})
	require.NoError(Te, err)
	assert.Equal(Te, 6.0, res.Global.Hardness)
	assert.Nil(Te, res.Condensed)
	require.NotNil(Te, res.Estimates)
	assert.False(Te, res.Estimates.Available("LCP"))
}

func TestProcessProteinNeedsCondensed(Te *testing.T) {
	o := DefaultOptions()
	o.Protein = true
	res, err := Process(Request{Name: "frontier", Molecules: []*cdft.Molecule{fixture.Frontier(-7, -1)}, Options: o})
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
	assert.True(Te, cdft.IsCritical(err))
	require.NotNil(Te, res.Err)
	assert.Equal(Te, StageHardness, res.Err.Stage)
	assert.Nil(Te, res.Protein)
	assert.Nil(Te, res.Estimates)
	require.NotNil(Te, res.Global)
}

func TestProcessFiniteDifference(Te *testing.T) {
	o := DefaultOptions()
	o.Approx = cdft.FiniteDifference
	n, c, a := fixture.States(-100.0, -99.4, -100.3)
	res, err := Process(Request{Name: "chain", Molecules: []*cdft.Molecule{n, c, a}, Options: o})
	require.NoError(Te, err)
	assert.InDelta(Te, 0.3, res.Global.Hardness, 1e-9)
	require.NotNil(Te, res.Condensed)
	assert.InDelta(Te, 0.3, res.Condensed.Fukui.EAS[0], 1e-12) //q_cat - q_neu
	assert.InDelta(Te, 0.3, res.Condensed.Fukui.NAS[0], 1e-12) //q_neu - q_an

	_, err = Process(Request{Name: "chain", Molecules: []*cdft.Molecule{n}, Options: o})
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
	assert.True(Te, cdft.IsCritical(err))
}

func TestProcessEmpty(Te *testing.T) {
	res, err := Process(Request{Name: "nothing", Molecules: []*cdft.Molecule{cdft.EmptyMolecule()}, Options: DefaultOptions()})
	require.Error(Te, err)
	assert.False(Te, cdft.IsCritical(err))
	assert.True(Te, errors.Is(err, cdft.ErrSkippedEmptyMolecule))
	assert.True(Te, res.Skipped)
	assert.Nil(Te, res.Global)
}

func TestProcessDegenerate(Te *testing.T) {
	res, err := Process(Request{Name: "deg", Molecules: []*cdft.Molecule{fixture.Frontier(-5, -5)}, Options: DefaultOptions()})
	require.NoError(Te, err)
	require.Len(Te, res.Warnings, 1)
	assert.Equal(Te, StageGlobal, res.Warnings[0].Stage)
	assert.True(Te, errors.Is(res.Warnings[0].Err, cdft.ErrDegenerateHardness))
	assert.Nil(Te, res.Estimates)
}

func TestProcessVolumetricFrozenOrbital(Te *testing.T) {
	o := DefaultOptions()
	o.GridPoints = 12
	o.GridPadding = 3
	o.Hardness = cdft.LCP
	o.MEP = true
	res, err := Process(Request{Name: "H2", Molecules: []*cdft.Molecule{fixture.H2()}, Options: o})
	require.NoError(Te, err)
	require.NotNil(Te, res.Local)
	assert.Equal(Te, 12*12*12, res.Local.EAS.Len())
	assert.InDelta(Te, 1.0, res.Local.EAS.Sum(), 1e-9)
	assert.InDelta(Te, 1.0, res.Local.NAS.Sum(), 1e-9)
	require.NotNil(Te, res.Local.Hardness)
	assert.Equal(Te, cdft.LCP, res.Local.HardnessMethod)
	require.NotNil(Te, res.Derived)
	assert.True(Te, res.Derived.Softness.SameGeometry(res.Local.RAS))
	require.NotNil(Te, res.MEP)
	assert.True(Te, res.MEP.SameGeometry(res.Local.RAS))
}

func TestProcessVolumetricFiniteDifference(Te *testing.T) {
	o := DefaultOptions()
	o.Approx = cdft.FiniteDifference
	o.GridTotal = 1000
	n, c, a := fixture.States(-100.0, -99.4, -100.3)
	res, err := Process(Request{Name: "chain", Molecules: []*cdft.Molecule{n, c, a}, Options: o})
	require.NoError(Te, err)
	require.NotNil(Te, res.Local)
	assert.Equal(Te, cdft.FiniteDifference, res.Local.Approx)
	assert.Nil(Te, res.Local.Hardness)
	for i, v := range res.Local.RAS.Data {
		assert.InDelta(Te, (res.Local.EAS.Data[i]+res.Local.NAS.Data[i])/2, v, 1e-12)
	}
}

func TestRunner(Te *testing.T) {
	reg := prometheus.NewRegistry()
	M, err := NewMetrics(reg)
	require.NoError(Te, err)
	M2, err := NewMetrics(reg)
	require.NoError(Te, err)
	assert.Same(Te, M.Molecules, M2.Molecules)

	core, logs := observer.New(zapcore.InfoLevel)
	dir := Te.TempDir()
	sink := &FileSink{Dir: dir}
	R := &Runner{Workers: 2, Logger: zap.New(core), Metrics: M, Sink: sink}
	o := DefaultOptions()
	reqs := []Request{
		{Name: "chain", Molecules: []*cdft.Molecule{fixture.Chain()}, Options: o},
		{Name: "nothing", Molecules: []*cdft.Molecule{cdft.EmptyMolecule()}, Options: o},
		{Name: "deg", Molecules: []*cdft.Molecule{fixture.Frontier(-5, -5)}, Options: o},
		{Name: "bad", Options: o},
	}
	results, err := R.Run(context.Background(), reqs)
	require.NoError(Te, err)
	require.Len(Te, results, 4)
	for i, r := range results {
		require.NotNil(Te, r)
		assert.Equal(Te, reqs[i].Name, r.Name)
		assert.NotEmpty(Te, r.ID)
	}
	assert.Equal(Te, 2.0, testutil.ToFloat64(M.Molecules.WithLabelValues(StatusProcessed)))
	assert.Equal(Te, 1.0, testutil.ToFloat64(M.Molecules.WithLabelValues(StatusSkipped)))
	assert.Equal(Te, 1.0, testutil.ToFloat64(M.Molecules.WithLabelValues(StatusFailed)))
	assert.NotZero(Te, logs.FilterMessage("non-critical error").Len())
	assert.Equal(Te, 1, logs.FilterMessage("processing failed").Len())

	assert.FileExists(Te, filepath.Join(dir, "chain_global.json"))
	assert.FileExists(Te, filepath.Join(dir, "chain_condensed.tsv"))
	assert.FileExists(Te, filepath.Join(dir, "deg_global.json"))
	assert.NoFileExists(Te, filepath.Join(dir, "nothing_global.json"))

	require.NoError(Te, sink.WriteSummary(results))
	b, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(Te, err)
	var summary struct {
		Processed, Skipped, Failed int
	}
	require.NoError(Te, json.Unmarshal(b, &summary))
	assert.Equal(Te, 2, summary.Processed)
	assert.Equal(Te, 1, summary.Skipped)
	assert.Equal(Te, 1, summary.Failed)
}

func TestRunnerCancelled(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	R := &Runner{Workers: 1}
	results, err := R.Run(ctx, []Request{{Name: "chain", Molecules: []*cdft.Molecule{fixture.Chain()}, Options: DefaultOptions()}})
	assert.ErrorIs(Te, err, context.Canceled)
	assert.Nil(Te, results[0])
}

func TestFileSinkGrids(Te *testing.T) {
	o := DefaultOptions()
	o.GridPoints = 8
	o.MEP = true
	o.Protein = true
	res, err := Process(Request{Name: "chain", Molecules: []*cdft.Molecule{fixture.Chain()}, Options: o})
	require.NoError(Te, err)
	dir := Te.TempDir()
	S := &FileSink{Dir: dir, Compression: "zst", DOS: true, Plots: true}
	require.NoError(Te, S.Write(res))
	for _, f := range []string{"chain_global.json", "chain_condensed.tsv", "chain_residues.tsv", "chain_dos.png", "chain_RAS_residues.png"} {
		assert.FileExists(Te, filepath.Join(dir, f))
	}
	G, err := grid.ReadCubeFile(filepath.Join(dir, "chain_FOA_RAS.cube.zst"))
	require.NoError(Te, err)
	assert.Equal(Te, res.Local.RAS.N, G.N)
	assert.InDelta(Te, res.Local.RAS.Spacing[0], G.Spacing[0], 1e-5)
	assert.FileExists(Te, filepath.Join(dir, "chain_FOA_MEP.cube.zst"))
	assert.NoFileExists(Te, filepath.Join(dir, "chain_FOA_Hardness_not.cube.zst"))

	b, err := os.ReadFile(filepath.Join(dir, "chain_global.json"))
	require.NoError(Te, err)
	var rec Record
	require.NoError(Te, json.Unmarshal(b, &rec))
	assert.Equal(Te, "FOA", rec.Approximation)
	assert.InDelta(Te, 8.5, rec.Global["Hardness"], 1e-12)
	assert.Len(Te, rec.Residues, 2)
}

func TestNewLogger(Te *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := NewLogger("debug", format)
		require.NoError(Te, err)
		assert.True(Te, log.Core().Enabled(zapcore.DebugLevel))
	}
	log, err := NewLogger("nonsense", "json")
	require.NoError(Te, err)
	assert.False(Te, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(Te, log.Core().Enabled(zapcore.InfoLevel))
}

//stretchedH2 returns H2 with the atoms displaced by d along the bond,
//and the HOMO raised by dHOMO eV.
func stretchedH2(d, dHOMO float64) *cdft.Molecule {
	m := fixture.H2()
	m.Atoms[0].Pos.Z -= d
	m.Atoms[1].Pos.Z += d
	m.OrbEnergies[0] += dHOMO
	return m
}

//h2Dimer returns two H2 molecules 6 Å apart, as one system, and the two molecules
//on their own. The orbitals of the system are those of the molecules.
func h2Dimer() (dimer, left, right *cdft.Molecule) {
	left, right = fixture.H2(), fixture.H2()
	right.Name = "H2b"
	for _, a := range right.Atoms {
		a.Pos = r3.Add(a.Pos, r3.Vec{X: 6})
		a.ID += 2
		a.Molid = 2
	}
	dimer = &cdft.Molecule{Name: "dimer", Electrons: 4, HOMO: 1, Multiplicity: 1, Energy: -2.2335,
		OrbEnergies: []float64{-15.9, -15.8, 19.2, 19.3}}
	dimer.Atoms = append(append([]*cdft.Atom{}, left.Atoms...), right.Atoms...)
	dimer.Basis = append([]*cdft.BasisFunction{}, left.Basis...)
	for _, b := range right.Basis {
		c := *b
		c.Atom += 2
		dimer.Basis = append(dimer.Basis, &c)
	}
	//basis functions in rows, orbitals in columns
	dimer.MOs = mat.NewDense(4, 4, nil)
	dimer.Overlap = mat.NewSymDense(4, nil)
	for blk := 0; blk < 2; blk++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				dimer.MOs.Set(2*blk+i, 2*j+blk, left.MOs.At(i, j))
				dimer.Overlap.SetSym(2*blk+i, 2*blk+j, left.Overlap.At(i, j))
			}
		}
	}
	return dimer, left, right
}

func TestRunnerReaction(Te *testing.T) {
	o := DefaultOptions()
	o.GridPoints = 8
	o.GridPadding = 3
	o.MEP = true
	frames := []Request{
		{Name: "f0", Molecules: []*cdft.Molecule{fixture.H2()}, Options: o},
		{Name: "f1", Molecules: []*cdft.Molecule{stretchedH2(0.1, 0.5)}, Options: o},
		{Name: "lost", Molecules: []*cdft.Molecule{cdft.EmptyMolecule()}, Options: o},
		{Name: "f2", Molecules: []*cdft.Molecule{stretchedH2(0.3, 1)}, Options: o},
	}
	dir := Te.TempDir()
	core, logs := observer.New(zapcore.InfoLevel)
	R := &Runner{Workers: 2, Logger: zap.New(core), Sink: &FileSink{Dir: dir}}
	results, diffs, err := R.Reaction(context.Background(), frames)
	require.NoError(Te, err)
	require.Len(Te, results, 4)
	assert.True(Te, results[2].Skipped)
	//every frame on the same grid, spanning the most stretched one
	assert.True(Te, results[0].Local.RAS.SameGeometry(results[3].Local.RAS))
	assert.Nil(Te, frames[0].Options.Geometry)

	require.Len(Te, diffs, 2)
	assert.Equal(Te, "f1-f0", diffs[0].Name)
	assert.Equal(Te, "f2-f1", diffs[1].Name)
	assert.Equal(Te, []string{"f1"}, diffs[1].Subtracted)
	d := diffs[1]
	assert.Empty(Te, d.Warnings)
	assert.True(Te, d.Global.Delta)
	assert.InDelta(Te, results[3].Global.Hardness-results[1].Global.Hardness, d.Global.Hardness, 1e-12)
	assert.InDelta(Te, -0.5, d.Global.Hardness, 1e-12)
	require.NotNil(Te, d.Condensed)
	assert.InDelta(Te, results[3].Condensed.Fukui.EAS[0]-results[1].Condensed.Fukui.EAS[0], d.Condensed.Fukui.EAS[0], 1e-12)
	require.NotNil(Te, d.Local)
	//both Fukui functions are normalized, so their difference adds up to zero
	assert.InDelta(Te, 0.0, d.Local.EAS.Sum(), 1e-9)
	i := len(d.Local.RAS.Data) / 2
	assert.InDelta(Te, results[3].Local.RAS.Data[i]-results[1].Local.RAS.Data[i], d.Local.RAS.Data[i], 1e-12)
	require.NotNil(Te, d.MEP)

	assert.Equal(Te, 2, logs.FilterMessage("difference obtained").Len())
	assert.FileExists(Te, filepath.Join(dir, "f2-f1_global.json"))
	assert.FileExists(Te, filepath.Join(dir, "f2-f1_condensed.tsv"))
	assert.FileExists(Te, filepath.Join(dir, "f2-f1_FOA_RAS.cube"))
	b, err := os.ReadFile(filepath.Join(dir, "f1-f0_global.json"))
	require.NoError(Te, err)
	var rec Record
	require.NoError(Te, json.Unmarshal(b, &rec))
	assert.InDelta(Te, -0.5, rec.Global["Hardness"], 1e-12)
}

func TestDifferencesOwnGrids(Te *testing.T) {
	o := DefaultOptions()
	o.GridPoints = 6
	r0, err := Process(Request{Name: "f0", Molecules: []*cdft.Molecule{fixture.H2()}, Options: o})
	require.NoError(Te, err)
	r1, err := Process(Request{Name: "f1", Molecules: []*cdft.Molecule{stretchedH2(0.4, 0)}, Options: o})
	require.NoError(Te, err)
	diffs := Differences([]*Result{r0, nil, r1})
	require.Len(Te, diffs, 1)
	d := diffs[0]
	//each frame got a grid around its own atoms
	assert.Nil(Te, d.Local)
	require.Len(Te, d.Warnings, 1)
	assert.Equal(Te, StageLocal, d.Warnings[0].Stage)
	assert.True(Te, errors.Is(d.Warnings[0].Err, cdft.ErrGeometryMismatch))
	assert.InDelta(Te, 0.0, d.Global.Hardness, 1e-12)
	assert.NotNil(Te, d.Condensed)
	assert.Empty(Te, Differences([]*Result{r0}))
}

func TestRunnerComplex(Te *testing.T) {
	dimer, left, right := h2Dimer()
	o := DefaultOptions()
	o.GridPoints = 10
	o.GridPadding = 2
	o.Hardness = cdft.LCP
	R := &Runner{Workers: 3}
	results, d, err := R.Complex(context.Background(),
		Request{Name: "dimer", Molecules: []*cdft.Molecule{dimer}, Options: o},
		[]Request{
			{Name: "left", Molecules: []*cdft.Molecule{left}, Options: o},
			{Name: "right", Molecules: []*cdft.Molecule{right}, Options: o},
		})
	require.NoError(Te, err)
	require.Len(Te, results, 3)
	require.NotNil(Te, d)
	assert.Equal(Te, "dimer-left+right", d.Name)
	assert.Equal(Te, "dimer", d.Minuend)
	assert.Empty(Te, d.Warnings)
	eta := results[0].Global.Hardness - results[1].Global.Hardness - results[2].Global.Hardness
	assert.InDelta(Te, eta, d.Global.Hardness, 1e-12)
	assert.InDelta(Te, 35.0-2*35.1, d.Global.Hardness, 1e-9)
	assert.InDelta(Te, -2.2335+2*1.1167, d.Global.Energy, 1e-9)

	require.NotNil(Te, d.Condensed)
	assert.Len(Te, d.Condensed.Atoms, 4)
	assert.InDelta(Te, results[0].Condensed.Fukui.EAS[3]-results[2].Condensed.Fukui.EAS[1], d.Condensed.Fukui.EAS[3], 1e-12)

	require.NotNil(Te, d.Local)
	assert.Equal(Te, cdft.LCP, d.Local.HardnessMethod)
	require.NotNil(Te, d.Local.Hardness)
	//one Fukui function minus two of them
	assert.InDelta(Te, -1.0, d.Local.NAS.Sum(), 1e-9)

	_, err = ComplexDifference(results[0], results[1], nil)
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
	_, err = ComplexDifference(results[0])
	assert.True(Te, errors.Is(err, cdft.ErrMissingInput))
}
