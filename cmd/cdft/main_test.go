/*
 * main_test.go, part of cdft.
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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/cdft/grid"
	"github.com/rmera/cdft/internal/fixture"
	"github.com/rmera/cdft/rdjson"
)

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	molfile := filepath.Join(dir, "chain.json")
	f, err := os.Create(molfile)
	require.NoError(Te, err)
	require.NoError(Te, rdjson.WriteMolecule(f, fixture.Chain()))
	require.NoError(Te, f.Close())
	out := filepath.Join(dir, "out")
	conf := filepath.Join(dir, "cdft.yaml")
	yaml := "protein: true\noutput:\n  dir: " + out + "\nlog:\n  level: error\njobs:\n  - files: [" + molfile + "]\n  - name: missing\n    files: [" + filepath.Join(dir, "nothere.json") + "]\n"
	require.NoError(Te, os.WriteFile(conf, []byte(yaml), 0o644))
	metrics := filepath.Join(dir, "metrics.prom")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", "-c", conf, "--metrics", metrics})
	require.NoError(Te, cmd.Execute())
	assert.FileExists(Te, filepath.Join(out, "chain_global.json"))
	assert.FileExists(Te, filepath.Join(out, "chain_residues.tsv"))
	assert.FileExists(Te, filepath.Join(out, "summary.json"))
	b, err := os.ReadFile(metrics)
	require.NoError(Te, err)
	assert.Contains(Te, string(b), `cdft_molecules_total{status="skipped"} 1`)
}

func TestRunReaction(Te *testing.T) {
	dir := Te.TempDir()
	var files []string
	for i, d := range []float64{0, 0.2} {
		m := fixture.H2()
		m.Atoms[1].Pos.Z += d
		name := filepath.Join(dir, "frame"+strconv.Itoa(i)+".json")
		f, err := os.Create(name)
		require.NoError(Te, err)
		require.NoError(Te, rdjson.WriteMolecule(f, m))
		require.NoError(Te, f.Close())
		files = append(files, name)
	}
	out := filepath.Join(dir, "out")
	yaml := "analysis: reaction\ngrid:\n  points: 6\noutput:\n  dir: " + out + "\nlog:\n  level: error\njobs:\n" +
		"  - files: [" + files[0] + "]\n  - files: [" + files[1] + "]\n"
	conf := filepath.Join(dir, "cdft.yaml")
	require.NoError(Te, os.WriteFile(conf, []byte(yaml), 0o644))
	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", "-c", conf})
	require.NoError(Te, cmd.Execute())
	assert.FileExists(Te, filepath.Join(out, "frame1-frame0_global.json"))
	assert.FileExists(Te, filepath.Join(out, "frame1-frame0_FOA_RAS.cube"))

	yaml = strings.Replace(yaml, "reaction", "complex", 1)
	yaml = yaml[:strings.LastIndex(yaml, "  - files")]
	require.NoError(Te, os.WriteFile(conf, []byte(yaml), 0o644))
	cmd = newRootCommand()
	cmd.SetArgs([]string{"run", "-c", conf})
	assert.Error(Te, cmd.Execute())
}

func TestRunNoJobs(Te *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"run"})
	assert.Error(Te, cmd.Execute())
}

func TestStats(Te *testing.T) {
	G, err := grid.New(r3.Vec{}, [3]float64{1, 1, 1}, [3]int{2, 2, 2}, fixture.H2().Atoms)
	require.NoError(Te, err)
	for i := range G.Data {
		G.Data[i] = float64(i)
	}
	name := filepath.Join(Te.TempDir(), "g.cube")
	require.NoError(Te, grid.WriteCubeFile(name, G, "test"))
	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"stats", "-f", "1", name})
	require.NoError(Te, cmd.Execute())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(Te, lines, 2)
	assert.Contains(Te, lines[1], "3.50000e+00")

	buf.Reset()
	cmd = newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"stats", "-b", "2", name})
	require.NoError(Te, cmd.Execute())
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(Te, lines, 4)
}
