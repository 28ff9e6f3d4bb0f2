/*
 * doc.go, part of cdft.
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

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package cdft is the root package of the cdft library, which obtains reactivity
descriptors from conceptual density functional theory, from the results of quantum
chemistry calculations. This package provides the basic types: atoms, the electronic
state of a molecule (orbital energies, MO coefficients and basis set), the evaluation
of Gaussian basis functions, and the error type used by all the cdft packages.



	**cdft Capabilities**


    Global descriptors (chemical potential, hardness, softness, electrophilicity,
	electrodonating and electroaccepting powers) in the frozen orbital (FOA) and
	finite difference (FD) approximations. See the global package.

    Electron, orbital and band densities and the molecular electrostatic potential
	on voxel grids, evaluated concurrently. See the grid and gridgen packages.

    Volumetric Fukui functions, dual descriptor and local hardness (LCP, mepEE and
	Fukui potential). See the local package.

    Atom-condensed descriptors, optionally restricted to an energy band around the
	frontier orbitals, as is needed for large systems like proteins. Per-residue
	averages and standard deviations. See the condensed package.

    Alternative hardness estimates (Thomas-Fermi, Thomas-Fermi-Dirac and
	hardness-weighted averages). See the comphard package.

    A complete pipeline, with a CLI, that runs batches of molecules concurrently and writes
	JSON, cube and tabular output. See the pipeline package and cmd/cdft.



Positions are in Å, orbital energies in eV, and densities in e/Å^3. Basis set
exponents are in bohr^-2, as QM programs give them. Grid data is always stored
with the x index varying slowest and the z index fastest, which is the order
of Gaussian cube files.*/
package cdft
