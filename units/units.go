// Package units holds the physical constants and unit conversions shared by
// the correction routines. All internal electrostatics are computed in
// Hartree atomic units; inputs arrive in angstrom/eV and results are
// reported in eV.
package units

import "math"

const (
	// HartToEv converts hartree to electron-volt.
	HartToEv = 27.2114
	// AngToBohr converts angstrom to bohr.
	AngToBohr = 1.8897
	// InvAngToEv is hbar^2/(2*m_e) expressed in eV*angstrom^2, the
	// free-electron dispersion constant relating a plane-wave energy
	// cutoff to a wavevector magnitude.
	InvAngToEv = 3.80986
)

// EVToK maps a plane-wave energy cutoff in eV to the magnitude of the
// largest reciprocal vector it admits, in the atomic-unit convention used
// throughout the lattice sums (sqrt(E/InvAngToEv) scaled by AngToBohr).
func EVToK(energy float64) float64 {
	return math.Sqrt(energy/InvAngToEv) * AngToBohr
}
