package slab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// angToBohrInput is the conversion the external tool's input format uses.
// It carries one more digit than units.AngToBohr; the tool is matched
// exactly rather than rounded.
const angToBohrInput = 1.88973

// InputParams describes the slab system handed to the external alignment
// tool. Lengths are in angstrom; the writer converts to bohr.
type InputParams struct {
	Dielectric    float64
	LatticeMatrix [3][3]float64
	// DefectZ is the defect's cartesian position along the slab normal.
	DefectZ float64
	Q       float64
	// SlabBottom and SlabTop bound the material region; SlabBuffer pads
	// the isolated-reference region beyond it.
	SlabBottom float64
	SlabTop    float64
	SlabBuffer float64
}

// WriteInput writes the structured text input consumed by the external
// slab-alignment tool.
func WriteInput(w io.Writer, p InputParams) error {
	cell := make([]string, 0, 3)
	for _, row := range p.LatticeMatrix {
		cell = append(cell, fmt.Sprintf("[%v, %v, %v]",
			row[0]*angToBohrInput, row[1]*angToBohrInput, row[2]*angToBohrInput))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "structure {\n\t cell = [%s];\n}\n\n", strings.Join(cell, ", "))
	fmt.Fprintf(&b, "slab {\n\t fromZ = %v;\n\t toZ = %v;\n\t epsilon = %v;\n}\n\n",
		p.SlabBottom*angToBohrInput, p.SlabTop*angToBohrInput, p.Dielectric)
	fmt.Fprintf(&b, "charge {\n\t posZ = %v;\n\t Q = %v;\n}\n\n",
		p.DefectZ*angToBohrInput, -p.Q)
	fmt.Fprintf(&b, "isolated { \n\t fromZ = %v;\n\t toZ = %v;\n}\n\n",
		(p.SlabBottom-p.SlabBuffer)*angToBohrInput, (p.SlabTop+p.SlabBuffer)*angToBohrInput)

	_, err := io.WriteString(w, b.String())
	return err
}

// ParseProfile reads the whitespace-delimited tabular profile the external
// tool emits: position in the first column, the fitted potential in the
// last. Blank lines and '#' comments are skipped.
func ParseProfile(r io.Reader) (Profile, error) {
	var p Profile
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return Profile{}, fmt.Errorf("slab: line %d: need at least 2 columns, got %d", line, len(fields))
		}
		z, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Profile{}, fmt.Errorf("slab: line %d: %w", line, err)
		}
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return Profile{}, fmt.Errorf("slab: line %d: %w", line, err)
		}
		p.Z = append(p.Z, z)
		p.V = append(p.V, v)
	}
	if err := sc.Err(); err != nil {
		return Profile{}, fmt.Errorf("slab: %w", err)
	}
	if len(p.Z) == 0 {
		return Profile{}, fmt.Errorf("slab: empty profile")
	}
	return p, nil
}
