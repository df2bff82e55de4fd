package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"defectcorr/correction"
	"defectcorr/grid"
	"defectcorr/lattice"
	"defectcorr/qmodel"
)

// jobSpec is the YAML job document. Grids are flattened row major with
// the z index varying fastest, matching the volumetric file layout.
type jobSpec struct {
	Charge           float64       `yaml:"charge"`
	Dielectric       float64       `yaml:"dielectric,omitempty"`
	DielectricTensor [][]float64   `yaml:"dielectric_tensor,omitempty"`
	Lattice          [][]float64   `yaml:"lattice"`
	DefectFracCoords []float64     `yaml:"defect_frac_coords"`
	EnergyCutoff     float64       `yaml:"energy_cutoff,omitempty"`
	MadTol           float64       `yaml:"mad_tol,omitempty"`
	WidthSample      float64       `yaml:"width_sample,omitempty"`
	Model            *jobModelSpec `yaml:"charge_model,omitempty"`
	Grid             jobGridSpec   `yaml:"grid"`
}

type jobModelSpec struct {
	Beta    float64 `yaml:"beta"`
	Expnorm float64 `yaml:"expnorm"`
	Gamma   float64 `yaml:"gamma"`
}

type jobGridSpec struct {
	Dims   []int     `yaml:"dims"`
	Defect []float64 `yaml:"defect"`
	Bulk   []float64 `yaml:"bulk"`
}

func loadJob(path string) (*jobSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadJob: %w", err)
	}
	var job jobSpec
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("loadJob: parse %s: %w", path, err)
	}
	return &job, nil
}

func (j *jobSpec) correctionInput(logger *zap.Logger) (correction.Input, error) {
	var in correction.Input

	basis, err := toMatrix3(j.Lattice)
	if err != nil {
		return in, fmt.Errorf("job: lattice: %w", err)
	}
	lat, err := lattice.New(basis)
	if err != nil {
		return in, fmt.Errorf("job: lattice: %w", err)
	}

	eps, err := j.dielectric()
	if err != nil {
		return in, err
	}

	if len(j.DefectFracCoords) != 3 {
		return in, fmt.Errorf("job: defect_frac_coords must have 3 entries, got %d", len(j.DefectFracCoords))
	}

	if len(j.Grid.Dims) != 3 {
		return in, fmt.Errorf("job: grid dims must have 3 entries, got %d", len(j.Grid.Dims))
	}
	dims := [3]int{j.Grid.Dims[0], j.Grid.Dims[1], j.Grid.Dims[2]}
	defect, err := grid.New(lat, dims, j.Grid.Defect)
	if err != nil {
		return in, fmt.Errorf("job: defect grid: %w", err)
	}
	bulk, err := grid.New(lat, dims, j.Grid.Bulk)
	if err != nil {
		return in, fmt.Errorf("job: bulk grid: %w", err)
	}

	in = correction.Input{
		Q:                j.Charge,
		Dielectric:       eps,
		DefectPotential:  defect,
		BulkPotential:    bulk,
		DefectFracCoords: [3]float64{j.DefectFracCoords[0], j.DefectFracCoords[1], j.DefectFracCoords[2]},
		EnergyCutoff:     j.EnergyCutoff,
		MadTol:           j.MadTol,
		WidthSample:      j.WidthSample,
		Logger:           logger,
	}
	if j.Model != nil {
		m, err := qmodel.New(j.Model.Beta, j.Model.Expnorm, j.Model.Gamma)
		if err != nil {
			return in, fmt.Errorf("job: charge_model: %w", err)
		}
		in.Model = m
	}
	return in, nil
}

func (j *jobSpec) dielectric() (correction.Dielectric, error) {
	switch {
	case j.Dielectric != 0 && j.DielectricTensor != nil:
		return correction.Dielectric{}, fmt.Errorf("job: set dielectric or dielectric_tensor, not both")
	case j.DielectricTensor != nil:
		m, err := toMatrix3(j.DielectricTensor)
		if err != nil {
			return correction.Dielectric{}, fmt.Errorf("job: dielectric_tensor: %w", err)
		}
		flat := make([]float64, 0, 9)
		for _, row := range m {
			flat = append(flat, row[:]...)
		}
		return correction.TensorDielectric(mat.NewDense(3, 3, flat))
	case j.Dielectric > 0:
		return correction.ScalarDielectric(j.Dielectric), nil
	default:
		return correction.Dielectric{}, fmt.Errorf("job: dielectric must be positive, got %v", j.Dielectric)
	}
}

func toMatrix3(rows [][]float64) ([3][3]float64, error) {
	var m [3][3]float64
	if len(rows) != 3 {
		return m, fmt.Errorf("need 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 3 {
			return m, fmt.Errorf("row %d: need 3 entries, got %d", i, len(row))
		}
		copy(m[i][:], row)
	}
	return m, nil
}
