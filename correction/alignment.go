package correction

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"defectcorr/lattice"
	"defectcorr/numeric"
	"defectcorr/qmodel"
	"defectcorr/units"
)

// AlignmentInput parametrizes the potential alignment along one lattice
// axis.
type AlignmentInput struct {
	// AxisGrid holds the cartesian positions (angstrom) of the planar
	// averages, one period of the cell.
	AxisGrid []float64
	// BulkAverage and DefectAverage are the planar-averaged potentials
	// (eV) of the reference and defect calculations on AxisGrid.
	BulkAverage   []float64
	DefectAverage []float64
	// Lattice is the defect supercell.
	Lattice lattice.Lattice
	// Axis selects the lattice axis (0, 1 or 2).
	Axis int
	// DefectFracCoord is the defect's fractional coordinate along Axis.
	DefectFracCoord float64
	// Q is the defect charge state.
	Q float64
	// Dielectric is the bulk screening constant.
	Dielectric Dielectric
	// Model is the model charge distribution; nil selects the default.
	Model *qmodel.Model
	// MadTol bounds the imaginary residual tolerated from the inverse
	// transform. Zero selects 1e-4.
	MadTol float64
	// WidthSample is the width (angstrom) of the sampling window between
	// defect images where the residual potential is averaged. Zero
	// selects 1 angstrom.
	WidthSample float64
	// Logger receives per-axis diagnostics; nil disables logging.
	Logger *zap.Logger
}

// AxisAlignment is the alignment result and diagnostic bundle for one axis.
type AxisAlignment struct {
	// Axis is the lattice axis the alignment ran on.
	Axis int `json:"axis"`
	// AlignmentConstant is C, the negated mean of the short-range
	// residual over the sampling window (eV).
	AlignmentConstant float64 `json:"alignment_constant"`
	// Correction is the alignment energy -q*C (eV).
	Correction float64 `json:"correction"`

	// X is the axis grid (angstrom) with the defect shifted to origin.
	X []float64 `json:"x"`
	// VModel is the reconstructed long-range model potential shifted by
	// -C (eV).
	VModel []float64 `json:"v_model"`
	// PotentialDiff is the defect-minus-bulk planar average after the
	// defect shift (eV).
	PotentialDiff []float64 `json:"potential_diff"`
	// AlignedShortRange is the short-range residual shifted by +C (eV).
	AlignedShortRange []float64 `json:"aligned_short_range"`
	// Window holds the inclusive sampling-window index bounds.
	Window [2]int `json:"window"`
	// Stats summarizes the sampled residual as an uncertainty estimate.
	Stats numeric.WindowStats `json:"stats"`
}

func (in *AlignmentInput) normalize() error {
	if in.Model == nil {
		in.Model = qmodel.Default()
	}
	if in.MadTol == 0 {
		in.MadTol = 1e-4
	}
	if in.WidthSample == 0 {
		in.WidthSample = 1.0
	}
	if in.Logger == nil {
		in.Logger = zap.NewNop()
	}
	if in.Axis < 0 || in.Axis > 2 {
		return fmt.Errorf("%w: axis must be 0, 1 or 2, got %d", ErrInvalidInput, in.Axis)
	}
	n := len(in.AxisGrid)
	if n < 2 {
		return fmt.Errorf("%w: axis grid needs at least 2 points, got %d", ErrInvalidInput, n)
	}
	if len(in.BulkAverage) != n || len(in.DefectAverage) != n {
		return fmt.Errorf("%w: profile lengths differ (grid %d, bulk %d, defect %d)",
			ErrInvalidInput, n, len(in.BulkAverage), len(in.DefectAverage))
	}
	if in.WidthSample < 0 || in.MadTol < 0 {
		return fmt.Errorf("%w: sampling width and tolerance must be positive", ErrInvalidInput)
	}
	if in.Dielectric.Effective() <= 0 {
		return fmt.Errorf("%w: dielectric constant must be positive, got %v", ErrInvalidInput, in.Dielectric.Effective())
	}
	if in.Lattice.Volume() == 0 {
		return fmt.Errorf("%w: lattice is required", ErrInvalidInput)
	}
	return nil
}

// Align extracts the potential-alignment constant along one axis: it
// shifts the profiles so the defect sits at the origin, reconstructs the
// long-range model potential on the grid by inverse discrete Fourier
// transform, and averages the remaining short-range residual over a window
// centered on the point antipodal to the defect.
func Align(in AlignmentInput) (AxisAlignment, error) {
	if err := in.normalize(); err != nil {
		return AxisAlignment{}, err
	}
	log := in.Logger
	n := len(in.AxisGrid)
	eps := in.Dielectric.Effective()

	// Shift both profiles so the defect's projection lands at index 0.
	// The fractional coordinate is wrapped into [0, L) first; a defect
	// exactly at the axis origin needs no shift.
	length := in.Lattice.ABC()[in.Axis]
	axPos := in.DefectFracCoord * length
	if axPos < 0 {
		axPos += length
	} else if axPos > length {
		axPos -= length
	}
	bulk, defect := in.BulkAverage, in.DefectAverage
	if axPos != 0 {
		i := n - 1
		for j, x := range in.AxisGrid {
			if axPos < x {
				i = j
				break
			}
		}
		bulk = roll(bulk, n-i)
		defect = roll(defect, n-i)
		log.Debug("shifted defect to axis origin",
			zap.Int("axis", in.Axis), zap.Float64("position_ang", axPos))
	}

	// Long-range model potential on the grid frequencies, in atomic
	// units. dg is the reciprocal-lattice spacing along the axis in
	// 1/bohr; the Nyquist bin carries no phase partner on even grids and
	// is zeroed.
	dg := in.Lattice.ReciprocalABC()[in.Axis] / units.AngToBohr
	vG := make([]complex128, n)
	vG[0] = complex(4*math.Pi*(-in.Q)/eps*in.Model.RhoRecLimit0(), 0)
	for j := 1; j < n; j++ {
		m := j
		if j > (n-1)/2 {
			m = j - n
		}
		g := float64(m) * dg
		g2 := g * g
		vG[j] = complex(4*math.Pi/(eps*g2)*(-in.Q)*in.Model.RhoRec(g2), 0)
	}
	if n%2 == 0 {
		vG[n/2] = 0
	}

	fft := fourier.NewCmplxFFT(n)
	vC := fft.Coefficients(nil, vG)

	maxImag := 0.0
	for _, c := range vC {
		if im := math.Abs(imag(c)); im > maxImag {
			maxImag = im
		}
	}
	if maxImag > in.MadTol {
		return AxisAlignment{}, &NumericalInstabilityError{Axis: in.Axis, MaxImag: maxImag, Tol: in.MadTol}
	}

	volBohr := in.Lattice.Volume() * units.AngToBohr * units.AngToBohr * units.AngToBohr
	vR := make([]float64, n)
	for i, c := range vC {
		vR[i] = real(c) / volBohr * units.HartToEv
	}

	// Short-range residual and its sampling window, symmetric about the
	// grid midpoint (the region farthest from the defect).
	short := make([]float64, n)
	diff := make([]float64, n)
	for i := range short {
		diff[i] = defect[i] - bulk[i]
		short[i] = diff[i] - vR[i]
	}
	halfWidth := int((in.WidthSample / 2) / (in.AxisGrid[1] - in.AxisGrid[0]))
	mid := n / 2
	lo, hi := mid-halfWidth, mid+halfWidth
	if lo < 0 || hi >= n {
		return AxisAlignment{}, fmt.Errorf("%w: sampling width %v angstrom exceeds axis %d grid",
			ErrInvalidInput, in.WidthSample, in.Axis)
	}
	sample := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		sample = append(sample, short[i])
	}

	c := -stat.Mean(sample, nil)
	log.Debug("alignment window",
		zap.Int("axis", in.Axis),
		zap.Float64("from_ang", in.AxisGrid[lo]),
		zap.Float64("to_ang", in.AxisGrid[hi]),
		zap.Float64("alignment_constant_ev", c))

	out := AxisAlignment{
		Axis:              in.Axis,
		AlignmentConstant: c,
		Correction:        -in.Q * c,
		X:                 append([]float64(nil), in.AxisGrid...),
		VModel:            make([]float64, n),
		PotentialDiff:     diff,
		AlignedShortRange: make([]float64, n),
		Window:            [2]int{lo, hi},
		Stats:             numeric.Describe(sample),
	}
	for i := range short {
		out.AlignedShortRange[i] = short[i] + c
		out.VModel[i] = vR[i] - c
	}
	return out, nil
}

// roll returns a copy of xs circularly shifted right by k positions.
// Shifting never aliases the input; repeated axis passes see untouched
// profiles.
func roll(xs []float64, k int) []float64 {
	n := len(xs)
	out := make([]float64, n)
	k = ((k % n) + n) % n
	for i, v := range xs {
		out[(i+k)%n] = v
	}
	return out
}
