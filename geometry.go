package main

import (
	"fmt"
	"math"
)

const (
	// curveSteps intervals per wave, so each SampledCurve has curveSteps+1 points.
	curveSteps = 300
	// crossingScanSteps is the grid resolution of the crossing diagnostic.
	crossingScanSteps = 2048
)

// BuildOption configures BuildGeometry.
type BuildOption func(*buildOptions)

type buildOptions struct {
	strictCrossings bool
}

// WithStrictCrossings makes BuildGeometry fail with a ConfigurationError when a
// wave does not cross the circle exactly once on each side, instead of
// accepting whatever the bisection settles on.
func WithStrictCrossings() BuildOption {
	return func(o *buildOptions) {
		o.strictCrossings = true
	}
}

// ValidateParameters rejects parameter sets that cannot produce a circle and
// two well-formed waves. It runs before any sampling.
func ValidateParameters(p LogoParameters) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	switch {
	case !finite(p.Diameter) || p.Diameter <= 0:
		return &ConfigurationError{Field: "diameter", Value: p.Diameter, Reason: "must be a positive number"}
	case !finite(p.LineWidth) || p.LineWidth <= 0:
		return &ConfigurationError{Field: "line_width", Value: p.LineWidth, Reason: "must be a positive number"}
	case p.LineWidth >= p.Diameter:
		return &ConfigurationError{Field: "line_width", Value: p.LineWidth,
			Reason: fmt.Sprintf("must be smaller than the diameter (%g) to leave a positive centerline radius", p.Diameter)}
	case !finite(p.WavelengthFrac) || p.WavelengthFrac <= 0:
		return &ConfigurationError{Field: "wavelength_frac", Value: p.WavelengthFrac, Reason: "must be a positive fraction"}
	case !finite(p.AmplitudeFrac) || p.AmplitudeFrac < 0:
		return &ConfigurationError{Field: "amplitude_frac", Value: p.AmplitudeFrac, Reason: "must be a non-negative fraction"}
	case !finite(p.WaveProjection) || p.WaveProjection <= -1:
		return &ConfigurationError{Field: "wave_projection", Value: p.WaveProjection, Reason: "must be greater than -1"}
	case !finite(p.WaveShift1):
		return &ConfigurationError{Field: "wave_shift_1", Value: p.WaveShift1, Reason: "must be finite"}
	case !finite(p.WaveShift2):
		return &ConfigurationError{Field: "wave_shift_2", Value: p.WaveShift2, Reason: "must be finite"}
	}
	return nil
}

// NewCircle derives the outer and centerline radii.
func NewCircle(p LogoParameters) Circle {
	R := p.Diameter / 2
	return Circle{OuterRadius: R, CenterlineRadius: R - p.LineWidth/2}
}

// project scales an intersection x by the global projection factor.
func project(x, projection float64) float64 {
	return x * (1 + projection)
}

// SampleCurve evaluates the wave at steps+1 evenly spaced x in [from, to].
func SampleCurve(wave func(float64) float64, from, to float64, steps int) SampledCurve {
	pts := make(SampledCurve, 0, steps+1)
	for i := 0; i <= steps; i++ {
		x := from + (to-from)*float64(i)/float64(steps)
		pts = append(pts, Point{X: x, Y: wave(x)})
	}
	return pts
}

// checkCrossings rejects a wave that does not cross the circle exactly once
// on each side.
func checkCrossings(wave int, c CrossingCount, p LogoParameters, r float64) error {
	switch {
	case c.Missing():
		return &ConfigurationError{
			Field: "line_width",
			Value: p.LineWidth,
			Reason: fmt.Sprintf("wave %d never meets the centerline circle (r=%g) on the left (%d) or right (%d); thin the line or lower the amplitude",
				wave, r, c.Left, c.Right),
		}
	case c.Ambiguous():
		return &ConfigurationError{
			Field: "amplitude_frac",
			Value: p.AmplitudeFrac,
			Reason: fmt.Sprintf("wave %d crosses the circle %d times on the left and %d on the right",
				wave, c.Left, c.Right),
		}
	}
	return nil
}

// BuildGeometry computes circle, crossings, projected endpoints and sampled
// curves for both waves.
func BuildGeometry(p LogoParameters, opts ...BuildOption) (Geometry, error) {
	options := buildOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if err := ValidateParameters(p); err != nil {
		return Geometry{}, err
	}

	circle := NewCircle(p)
	geom := Geometry{Params: p, Circle: circle}

	for i, spec := range newWaveSpecs(p) {
		R, r := circle.OuterRadius, circle.CenterlineRadius

		crossings := CountCrossings(spec.Y, R, r, crossingScanSteps)
		if options.strictCrossings {
			if err := checkCrossings(i+1, crossings, p, r); err != nil {
				return Geometry{}, err
			}
		}

		roots := FindRoots(spec.Y, R, r)
		xl := project(roots.XLeft, p.WaveProjection)
		xr := project(roots.XRight, p.WaveProjection)

		geom.Waves[i] = WaveGeometry{
			Spec:  spec,
			Roots: roots,
			// y comes from the wave at the projected x, not from scaling the root's y.
			Endpoints: ProjectedEndpoints{
				Left:  Point{X: xl, Y: spec.Y(xl)},
				Right: Point{X: xr, Y: spec.Y(xr)},
			},
			Curve:     SampleCurve(spec.Y, xl, xr, curveSteps),
			Crossings: crossings,
		}
	}

	return geom, nil
}
