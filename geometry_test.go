package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LogoParameters)
		field  string
	}{
		{"line width equals diameter", func(p *LogoParameters) { p.LineWidth = p.Diameter }, "line_width"},
		{"line width exceeds diameter", func(p *LogoParameters) { p.LineWidth = p.Diameter + 1 }, "line_width"},
		{"zero line width", func(p *LogoParameters) { p.LineWidth = 0 }, "line_width"},
		{"negative diameter", func(p *LogoParameters) { p.Diameter = -600 }, "diameter"},
		{"NaN diameter", func(p *LogoParameters) { p.Diameter = math.NaN() }, "diameter"},
		{"zero wavelength", func(p *LogoParameters) { p.WavelengthFrac = 0 }, "wavelength_frac"},
		{"negative wavelength", func(p *LogoParameters) { p.WavelengthFrac = -0.5 }, "wavelength_frac"},
		{"infinite wavelength", func(p *LogoParameters) { p.WavelengthFrac = math.Inf(1) }, "wavelength_frac"},
		{"negative amplitude", func(p *LogoParameters) { p.AmplitudeFrac = -0.1 }, "amplitude_frac"},
		{"infinite amplitude", func(p *LogoParameters) { p.AmplitudeFrac = math.Inf(1) }, "amplitude_frac"},
		{"collapsed projection", func(p *LogoParameters) { p.WaveProjection = -1 }, "wave_projection"},
		{"NaN shift 1", func(p *LogoParameters) { p.WaveShift1 = math.NaN() }, "wave_shift_1"},
		{"infinite shift 2", func(p *LogoParameters) { p.WaveShift2 = math.Inf(-1) }, "wave_shift_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)

			_, err := BuildGeometry(p)
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %T", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	assert.NoError(t, ValidateParameters(DefaultParameters()))
}

func TestBuildGeometrySamples(t *testing.T) {
	geom, err := BuildGeometry(DefaultParameters())
	require.NoError(t, err)

	for i, w := range geom.Waves {
		require.Len(t, w.Curve, curveSteps+1, "wave %d", i+1)
		assert.Equal(t, w.Endpoints.Left, w.Curve[0])
		last := w.Curve[len(w.Curve)-1]
		assert.InDelta(t, w.Endpoints.Right.X, last.X, 1e-9)
		assert.InDelta(t, w.Endpoints.Right.Y, last.Y, 1e-9)

		step := (w.Endpoints.Right.X - w.Endpoints.Left.X) / curveSteps
		for j := 1; j < len(w.Curve); j++ {
			assert.InDelta(t, step, w.Curve[j].X-w.Curve[j-1].X, 1e-9)
			assert.Equal(t, w.Spec.Y(w.Curve[j].X), w.Curve[j].Y)
		}
	}
}

func TestProjectionIdentity(t *testing.T) {
	geom, err := BuildGeometry(DefaultParameters())
	require.NoError(t, err)

	for _, w := range geom.Waves {
		assert.Equal(t, w.Roots.XLeft, w.Endpoints.Left.X)
		assert.Equal(t, w.Roots.XRight, w.Endpoints.Right.X)
		assert.Equal(t, w.Spec.Y(w.Roots.XLeft), w.Endpoints.Left.Y)
		assert.Equal(t, w.Spec.Y(w.Roots.XRight), w.Endpoints.Right.Y)
	}
}

func TestProjectionRecomputesY(t *testing.T) {
	p := DefaultParameters()
	p.WaveProjection = 0.2
	geom, err := BuildGeometry(p)
	require.NoError(t, err)

	w1 := geom.Waves[0]
	assert.InDelta(t, w1.Roots.XRight*1.2, w1.Endpoints.Right.X, 1e-9)
	assert.InDelta(t, w1.Roots.XLeft*1.2, w1.Endpoints.Left.X, 1e-9)
	assert.Equal(t, w1.Spec.Y(w1.Endpoints.Right.X), w1.Endpoints.Right.Y)

	// The sine is not linear: scaling the unprojected y would land elsewhere.
	scaled := 1.2 * w1.Spec.Y(w1.Roots.XRight)
	assert.Greater(t, math.Abs(w1.Endpoints.Right.Y-scaled), 1.0)

	// Projection moves the ends beyond the centerline circle.
	r := geom.Circle.CenterlineRadius
	assert.Greater(t, math.Hypot(w1.Endpoints.Right.X, w1.Endpoints.Right.Y), r)
}

// pointSymmetryError is the largest distance between wave 2 and wave 1
// rotated half a turn about the origin.
func pointSymmetryError(geom Geometry) float64 {
	c1, c2 := geom.Waves[0].Curve, geom.Waves[1].Curve
	worst := 0.0
	for j := range c2 {
		mirror := c1[len(c1)-1-j]
		worst = math.Max(worst, math.Hypot(c2[j].X+mirror.X, c2[j].Y+mirror.Y))
	}
	return worst
}

func TestShiftSymmetry(t *testing.T) {
	geom, err := BuildGeometry(DefaultParameters())
	require.NoError(t, err)
	assert.Less(t, pointSymmetryError(geom), 1e-6)
	w1 := geom.Waves[0]
	assert.InDelta(t, -w1.Roots.XLeft, w1.Roots.XRight, 1e-6)

	// Opposite shifts skew each wave so it is no longer mirror symmetric
	// about the vertical axis.
	p := DefaultParameters()
	p.WaveShift1, p.WaveShift2 = 0.1, -0.1
	geom, err = BuildGeometry(p)
	require.NoError(t, err)
	for i, w := range geom.Waves {
		assert.Greater(t, math.Abs(w.Roots.XRight+w.Roots.XLeft), 1.0, "wave %d", i+1)
		assert.NotEqual(t, w.Curve[0].Y, w.Curve[len(w.Curve)-1].Y)
	}

	// Shifting both waves the same way breaks the point symmetry of the pair.
	p.WaveShift1, p.WaveShift2 = 0.1, 0.1
	geom, err = BuildGeometry(p)
	require.NoError(t, err)
	assert.Greater(t, pointSymmetryError(geom), 1.0)
}

func TestScaleInvariance(t *testing.T) {
	small := DefaultParameters()
	large := small
	large.Diameter *= 2
	large.LineWidth *= 2

	g1, err := BuildGeometry(small)
	require.NoError(t, err)
	g2, err := BuildGeometry(large)
	require.NoError(t, err)

	assert.InDelta(t, 2*g1.Circle.CenterlineRadius, g2.Circle.CenterlineRadius, 1e-9)
	for i := range g1.Waves {
		a, b := g1.Waves[i], g2.Waves[i]
		assert.InDelta(t, 2*a.Endpoints.Left.X, b.Endpoints.Left.X, 1e-6)
		assert.InDelta(t, 2*a.Endpoints.Left.Y, b.Endpoints.Left.Y, 1e-6)
		assert.InDelta(t, 2*a.Endpoints.Right.X, b.Endpoints.Right.X, 1e-6)
		assert.InDelta(t, 2*a.Endpoints.Right.Y, b.Endpoints.Right.Y, 1e-6)
		assert.InDelta(t, a.Spec.Amplitude/small.Diameter, b.Spec.Amplitude/large.Diameter, 1e-12)
		assert.InDelta(t, a.Spec.Cycles, b.Spec.Cycles, 1e-12)
	}

	b1, b2 := CalculateBounds(g1), CalculateBounds(g2)
	assert.InDelta(t, 2*b1.Width(), b2.Width(), 1e-6)
	assert.InDelta(t, 2*b1.Height(), b2.Height(), 1e-6)
	assert.InDelta(t, 2*b1.MinX, b2.MinX, 1e-6)
	assert.InDelta(t, 2*b1.MinY, b2.MinY, 1e-6)
}

func TestStrictCrossings(t *testing.T) {
	p := DefaultParameters()
	p.WavelengthFrac = 0.1
	p.AmplitudeFrac = 0.45

	geom, err := BuildGeometry(p)
	require.NoError(t, err)
	assert.True(t, geom.Waves[0].Crossings.Ambiguous())

	_, err = BuildGeometry(p, WithStrictCrossings())
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %v", err)
	assert.Equal(t, "amplitude_frac", cfgErr.Field)

	_, err = BuildGeometry(DefaultParameters(), WithStrictCrossings())
	assert.NoError(t, err)
}

func TestStrictRejectsMissingCrossings(t *testing.T) {
	// r = 50 while the wave sits at |y| = 72 around x = 0: it never meets the
	// centerline circle and the roots would collapse onto x = 0.
	p := DefaultParameters()
	p.LineWidth = 500

	geom, err := BuildGeometry(p)
	require.NoError(t, err)
	for i, w := range geom.Waves {
		assert.Equal(t, CrossingCount{}, w.Crossings, "wave %d", i+1)
		assert.True(t, w.Crossings.Missing())
		assert.InDelta(t, 0, w.Roots.XRight, 1e-9)
	}

	_, err = BuildGeometry(p, WithStrictCrossings())
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %v", err)
	assert.Equal(t, "line_width", cfgErr.Field)
	assert.Equal(t, 500.0, cfgErr.Value)
	assert.Contains(t, cfgErr.Reason, "never meets")

	svg, err := GenerateSVG(p, WithStrictCrossings())
	assert.Error(t, err)
	assert.Empty(t, svg)
}

func TestStrictAcceptsSingleCrossings(t *testing.T) {
	for _, lw := range []float64{2, 40, 400} {
		p := DefaultParameters()
		p.LineWidth = lw
		geom, err := BuildGeometry(p, WithStrictCrossings())
		require.NoError(t, err, "line_width=%g", lw)
		r2 := geom.Circle.CenterlineRadius * geom.Circle.CenterlineRadius
		for _, w := range geom.Waves {
			for _, x := range []float64{w.Roots.XLeft, w.Roots.XRight} {
				y := w.Spec.Y(x)
				assert.InDelta(t, 0, x*x+y*y-r2, 1e-6*r2, "line_width=%g", lw)
			}
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	p := DefaultParameters()
	p.WaveProjection = 0.13
	p.WaveShift1 = 0.07

	first, err := GenerateSVG(p)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := GenerateSVG(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
