package main

// --- Parameter Structs ---

// LogoParameters is the complete input record for one render.
// Lengths are in px, fractions are relative to Diameter.
type LogoParameters struct {
	Diameter       float64 `json:"diameter" yaml:"diameter" toml:"diameter"`
	WavelengthFrac float64 `json:"wavelength_frac" yaml:"wavelength_frac" toml:"wavelength_frac"`
	AmplitudeFrac  float64 `json:"amplitude_frac" yaml:"amplitude_frac" toml:"amplitude_frac"`
	LineWidth      float64 `json:"line_width" yaml:"line_width" toml:"line_width"`
	WaveProjection float64 `json:"wave_projection" yaml:"wave_projection" toml:"wave_projection"` // >0 extends, <0 contracts
	WaveShift1     float64 `json:"wave_shift_1" yaml:"wave_shift_1" toml:"wave_shift_1"`
	WaveShift2     float64 `json:"wave_shift_2" yaml:"wave_shift_2" toml:"wave_shift_2"`
	ColorA         string  `json:"color_a" yaml:"color_a" toml:"color_a"`          // wave 2 and its arc
	ColorB         string  `json:"color_b" yaml:"color_b" toml:"color_b"`          // wave 1 and its arc
	Background     string  `json:"background" yaml:"background" toml:"background"` // "none" for transparent
}

// ParametersOverride mirrors LogoParameters with optional fields, so a preset
// only has to name the values it changes.
type ParametersOverride struct {
	Diameter       *float64 `json:"diameter,omitempty" yaml:"diameter,omitempty" toml:"diameter,omitempty"`
	WavelengthFrac *float64 `json:"wavelength_frac,omitempty" yaml:"wavelength_frac,omitempty" toml:"wavelength_frac,omitempty"`
	AmplitudeFrac  *float64 `json:"amplitude_frac,omitempty" yaml:"amplitude_frac,omitempty" toml:"amplitude_frac,omitempty"`
	LineWidth      *float64 `json:"line_width,omitempty" yaml:"line_width,omitempty" toml:"line_width,omitempty"`
	WaveProjection *float64 `json:"wave_projection,omitempty" yaml:"wave_projection,omitempty" toml:"wave_projection,omitempty"`
	WaveShift1     *float64 `json:"wave_shift_1,omitempty" yaml:"wave_shift_1,omitempty" toml:"wave_shift_1,omitempty"`
	WaveShift2     *float64 `json:"wave_shift_2,omitempty" yaml:"wave_shift_2,omitempty" toml:"wave_shift_2,omitempty"`
	ColorA         *string  `json:"color_a,omitempty" yaml:"color_a,omitempty" toml:"color_a,omitempty"`
	ColorB         *string  `json:"color_b,omitempty" yaml:"color_b,omitempty" toml:"color_b,omitempty"`
	Background     *string  `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
}

// Default values, matching the designer's "reset to defaults".
const (
	defaultDiameter       = 600.0
	defaultWavelengthFrac = 0.70
	defaultAmplitudeFrac  = 0.12
	defaultLineWidth      = 40.0
	defaultColorA         = "#63C5DA"
	defaultColorB         = "#C4EF87"
	defaultBackground     = "#27374D"

	// transparentBackground leaves the background rectangle unpainted.
	transparentBackground = "none"
)

// DefaultParameters returns the stock emblem parameters.
func DefaultParameters() LogoParameters {
	return LogoParameters{
		Diameter:       defaultDiameter,
		WavelengthFrac: defaultWavelengthFrac,
		AmplitudeFrac:  defaultAmplitudeFrac,
		LineWidth:      defaultLineWidth,
		ColorA:         defaultColorA,
		ColorB:         defaultColorB,
		Background:     defaultBackground,
	}
}

// --- Geometry Structs ---

// Point is a 2D coordinate in drawing space (origin at the circle centre, y down).
type Point struct {
	X, Y float64
}

// Circle holds the two radii derived from the diameter and line width.
type Circle struct {
	OuterRadius      float64 // R
	CenterlineRadius float64 // r, where arc strokes are centred
}

// IntersectionPair is the raw (pre-projection) pair of wave/circle crossings.
type IntersectionPair struct {
	XLeft, XRight float64
}

// ProjectedEndpoints are the wave ends after the projection transform.
type ProjectedEndpoints struct {
	Left, Right Point
}

// SampledCurve is an ordered polyline approximation of one wave.
type SampledCurve []Point

// CrossingCount reports how many times g(x) changes sign on each half of [-R, R].
type CrossingCount struct {
	Left, Right int
}

// Ambiguous reports whether either half crosses the circle more than once.
func (c CrossingCount) Ambiguous() bool {
	return c.Left > 1 || c.Right > 1
}

// Missing reports whether either half never reaches the circle. g(R) is
// always positive, so this happens when the wave at x=0 already lies outside
// the centerline circle; the roots then collapse towards x=0.
func (c CrossingCount) Missing() bool {
	return c.Left == 0 || c.Right == 0
}

// WaveGeometry is everything computed for one of the two waves.
type WaveGeometry struct {
	Spec      WaveSpec
	Roots     IntersectionPair
	Endpoints ProjectedEndpoints
	Curve     SampledCurve
	Crossings CrossingCount
}

// Geometry is the GeometryBuilder output for a full emblem.
type Geometry struct {
	Params LogoParameters
	Circle Circle
	Waves  [2]WaveGeometry
}

// BoundingRect is an axis-aligned rectangle in drawing space.
type BoundingRect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b BoundingRect) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b BoundingRect) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether p lies inside or on the rectangle.
func (b BoundingRect) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// --- Drawing Structs ---

// Primitive is one drawable element of a VectorDrawing.
type Primitive interface {
	primitive()
}

// LineCap mirrors the SVG stroke-linecap values used by the emblem.
type LineCap string

const (
	CapButt  LineCap = "butt"
	CapRound LineCap = "round"
)

// RectPrimitive is a filled rectangle.
type RectPrimitive struct {
	Origin        Point
	Width, Height float64
	Fill          string
}

// ArcPrimitive is a stroked circular arc in SVG endpoint form.
type ArcPrimitive struct {
	Start, End  Point
	Radius      float64
	LargeArc    bool
	Sweep       bool
	Stroke      string
	StrokeWidth float64
	Cap         LineCap
}

// PolylinePrimitive is a stroked open polyline.
type PolylinePrimitive struct {
	Points      []Point
	Stroke      string
	StrokeWidth float64
	Cap         LineCap
}

func (RectPrimitive) primitive()     {}
func (ArcPrimitive) primitive()      {}
func (PolylinePrimitive) primitive() {}

// VectorDrawing is the renderer-independent output of the emitter.
type VectorDrawing struct {
	ViewBox    BoundingRect
	Width      float64
	Height     float64
	Primitives []Primitive
}
