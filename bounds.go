package main

import "math"

// marginFrac is the canvas margin as a fraction of the diameter.
const marginFrac = 0.05

// bounds accumulates the extent of every point drawn; isSet is false until
// the first point arrives.
type bounds struct {
	minX, maxX, minY, maxY float64
	isSet                  bool
}

// updatePoint grows the box to include (x, y).
func (b *bounds) updatePoint(x, y float64) {
	if !b.isSet {
		b.minX, b.maxX = x, x
		b.minY, b.maxY = y, y
		b.isSet = true
	} else {
		b.minX = math.Min(b.minX, x)
		b.maxX = math.Max(b.maxX, x)
		b.minY = math.Min(b.minY, y)
		b.maxY = math.Max(b.maxY, y)
	}
}

func (b *bounds) updatePoints(pts []Point) {
	for _, p := range pts {
		b.updatePoint(p.X, p.Y)
	}
}

// padded returns the box grown by margin on every side.
func (b bounds) padded(margin float64) BoundingRect {
	return BoundingRect{
		MinX: b.minX - margin,
		MinY: b.minY - margin,
		MaxX: b.maxX + margin,
		MaxY: b.maxY + margin,
	}
}

// CalculateBounds returns the viewport: the union of both sampled curves, the
// four projected endpoints and the centerline circle extrema, padded once by
// 5% of the diameter. Stroke width is not accounted for.
func CalculateBounds(geom Geometry) BoundingRect {
	var b bounds
	for _, w := range geom.Waves {
		b.updatePoints(w.Curve)
		b.updatePoint(w.Endpoints.Left.X, w.Endpoints.Left.Y)
		b.updatePoint(w.Endpoints.Right.X, w.Endpoints.Right.Y)
	}
	r := geom.Circle.CenterlineRadius
	b.updatePoint(-r, -r)
	b.updatePoint(r, r)

	return b.padded(geom.Params.Diameter * marginFrac)
}
