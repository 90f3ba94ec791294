package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// EmitDrawing assembles the primitives in their fixed draw order: background,
// arc A, arc B, wave A, wave B. Later primitives overdraw earlier ones. A
// transparent background keeps its rect, filled with "none".
func EmitDrawing(geom Geometry, viewBox BoundingRect) VectorDrawing {
	p := geom.Params
	r := geom.Circle.CenterlineRadius
	w1, w2 := geom.Waves[0], geom.Waves[1]

	fill := p.Background
	if isTransparent(fill) {
		fill = transparentBackground
	}

	prims := []Primitive{
		RectPrimitive{
			Origin: Point{X: viewBox.MinX, Y: viewBox.MinY},
			Width:  viewBox.Width(),
			Height: viewBox.Height(),
			Fill:   fill,
		},
		// Arc A runs right to left and arc B left to right with the same sweep
		// flag, which makes them complementary halves instead of mirror images.
		ArcPrimitive{
			Start:       w1.Endpoints.Right,
			End:         w1.Endpoints.Left,
			Radius:      r,
			Stroke:      p.ColorB,
			StrokeWidth: p.LineWidth,
			Cap:         CapButt,
		},
		ArcPrimitive{
			Start:       w2.Endpoints.Left,
			End:         w2.Endpoints.Right,
			Radius:      r,
			Stroke:      p.ColorA,
			StrokeWidth: p.LineWidth,
			Cap:         CapButt,
		},
		PolylinePrimitive{
			Points:      w1.Curve,
			Stroke:      p.ColorB,
			StrokeWidth: p.LineWidth,
			Cap:         CapRound,
		},
		PolylinePrimitive{
			Points:      w2.Curve,
			Stroke:      p.ColorA,
			StrokeWidth: p.LineWidth,
			Cap:         CapRound,
		},
	}

	return VectorDrawing{
		ViewBox:    viewBox,
		Width:      viewBox.Width(),
		Height:     viewBox.Height(),
		Primitives: prims,
	}
}

func isTransparent(color string) bool {
	return strings.EqualFold(strings.TrimSpace(color), transparentBackground)
}

// RenderDrawing runs the whole core: geometry, bounds, emitter.
func RenderDrawing(p LogoParameters, opts ...BuildOption) (VectorDrawing, Geometry, error) {
	geom, err := BuildGeometry(p, opts...)
	if err != nil {
		return VectorDrawing{}, Geometry{}, err
	}
	return EmitDrawing(geom, CalculateBounds(geom)), geom, nil
}

// GenerateSVG renders the emblem for p as an SVG document.
func GenerateSVG(p LogoParameters, opts ...BuildOption) (string, error) {
	drawing, _, err := RenderDrawing(p, opts...)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, drawing); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteSVG serializes the drawing at its natural canvas size.
func WriteSVG(w io.Writer, d VectorDrawing) error {
	return writeSVGDocument(w, d, d.Width, d.Height)
}

// writeSVGDocument serializes the drawing with explicit width/height
// attributes; the viewBox keeps the drawing coordinates unchanged.
func writeSVGDocument(w io.Writer, d VectorDrawing, width, height float64) error {
	var svg bytes.Buffer
	vb := d.ViewBox
	fmt.Fprintf(&svg, `<svg width="%.4f" height="%.4f" viewBox="%.4f %.4f %.4f %.4f" version="1.1" xmlns="http://www.w3.org/2000/svg">`,
		width, height, vb.MinX, vb.MinY, vb.Width(), vb.Height())
	svg.WriteString("\n")

	for _, prim := range d.Primitives {
		switch p := prim.(type) {
		case RectPrimitive:
			drawRect(&svg, p)
		case ArcPrimitive:
			drawArc(&svg, p)
		case PolylinePrimitive:
			drawPolyline(&svg, p)
		default:
			return fmt.Errorf("unsupported primitive %T", prim)
		}
	}
	svg.WriteString("</svg>\n")

	_, err := w.Write(svg.Bytes())
	return err
}

func drawRect(svg *bytes.Buffer, p RectPrimitive) {
	fmt.Fprintf(svg, `  <rect x="%.4f" y="%.4f" width="%.4f" height="%.4f" fill="%s" />`+"\n",
		p.Origin.X, p.Origin.Y, p.Width, p.Height, escapeXML(p.Fill))
}

func drawArc(svg *bytes.Buffer, p ArcPrimitive) {
	fmt.Fprintf(svg, `  <path d="M %.4f,%.4f A %.4f,%.4f 0 %d %d %.4f,%.4f" fill="none" stroke="%s" stroke-width="%.4f" stroke-linecap="%s" />`+"\n",
		p.Start.X, p.Start.Y, p.Radius, p.Radius, arcFlag(p.LargeArc), arcFlag(p.Sweep), p.End.X, p.End.Y,
		escapeXML(p.Stroke), p.StrokeWidth, p.Cap)
}

func drawPolyline(svg *bytes.Buffer, p PolylinePrimitive) {
	svg.WriteString(`  <polyline points="`)
	for i, pt := range p.Points {
		if i > 0 {
			svg.WriteByte(' ')
		}
		fmt.Fprintf(svg, "%.4f,%.4f", pt.X, pt.Y)
	}
	fmt.Fprintf(svg, `" fill="none" stroke="%s" stroke-width="%.4f" stroke-linecap="%s" />`+"\n",
		escapeXML(p.Stroke), p.StrokeWidth, p.Cap)
}

func arcFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
