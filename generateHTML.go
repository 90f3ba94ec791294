// generateHTML.go
package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// miniPreviewWidth is the width of the thumbnail preview in px.
const miniPreviewWidth = 30

// generateHTML creates a preview page for the emblem: a full-width image, a
// small thumbnail and the parameters that produced them.
func generateHTML(p LogoParameters, opts ...BuildOption) (string, error) {
	drawing, _, err := RenderDrawing(p, opts...)
	if err != nil {
		return "", err
	}
	var svg bytes.Buffer
	if err := WriteSVG(&svg, drawing); err != nil {
		return "", fmt.Errorf("failed to generate SVG for preview: %w", err)
	}
	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg.Bytes())

	var htmlBuilder strings.Builder

	// --- Basic HTML Structure ---
	htmlBuilder.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Logo Preview</title>\n")
	htmlBuilder.WriteString("<style>\n")
	htmlBuilder.WriteString("body { margin: 0; padding: 40px; font-family: Arial, sans-serif; font-size: 14px; }\n")
	htmlBuilder.WriteString(".columns { display: flex; gap: 40px; align-items: flex-start; }\n")
	htmlBuilder.WriteString(".params { border-collapse: collapse; }\n")
	htmlBuilder.WriteString(".params td { padding: 4px 12px; border-bottom: 1px solid #eee; }\n")
	htmlBuilder.WriteString(".swatch { display: inline-block; width: 12px; height: 12px; margin-right: 6px; border: 1px solid #ccc; vertical-align: middle; }\n")
	fmt.Fprintf(&htmlBuilder, ".preview { flex: 1; max-width: %.0fpx; }\n", drawing.Width)
	htmlBuilder.WriteString(".preview img.large { width: 100%; height: auto; }\n")
	htmlBuilder.WriteString("</style>\n</head>\n<body>\n")

	htmlBuilder.WriteString("<div class=\"columns\">\n")

	// --- Parameters ---
	htmlBuilder.WriteString("<div>\n<h2>Parameters</h2>\n<table class=\"params\">\n")
	rows := []struct {
		label string
		value string
	}{
		{"Diameter (px)", fmt.Sprintf("%g", p.Diameter)},
		{"Wavelength (%)", fmt.Sprintf("%.2f", p.WavelengthFrac)},
		{"Amplitude (%)", fmt.Sprintf("%.2f", p.AmplitudeFrac)},
		{"Line width (px)", fmt.Sprintf("%g", p.LineWidth)},
		{"Global projection (%)", fmt.Sprintf("%.2f", p.WaveProjection)},
		{"Wave shift 1 (%)", fmt.Sprintf("%.2f", p.WaveShift1)},
		{"Wave shift 2 (%)", fmt.Sprintf("%.2f", p.WaveShift2)},
	}
	for _, row := range rows {
		fmt.Fprintf(&htmlBuilder, "<tr><td>%s</td><td>%s</td></tr>\n", escapeHTML(row.label), escapeHTML(row.value))
	}
	for _, c := range []struct{ label, color string }{
		{"Color A", p.ColorA},
		{"Color B", p.ColorB},
		{"Background", p.Background},
	} {
		fmt.Fprintf(&htmlBuilder, "<tr><td>%s</td><td>%s%s</td></tr>\n",
			escapeHTML(c.label), ternary(isTransparent(c.color), "",
				fmt.Sprintf(`<span class="swatch" style="background: %s"></span>`, escapeCSS(c.color))),
			escapeHTML(c.color))
	}
	fmt.Fprintf(&htmlBuilder, "<tr><td>Canvas (px)</td><td>%.1f &times; %.1f</td></tr>\n", drawing.Width, drawing.Height)
	htmlBuilder.WriteString("</table>\n</div>\n")

	// --- Previews ---
	htmlBuilder.WriteString("<div class=\"preview\">\n<h2>Large Preview</h2>\n")
	fmt.Fprintf(&htmlBuilder, "<img class=\"large\" src=\"%s\" alt=\"logo\"/>\n", dataURI)
	htmlBuilder.WriteString("<h3>Mini Preview</h3>\n")
	fmt.Fprintf(&htmlBuilder, "<img class=\"mini\" src=\"%s\" width=\"%d\" alt=\"logo thumbnail\"/>\n", dataURI, miniPreviewWidth)
	htmlBuilder.WriteString("</div>\n")

	htmlBuilder.WriteString("</div>\n</body>\n</html>\n")
	return htmlBuilder.String(), nil
}

// escapeCSS keeps a colour token from breaking out of a style attribute.
func escapeCSS(s string) string {
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, ";", "")
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}

// Simple ternary helper for strings
func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}
	return falseVal
}
