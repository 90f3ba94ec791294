package main

import (
	"strings"
)

// --- Helper functions for pointer defaults ---

func getString(ptr *string, def string) string {
	if ptr != nil {
		return *ptr
	}
	return def
}

func getFloat64(ptr *float64, def float64) float64 {
	if ptr != nil {
		return *ptr
	}
	return def
}

// Resolve applies the non-nil fields of override on top of base.
func Resolve(base LogoParameters, override *ParametersOverride) LogoParameters {
	if override == nil {
		return base
	}
	return LogoParameters{
		Diameter:       getFloat64(override.Diameter, base.Diameter),
		WavelengthFrac: getFloat64(override.WavelengthFrac, base.WavelengthFrac),
		AmplitudeFrac:  getFloat64(override.AmplitudeFrac, base.AmplitudeFrac),
		LineWidth:      getFloat64(override.LineWidth, base.LineWidth),
		WaveProjection: getFloat64(override.WaveProjection, base.WaveProjection),
		WaveShift1:     getFloat64(override.WaveShift1, base.WaveShift1),
		WaveShift2:     getFloat64(override.WaveShift2, base.WaveShift2),
		ColorA:         getString(override.ColorA, base.ColorA),
		ColorB:         getString(override.ColorB, base.ColorB),
		Background:     getString(override.Background, base.Background),
	}
}

// --- XML/HTML Escaping ---
func escapeXML(s string) string {
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;") // &apos; is not valid in HTML4
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

var escapeHTML = escapeXML
