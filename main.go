// main.go
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/mitchellh/go-homedir"
)

// paramFlags binds the emblem parameters to a flag set. Only flags given on
// the command line override the preset (or the defaults).
type paramFlags struct {
	fs     *flag.FlagSet
	values LogoParameters
	preset *string
}

func bindParamFlags(fs *flag.FlagSet) *paramFlags {
	d := DefaultParameters()
	pf := &paramFlags{fs: fs}
	fs.Float64Var(&pf.values.Diameter, "diameter", d.Diameter, "Outer diameter in px")
	fs.Float64Var(&pf.values.WavelengthFrac, "wavelength_frac", d.WavelengthFrac, "Wavelength as fraction of diameter")
	fs.Float64Var(&pf.values.AmplitudeFrac, "amplitude_frac", d.AmplitudeFrac, "Amplitude as fraction of diameter")
	fs.Float64Var(&pf.values.LineWidth, "line_width", d.LineWidth, "Line width in px")
	fs.Float64Var(&pf.values.WaveProjection, "wave_projection", d.WaveProjection, ">0 extends; 0 matches; <0 contracts")
	fs.Float64Var(&pf.values.WaveShift1, "wave_shift_1", d.WaveShift1, "Horizontal shift of wave 1 (fraction of diameter)")
	fs.Float64Var(&pf.values.WaveShift2, "wave_shift_2", d.WaveShift2, "Horizontal shift of wave 2 (fraction of diameter)")
	fs.StringVar(&pf.values.ColorA, "color_a", d.ColorA, "Color of wave 2 and its arc")
	fs.StringVar(&pf.values.ColorB, "color_b", d.ColorB, "Color of wave 1 and its arc")
	fs.StringVar(&pf.values.Background, "background", d.Background, "Background color, 'none' for transparent")
	pf.preset = fs.String("preset", "", "Preset file (.json, .yaml, .yml, .toml) applied before the flags")
	return pf
}

// resolve returns defaults, then the preset, then explicitly set flags.
func (pf *paramFlags) resolve() (LogoParameters, error) {
	base := DefaultParameters()
	if *pf.preset != "" {
		path, err := homedir.Expand(*pf.preset)
		if err != nil {
			return LogoParameters{}, err
		}
		log.Printf("Reading preset file: %s", path)
		if base, err = LoadPreset(path); err != nil {
			return LogoParameters{}, err
		}
	}

	var override ParametersOverride
	pf.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "diameter":
			override.Diameter = &pf.values.Diameter
		case "wavelength_frac":
			override.WavelengthFrac = &pf.values.WavelengthFrac
		case "amplitude_frac":
			override.AmplitudeFrac = &pf.values.AmplitudeFrac
		case "line_width":
			override.LineWidth = &pf.values.LineWidth
		case "wave_projection":
			override.WaveProjection = &pf.values.WaveProjection
		case "wave_shift_1":
			override.WaveShift1 = &pf.values.WaveShift1
		case "wave_shift_2":
			override.WaveShift2 = &pf.values.WaveShift2
		case "color_a":
			override.ColorA = &pf.values.ColorA
		case "color_b":
			override.ColorB = &pf.values.ColorB
		case "background":
			override.Background = &pf.values.Background
		}
	})
	return Resolve(base, &override), nil
}

// enableLibraryLogging routes the rasterizer library's slog output to stderr.
func enableLibraryLogging(verbose bool) {
	if !verbose {
		return
	}
	gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// warnAmbiguousCrossings logs waves for which the bisection may have picked
// an inner crossing, or found none and collapsed the wave.
func warnAmbiguousCrossings(geom Geometry) {
	for i, w := range geom.Waves {
		switch {
		case w.Crossings.Missing():
			log.Printf("Warning: wave %d does not meet the circle (left %d, right %d crossings); the wave and its arc collapse to a point (use -strict to reject).",
				i+1, w.Crossings.Left, w.Crossings.Right)
		case w.Crossings.Ambiguous():
			log.Printf("Warning: wave %d crosses the circle %d times on the left and %d on the right; endpoints may not be the outermost crossings (use -strict to reject).",
				i+1, w.Crossings.Left, w.Crossings.Right)
		}
	}
}

var supportedFormats = map[string]bool{"html": true, "svg": true, "png": true, "jpg": true, "jpeg": true}

// render writes the emblem for p in the requested format.
func render(ctx context.Context, p LogoParameters, opts []BuildOption, format string, rasterizer Rasterizer, width int, w io.Writer) error {
	switch format {
	case "svg":
		drawing, geom, err := RenderDrawing(p, opts...)
		if err != nil {
			return fmt.Errorf("SVG generation failed: %w", err)
		}
		warnAmbiguousCrossings(geom)
		if err := WriteSVG(w, drawing); err != nil {
			return fmt.Errorf("failed to write SVG output: %w", err)
		}
	case "html":
		page, err := generateHTML(p, opts...)
		if err != nil {
			return fmt.Errorf("HTML generation failed: %w", err)
		}
		if _, err := io.WriteString(w, page); err != nil {
			return fmt.Errorf("failed to write HTML output: %w", err)
		}
	case "png", "jpg", "jpeg":
		drawing, geom, err := RenderDrawing(p, opts...)
		if err != nil {
			return fmt.Errorf("%s generation failed: %w", strings.ToUpper(format), err)
		}
		warnAmbiguousCrossings(geom)
		return generateImage(ctx, drawing, rasterizer, format, width, w)
	default:
		return fmt.Errorf("unsupported export format '%s'", format)
	}
	return nil
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <format>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s serve|batch|inspect [flags]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nArguments:")
		fmt.Fprintln(os.Stderr, "  <format>          Output format (svg, html, png, jpg/jpeg).")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
}

// --- Main Program Logic ---

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "serve":
			runServe(os.Args[2:])
			return
		case "batch":
			runBatch(os.Args[2:])
			return
		case "inspect":
			runInspect(os.Args[2:])
			return
		}
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = usage(fs)
	outputFile := fs.String("o", "", "Output file path (default: stdout)")
	width := fs.Int("width", 0, "Raster output width in px (default: natural canvas size)")
	rasterMode := fs.String("rasterizer", RasterAuto, "Rasterizer for png/jpg: auto, chrome, native")
	chromePath := fs.String("chrome", "", "Path to the Chrome/Chromium binary")
	strict := fs.Bool("strict", false, "Fail when a wave crosses the circle more than once per side")
	verbose := fs.Bool("v", false, "Enable rasterizer library logging")
	params := bindParamFlags(fs)
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 1 {
		fs.Usage()
		os.Exit(1)
	}
	exportFormat := strings.ToLower(args[0])
	if !supportedFormats[exportFormat] {
		log.Fatalf("Unsupported export format '%s'. Supported formats: svg, html, png, jpg/jpeg", exportFormat)
	}

	enableLibraryLogging(*verbose)

	p, err := params.resolve()
	if err != nil {
		log.Fatalf("Error resolving parameters: %v", err)
	}
	var opts []BuildOption
	if *strict {
		opts = append(opts, WithStrictCrossings())
	}

	var rasterizer Rasterizer
	if exportFormat != "svg" && exportFormat != "html" {
		if rasterizer, err = selectRasterizer(*rasterMode, *chromePath); err != nil {
			log.Fatalf("Cannot produce %s: %v (try -rasterizer native or the svg format)", exportFormat, err)
		}
	}

	// Render into memory first so a failed render never leaves a partial file.
	log.Printf("Generating output for format: %s", exportFormat)
	var out bytes.Buffer
	if err := render(context.Background(), p, opts, exportFormat, rasterizer, *width, &out); err != nil {
		log.Fatalf("Error generating %s: %v", exportFormat, err)
	}

	if *outputFile == "" {
		if _, err := os.Stdout.Write(out.Bytes()); err != nil {
			log.Fatalf("Error writing to stdout: %v", err)
		}
		log.Printf("Successfully generated %s output.", strings.ToUpper(exportFormat))
		return
	}

	path, err := homedir.Expand(*outputFile)
	if err != nil {
		log.Fatalf("Error expanding output path '%s': %v", *outputFile, err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		log.Fatalf("Error writing output file '%s': %v", path, err)
	}
	log.Printf("Successfully generated %s output.", strings.ToUpper(exportFormat))
	log.Printf("Output saved to: %s", path)
}
