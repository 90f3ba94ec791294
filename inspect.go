package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/muesli/termenv"
)

// describeGeometry prints the derived geometry of an emblem: radii, raw and
// projected crossings, crossing diagnostics, viewport and colours.
func describeGeometry(w io.Writer, out *termenv.Output, geom Geometry, viewBox BoundingRect) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := geom.Params

	fmt.Fprintf(tw, "outer radius R\t%.4f\n", geom.Circle.OuterRadius)
	fmt.Fprintf(tw, "centerline radius r\t%.4f\n", geom.Circle.CenterlineRadius)
	for i, wave := range geom.Waves {
		n := i + 1
		fmt.Fprintf(tw, "wave %d\twavelength %.4f, amplitude %.4f, cycles %.4f, shift %.4f\n",
			n, wave.Spec.Wavelength, wave.Spec.Amplitude, wave.Spec.Cycles, wave.Spec.Shift)
		fmt.Fprintf(tw, "  roots\t(%.4f, %.4f)\n", wave.Roots.XLeft, wave.Roots.XRight)
		fmt.Fprintf(tw, "  left end\t(%.4f, %.4f)\n", wave.Endpoints.Left.X, wave.Endpoints.Left.Y)
		fmt.Fprintf(tw, "  right end\t(%.4f, %.4f)\n", wave.Endpoints.Right.X, wave.Endpoints.Right.Y)
		status := "single"
		switch {
		case wave.Crossings.Missing():
			status = "MISSING"
		case wave.Crossings.Ambiguous():
			status = "AMBIGUOUS"
		}
		fmt.Fprintf(tw, "  crossings\tleft %d, right %d (%s)\n", wave.Crossings.Left, wave.Crossings.Right, status)
	}
	fmt.Fprintf(tw, "viewBox\t%.4f %.4f %.4f %.4f\n", viewBox.MinX, viewBox.MinY, viewBox.Width(), viewBox.Height())

	for _, c := range []struct{ label, token string }{
		{"color A", p.ColorA},
		{"color B", p.ColorB},
		{"background", p.Background},
	} {
		fmt.Fprintf(tw, "%s\t%s %s\n", c.label, swatch(out, c.token), c.token)
	}
	return tw.Flush()
}

// swatch renders a small block in the given colour when the terminal can.
func swatch(out *termenv.Output, token string) string {
	if out == nil || isTransparent(token) {
		return "  "
	}
	c := out.Color(token)
	if c == nil {
		return "  "
	}
	return out.String("  ").Background(c).String()
}

// runInspect implements the "inspect" subcommand.
func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	strict := fs.Bool("strict", false, "Fail when a wave crosses the circle more than once per side")
	params := bindParamFlags(fs)
	_ = fs.Parse(args)

	p, err := params.resolve()
	if err != nil {
		log.Fatalf("inspect: %v", err)
	}
	var opts []BuildOption
	if *strict {
		opts = append(opts, WithStrictCrossings())
	}
	drawing, geom, err := RenderDrawing(p, opts...)
	if err != nil {
		log.Fatalf("inspect: %v", err)
	}
	if err := describeGeometry(os.Stdout, termenv.NewOutput(os.Stdout), geom, drawing.ViewBox); err != nil {
		log.Fatalf("inspect: %v", err)
	}
}
