package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/sync/errgroup"
)

// batchJob is one preset to render.
type batchJob struct {
	preset string
	output string
}

// planBatch maps each preset file to an output path in outDir named after
// the preset, with the format as extension.
func planBatch(presets []string, outDir, format string) ([]batchJob, error) {
	jobs := make([]batchJob, 0, len(presets))
	seen := make(map[string]string, len(presets))
	for _, preset := range presets {
		base := strings.TrimSuffix(filepath.Base(preset), filepath.Ext(preset))
		output := filepath.Join(outDir, base+"."+format)
		if prev, ok := seen[output]; ok {
			return nil, fmt.Errorf("presets '%s' and '%s' both map to '%s'", prev, preset, output)
		}
		seen[output] = preset
		jobs = append(jobs, batchJob{preset: preset, output: output})
	}
	return jobs, nil
}

// renderBatch renders every job concurrently, at most limit at a time. The
// first failure cancels the jobs that have not started.
func renderBatch(ctx context.Context, jobs []batchJob, format string, rasterizer Rasterizer, width int, opts []BuildOption, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := LoadPreset(job.preset)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := render(ctx, p, opts, format, rasterizer, width, &out); err != nil {
				return fmt.Errorf("preset '%s': %w", job.preset, err)
			}
			if err := os.WriteFile(job.output, out.Bytes(), 0o644); err != nil {
				return fmt.Errorf("error writing '%s': %w", job.output, err)
			}
			log.Printf("batch: %s -> %s", job.preset, job.output)
			return nil
		})
	}
	return g.Wait()
}

// runBatch implements the "batch" subcommand.
func runBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	outDir := fs.String("out", ".", "Output directory")
	format := fs.String("format", "svg", "Output format (svg, html, png, jpg/jpeg)")
	width := fs.Int("width", 0, "Raster output width in px (default: natural canvas size)")
	rasterMode := fs.String("rasterizer", RasterAuto, "Rasterizer for png/jpg: auto, chrome, native")
	chromePath := fs.String("chrome", "", "Path to the Chrome/Chromium binary")
	strict := fs.Bool("strict", false, "Fail when a wave crosses the circle more than once per side")
	jobs := fs.Int("j", runtime.NumCPU(), "Maximum concurrent renders")
	_ = fs.Parse(args)

	presets := fs.Args()
	if len(presets) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s batch [flags] <preset>...\n\nFlags:\n", os.Args[0])
		fs.PrintDefaults()
		os.Exit(1)
	}
	exportFormat := strings.ToLower(*format)
	if !supportedFormats[exportFormat] {
		log.Fatalf("batch: unsupported export format '%s'", exportFormat)
	}

	dir, err := homedir.Expand(*outDir)
	if err != nil {
		log.Fatalf("batch: %v", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("batch: cannot create output directory '%s': %v", dir, err)
	}

	var opts []BuildOption
	if *strict {
		opts = append(opts, WithStrictCrossings())
	}
	var rasterizer Rasterizer
	if exportFormat != "svg" && exportFormat != "html" {
		if rasterizer, err = selectRasterizer(*rasterMode, *chromePath); err != nil {
			log.Fatalf("batch: cannot produce %s: %v", exportFormat, err)
		}
	}

	plan, err := planBatch(presets, dir, exportFormat)
	if err != nil {
		log.Fatalf("batch: %v", err)
	}
	if err := renderBatch(context.Background(), plan, exportFormat, rasterizer, *width, opts, max(1, *jobs)); err != nil {
		log.Fatalf("batch: %v", err)
	}
	log.Printf("batch: rendered %d presets into %s", len(plan), dir)
}
