// createImage.go
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// Rasterizer converts a vector drawing into pixels at the requested size.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, d VectorDrawing, width, height int) (image.Image, error)
}

// Rasterizer selection modes.
const (
	RasterAuto   = "auto"
	RasterChrome = "chrome"
	RasterNative = "native"
)

const chromeTimeout = 30 * time.Second

// Browser binaries probed when no explicit path is given, same order chromedp uses.
var chromeCandidates = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
	"/usr/bin/google-chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// findChrome returns the path of a usable browser binary.
func findChrome(explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", &DependencyUnavailableError{Dependency: "chrome (" + explicit + ")", Err: err}
		}
		return path, nil
	}
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", &DependencyUnavailableError{Dependency: "chrome", Err: errors.New("no Chrome/Chromium binary found in PATH")}
}

// selectRasterizer resolves a mode to a rasterizer. "auto" prefers the
// browser and falls back to the in-process renderer.
func selectRasterizer(mode, chromePath string) (Rasterizer, error) {
	switch strings.ToLower(mode) {
	case "", RasterAuto:
		if path, err := findChrome(chromePath); err == nil {
			return &chromeRasterizer{execPath: path}, nil
		}
		log.Println("No browser found, using the native rasterizer.")
		return nativeRasterizer{}, nil
	case RasterChrome:
		path, err := findChrome(chromePath)
		if err != nil {
			return nil, err
		}
		return &chromeRasterizer{execPath: path}, nil
	case RasterNative:
		return nativeRasterizer{}, nil
	default:
		return nil, fmt.Errorf("unknown rasterizer '%s' (auto, chrome, native)", mode)
	}
}

// rasterSize picks the output pixel size. width <= 0 keeps the natural
// canvas size; otherwise height follows the canvas aspect ratio.
func rasterSize(d VectorDrawing, width int) (int, int) {
	if width <= 0 {
		return max(1, int(math.Ceil(d.Width))), max(1, int(math.Ceil(d.Height)))
	}
	return width, max(1, int(math.Round(float64(width)*d.Height/d.Width)))
}

// --- Browser rasterizer ---

type chromeRasterizer struct {
	execPath string
}

func (c *chromeRasterizer) Name() string { return RasterChrome }

func (c *chromeRasterizer) Rasterize(ctx context.Context, d VectorDrawing, width, height int) (image.Image, error) {
	// 1. SVG sized to the requested pixels, as a data URI
	var svg bytes.Buffer
	if err := writeSVGDocument(&svg, d, float64(width), float64(height)); err != nil {
		return nil, fmt.Errorf("failed to generate intermediate SVG: %w", err)
	}
	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg.Bytes())

	// 2. Setup chromedp
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(c.execPath),
		chromedp.Headless,
		chromedp.WindowSize(width, height),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, chromeTimeout)
	defer cancelTimeout()

	// 3. Navigate and screenshot the svg element
	var screenshotBuf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &screenshotBuf, chromedp.ByQuery),
	}
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(screenshotBuf) == 0 {
		return nil, fmt.Errorf("screenshot buffer is empty, screenshot failed")
	}

	img, err := png.Decode(bytes.NewReader(screenshotBuf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG screenshot: %w", err)
	}

	// HiDPI or rounding can make the element screenshot differ from the
	// requested size.
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}
	return img, nil
}

// --- Native rasterizer ---

// nativeRasterizer draws the primitives with the pure Go gg canvas.
type nativeRasterizer struct{}

func (nativeRasterizer) Name() string { return RasterNative }

func (nativeRasterizer) Rasterize(ctx context.Context, d VectorDrawing, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.ViewBox.Width() <= 0 || d.ViewBox.Height() <= 0 {
		return nil, fmt.Errorf("empty viewBox %+v", d.ViewBox)
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	// viewBox to pixels, uniform scale centred like preserveAspectRatio="xMidYMid meet"
	vb := d.ViewBox
	scale := math.Min(float64(width)/vb.Width(), float64(height)/vb.Height())
	offX := (float64(width) - vb.Width()*scale) / 2
	offY := (float64(height) - vb.Height()*scale) / 2
	toPixel := func(p Point) Point {
		return Point{X: offX + (p.X-vb.MinX)*scale, Y: offY + (p.Y-vb.MinY)*scale}
	}

	for _, prim := range d.Primitives {
		var err error
		switch p := prim.(type) {
		case RectPrimitive:
			err = fillRect(dc, p, toPixel, scale)
		case ArcPrimitive:
			err = strokeArc(dc, p, toPixel, scale)
		case PolylinePrimitive:
			err = strokePolyline(dc, p, toPixel, scale)
		default:
			err = fmt.Errorf("unsupported primitive %T", prim)
		}
		if err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

// parseColor understands #rgb, #rgba, #rrggbb, #rrggbbaa and SVG colour names.
func parseColor(token string) (gg.RGBA, error) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "#") {
		switch len(token) {
		case 4, 5, 7, 9:
			return gg.Hex(token), nil
		}
		return gg.RGBA{}, fmt.Errorf("malformed hex colour '%s'", token)
	}
	if c, ok := colornames.Map[strings.ToLower(token)]; ok {
		return gg.FromColor(c), nil
	}
	return gg.RGBA{}, fmt.Errorf("unsupported colour '%s'", token)
}

func solidBrush(token string) (gg.SolidBrush, error) {
	col, err := parseColor(token)
	if err != nil {
		return gg.SolidBrush{}, err
	}
	return gg.Solid(col), nil
}

func lineCap(c LineCap) gg.LineCap {
	if c == CapRound {
		return gg.LineCapRound
	}
	return gg.LineCapButt
}

func fillRect(dc *gg.Context, p RectPrimitive, toPixel func(Point) Point, scale float64) error {
	if isTransparent(p.Fill) {
		return nil
	}
	brush, err := solidBrush(p.Fill)
	if err != nil {
		return err
	}
	dc.SetFillBrush(brush)
	o := toPixel(p.Origin)
	dc.DrawRectangle(o.X, o.Y, p.Width*scale, p.Height*scale)
	return dc.Fill()
}

func strokeArc(dc *gg.Context, p ArcPrimitive, toPixel func(Point) Point, scale float64) error {
	arc, ok := arcCenter(p)
	if !ok {
		return nil // zero-length or zero-radius arcs are not rendered
	}
	brush, err := solidBrush(p.Stroke)
	if err != nil {
		return err
	}
	dc.SetStrokeBrush(brush)
	c := toPixel(arc.Center)
	a1, a2 := arc.Start, arc.Start+arc.Sweep
	if a2 < a1 {
		a1, a2 = a2, a1
	}
	dc.DrawArc(c.X, c.Y, arc.Radius*scale, a1, a2)
	dc.SetLineWidth(p.StrokeWidth * scale)
	dc.SetLineCap(lineCap(p.Cap))
	return dc.Stroke()
}

func strokePolyline(dc *gg.Context, p PolylinePrimitive, toPixel func(Point) Point, scale float64) error {
	if len(p.Points) < 2 {
		return nil
	}
	brush, err := solidBrush(p.Stroke)
	if err != nil {
		return err
	}
	dc.SetStrokeBrush(brush)
	start := toPixel(p.Points[0])
	dc.MoveTo(start.X, start.Y)
	for _, pt := range p.Points[1:] {
		px := toPixel(pt)
		dc.LineTo(px.X, px.Y)
	}
	dc.SetLineWidth(p.StrokeWidth * scale)
	dc.SetLineCap(lineCap(p.Cap))
	dc.SetLineJoin(gg.LineJoinRound)
	return dc.Stroke()
}

// centerArc is a circular arc in centre form. Angles are in radians with
// y pointing down, Sweep is signed.
type centerArc struct {
	Center Point
	Radius float64
	Start  float64
	Sweep  float64
}

// arcCenter converts an SVG endpoint arc to centre form following the SVG
// implementation notes (F.6.5), with rx = ry and no axis rotation. Radii too
// small to span the endpoints are scaled up as SVG renderers do.
func arcCenter(p ArcPrimitive) (centerArc, bool) {
	r := math.Abs(p.Radius)
	if r == 0 {
		return centerArc{}, false
	}
	hx := (p.Start.X - p.End.X) / 2
	hy := (p.Start.Y - p.End.Y) / 2
	if hx == 0 && hy == 0 {
		return centerArc{}, false
	}

	if lambda := (hx*hx + hy*hy) / (r * r); lambda > 1 {
		r *= math.Sqrt(lambda)
	}

	rsq := r * r
	radicand := (rsq*rsq - rsq*hy*hy - rsq*hx*hx) / (rsq*hy*hy + rsq*hx*hx)
	if radicand < 0 {
		radicand = 0
	}
	coef := math.Sqrt(radicand)
	if p.LargeArc == p.Sweep {
		coef = -coef
	}
	cxp := coef * hy
	cyp := -coef * hx

	center := Point{
		X: cxp + (p.Start.X+p.End.X)/2,
		Y: cyp + (p.Start.Y+p.End.Y)/2,
	}

	ux, uy := (hx-cxp)/r, (hy-cyp)/r
	vx, vy := (-hx-cxp)/r, (-hy-cyp)/r
	theta := vectorAngle(1, 0, ux, uy)
	delta := vectorAngle(ux, uy, vx, vy)
	if !p.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	}
	if p.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}
	return centerArc{Center: center, Radius: r, Start: theta, Sweep: delta}, true
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	sign := 1.0
	if ux*vy-uy*vx < 0 {
		sign = -1
	}
	dot := ux*vx + uy*vy
	dot = math.Max(-1, math.Min(1, dot))
	return sign * math.Acos(dot)
}

// --- Encoding ---

// encodeImage writes img as png or jpg/jpeg.
func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
	case "jpg", "jpeg":
		opts := &jpeg.Options{Quality: 90} // Default JPEG quality
		if err := jpeg.Encode(w, img, opts); err != nil {
			return fmt.Errorf("failed to encode JPEG: %w", err)
		}
	default:
		return fmt.Errorf("internal error: unsupported image format '%s'", format)
	}
	return nil
}

// generateImage renders d with the rasterizer and encodes it in format.
func generateImage(ctx context.Context, d VectorDrawing, r Rasterizer, format string, width int, outputWriter io.Writer) error {
	w, h := rasterSize(d, width)
	log.Printf("Rasterizing %dx%d with the %s rasterizer...", w, h, r.Name())
	img, err := r.Rasterize(ctx, d, w, h)
	if err != nil {
		return fmt.Errorf("%s rasterizer failed: %w", r.Name(), err)
	}
	if err := encodeImage(outputWriter, img, format); err != nil {
		return err
	}
	log.Printf("Successfully encoded %s image.", strings.ToUpper(format))
	return nil
}
