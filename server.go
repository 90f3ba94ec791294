package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	requestIDHeader = "X-Request-Id"
	fallbackHeader  = "X-Render-Fallback"
	maxBodyBytes    = 64 * 1024
)

type requestIDKey struct{}

// renderServer serves emblem renders over HTTP. Every request is rendered
// from scratch; the server keeps no per-client state.
type renderServer struct {
	rasterizer Rasterizer // nil when no rasterizer could be set up
	rasterErr  error
	opts       []BuildOption
	upgrader   websocket.Upgrader
}

func newRenderServer(r Rasterizer, rasterErr error, opts ...BuildOption) *renderServer {
	return &renderServer{
		rasterizer: r,
		rasterErr:  rasterErr,
		opts:       opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 * 1024,
		},
	}
}

func (s *renderServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /logo.svg", s.handleSVG)
	mux.HandleFunc("GET /logo.png", s.handleImage("png"))
	mux.HandleFunc("GET /logo.jpg", s.handleImage("jpg"))
	mux.HandleFunc("GET /preview", s.handlePreview)
	mux.HandleFunc("POST /render", s.handleRender)
	mux.HandleFunc("GET /ws", s.handleStream)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	return withRequestID(mux)
}

// withRequestID tags each request with a fresh ID for logs and the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		log.Printf("serve: [%s] %s %s (%s)", id, r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// paramsFromQuery reads LogoParameters from query keys named like the JSON
// fields; missing keys keep their default.
func paramsFromQuery(q url.Values) (LogoParameters, error) {
	var override ParametersOverride
	floats := []struct {
		key string
		dst **float64
	}{
		{"diameter", &override.Diameter},
		{"wavelength_frac", &override.WavelengthFrac},
		{"amplitude_frac", &override.AmplitudeFrac},
		{"line_width", &override.LineWidth},
		{"wave_projection", &override.WaveProjection},
		{"wave_shift_1", &override.WaveShift1},
		{"wave_shift_2", &override.WaveShift2},
	}
	for _, f := range floats {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return LogoParameters{}, &ConfigurationError{Field: f.key, Value: math.NaN(), Reason: fmt.Sprintf("'%s' is not a number", raw)}
		}
		*f.dst = &v
	}
	strs := []struct {
		key string
		dst **string
	}{
		{"color_a", &override.ColorA},
		{"color_b", &override.ColorB},
		{"background", &override.Background},
	}
	for _, f := range strs {
		if q.Has(f.key) {
			v := q.Get(f.key)
			*f.dst = &v
		}
	}
	return Resolve(DefaultParameters(), &override), nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		status = http.StatusBadRequest
	}
	log.Printf("serve: [%s] error: %v", requestID(r.Context()), err)
	http.Error(w, err.Error(), status)
}

func (s *renderServer) writeSVG(w http.ResponseWriter, r *http.Request, p LogoParameters) {
	drawing, _, err := RenderDrawing(p, s.opts...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, drawing); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func (s *renderServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeSVG(w, r, p)
}

func (s *renderServer) handleImage(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := paramsFromQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, err)
			return
		}
		width := 0
		if raw := r.URL.Query().Get("width"); raw != "" {
			if width, err = strconv.Atoi(raw); err != nil || width <= 0 {
				http.Error(w, fmt.Sprintf("invalid width '%s'", raw), http.StatusBadRequest)
				return
			}
		}

		if s.rasterizer == nil {
			// vector output is the documented fallback when rasterization is unavailable
			log.Printf("serve: [%s] %v, falling back to SVG", requestID(r.Context()), s.rasterErr)
			w.Header().Set(fallbackHeader, "svg")
			s.writeSVG(w, r, p)
			return
		}

		drawing, _, err := RenderDrawing(p, s.opts...)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := generateImage(r.Context(), drawing, s.rasterizer, format, width, &buf); err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", ternary(format == "png", "image/png", "image/jpeg"))
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *renderServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := generateHTML(p, s.opts...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *renderServer) handleRender(w http.ResponseWriter, r *http.Request) {
	var override ParametersOverride
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&override); err != nil {
		http.Error(w, "parse error: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.writeSVG(w, r, Resolve(DefaultParameters(), &override))
}

// StreamRequest is one render request on the websocket stream.
type StreamRequest struct {
	ID     string             `json:"id,omitempty"` // echoed back to the client
	Params ParametersOverride `json:"params"`
}

// StreamResponse answers a StreamRequest.
type StreamResponse struct {
	ID        string  `json:"id,omitempty"`
	RenderID  string  `json:"render_id"`
	SVG       string  `json:"svg,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Error     string  `json:"error,omitempty"`
	Crossings []int   `json:"crossings,omitempty"` // left/right counts for wave 1 then wave 2
}

func (s *renderServer) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("serve: [%s] websocket upgrade failed: %v", requestID(r.Context()), err)
		return
	}
	defer conn.Close()

	for {
		var req StreamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("serve: [%s] websocket read: %v", requestID(r.Context()), err)
			}
			return
		}
		if err := conn.WriteJSON(s.renderStream(req)); err != nil {
			log.Printf("serve: [%s] websocket write: %v", requestID(r.Context()), err)
			return
		}
	}
}

func (s *renderServer) renderStream(req StreamRequest) StreamResponse {
	resp := StreamResponse{ID: req.ID, RenderID: uuid.NewString()}
	drawing, geom, err := RenderDrawing(Resolve(DefaultParameters(), &req.Params), s.opts...)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, drawing); err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.SVG = buf.String()
	resp.Width, resp.Height = drawing.Width, drawing.Height
	for _, wg := range geom.Waves {
		resp.Crossings = append(resp.Crossings, wg.Crossings.Left, wg.Crossings.Right)
	}
	return resp
}

// runServe implements the "serve" subcommand.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	rasterMode := fs.String("rasterizer", RasterAuto, "Rasterizer for PNG/JPEG: auto, chrome, native")
	chromePath := fs.String("chrome", "", "Path to the Chrome/Chromium binary")
	strict := fs.Bool("strict", false, "Reject parameters whose waves cross the circle more than once per side")
	verbose := fs.Bool("v", false, "Enable rasterizer library logging")
	_ = fs.Parse(args)

	enableLibraryLogging(*verbose)

	var opts []BuildOption
	if *strict {
		opts = append(opts, WithStrictCrossings())
	}
	rasterizer, rasterErr := selectRasterizer(*rasterMode, *chromePath)
	if rasterErr != nil {
		log.Printf("serve: raster formats will fall back to SVG: %v", rasterErr)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRenderServer(rasterizer, rasterErr, opts...).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serve: listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
	log.Println("serve: stopped")
}
