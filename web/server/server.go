package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/lumiray/lumiray/pkg/core"
	applog "github.com/lumiray/lumiray/pkg/log"
	"github.com/lumiray/lumiray/pkg/renderer"
	"github.com/lumiray/lumiray/pkg/scene"
)

// thumbnailWidth is the width of the scaled-down preview included in
// every pass update
const thumbnailWidth = 160

// Server handles web requests for the progressive raytracer
type Server struct {
	port   int
	logger applog.Logger
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:   port,
		logger: applog.New("web"),
	}
}

// RenderRequest represents a render request parsed from query parameters
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene ID (e.g., "random-world")
	Width      int    `json:"width"`      // Image width
	MaxSamples int    `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
	Seed       int64  `json:"seed"`       // Render seed
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	JobID      string `json:"jobId"`
	PassNumber int    `json:"passNumber"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG
	Thumbnail  string `json:"thumbnail"` // Base64 encoded scaled-down PNG
	Stats      Stats  `json:"stats"`
	IsComplete bool   `json:"isComplete"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
}

// Start starts the web server
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("listening on http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scene.ListScenes())
}

// handleRender renders a scene progressively, streaming one SSE event
// per completed pass
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	jobID := uuid.NewString()
	s.logger.Infof("render %s: scene=%s width=%d samples=%d", jobID, req.Scene, req.Width, req.MaxSamples)

	selectedScene, err := scene.CreateScene(req.Scene, req.Seed, renderer.CameraConfig{Width: req.Width})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	camera := selectedScene.GetCamera()
	width := camera.Width()
	height := camera.Height()

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = req.MaxPasses
	config.Seed = req.Seed

	progressive, err := renderer.NewProgressiveRaytracer(selectedScene, width, height, config, applog.Progress{Logger: s.logger})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	progressive.MergeSamplingConfig(core.SamplingConfig{SamplesPerPixel: req.MaxSamples})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	startTime := time.Now()
	passChan, errChan := progressive.RenderProgressive(ctx)

	for pass := range passChan {
		update, err := s.buildUpdate(jobID, pass, startTime)
		if err != nil {
			s.logger.Errorf("render %s: %v", jobID, err)
			return
		}
		if err := writeSSEEvent(w, update); err != nil {
			s.logger.Warningf("render %s: client disconnected: %v", jobID, err)
			return
		}
		flusher.Flush()
	}

	if err := <-errChan; err != nil {
		s.logger.Errorf("render %s: %v", jobID, err)
		return
	}

	s.logger.Infof("render %s: finished in %v", jobID, time.Since(startTime))
}

// buildUpdate converts a pass result into the SSE payload
func (s *Server) buildUpdate(jobID string, pass renderer.PassResult, startTime time.Time) (ProgressUpdate, error) {
	imageData, err := encodePNGBase64(pass.Image)
	if err != nil {
		return ProgressUpdate{}, err
	}

	thumbData, err := encodePNGBase64(scaleImage(pass.Image, thumbnailWidth))
	if err != nil {
		return ProgressUpdate{}, err
	}

	return ProgressUpdate{
		JobID:      jobID,
		PassNumber: pass.PassNumber,
		ImageData:  imageData,
		Thumbnail:  thumbData,
		Stats: Stats{
			TotalPixels:    pass.Stats.TotalPixels,
			TotalSamples:   pass.Stats.TotalSamples,
			AverageSamples: pass.Stats.AverageSamples,
			MaxSamples:     pass.Stats.MaxSamples,
		},
		IsComplete: pass.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

// parseRenderRequest reads the render parameters from the query string
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()

	req := &RenderRequest{
		Scene:      q.Get("scene"),
		Width:      400,
		MaxSamples: 50,
		MaxPasses:  6,
		Seed:       42,
	}
	if req.Scene == "" {
		req.Scene = "random-world"
	}

	var err error
	if v := q.Get("width"); v != "" {
		if req.Width, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid width: %v", err)
		}
	}
	if v := q.Get("maxSamples"); v != "" {
		if req.MaxSamples, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid maxSamples: %v", err)
		}
	}
	if v := q.Get("maxPasses"); v != "" {
		if req.MaxPasses, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid maxPasses: %v", err)
		}
	}
	if v := q.Get("seed"); v != "" {
		if req.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %v", err)
		}
	}

	if req.Width <= 0 || req.MaxSamples <= 0 || req.MaxPasses <= 0 {
		return nil, fmt.Errorf("width, maxSamples and maxPasses must be positive")
	}

	return req, nil
}

// writeSSEEvent writes a single JSON-encoded SSE data event
func writeSSEEvent(w http.ResponseWriter, update ProgressUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// encodePNGBase64 encodes an image as a base64 PNG string
func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// scaleImage resizes the image to the given width, keeping aspect ratio
func scaleImage(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
