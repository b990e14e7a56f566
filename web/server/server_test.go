package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumiray/lumiray/pkg/scene"
)

func TestHandleHealth(t *testing.T) {
	s := NewServer(8080)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	s := NewServer(8080)
	rec := httptest.NewRecorder()

	s.handleScenes(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	var infos []scene.SceneInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(infos))
	}

	ids := map[string]bool{}
	for _, info := range infos {
		ids[info.ID] = true
	}
	if !ids["tutorial"] || !ids["random-world"] {
		t.Errorf("Missing built-in scene IDs: %v", ids)
	}
}

func TestParseRenderRequest_Defaults(t *testing.T) {
	req, err := parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if req.Scene != "random-world" {
		t.Errorf("Expected default scene, got %q", req.Scene)
	}
	if req.Width != 400 || req.MaxSamples != 50 || req.MaxPasses != 6 || req.Seed != 42 {
		t.Errorf("Unexpected defaults: %+v", req)
	}
}

func TestParseRenderRequest_Overrides(t *testing.T) {
	url := "/api/render?scene=tutorial&width=200&maxSamples=10&maxPasses=3&seed=7"
	req, err := parseRenderRequest(httptest.NewRequest(http.MethodGet, url, nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if req.Scene != "tutorial" || req.Width != 200 || req.MaxSamples != 10 || req.MaxPasses != 3 || req.Seed != 7 {
		t.Errorf("Overrides not applied: %+v", req)
	}
}

func TestParseRenderRequest_Invalid(t *testing.T) {
	urls := []string{
		"/api/render?width=abc",
		"/api/render?maxSamples=x",
		"/api/render?seed=4.5",
		"/api/render?width=0",
		"/api/render?maxSamples=-1",
		"/api/render?maxPasses=0",
	}
	for _, url := range urls {
		if _, err := parseRenderRequest(httptest.NewRequest(http.MethodGet, url, nil)); err == nil {
			t.Errorf("Expected error for %q", url)
		}
	}
}

func TestHandleRender_UnknownScene(t *testing.T) {
	s := NewServer(8080)
	rec := httptest.NewRecorder()

	s.handleRender(rec, httptest.NewRequest(http.MethodGet, "/api/render?scene=nope", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	if testing.Short() {
		t.Skip("rendering in short mode")
	}

	s := NewServer(8080)
	rec := httptest.NewRecorder()
	url := "/api/render?scene=tutorial&width=32&maxSamples=2&maxPasses=2"

	s.handleRender(rec, httptest.NewRequest(http.MethodGet, url, nil))

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected SSE content type, got %q", ct)
	}

	updates := decodeSSE(t, rec.Body.String())
	if len(updates) != 2 {
		t.Fatalf("Expected 2 pass updates, got %d", len(updates))
	}

	for i, update := range updates {
		if update.PassNumber != i+1 {
			t.Errorf("Update %d has pass number %d", i, update.PassNumber)
		}
		if update.JobID == "" {
			t.Error("Missing job ID")
		}
		pngBytes, err := base64.StdEncoding.DecodeString(update.ImageData)
		if err != nil {
			t.Fatalf("Image data is not base64: %v", err)
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(pngBytes))
		if err != nil || format != "png" {
			t.Fatalf("Image data is not PNG: %v", err)
		}
		if cfg.Width != 32 {
			t.Errorf("Expected width 32, got %d", cfg.Width)
		}
	}
	if !updates[len(updates)-1].IsComplete {
		t.Error("Final update should be marked complete")
	}
}

func decodeSSE(t *testing.T, body string) []ProgressUpdate {
	t.Helper()
	var updates []ProgressUpdate
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			var update ProgressUpdate
			if err := json.Unmarshal([]byte(line[6:]), &update); err != nil {
				t.Fatalf("Invalid SSE payload: %v", err)
			}
			updates = append(updates, update)
		}
	}
	return updates
}

func TestScaleImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 320, 180))

	scaled := scaleImage(src, 160)
	if scaled.Bounds().Dx() != 160 || scaled.Bounds().Dy() != 90 {
		t.Errorf("Expected 160x90 thumbnail, got %v", scaled.Bounds())
	}

	// Images already at or below the target pass through untouched
	small := image.NewRGBA(image.Rect(0, 0, 100, 60))
	if scaleImage(small, 160) != image.Image(small) {
		t.Error("Small image should not be rescaled")
	}
}
