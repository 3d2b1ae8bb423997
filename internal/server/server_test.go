package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Test server setup
func setupTestServer() *httptest.Server {
	r := chi.NewRouter()

	// Add middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))

	apiServer := NewServer("1.0.0-test")

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/", apiServer.Routes())
	})

	return httptest.NewServer(r)
}

func testImagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*29 + y*53) % 256)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", contentType)
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if healthResp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", healthResp.Status)
	}

	if healthResp.Version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got %s", healthResp.Version)
	}

	if time.Since(healthResp.Timestamp) > time.Minute {
		t.Errorf("Timestamp seems too old: %v", healthResp.Timestamp)
	}
}

func TestSplitEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	request := SplitRequest{
		Image:      testImagePNG(t, 10, 10),
		TileWidth:  4,
		TileHeight: 4,
	}

	resp := postJSON(t, server.URL+"/api/v1/split", request)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var splitResp SplitResponse
	if err := json.NewDecoder(resp.Body).Decode(&splitResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// 10x10 with 4x4 tiles: regular offsets {0,4} plus flush offset 6
	// on each axis.
	if splitResp.TileCount != 9 {
		t.Errorf("Expected 9 tiles, got %d", splitResp.TileCount)
	}
	if len(splitResp.Tiles) != 9 {
		t.Errorf("Expected 9 tile payloads, got %d", len(splitResp.Tiles))
	}
	if splitResp.Overlaps == 0 {
		t.Errorf("Expected overlapping flush tiles to be reported")
	}
	if splitResp.Mode != "gray" {
		t.Errorf("Expected gray mode, got %s", splitResp.Mode)
	}
	if splitResp.RequestID == "" {
		t.Errorf("Expected a request ID")
	}

	for _, tile := range splitResp.Tiles {
		if tile.Width != 4 || tile.Height != 4 {
			t.Errorf("Expected 4x4 tile, got %dx%d", tile.Width, tile.Height)
		}
		if len(tile.Image) == 0 {
			t.Errorf("Tile at (%d,%d) has no image data", tile.X, tile.Y)
		}
	}
}

func TestSplitMergeRoundTrip(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	source := testImagePNG(t, 8, 8)

	splitResp := SplitResponse{}
	resp := postJSON(t, server.URL+"/api/v1/split", SplitRequest{
		Image:      source,
		TileWidth:  4,
		TileHeight: 4,
	})
	if err := json.NewDecoder(resp.Body).Decode(&splitResp); err != nil {
		t.Fatalf("Failed to decode split response: %v", err)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/v1/merge", MergeRequest{
		Tiles: splitResp.Tiles,
		Blend: "or",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected Content-Type image/png, got %s", ct)
	}

	merged, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Failed to decode merged PNG: %v", err)
	}

	want, err := png.Decode(bytes.NewReader(source))
	if err != nil {
		t.Fatalf("Failed to decode source PNG: %v", err)
	}

	// 8x8 into 4x4 tiles is an exact partition, so the or blend must
	// reproduce the source exactly.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			wr, _, _, _ := want.At(x, y).RGBA()
			gr, _, _, _ := merged.At(x, y).RGBA()
			if wr != gr {
				t.Fatalf("Pixel (%d,%d) differs: want %d, got %d", x, y, wr, gr)
			}
		}
	}
}

func TestSplitEndpoint_InvalidJSON(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/split", "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "INVALID_JSON" {
		t.Errorf("Expected INVALID_JSON, got %s", errResp.Error)
	}
}

func TestSplitEndpoint_TileLargerThanImage(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/split", SplitRequest{
		Image:      testImagePNG(t, 4, 4),
		TileWidth:  16,
		TileHeight: 16,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "INVALID_DIMENSIONS" {
		t.Errorf("Expected INVALID_DIMENSIONS, got %s", errResp.Error)
	}
}

func TestMergeEndpoint_HostileCorners(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	tileImage := testImagePNG(t, 4, 4)

	// Negative corner: must come back as a 400 envelope, not a
	// recovered panic.
	resp := postJSON(t, server.URL+"/api/v1/merge", MergeRequest{
		Tiles: []TilePayload{{X: -1, Y: 0, Width: 4, Height: 4, Image: tileImage}},
		Blend: "average",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for negative corner, got %d", resp.StatusCode)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	resp.Body.Close()
	if errResp.Error != "INVALID_DIMENSIONS" {
		t.Errorf("Expected INVALID_DIMENSIONS, got %s", errResp.Error)
	}

	// Far-off corner: refused before the output buffer is allocated.
	resp = postJSON(t, server.URL+"/api/v1/merge", MergeRequest{
		Tiles: []TilePayload{{X: 1 << 30, Y: 1 << 30, Width: 4, Height: 4, Image: tileImage}},
		Blend: "average",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for runaway corner, got %d", resp.StatusCode)
	}
	errResp = ErrorResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "INVALID_DIMENSIONS" {
		t.Errorf("Expected INVALID_DIMENSIONS, got %s", errResp.Error)
	}
}

func TestMergeEndpoint_EmptyTiles(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/merge", MergeRequest{Blend: "average"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "EMPTY_INPUT" {
		t.Errorf("Expected EMPTY_INPUT, got %s", errResp.Error)
	}
}
