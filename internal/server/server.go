package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JimBoonie/gridcrop/internal/imageio"
	"github.com/JimBoonie/gridcrop/internal/pipeline"
	"github.com/JimBoonie/gridcrop/pkg/grid"
)

// Server implements the tiling HTTP API.
type Server struct {
	startTime time.Time
	version   string
}

// NewServer creates a new server instance
func NewServer(version string) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
	}
}

// Routes returns the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Post("/split", s.CreateSplit)
	r.Post("/merge", s.CreateMerge)
	return r
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

// CreateSplit splits an uploaded image into a tile set.
func (s *Server) CreateSplit(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON",
			"Invalid JSON in request body", requestID)
		return
	}

	if len(req.Image) == 0 {
		s.writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"image is required", requestID)
		return
	}
	if req.TileWidth <= 0 || req.TileHeight <= 0 {
		s.writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"tile_width and tile_height must be positive", requestID)
		return
	}

	img, err := imageio.Decode(req.Image)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_IMAGE",
			"Can't decode uploaded image", requestID)
		return
	}

	includeExcess := true
	if req.IncludeExcess != nil {
		includeExcess = *req.IncludeExcess
	}

	splitter := pipeline.NewSplitter(&pipeline.SplitOptions{
		TileWidth:     req.TileWidth,
		TileHeight:    req.TileHeight,
		StrideX:       req.StrideX,
		StrideY:       req.StrideY,
		IncludeExcess: includeExcess,
		Binary:        req.Binary,
		Threshold:     req.Threshold,
	})

	res, err := splitter.SplitRaster(imageio.ToGray(img), "upload")
	if err != nil {
		s.handleTilingError(w, err, requestID)
		return
	}

	response := SplitResponse{
		Mode:      res.Manifest.Mode,
		TileCount: len(res.Tiles),
		Overlaps:  res.Overlaps,
		Tiles:     make([]TilePayload, len(res.Tiles)),
		RequestID: requestID,
	}
	for i, tile := range res.Tiles {
		data, err := imageio.EncodePNG(imageio.ToImage(tile.Raster))
		if err != nil {
			s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Can't encode tile", requestID)
			return
		}
		response.Tiles[i] = TilePayload{
			X:      tile.Corner.X,
			Y:      tile.Corner.Y,
			Width:  tile.Raster.Width,
			Height: tile.Raster.Height,
			Image:  data,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding split response: %v", err)
	}
}

// CreateMerge recombines a tile set and responds with the merged PNG.
func (s *Server) CreateMerge(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON",
			"Invalid JSON in request body", requestID)
		return
	}

	tiles := make([]grid.Tile, len(req.Tiles))
	for i, payload := range req.Tiles {
		img, err := imageio.Decode(payload.Image)
		if err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_IMAGE",
				"Can't decode tile image", requestID)
			return
		}
		rast := imageio.ToGray(img)
		if req.Binary {
			rast = rast.Binarize(pipeline.DefaultThreshold)
		}
		tiles[i] = grid.Tile{
			Raster: rast,
			Corner: grid.Corner{X: payload.X, Y: payload.Y},
		}
	}

	out, err := pipeline.MergeRasters(tiles, req.Blend, req.Binary)
	if err != nil {
		s.handleTilingError(w, err, requestID)
		return
	}

	data, err := imageio.EncodePNG(imageio.ToImage(out))
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Can't encode merged image", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing merge response: %v", err)
	}
}

// handleTilingError maps tiling failures onto API error codes.
func (s *Server) handleTilingError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, grid.ErrInvalidDimensions):
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_DIMENSIONS", err.Error(), requestID)
	case errors.Is(err, grid.ErrEmptyInput):
		s.writeErrorResponse(w, http.StatusBadRequest, "EMPTY_INPUT", err.Error(), requestID)
	case errors.Is(err, grid.ErrModeMismatch):
		s.writeErrorResponse(w, http.StatusBadRequest, "MODE_MISMATCH", err.Error(), requestID)
	case errors.Is(err, grid.ErrInvalidBinaryInput):
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_BINARY_INPUT", err.Error(), requestID)
	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", requestID)
	}
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message, requestID string) {
	response := ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
