package server

import "time"

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// TilePayload carries one tile over the wire. Image holds PNG data;
// encoding/json transports it as base64.
type TilePayload struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Image  []byte `json:"image"`
}

// SplitRequest asks the server to split an uploaded image into tiles.
type SplitRequest struct {
	Image         []byte `json:"image"` // PNG, JPEG or TIFF data, base64 in JSON
	TileWidth     int    `json:"tile_width"`
	TileHeight    int    `json:"tile_height"`
	StrideX       int    `json:"stride_x,omitempty"`
	StrideY       int    `json:"stride_y,omitempty"`
	IncludeExcess *bool  `json:"include_excess,omitempty"` // default true
	Binary        bool   `json:"binary,omitempty"`
	Threshold     int    `json:"threshold,omitempty"`
}

// SplitResponse returns the generated tile set.
type SplitResponse struct {
	Mode      string        `json:"mode"`
	TileCount int           `json:"tile_count"`
	Overlaps  int           `json:"overlaps"`
	Tiles     []TilePayload `json:"tiles"`
	RequestID string        `json:"request_id"`
}

// MergeRequest asks the server to recombine a tile set. The response
// body is the merged PNG image.
type MergeRequest struct {
	Tiles  []TilePayload `json:"tiles"`
	Blend  string        `json:"blend,omitempty"`
	Binary bool          `json:"binary,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
