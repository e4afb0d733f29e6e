// Package verify drives single and batch rooftop verification: image
// acquisition, vision inference, and projection of detections into
// geographic polygons.
package verify

import (
	"github.com/RandomVariable1470/suryaverify/internal/geo"
)

// ImageMetadata records where the analyzed image came from.
type ImageMetadata struct {
	Source string `json:"source"`
	Zoom   int    `json:"zoom"`
}

// Record is the canonical output of one verification. Immutable once
// created; field names match the flat JSON export consumed by auditors.
type Record struct {
	SampleID          int              `json:"sample_id"`
	Lat               float64          `json:"lat"`
	Lon               float64          `json:"lon"`
	HasSolar          bool             `json:"has_solar"`
	Confidence        float64          `json:"confidence"`
	PanelCountEst     int              `json:"panel_count_est"`
	PVAreaSqmEst      float64          `json:"pv_area_sqm_est"`
	CapacityKWEst     float64          `json:"capacity_kw_est"`
	QCStatus          string           `json:"qc_status"`
	QCNotes           []string         `json:"qc_notes"`
	DetectionPolygons []geo.GeoPolygon `json:"detection_polygons"`
	ImageMetadata     ImageMetadata    `json:"image_metadata"`
}

// Input is one unit of verification work. When Image is nil the verifier
// fetches imagery for Location; otherwise the bytes are analyzed directly
// and Location is metadata only (HasLocation false means the upload carries
// no coordinate at all).
type Input struct {
	SampleID    int // 0 means assign from the session counter
	Location    geo.Coordinate
	HasLocation bool
	Image       []byte
	MediaType   string
}

// CoordinateInput builds the common coordinate-driven input.
func CoordinateInput(c geo.Coordinate) Input {
	return Input{Location: c, HasLocation: true}
}

// UploadInput builds a direct-upload input. Pass a zero coordinate and
// hasLocation=false when the upload has no location metadata.
func UploadInput(image []byte, mediaType string, c geo.Coordinate, hasLocation bool) Input {
	return Input{Location: c, HasLocation: hasLocation, Image: image, MediaType: mediaType}
}

// State names the per-item verification lifecycle.
type State string

const (
	StateIdle           State = "idle"
	StateAcquiringImage State = "acquiring_image"
	StateInferring      State = "inferring"
	StateCompleted      State = "completed"
	StateFailed         State = "failed"
)
