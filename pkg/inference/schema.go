package inference

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
)

// QC statuses returned by the model. QC reflects image-quality confidence,
// not panel presence: a clear image with no panels is still VERIFIABLE.
const (
	QCVerifiable    = "VERIFIABLE"
	QCNotVerifiable = "NOT_VERIFIABLE"
)

// Detection is the structured result of one rooftop analysis, matching the
// schema the model is instructed to emit.
type Detection struct {
	HasSolar       bool                `json:"has_solar"`
	Confidence     float64             `json:"confidence"`
	PanelCountEst  int                 `json:"panel_count_est"`
	PVAreaSqmEst   float64             `json:"pv_area_sqm_est"`
	CapacityKWEst  float64             `json:"capacity_kw_est"`
	QCStatus       string              `json:"qc_status"`
	QCNotes        []string            `json:"qc_notes"`
	DetectionBoxes []geo.NormalizedBox `json:"detection_boxes"`
}

// parseDetection extracts and validates a Detection from raw model text.
// Any structural problem yields a MalformedResponseError carrying the raw
// payload; the pipeline never proceeds with partially-typed data.
func parseDetection(text string) (*Detection, error) {
	cleaned := cleanJSON(text)

	// Decode into a generic map first so missing required fields can be
	// distinguished from zero values.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &MalformedResponseError{Reason: "not a JSON object: " + err.Error(), Payload: text}
	}
	for _, field := range []string{"has_solar", "confidence", "qc_status", "detection_boxes"} {
		if _, ok := raw[field]; !ok {
			return nil, &MalformedResponseError{Reason: "missing required field " + field, Payload: text}
		}
	}

	var det Detection
	if err := json.Unmarshal([]byte(cleaned), &det); err != nil {
		return nil, &MalformedResponseError{Reason: "schema mismatch: " + err.Error(), Payload: text}
	}

	if det.Confidence < 0 || det.Confidence > 1 {
		return nil, &MalformedResponseError{Reason: "confidence outside [0,1]", Payload: text}
	}
	if det.QCStatus != QCVerifiable && det.QCStatus != QCNotVerifiable {
		return nil, &MalformedResponseError{Reason: "unknown qc_status " + det.QCStatus, Payload: text}
	}
	if det.PanelCountEst < 0 || det.PVAreaSqmEst < 0 || det.CapacityKWEst < 0 {
		return nil, &MalformedResponseError{Reason: "negative estimate field", Payload: text}
	}
	for i, box := range det.DetectionBoxes {
		if err := box.Validate(); err != nil {
			return nil, &MalformedResponseError{
				Reason:  fmt.Sprintf("detection box %d invalid: %v", i, err),
				Payload: text,
			}
		}
	}
	if det.QCNotes == nil {
		det.QCNotes = []string{}
	}
	if det.DetectionBoxes == nil {
		det.DetectionBoxes = []geo.NormalizedBox{}
	}

	return &det, nil
}

// cleanJSON extracts a JSON object from text that may carry markdown code
// fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
