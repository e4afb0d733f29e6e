package annotation

import (
	"github.com/RandomVariable1470/suryaverify/internal/geo"
)

// Agreement classifications for an AI-vs-ground-truth comparison.
const (
	AgreementMatch    = "match"
	AgreementPartial  = "partial"
	AgreementMismatch = "mismatch"
	AgreementMissing  = "missing"
)

// IoU thresholds separating the agreement classes.
const (
	matchThreshold   = 0.7
	partialThreshold = 0.4
)

// Comparison scores the spatial agreement between AI detections and
// user-drawn annotations over one sample.
type Comparison struct {
	AIAreaSqm          float64 `json:"ai_area_sqm"`
	GroundTruthAreaSqm float64 `json:"ground_truth_area_sqm"`
	OverlapAreaSqm     float64 `json:"overlap_area_sqm"`
	IoUScore           float64 `json:"iou_score"`
	AgreementStatus    string  `json:"agreement_status"`
}

// Compare computes intersection-over-union between the union of detection
// polygons and the union of annotations. Detection rings are axis-aligned
// in the projected plane, so the union decomposes exactly into disjoint
// rectangular cells; annotation rings are clipped against each cell.
// Returns nil when either side is empty, since no meaningful score exists.
func (e *Engine) Compare(detections []geo.GeoPolygon) *Comparison {
	annotations := e.List()
	if len(detections) == 0 || len(annotations) == 0 {
		return nil
	}

	rings := make([][][]float64, 0, len(detections)+len(annotations))
	for _, d := range detections {
		rings = append(rings, d.Ring())
	}
	for _, a := range annotations {
		rings = append(rings, a.Ring)
	}
	origin := geo.RingOrigin(rings...)

	rects := make([]rect, 0, len(detections))
	for _, d := range detections {
		pts := geo.ToPlane(d.Ring(), origin)
		if len(pts) == 0 {
			continue
		}
		rects = append(rects, boundingRect(pts))
	}
	cells := disjointCells(rects)

	var aiArea float64
	for _, c := range cells {
		aiArea += c.area()
	}

	var gtArea, overlap float64
	for _, a := range annotations {
		pts := geo.ToPlane(a.Ring, origin)
		gtArea += polygonArea(pts)
		for _, c := range cells {
			overlap += clipAreaInRect(pts, c)
		}
	}

	union := aiArea + gtArea - overlap
	var iou float64
	if union > 0 {
		iou = overlap / union
	}

	return &Comparison{
		AIAreaSqm:          aiArea,
		GroundTruthAreaSqm: gtArea,
		OverlapAreaSqm:     overlap,
		IoUScore:           iou,
		AgreementStatus:    classify(iou, overlap),
	}
}

func classify(iou, overlap float64) string {
	switch {
	case iou > matchThreshold:
		return AgreementMatch
	case iou > partialThreshold:
		return AgreementPartial
	case overlap > 0:
		return AgreementMismatch
	default:
		return AgreementMissing
	}
}
