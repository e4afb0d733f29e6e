package verify

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
	"github.com/RandomVariable1470/suryaverify/internal/resilience"
	"github.com/RandomVariable1470/suryaverify/internal/solar"
	"github.com/RandomVariable1470/suryaverify/pkg/imagery"
	"github.com/RandomVariable1470/suryaverify/pkg/inference"
)

// Progress is emitted after each batch item regardless of outcome.
type Progress struct {
	Completed int
	Total     int
}

// BatchSummary tallies one batch run. Failures carries every item that did
// not produce a record, classified so transient ones can be re-run.
type BatchSummary struct {
	Succeeded int
	Failed    int
	Total     int
	Failures  []resilience.Failure
}

// Verifier runs the verification state machine over one or many inputs.
type Verifier struct {
	imagery   imagery.Client
	inference inference.Client
	bounds    geo.Bounds
	estimator *solar.Estimator
	session   *Session
}

// New creates a verifier writing into the given session.
func New(img imagery.Client, inf inference.Client, bounds geo.Bounds, est *solar.Estimator, session *Session) *Verifier {
	return &Verifier{
		imagery:   img,
		inference: inf,
		bounds:    bounds,
		estimator: est,
		session:   session,
	}
}

// Session returns the verifier's result session.
func (v *Verifier) Session() *Session {
	return v.session
}

// Verify runs one input through acquisition, inference, and projection, and
// appends the record to the session. Validation failures and upstream errors
// are terminal for the item; inference errors keep their classification
// (rate limit, quota, malformed) for the caller to act on.
func (v *Verifier) Verify(ctx context.Context, in Input) (*Record, error) {
	log := zap.L().With(
		zap.Float64("lat", in.Location.Lat),
		zap.Float64("lon", in.Location.Lon),
	)

	// Input validation happens before any external call. Uploads without
	// location metadata skip the domain check.
	if in.HasLocation {
		if err := in.Location.Validate(v.bounds); err != nil {
			return nil, err
		}
	} else if in.Image == nil {
		return nil, eris.New("verify: coordinate-driven input requires a location")
	}

	imageData := in.Image
	mediaType := in.MediaType
	meta := ImageMetadata{Source: "User Upload"}
	var fp geo.Footprint
	haveFootprint := false

	if imageData == nil {
		log.Debug("verify: state transition", zap.String("state", string(StateAcquiringImage)))
		img, err := v.imagery.Fetch(ctx, in.Location.Lat, in.Location.Lon)
		if err != nil {
			log.Error("verify: image acquisition failed", zap.Error(err))
			return nil, eris.Wrap(err, "verify: acquire image")
		}
		imageData = img.Data
		mediaType = "image/jpeg"
		meta = ImageMetadata{Source: img.Source, Zoom: img.Zoom}
		// The decoded pixel dimensions drive the footprint, not the nominal
		// request size: high-DPI responses are double the requested pixels.
		fp = geo.Footprint{
			Center:      in.Location,
			Zoom:        img.Zoom,
			PixelWidth:  img.PixelWidth,
			PixelHeight: img.PixelHeight,
		}
		haveFootprint = true
	}

	log.Debug("verify: state transition", zap.String("state", string(StateInferring)))
	det, err := v.inference.Analyze(ctx, inference.Request{
		Image:       imageData,
		MediaType:   mediaType,
		Lat:         in.Location.Lat,
		Lon:         in.Location.Lon,
		HasLocation: in.HasLocation,
	})
	if err != nil {
		log.Error("verify: inference failed", zap.Error(err))
		return nil, err
	}

	var polygons []geo.GeoPolygon
	if haveFootprint {
		polygons, err = geo.BoxesToPolygons(det.DetectionBoxes, fp)
		if err != nil {
			// Boxes already passed schema validation; a failure here means
			// the footprint itself is degenerate.
			return nil, eris.Wrap(err, "verify: project detections")
		}
	} else {
		// Uploads carry no geographic footprint, so detections cannot be
		// placed on the map. The numeric estimates still stand.
		polygons = []geo.GeoPolygon{}
	}

	rec := Record{
		SampleID:          v.session.AssignSampleID(in.SampleID),
		Lat:               in.Location.Lat,
		Lon:               in.Location.Lon,
		HasSolar:          det.HasSolar,
		Confidence:        det.Confidence,
		PanelCountEst:     det.PanelCountEst,
		PVAreaSqmEst:      det.PVAreaSqmEst,
		CapacityKWEst:     v.estimator.CapacityFromPVArea(det.PVAreaSqmEst),
		QCStatus:          det.QCStatus,
		QCNotes:           det.QCNotes,
		DetectionPolygons: polygons,
		ImageMetadata:     meta,
	}
	v.session.Append(rec)

	log.Info("verify: completed",
		zap.Int("sample_id", rec.SampleID),
		zap.Bool("has_solar", rec.HasSolar),
		zap.Float64("confidence", rec.Confidence),
		zap.Int("detections", len(polygons)),
		zap.String("qc_status", rec.QCStatus),
	)
	return &rec, nil
}

func (s *BatchSummary) recordFailure(item Input, err error) {
	s.Failed++
	class := resilience.ClassifyError(err)
	// Rate limits clear on their own, so those samples are worth re-running.
	if inference.IsRateLimited(err) {
		class = "transient"
	}
	s.Failures = append(s.Failures, resilience.Failure{
		SampleID: item.SampleID,
		Lat:      item.Location.Lat,
		Lon:      item.Location.Lon,
		Error:    err.Error(),
		Class:    class,
		FailedAt: time.Now().UTC(),
	})
}

// VerifyBatch processes items strictly sequentially: upstream load stays
// predictable and progress stays monotonic. Individual failures are tallied
// and do not halt the batch; a quota-exhausted error would recur for every
// remaining item, so it short-circuits the rest with one clear message.
// Cancellation is checked between items.
func (v *Verifier) VerifyBatch(ctx context.Context, items []Input, onProgress func(Progress)) (*BatchSummary, error) {
	summary := &BatchSummary{Total: len(items)}
	if len(items) == 0 {
		return summary, nil
	}

	log := zap.L().With(zap.Int("total", len(items)))
	log.Info("verify: starting batch")

	var quotaErr error
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, eris.Wrap(err, "verify: batch canceled")
		}

		if quotaErr != nil {
			summary.recordFailure(item, quotaErr)
		} else if _, err := v.Verify(ctx, item); err != nil {
			summary.recordFailure(item, err)
			switch {
			case inference.IsQuotaExhausted(err):
				quotaErr = err
				log.Error("verify: credits exhausted, skipping remaining items", zap.Error(err))
			case inference.IsRateLimited(err):
				log.Warn("verify: rate limited, item failed; retry the batch later", zap.Error(err))
			default:
				log.Error("verify: item failed", zap.Int("index", i), zap.Error(err))
			}
		} else {
			summary.Succeeded++
		}

		if onProgress != nil {
			onProgress(Progress{Completed: i + 1, Total: len(items)})
		}
	}

	log.Info("verify: batch complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)

	if summary.Succeeded == 0 {
		if quotaErr != nil {
			return summary, quotaErr
		}
		return summary, eris.Errorf("verify: all %d batch items failed", summary.Total)
	}
	return summary, nil
}
