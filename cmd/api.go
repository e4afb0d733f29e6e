package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RandomVariable1470/suryaverify/internal/export"
	"github.com/RandomVariable1470/suryaverify/internal/geo"
	"github.com/RandomVariable1470/suryaverify/internal/store"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
	"github.com/RandomVariable1470/suryaverify/pkg/inference"
)

// maxUploadBytes caps direct image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type apiHandler struct {
	env *verifyEnv
}

func (h *apiHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *apiHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat      float64 `json:"lat"`
		Lon      float64 `json:"lon"`
		SampleID int     `json:"sample_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := verify.CoordinateInput(geo.Coordinate{Lat: req.Lat, Lon: req.Lon})
	in.SampleID = req.SampleID

	rec, err := h.env.Verifier.Verify(r.Context(), in)
	if err != nil {
		writeVerifyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *apiHandler) verifyUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image")
		return
	}
	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	var coord geo.Coordinate
	hasLocation := false
	if latStr, lonStr := r.FormValue("lat"), r.FormValue("lon"); latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			writeError(w, http.StatusBadRequest, "invalid lat/lon")
			return
		}
		coord = geo.Coordinate{Lat: lat, Lon: lon}
		hasLocation = true
	}

	rec, err := h.env.Verifier.Verify(r.Context(), verify.UploadInput(data, mediaType, coord, hasLocation))
	if err != nil {
		writeVerifyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *apiHandler) results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.env.Session.Records())
}

// resetResults clears the session so the dashboard can start a fresh run
// without restarting the server. Sample ids restart from 1.
func (h *apiHandler) resetResults(w http.ResponseWriter, r *http.Request) {
	h.env.Session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandler) export(w http.ResponseWriter, r *http.Request) {
	records := h.env.Session.Records()
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "no records to export")
		return
	}

	var (
		result *export.Result
		err    error
	)
	if format := r.URL.Query().Get("format"); format != "" {
		result, err = h.env.Exporter.Render(records, export.Format(format))
	} else {
		result, err = h.env.Exporter.Write(records)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (h *apiHandler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.env.Stats.Collect(r.Context()))
}

func (h *apiHandler) runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.env.Store.ListRuns(r.Context(), store.RunFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

type annotationRequest struct {
	Ring      [][]float64 `json:"ring"`
	PanelType string      `json:"panel_type"`
	Notes     string      `json:"notes"`
}

func (h *apiHandler) listAnnotations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.env.Annotations.List())
}

func (h *apiHandler) addAnnotation(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.env.Annotations.Add(req.Ring, req.PanelType, req.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *apiHandler) updateAnnotation(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.env.Annotations.Update(chi.URLParam(r, "id"), req.Ring)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *apiHandler) removeAnnotation(w http.ResponseWriter, r *http.Request) {
	if err := h.env.Annotations.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// comparison scores annotations against one sample's detections. The sample
// defaults to the most recent record.
func (h *apiHandler) comparison(w http.ResponseWriter, r *http.Request) {
	records := h.env.Session.Records()
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "no verification records")
		return
	}

	rec := records[len(records)-1]
	if idStr := r.URL.Query().Get("sample_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sample_id")
			return
		}
		found := false
		for _, candidate := range records {
			if candidate.SampleID == id {
				rec = candidate
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusNotFound, "sample not found")
			return
		}
	}

	cmp := h.env.Annotations.Compare(rec.DetectionPolygons)
	if cmp == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"sample_id":  rec.SampleID,
			"comparison": nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sample_id":  rec.SampleID,
		"comparison": cmp,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeVerifyError maps inference failure classes to HTTP statuses.
func writeVerifyError(w http.ResponseWriter, err error) {
	switch {
	case inference.IsQuotaExhausted(err):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case inference.IsRateLimited(err):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
