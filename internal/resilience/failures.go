package resilience

import "time"

// Failure records one batch item that could not be verified, classified so
// operators know which samples are worth re-running.
type Failure struct {
	SampleID int       `json:"sample_id"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Error    string    `json:"error"`
	Class    string    `json:"class"` // "transient" or "permanent"
	FailedAt time.Time `json:"failed_at"`
}

// Retryable reports whether re-running the sample could plausibly succeed.
func (f Failure) Retryable() bool {
	return f.Class == "transient"
}

// ClassifyError buckets an error for failure reporting.
func ClassifyError(err error) string {
	if IsTransient(err) {
		return "transient"
	}
	return "permanent"
}
