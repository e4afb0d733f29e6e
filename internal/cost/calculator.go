// Package cost tracks API spend for a verification run: vision inference
// tokens and imagery requests.
package cost

import (
	"sync"
	"time"
)

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates holds per-provider pricing configuration.
type Rates struct {
	Vision            map[string]ModelRate `yaml:"vision" mapstructure:"vision"`
	ImageryPerRequest float64              `yaml:"imagery_per_request" mapstructure:"imagery_per_request"`
}

// DefaultRates returns published list pricing.
func DefaultRates() Rates {
	return Rates{
		Vision: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
		// Mapbox Static Images list price per request beyond free tier.
		ImageryPerRequest: 0.0002,
	}
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Vision computes the cost of one inference call. Unknown models cost 0.
func (c *Calculator) Vision(model string, inputTokens, outputTokens int64) float64 {
	rate, ok := c.rates.Vision[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1e6)*rate.Input + (float64(outputTokens)/1e6)*rate.Output
}

// Imagery computes the cost of n tile fetches.
func (c *Calculator) Imagery(n int) float64 {
	return float64(n) * c.rates.ImageryPerRequest
}

// Snapshot is the accumulated spend at a point in time.
type Snapshot struct {
	InputTokens     int64     `json:"input_tokens"`
	OutputTokens    int64     `json:"output_tokens"`
	ImageryRequests int       `json:"imagery_requests"`
	TotalUSD        float64   `json:"total_usd"`
	CollectedAt     time.Time `json:"collected_at"`
}

// Tracker accumulates spend across a run. Safe for concurrent use.
type Tracker struct {
	calc *Calculator

	mu              sync.Mutex
	inputTokens     int64
	outputTokens    int64
	imageryRequests int
	totalUSD        float64
}

// NewTracker creates a tracker over default rates.
func NewTracker() *Tracker {
	return &Tracker{calc: NewCalculator(DefaultRates())}
}

// AddVision records one inference call's token usage.
func (t *Tracker) AddVision(model string, inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTokens += inputTokens
	t.outputTokens += outputTokens
	t.totalUSD += t.calc.Vision(model, inputTokens, outputTokens)
}

// AddImagery records one tile fetch.
func (t *Tracker) AddImagery() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.imageryRequests++
	t.totalUSD += t.calc.Imagery(1)
}

// Snapshot returns the current totals.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		InputTokens:     t.inputTokens,
		OutputTokens:    t.outputTokens,
		ImageryRequests: t.imageryRequests,
		TotalUSD:        t.totalUSD,
		CollectedAt:     time.Now().UTC(),
	}
}
