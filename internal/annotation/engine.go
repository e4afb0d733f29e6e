// Package annotation manages user-drawn ground-truth polygons and scores
// their agreement with AI detections.
package annotation

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/solar"
)

// Panel types a surveyor can tag an annotation with.
const (
	PanelMono    = "monocrystalline"
	PanelPoly    = "polycrystalline"
	PanelThin    = "thin-film"
	PanelUnknown = "unknown"
)

// Annotation is a user-drawn ground-truth rooftop polygon.
type Annotation struct {
	ID        string      `json:"id"`
	Ring      [][]float64 `json:"ring"` // [lon,lat] pairs
	AreaSqm   float64     `json:"area_sqm"`
	PanelType string      `json:"panel_type"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
}

// Engine owns the session's annotations. Map draw, edit, and delete events
// translate to Add, Update, and Remove.
type Engine struct {
	mu          sync.RWMutex
	annotations map[string]*Annotation
	order       []string
}

// NewEngine creates an empty annotation engine.
func NewEngine() *Engine {
	return &Engine{annotations: make(map[string]*Annotation)}
}

// Add stores a new annotation for the given ring and recomputes its area.
func (e *Engine) Add(ring [][]float64, panelType, notes string) (*Annotation, error) {
	if len(ring) < 3 {
		return nil, eris.New("annotation: ring needs at least 3 points")
	}
	if panelType == "" {
		panelType = PanelUnknown
	}

	a := &Annotation{
		ID:        uuid.New().String(),
		Ring:      ring,
		AreaSqm:   solar.RingAreaSqm(ring),
		PanelType: panelType,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}

	e.mu.Lock()
	e.annotations[a.ID] = a
	e.order = append(e.order, a.ID)
	e.mu.Unlock()

	return a, nil
}

// Update replaces an annotation's ring and recomputes its area.
func (e *Engine) Update(id string, ring [][]float64) (*Annotation, error) {
	if len(ring) < 3 {
		return nil, eris.New("annotation: ring needs at least 3 points")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.annotations[id]
	if !ok {
		return nil, eris.Errorf("annotation: id %s not found", id)
	}
	a.Ring = ring
	a.AreaSqm = solar.RingAreaSqm(ring)
	return a, nil
}

// Remove deletes an annotation.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.annotations[id]; !ok {
		return eris.Errorf("annotation: id %s not found", id)
	}
	delete(e.annotations, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns annotations in creation order.
func (e *Engine) List() []Annotation {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Annotation, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.annotations[id])
	}
	return out
}
