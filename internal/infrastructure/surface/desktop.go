package surface

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
)

// Default window size before the user moves or resizes it
const (
	DefaultWidth  = 600
	DefaultHeight = 420
)

// Desktop holds one element per known app, created up front like the
// static window markup of the shell.
type Desktop struct {
	mu       sync.RWMutex
	elements map[string]*Element
	viewport window.Viewport
	rng      *rand.Rand
}

var _ window.Surfaces = (*Desktop)(nil)

// NewDesktop creates elements for appIDs at random positions in the
// upper-left area of the viewport. The seed makes placement reproducible.
func NewDesktop(viewport window.Viewport, appIDs []string, seed uint64) *Desktop {
	d := &Desktop{
		elements: make(map[string]*Element, len(appIDs)),
		viewport: viewport,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for _, id := range appIDs {
		d.Add(id)
	}
	return d
}

// Add creates the element for id if it does not exist yet
func (d *Desktop) Add(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.elements[id]; ok {
		return e
	}
	e := NewElement(id, d.placement())
	d.elements[id] = e
	return e
}

// placement picks a position within the top quarter and left third of
// the viewport, 20px from the edges. Must hold mu.
func (d *Desktop) placement() window.Geometry {
	width := min(DefaultWidth, d.viewport.Width)
	height := min(DefaultHeight, d.viewport.Height-d.viewport.TaskbarHeight)
	if height < 0 {
		height = 0
	}
	return window.Geometry{
		Top:    int(d.rng.Float64()*float64(d.viewport.Height)/4) + 20,
		Left:   int(d.rng.Float64()*float64(d.viewport.Width)/3) + 20,
		Width:  width,
		Height: height,
	}
}

// Lookup returns the surface for appID
func (d *Desktop) Lookup(appID string) (window.Surface, bool) {
	e, ok := d.Element(appID)
	if !ok {
		return nil, false
	}
	return e, true
}

// Element returns the concrete element for appID
func (d *Desktop) Element(appID string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.elements[appID]
	return e, ok
}

// Viewport returns the desktop dimensions
func (d *Desktop) Viewport() window.Viewport {
	return d.viewport
}

// Snapshot returns every element ordered by id
func (d *Desktop) Snapshot() []Snapshot {
	d.mu.RLock()
	elements := make([]*Element, 0, len(d.elements))
	for _, e := range d.elements {
		elements = append(elements, e)
	}
	d.mu.RUnlock()

	sort.Slice(elements, func(i, j int) bool { return elements[i].id < elements[j].id })
	out := make([]Snapshot, len(elements))
	for i, e := range elements {
		out[i] = e.Snapshot()
	}
	return out
}
