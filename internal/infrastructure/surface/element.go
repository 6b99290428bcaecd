package surface

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
)

// Element is the in-memory visual container of one app window
type Element struct {
	mu         sync.RWMutex
	id         string
	visible    bool
	geometry   window.Geometry
	zIndex     int
	classes    map[string]struct{}
	generation uint64
	inputFocus int
	content    string
}

var _ window.Surface = (*Element)(nil)

// NewElement creates a hidden element with the given geometry
func NewElement(id string, g window.Geometry) *Element {
	return &Element{
		id:       id,
		geometry: g,
		classes:  make(map[string]struct{}),
	}
}

func (e *Element) ID() string {
	return e.id
}

func (e *Element) Show() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = true
}

func (e *Element) Hide() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = false
}

func (e *Element) Visible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.visible
}

func (e *Element) Geometry() window.Geometry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.geometry
}

func (e *Element) SetGeometry(g window.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.geometry = g
}

// ZIndex returns the stacking index last applied to the element
func (e *Element) ZIndex() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.zIndex
}

func (e *Element) SetZIndex(z int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zIndex = z
}

func (e *Element) AddClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[name] = struct{}{}
}

func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.classes, name)
}

func (e *Element) HasClass(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.classes[name]
	return ok
}

// Classes returns the element's classes sorted by name
func (e *Element) Classes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.classes))
	for name := range e.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Element) MarkOpened(generation uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation = generation
}

func (e *Element) OpenedGeneration() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

func (e *Element) RequestInputFocus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputFocus++
}

// InputFocusRequests returns how often input focus was requested
func (e *Element) InputFocusRequests() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inputFocus
}

// SetContent replaces the embedded content of the element
func (e *Element) SetContent(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = content
}

// Content returns the embedded content of the element
func (e *Element) Content() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.content
}

// Snapshot is a JSON view of an element
type Snapshot struct {
	ID       string          `json:"id"`
	Visible  bool            `json:"visible"`
	Geometry window.Geometry `json:"geometry"`
	ZIndex   int             `json:"z_index"`
	Classes  []string        `json:"classes"`
	Content  string          `json:"content,omitempty"`
}

// Snapshot returns a copy of the element state
func (e *Element) Snapshot() Snapshot {
	classes := e.Classes()

	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		ID:       e.id,
		Visible:  e.visible,
		Geometry: e.geometry,
		ZIndex:   e.zIndex,
		Classes:  classes,
		Content:  e.content,
	}
}
