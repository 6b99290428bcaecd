package window

import "sync"

// fakeSurface is a minimal Surface for tests inside the package
type fakeSurface struct {
	mu         sync.Mutex
	id         string
	visible    bool
	geometry   Geometry
	zIndex     int
	classes    map[string]bool
	generation uint64
	focused    int
}

func newFakeSurface(id string) *fakeSurface {
	return &fakeSurface{
		id:       id,
		geometry: Geometry{Top: 40, Left: 60, Width: 300, Height: 200},
		classes:  make(map[string]bool),
	}
}

func (s *fakeSurface) ID() string { return s.id }

func (s *fakeSurface) Show() {
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()
}

func (s *fakeSurface) Hide() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
}

func (s *fakeSurface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *fakeSurface) Geometry() Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometry
}

func (s *fakeSurface) SetGeometry(g Geometry) {
	s.mu.Lock()
	s.geometry = g
	s.mu.Unlock()
}

func (s *fakeSurface) SetZIndex(z int) {
	s.mu.Lock()
	s.zIndex = z
	s.mu.Unlock()
}

func (s *fakeSurface) AddClass(name string) {
	s.mu.Lock()
	s.classes[name] = true
	s.mu.Unlock()
}

func (s *fakeSurface) RemoveClass(name string) {
	s.mu.Lock()
	delete(s.classes, name)
	s.mu.Unlock()
}

func (s *fakeSurface) HasClass(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classes[name]
}

func (s *fakeSurface) MarkOpened(g uint64) {
	s.mu.Lock()
	s.generation = g
	s.mu.Unlock()
}

func (s *fakeSurface) OpenedGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *fakeSurface) RequestInputFocus() {
	s.mu.Lock()
	s.focused++
	s.mu.Unlock()
}

// newWindow registers a visible window backed by a fake surface
func newWindow(t interface{ Fatalf(string, ...any) }, r *Registry, id string) *AppWindow {
	w := &AppWindow{ID: id, Display: Visible, Phase: PhaseOpen, surface: newFakeSurface(id)}
	if err := r.Register(w); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
	return w
}
