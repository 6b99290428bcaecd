package window

import "sort"

// Registry maps app identifiers to their open windows. An identifier is
// present iff its app is open, visible or hidden.
// Registry is not safe for concurrent use; Manager serializes access.
type Registry struct {
	windows map[string]*AppWindow
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]*AppWindow)}
}

// Register adds w under w.ID
func (r *Registry) Register(w *AppWindow) error {
	if _, exists := r.windows[w.ID]; exists {
		return &AlreadyOpenError{AppID: w.ID}
	}
	r.windows[w.ID] = w
	return nil
}

// Unregister removes the entry for id
func (r *Registry) Unregister(id string) (*AppWindow, error) {
	w, exists := r.windows[id]
	if !exists {
		return nil, &NotOpenError{AppID: id}
	}
	delete(r.windows, id)
	return w, nil
}

// Get returns the window registered under id
func (r *Registry) Get(id string) (*AppWindow, bool) {
	w, ok := r.windows[id]
	return w, ok
}

// Has reports whether id is open
func (r *Registry) Has(id string) bool {
	_, ok := r.windows[id]
	return ok
}

// Len returns the number of open windows
func (r *Registry) Len() int {
	return len(r.windows)
}

// List returns the open windows ordered bottom to top
func (r *Registry) List() []*AppWindow {
	list := make([]*AppWindow, 0, len(r.windows))
	for _, w := range r.windows {
		list = append(list, w)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ZIndex != list[j].ZIndex {
			return list[i].ZIndex < list[j].ZIndex
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// TopVisible returns the visible window with the greatest z-index
func (r *Registry) TopVisible() (*AppWindow, bool) {
	var top *AppWindow
	for _, w := range r.windows {
		if w.Display != Visible {
			continue
		}
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	return top, top != nil
}
