package window

// PostFocusHook runs after a window becomes active
type PostFocusHook func(w *AppWindow)

// Focus maintains the single active window.
//
// Invariant: when any window is visible, the active window is the visible
// window with the greatest z-index; with no visible window nothing is
// active. A hidden window is never active.
type Focus struct {
	registry *Registry
	zorder   *ZOrder
	taskbar  *Taskbar
	observer Observer
	hooks    []PostFocusHook
	active   string
}

// NewFocus creates a focus controller over the given registry
func NewFocus(registry *Registry, zorder *ZOrder, taskbar *Taskbar) *Focus {
	return &Focus{
		registry: registry,
		zorder:   zorder,
		taskbar:  taskbar,
		observer: nopObserver{},
	}
}

// OnFocus registers a hook run after every focus change
func (f *Focus) OnFocus(hook PostFocusHook) {
	f.hooks = append(f.hooks, hook)
}

// Active returns the identifier of the active window
func (f *Focus) Active() (string, bool) {
	return f.active, f.active != ""
}

// IsActive reports whether id is the active window
func (f *Focus) IsActive(id string) bool {
	return f.active != "" && f.active == id
}

// BringToFront raises id above every other window and makes it active.
// A hidden window is shown first. Returns false when id is not open or
// already active.
func (f *Focus) BringToFront(id string) bool {
	w, ok := f.registry.Get(id)
	if !ok {
		return false
	}
	if w.Display != Visible {
		w.Display = Visible
		w.surface.Show()
	}
	if f.active == id {
		return false
	}

	f.deactivate()

	w.ZIndex = f.zorder.Next()
	w.surface.SetZIndex(w.ZIndex)
	w.surface.AddClass(ClassActive)
	f.active = id
	f.taskbar.SetActive(w.Token, true)
	f.observer.Observe(Event{Kind: EventFocusChanged, AppID: id, ZIndex: w.ZIndex})

	for _, hook := range f.hooks {
		hook(w)
	}
	return true
}

// Release clears the active window if it is id. Returns whether focus
// was released.
func (f *Focus) Release(id string) bool {
	if !f.IsActive(id) {
		return false
	}
	f.deactivate()
	return true
}

// Reassign activates the topmost visible window, or clears focus when
// no window is visible.
func (f *Focus) Reassign() {
	if top, ok := f.registry.TopVisible(); ok {
		f.BringToFront(top.ID)
		return
	}
	if f.active != "" {
		f.deactivate()
	}
	f.observer.Observe(Event{Kind: EventFocusCleared})
}

// deactivate clears the active flag and highlight of the current window
func (f *Focus) deactivate() {
	if f.active == "" {
		return
	}
	if prev, ok := f.registry.Get(f.active); ok {
		prev.surface.RemoveClass(ClassActive)
		f.taskbar.SetActive(prev.Token, false)
	}
	f.active = ""
}
