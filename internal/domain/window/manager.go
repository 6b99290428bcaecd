package window

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultCloseAnimation matches the CSS close animation duration
const DefaultCloseAnimation = 300 * time.Millisecond

// Config holds window manager settings
type Config struct {
	Viewport       Viewport
	ZIndexBase     int
	CloseAnimation time.Duration
	InitTimeout    time.Duration // Zero means no deadline
}

// DefaultConfig returns the settings of the stock desktop
func DefaultConfig() Config {
	return Config{
		Viewport:       Viewport{Width: 1280, Height: 800, TaskbarHeight: 36},
		ZIndexBase:     DefaultZIndexBase,
		CloseAnimation: DefaultCloseAnimation,
		InitTimeout:    30 * time.Second,
	}
}

// Manager owns window state for one desktop. All mutating operations are
// serialized by mu and run to completion; the only suspension point is
// an app's Init, which runs on its own goroutine outside the lock.
type Manager struct {
	mu         sync.Mutex
	registry   *Registry // Protected by mu
	focus      *Focus    // Protected by mu
	taskbar    *Taskbar  // Protected by mu
	generation uint64    // Protected by mu
	zorder     *ZOrder
	dispatcher *Dispatcher
	surfaces   Surfaces
	config     Config
	clock      clockwork.Clock
	observer   Observer
	logger     *zap.Logger
	metrics    *monitoring.Metrics
}

// NewManager creates a window manager over the given surfaces and
// collaborators. A nil dispatcher opens every app with Noop.
func NewManager(cfg Config, surfaces Surfaces, dispatcher *Dispatcher, labels Labeler) *Manager {
	if dispatcher == nil {
		dispatcher = NewDispatcher()
	}
	if cfg.CloseAnimation < 0 {
		cfg.CloseAnimation = 0
	}

	registry := NewRegistry()
	zorder := NewZOrder(cfg.ZIndexBase)
	taskbar := NewTaskbar(labels)
	focus := NewFocus(registry, zorder, taskbar)

	m := &Manager{
		registry:   registry,
		focus:      focus,
		taskbar:    taskbar,
		zorder:     zorder,
		dispatcher: dispatcher,
		surfaces:   surfaces,
		config:     cfg,
		clock:      clockwork.NewRealClock(),
		observer:   nopObserver{},
		logger:     zap.NewNop(),
	}
	focus.OnFocus(func(*AppWindow) { m.metrics.IncFocusChange() })
	focus.OnFocus(dispatcher.focusInput)
	return m
}

// WithClock sets the clock driving deferred close animations
func (m *Manager) WithClock(clock clockwork.Clock) *Manager {
	m.clock = clock
	return m
}

// WithLogger sets the manager logger
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	m.logger = logger
	m.dispatcher.WithLogger(logger)
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithObserver routes desktop events to o
func (m *Manager) WithObserver(o Observer) *Manager {
	if o == nil {
		o = nopObserver{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observer = o
	m.focus.observer = o
	m.taskbar.observer = o
	return m
}

// OpenApp shows the window of appID. An open app is only refocused. A
// closed app gets a new window, focus and a taskbar entry, then its
// collaborator's Init starts in the background; the returned Launch
// completes when Init settles.
func (m *Manager) OpenApp(ctx context.Context, appID string) (*Launch, error) {
	surface, ok := m.surfaces.Lookup(appID)
	if !ok {
		err := &ElementNotFoundError{AppID: appID}
		m.logger.Error("Window element not found", zap.String("app_id", appID))
		m.mu.Lock()
		m.notify(appID, err.Error())
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()

	if w, exists := m.registry.Get(appID); exists {
		m.focus.BringToFront(appID)
		w.Display = Visible
		surface.Show()
		surface.AddClass(ClassActive)
		m.observer.Observe(Event{Kind: EventReopened, AppID: appID, ZIndex: w.ZIndex})
		launch := completedLaunch(appID, w.Generation)
		m.mu.Unlock()

		m.logger.Debug("App already open, refocused", zap.String("app_id", appID))
		return launch, nil
	}

	m.generation++
	w := &AppWindow{
		ID:         appID,
		Display:    Visible,
		Generation: m.generation,
		Phase:      PhaseOpening,
		surface:    surface,
	}

	if err := m.registry.Register(w); err != nil {
		m.mu.Unlock()
		m.logger.Error("Registry out of sync with open check", zap.String("app_id", appID), zap.Error(err))
		return nil, err
	}
	if err := m.dispatcher.transition(appID, PhaseOpening); err != nil {
		m.logger.Warn("Lifecycle out of sync", zap.Error(err))
	}

	surface.MarkOpened(w.Generation)
	surface.RemoveClass(ClassAnimateOut)
	surface.AddClass(ClassAnimateIn)
	surface.Show()

	m.focus.BringToFront(appID)
	w.Token = m.taskbar.Add(appID, m.focus.IsActive(appID))

	initCtx, cancel := m.initContext(ctx)
	w.cancel = cancel

	launch := newLaunch(appID, w.Generation)
	zIndex := w.ZIndex
	m.observer.Observe(Event{Kind: EventOpened, AppID: appID, ZIndex: zIndex})
	m.metrics.IncWindowOpened(appID)
	m.metrics.SetWindowsOpen(m.registry.Len())
	m.mu.Unlock()

	m.logger.Info("App opened",
		zap.String("app_id", appID),
		zap.Int("z_index", zIndex),
		zap.Uint64("generation", launch.Generation),
	)

	go m.runInit(initCtx, cancel, launch, surface)
	return launch, nil
}

// initContext derives the Init context. It outlives the caller's request
// and is cancelled by CloseApp as an advisory signal only.
func (m *Manager) initContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := context.WithoutCancel(ctx)
	if m.config.InitTimeout > 0 {
		return context.WithTimeout(base, m.config.InitTimeout)
	}
	return context.WithCancel(base)
}

func (m *Manager) runInit(ctx context.Context, cancel context.CancelFunc, launch *Launch, surface Surface) {
	defer cancel()

	start := m.clock.Now()
	err := m.dispatcher.initialize(ctx, launch.AppID, surface)
	m.metrics.ObserveInitDuration(launch.AppID, m.clock.Since(start))

	m.completeInit(launch.AppID, launch.Generation, err)
	launch.finish(err)
}

// completeInit applies an Init result unless the window it belongs to
// has been closed or replaced in the meantime.
func (m *Manager) completeInit(appID string, generation uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.registry.Get(appID)
	if !ok || w.Generation != generation {
		m.metrics.IncStaleCompletion(appID)
		m.logger.Debug("Discarding stale init completion",
			zap.String("app_id", appID),
			zap.Uint64("generation", generation),
			zap.Error(err),
		)
		return
	}

	w.cancel = nil
	if terr := m.dispatcher.transition(appID, PhaseOpen); terr != nil {
		m.logger.Warn("Lifecycle out of sync", zap.Error(terr))
	}
	w.Phase = PhaseOpen

	if err != nil {
		// The window stays open but functionally uninitialized.
		w.InitErr = err
		m.metrics.IncInitFailure(appID)
		m.logger.Error("App initialization failed", zap.String("app_id", appID), zap.Error(err))
		m.notify(appID, err.Error())
		return
	}

	m.observer.Observe(Event{Kind: EventInitialized, AppID: appID, ZIndex: w.ZIndex})
}

// CloseApp closes the window of appID. Registry and taskbar are updated
// immediately; the surface is hidden after the close animation. Returns
// false when appID is not open.
func (m *Manager) CloseApp(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeLocked(appID)
}

// CloseActive closes the active window and returns its app id. Returns
// false when no window is active.
func (m *Manager) CloseActive() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	appID, ok := m.focus.Active()
	if !ok {
		return "", false
	}
	return appID, m.closeLocked(appID)
}

// closeLocked runs CloseApp. Must hold mu.
func (m *Manager) closeLocked(appID string) bool {
	w, ok := m.registry.Get(appID)
	if !ok {
		return false
	}

	wasActive := m.focus.Release(appID)
	if _, err := m.registry.Unregister(appID); err != nil {
		m.logger.Warn("Unregister failed", zap.Error(err))
	}
	m.taskbar.Remove(w.Token)
	w.Token = 0

	if err := m.dispatcher.transition(appID, PhaseClosing); err != nil {
		m.logger.Warn("Lifecycle out of sync", zap.Error(err))
	}
	w.Phase = PhaseClosing

	surface := w.surface
	surface.AddClass(ClassAnimateOut)
	surface.RemoveClass(ClassActive)
	surface.RemoveClass(ClassAnimateIn)

	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	m.dispatcher.cleanup(appID)
	m.scheduleHide(surface, w.Generation)

	if err := m.dispatcher.transition(appID, PhaseClosed); err != nil {
		m.logger.Warn("Lifecycle out of sync", zap.Error(err))
	}
	w.Phase = PhaseClosed

	m.observer.Observe(Event{Kind: EventClosed, AppID: appID})
	m.metrics.IncWindowClosed(appID)
	m.metrics.SetWindowsOpen(m.registry.Len())

	if wasActive {
		m.focus.Reassign()
	}

	m.logger.Info("App closed", zap.String("app_id", appID), zap.Bool("was_active", wasActive))
	return true
}

// scheduleHide hides surface once the close animation has played. The
// timer holds only the surface; a reopen in the meantime bumps the
// surface generation and the hide is skipped.
func (m *Manager) scheduleHide(surface Surface, generation uint64) {
	observer := m.observer
	m.clock.AfterFunc(m.config.CloseAnimation, func() {
		if surface.OpenedGeneration() != generation {
			return
		}
		surface.Hide()
		surface.RemoveClass(ClassAnimateOut)
		observer.Observe(Event{Kind: EventHidden, AppID: surface.ID()})
	})
}

// MinimizeApp hides the window of appID and hands focus to the topmost
// remaining visible window. Returns false when appID is not open.
func (m *Manager) MinimizeApp(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.minimize(appID)
}

func (m *Manager) minimize(appID string) bool {
	w, ok := m.registry.Get(appID)
	if !ok {
		return false
	}

	wasActive := m.focus.Release(appID)
	w.Display = Hidden
	w.surface.Hide()
	w.surface.RemoveClass(ClassActive)
	m.taskbar.SetActive(w.Token, false)
	m.observer.Observe(Event{Kind: EventMinimized, AppID: appID, ZIndex: w.ZIndex})

	if wasActive {
		m.focus.Reassign()
	}
	return true
}

// MaximizeApp toggles appID between maximized and its saved geometry.
// Maximizing always brings the window to front. Returns false when appID
// is not open.
func (m *Manager) MaximizeApp(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.registry.Get(appID)
	if !ok {
		return false
	}

	if w.Maximized {
		if w.Saved != nil {
			w.surface.SetGeometry(*w.Saved)
		}
		w.Saved = nil
		w.Maximized = false
		m.observer.Observe(Event{Kind: EventRestored, AppID: appID, ZIndex: w.ZIndex})
		return true
	}

	saved := w.surface.Geometry()
	w.Saved = &saved
	w.surface.SetGeometry(m.config.Viewport.Maximized())
	w.Maximized = true
	m.focus.BringToFront(appID)
	m.observer.Observe(Event{Kind: EventMaximized, AppID: appID, ZIndex: w.ZIndex})
	return true
}

// BringToFront raises appID and makes it active. Returns false when
// appID is not open.
func (m *Manager) BringToFront(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.registry.Has(appID) {
		return false
	}
	m.focus.BringToFront(appID)
	return true
}

// TaskbarClick applies a click on appID's taskbar button: the active
// visible window is minimized, anything else is shown and raised.
func (m *Manager) TaskbarClick(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.registry.Get(appID)
	if !ok {
		return false
	}
	if m.focus.IsActive(appID) && w.Display == Visible {
		return m.minimize(appID)
	}
	m.focus.BringToFront(appID)
	return true
}

// NextZIndex allocates a stacking index for desktop chrome such as the
// start menu.
func (m *Manager) NextZIndex() int {
	return m.zorder.Next()
}

// Active returns the identifier of the focused window
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.focus.Active()
}

// IsOpen reports whether appID has a window
func (m *Manager) IsOpen(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.registry.Has(appID)
}

// OpenIDs returns the open identifiers ordered bottom to top
func (m *Manager) OpenIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.registry.List()
	ids := make([]string, len(list))
	for i, w := range list {
		ids[i] = w.ID
	}
	return ids
}

// State returns a snapshot of appID's window
func (m *Manager) State(appID string) (WindowState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.registry.Get(appID)
	if !ok {
		return WindowState{}, false
	}
	return w.state(m.focus.IsActive(appID)), true
}

// Snapshot returns every open window ordered bottom to top
func (m *Manager) Snapshot() []WindowState {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.registry.List()
	states := make([]WindowState, len(list))
	for i, w := range list {
		states[i] = w.state(m.focus.IsActive(w.ID))
	}
	return states
}

// Taskbar returns the taskbar entries in creation order
func (m *Manager) Taskbar() []TaskbarEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.taskbar.Entries()
}

// Phase returns the lifecycle phase of appID
func (m *Manager) Phase(appID string) Phase {
	return m.dispatcher.Phase(appID)
}

// Stats summarizes the desktop
type Stats struct {
	OpenWindows    int     `json:"open_windows"`
	VisibleWindows int     `json:"visible_windows"`
	HiddenWindows  int     `json:"hidden_windows"`
	ActiveApp      *string `json:"active_app,omitempty"`
	HighestZIndex  int     `json:"highest_z_index"`
}

// Stats returns desktop statistics
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{HighestZIndex: m.zorder.Current()}
	for _, w := range m.registry.List() {
		stats.OpenWindows++
		if w.Display == Visible {
			stats.VisibleWindows++
		} else {
			stats.HiddenWindows++
		}
	}
	if id, ok := m.focus.Active(); ok {
		stats.ActiveApp = &id
	}
	return stats
}

// notify reports a user-visible failure. Must hold mu.
func (m *Manager) notify(appID, message string) {
	m.observer.Observe(Event{Kind: EventNotification, AppID: appID, Message: message})
}
