package window

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// transitions lists the legal lifecycle moves per identifier:
// Closed → Opening → Open → Closing → Closed, plus Opening → Closing when
// an app is closed while its Init is still pending.
var transitions = map[Phase][]Phase{
	PhaseClosed:  {PhaseOpening},
	PhaseOpening: {PhaseOpen, PhaseClosing},
	PhaseOpen:    {PhaseClosing},
	PhaseClosing: {PhaseClosed},
}

// Dispatcher maps app identifiers to their collaborators and tracks each
// identifier's lifecycle phase. Collaborators are resolved once at
// startup through Register.
type Dispatcher struct {
	mu     sync.RWMutex
	apps   map[string]App
	phases map[string]Phase
	logger *zap.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		apps:   make(map[string]App),
		phases: make(map[string]Phase),
		logger: zap.NewNop(),
	}
}

// WithLogger sets the dispatcher logger
func (d *Dispatcher) WithLogger(logger *zap.Logger) *Dispatcher {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Register binds a collaborator to an app identifier
func (d *Dispatcher) Register(appID string, app App) error {
	if app == nil {
		return fmt.Errorf("register %s: nil app", appID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.apps[appID]; exists {
		return fmt.Errorf("register %s: %w", appID, ErrAppRegistered)
	}
	d.apps[appID] = app
	return nil
}

// Lookup returns the collaborator for appID, or Noop
func (d *Dispatcher) Lookup(appID string) App {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if app, ok := d.apps[appID]; ok {
		return app
	}
	return Noop
}

// Registered returns the identifiers with a collaborator
func (d *Dispatcher) Registered() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.apps))
	for id := range d.apps {
		ids = append(ids, id)
	}
	return ids
}

// Phase returns the lifecycle phase of appID
func (d *Dispatcher) Phase(appID string) Phase {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if phase, ok := d.phases[appID]; ok {
		return phase
	}
	return PhaseClosed
}

// transition moves appID to the next phase if the move is legal
func (d *Dispatcher) transition(appID string, to Phase) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	from, ok := d.phases[appID]
	if !ok {
		from = PhaseClosed
	}

	for _, allowed := range transitions[from] {
		if allowed == to {
			if to == PhaseClosed {
				delete(d.phases, appID)
			} else {
				d.phases[appID] = to
			}
			return nil
		}
	}
	return fmt.Errorf("app %s: illegal transition %s -> %s", appID, from, to)
}

// initialize runs the collaborator's Init. Errors and panics come back as
// *InitializationError.
func (d *Dispatcher) initialize(ctx context.Context, appID string, s Surface) (err error) {
	app := d.Lookup(appID)

	defer func() {
		if r := recover(); r != nil {
			err = &InitializationError{AppID: appID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if initErr := app.Init(ctx, s); initErr != nil {
		return &InitializationError{AppID: appID, Err: initErr}
	}
	return nil
}

// cleanup runs the collaborator's optional Cleanup
func (d *Dispatcher) cleanup(appID string) {
	cleaner, ok := d.Lookup(appID).(Cleaner)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("App cleanup panicked",
				zap.String("app_id", appID),
				zap.Any("panic", r),
			)
		}
	}()

	cleaner.Cleanup(appID)
}

// focusInput is the post-focus hook moving input focus into embedded
// surfaces of apps that ask for it
func (d *Dispatcher) focusInput(w *AppWindow) {
	if target, ok := d.Lookup(w.ID).(FocusTarget); ok {
		target.FocusInput(w.surface)
	}
}
