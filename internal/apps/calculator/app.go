package calculator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"go.uber.org/zap"
)

// ErrNoCalculator is returned for keys sent to a window without a calculator
var ErrNoCalculator = errors.New("no calculator")

// App is the calculator collaborator. Each window holds its own
// calculator from Init until Cleanup.
type App struct {
	mu       sync.Mutex
	sessions map[string]*session
	logger   *zap.Logger
}

type session struct {
	calc    *Calculator
	surface window.Surface
}

var (
	_ window.App     = (*App)(nil)
	_ window.Cleaner = (*App)(nil)
)

// NewApp creates the collaborator
func NewApp(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		sessions: make(map[string]*session),
		logger:   logger,
	}
}

// Init gives the window a cleared calculator
func (a *App) Init(ctx context.Context, s window.Surface) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	sess := &session{calc: New(), surface: s}
	a.sessions[s.ID()] = sess
	surface.WriteContent(s, sess.calc.Display())
	return nil
}

// Cleanup drops the calculator of appID. Safe to call more than once.
func (a *App) Cleanup(appID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.sessions[appID]; ok {
		delete(a.sessions, appID)
		a.logger.Debug("Calculator closed", zap.String("app_id", appID))
	}
}

// Press applies keys to the calculator of appID and returns the display.
// Keys before an unknown one still apply.
func (a *App) Press(appID, keys string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if !ok {
		return "", fmt.Errorf("%w for %s", ErrNoCalculator, appID)
	}
	err := sess.calc.PressAll(keys)
	surface.WriteContent(sess.surface, sess.calc.Display())
	return sess.calc.Display(), err
}

// Display returns the display of appID
func (a *App) Display(appID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if !ok {
		return "", false
	}
	return sess.calc.Display(), true
}
