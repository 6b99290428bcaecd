package paint

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultInterval is the pause between two critiques
const DefaultInterval = 15 * time.Second

const (
	warmup        = "Warming up my judging circuits..."
	fallback      = "Is this art?"
	critiqueLimit = 10 * time.Second
)

// Critic comments on a drawing. Strokes are the drawing commands made
// so far, oldest first.
type Critic func(ctx context.Context, strokes []string) (string, error)

// App is the paint collaborator. While a paint window is open an
// assistant critiques the drawing on a fixed interval; critiques are
// skipped while the window is minimized.
type App struct {
	mu       sync.Mutex
	sessions map[string]*session
	critic   Critic
	interval time.Duration
	clock    clockwork.Clock
	logger   *zap.Logger
}

type session struct {
	surface    window.Surface
	strokes    []string
	commentary string
	critiques  int
	cancel     context.CancelFunc
}

var (
	_ window.App     = (*App)(nil)
	_ window.Cleaner = (*App)(nil)
)

// New creates the collaborator. A nil critic answers with a stock line.
func New(critic Critic, clock clockwork.Clock, logger *zap.Logger) *App {
	if critic == nil {
		critic = func(context.Context, []string) (string, error) { return fallback, nil }
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		sessions: make(map[string]*session),
		critic:   critic,
		interval: DefaultInterval,
		clock:    clock,
		logger:   logger,
	}
}

// WithInterval changes the critique interval
func (a *App) WithInterval(d time.Duration) *App {
	if d > 0 {
		a.interval = d
	}
	return a
}

// Init clears the canvas and starts the critique loop. A cancelled ctx
// means the window closed before Init ran; nothing is started then.
func (a *App) Init(ctx context.Context, s window.Surface) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// The loop outlives Init; Cleanup stops it.
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &session{surface: s, commentary: warmup, cancel: cancel}

	a.mu.Lock()
	if err := ctx.Err(); err != nil {
		a.mu.Unlock()
		cancel()
		return err
	}
	if old, ok := a.sessions[s.ID()]; ok {
		old.cancel()
	}
	a.sessions[s.ID()] = sess
	surface.WriteContent(s, warmup)
	a.mu.Unlock()

	ticker := a.clock.NewTicker(a.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.Chan():
				a.critique(loopCtx, s.ID(), sess)
			}
		}
	}()
	return nil
}

// Cleanup stops the critique loop. Safe to call more than once.
func (a *App) Cleanup(appID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sess, ok := a.sessions[appID]; ok {
		sess.cancel()
		delete(a.sessions, appID)
	}
}

// Draw records a stroke on the canvas of appID
func (a *App) Draw(appID, stroke string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if !ok {
		return false
	}
	sess.strokes = append(sess.strokes, stroke)
	return true
}

// Clear wipes the canvas of appID
func (a *App) Clear(appID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if ok {
		sess.strokes = nil
	}
	return ok
}

// Commentary returns the latest critique of appID and how many were made
func (a *App) Commentary(appID string) (string, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if !ok {
		return "", 0, false
	}
	return sess.commentary, sess.critiques, true
}

func (a *App) critique(ctx context.Context, appID string, sess *session) {
	if ctx.Err() != nil || !sess.surface.Visible() {
		return
	}

	a.mu.Lock()
	if a.sessions[appID] != sess {
		a.mu.Unlock()
		return
	}
	strokes := append([]string(nil), sess.strokes...)
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, critiqueLimit)
	defer cancel()

	text, err := a.critic(ctx, strokes)
	switch {
	case ctx.Err() != nil && err != nil:
		return
	case err != nil:
		a.logger.Warn("Paint critique failed", zap.String("app_id", appID), zap.Error(err))
		text = "Critique Error: " + err.Error()
	case strings.TrimSpace(text) == "":
		text = fallback
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessions[appID] != sess {
		return
	}
	sess.commentary = strings.TrimSpace(text)
	sess.critiques++
	surface.WriteContent(sess.surface, sess.commentary)
}
