package minesweeper

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrNoGame is returned for moves in a window without a running game
var ErrNoGame = errors.New("no game")

// App is the minesweeper collaborator. Each window gets a fresh game;
// the game clock runs from the first reveal until the round ends or the
// window closes.
type App struct {
	mu       sync.Mutex
	sessions map[string]*session
	clock    clockwork.Clock
	logger   *zap.Logger
	newRNG   func() *rand.Rand
}

type session struct {
	game    *Game
	surface window.Surface
	stop    chan struct{}
	ticking bool
}

var (
	_ window.App     = (*App)(nil)
	_ window.Cleaner = (*App)(nil)
)

// New creates the collaborator
func New(clock clockwork.Clock, logger *zap.Logger) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		sessions: make(map[string]*session),
		clock:    clock,
		logger:   logger,
	}
}

// WithSeed makes mine placement reproducible
func (a *App) WithSeed(seed uint64) *App {
	a.newRNG = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	return a
}

// Init starts a new game in the window. Nothing is started when ctx is
// already cancelled.
func (a *App) Init(ctx context.Context, s window.Surface) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rng *rand.Rand
	if a.newRNG != nil {
		rng = a.newRNG()
	}
	game, err := NewGame(DefaultRows, DefaultCols, DefaultMines, rng)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if old, ok := a.sessions[s.ID()]; ok {
		a.stopLocked(old)
	}
	sess := &session{game: game, surface: s}
	a.sessions[s.ID()] = sess
	a.render(sess)
	return nil
}

// Cleanup stops the game clock. Safe to call more than once.
func (a *App) Cleanup(appID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sess, ok := a.sessions[appID]; ok {
		a.stopLocked(sess)
		delete(a.sessions, appID)
		a.logger.Debug("Minesweeper session closed", zap.String("app_id", appID))
	}
}

// Reveal uncovers a cell in the game of appID
func (a *App) Reveal(appID string, r, c int) (Status, error) {
	return a.play(appID, func(g *Game) (Status, error) { return g.Reveal(r, c) })
}

// ToggleFlag flags a cell in the game of appID
func (a *App) ToggleFlag(appID string, r, c int) (Status, error) {
	return a.play(appID, func(g *Game) (Status, error) { return g.ToggleFlag(r, c) })
}

// Reset starts a new round in the game of appID
func (a *App) Reset(appID string) error {
	_, err := a.play(appID, func(g *Game) (Status, error) {
		g.Reset()
		return g.Status(), nil
	})
	return err
}

// Board returns the rendered board of appID
func (a *App) Board(appID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if !ok {
		return "", false
	}
	return sess.game.Render(), true
}

// Ticking reports whether the game clock of appID runs
func (a *App) Ticking(appID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	return ok && sess.ticking
}

func (a *App) play(appID string, move func(*Game) (Status, error)) (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[appID]
	if !ok {
		return "", fmt.Errorf("%w for %s", ErrNoGame, appID)
	}

	status, err := move(sess.game)
	switch status {
	case StatusPlaying:
		a.startLocked(sess)
	default:
		a.stopLocked(sess)
	}
	a.render(sess)
	return status, err
}

// startLocked starts the one-second game clock. Must hold mu.
func (a *App) startLocked(sess *session) {
	if sess.ticking {
		return
	}
	sess.ticking = true
	sess.stop = make(chan struct{})

	ticker := a.clock.NewTicker(time.Second)
	go func(stop <-chan struct{}) {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				a.mu.Lock()
				select {
				case <-stop:
				default:
					sess.game.Tick()
					a.render(sess)
				}
				a.mu.Unlock()
			}
		}
	}(sess.stop)
}

// stopLocked stops the game clock. Must hold mu.
func (a *App) stopLocked(sess *session) {
	if !sess.ticking {
		return
	}
	sess.ticking = false
	close(sess.stop)
}

func (a *App) render(sess *session) {
	surface.WriteContent(sess.surface, sess.game.Render())
}
