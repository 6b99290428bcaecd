package dos

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"go.uber.org/zap"
)

// DefaultGames maps app ids to the hosted game pages they embed
var DefaultGames = map[string]string{
	"doom": "https://js-dos.com/games/doom.exe.html",
}

// App embeds a hosted DOS game in the window and hands keyboard input to
// its canvas whenever the window comes to front.
type App struct {
	games  map[string]string
	logger *zap.Logger

	mu        sync.Mutex
	instances map[string]window.Surface
}

var (
	_ window.App         = (*App)(nil)
	_ window.Cleaner     = (*App)(nil)
	_ window.FocusTarget = (*App)(nil)
)

// New creates the collaborator. A nil games map uses DefaultGames.
func New(games map[string]string, logger *zap.Logger) *App {
	if games == nil {
		games = DefaultGames
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		games:     games,
		logger:    logger,
		instances: make(map[string]window.Surface),
	}
}

// Init embeds the game unless the window already runs one
func (a *App) Init(ctx context.Context, s window.Surface) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url, ok := a.games[s.ID()]
	if !ok {
		return fmt.Errorf("no game configured for %s", s.ID())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, running := a.instances[s.ID()]; running {
		return nil
	}
	surface.WriteContent(s, fmt.Sprintf(
		`<iframe src="%s" width="100%%" height="100%%" frameborder="0" scrolling="no" allowfullscreen></iframe>`, url))
	a.instances[s.ID()] = s
	a.logger.Debug("Game embedded", zap.String("app_id", s.ID()), zap.String("url", url))
	return nil
}

// FocusInput moves keyboard focus to the game canvas
func (a *App) FocusInput(s window.Surface) {
	a.mu.Lock()
	_, running := a.instances[s.ID()]
	a.mu.Unlock()

	if running {
		s.RequestInputFocus()
	}
}

// Cleanup empties the game container. Safe to call more than once.
func (a *App) Cleanup(appID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.instances[appID]; ok {
		surface.WriteContent(s, "")
		delete(a.instances, appID)
		a.logger.Debug("Game instance cleaned up", zap.String("app_id", appID))
	}
}

// Running reports whether appID has an embedded game
func (a *App) Running(appID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.instances[appID]
	return ok
}

// Supports reports whether a game is configured for appID
func (a *App) Supports(appID string) bool {
	_, ok := a.games[appID]
	return ok
}
