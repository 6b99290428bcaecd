package media

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"go.uber.org/zap"
)

var (
	ErrInvalidVideo = errors.New("invalid YouTube URL or video ID")
	ErrNoPlayer     = errors.New("no player")
)

const (
	msgConnecting = "Connecting to YouTube..."
	msgPrompt     = "Enter a YouTube URL or Video ID and click 'Load'."
	msgClosed     = "Player closed. Enter a YouTube URL to load."
)

// PlayerState mirrors the embedded player states
type PlayerState string

const (
	StateUnstarted PlayerState = "unstarted"
	StatePlaying   PlayerState = "playing"
	StatePaused    PlayerState = "paused"
	StateEnded     PlayerState = "ended"
)

// Player is one embedded video player
type Player struct {
	VideoID string      `json:"video_id"`
	State   PlayerState `json:"state"`
}

// App is the media player collaborator
type App struct {
	loader       *Loader
	defaultVideo string
	logger       *zap.Logger

	mu       sync.Mutex
	players  map[string]*Player
	surfaces map[string]window.Surface
}

var (
	_ window.App     = (*App)(nil)
	_ window.Cleaner = (*App)(nil)
)

// New creates the collaborator. An empty defaultVideo leaves new
// players waiting for a URL.
func New(loader *Loader, defaultVideo string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		loader:       loader,
		defaultVideo: defaultVideo,
		logger:       logger,
		players:      make(map[string]*Player),
		surfaces:     make(map[string]window.Surface),
	}
}

// Init loads the player API and starts the default video. A window
// closed while Init runs cancels ctx; no player is created then.
func (a *App) Init(ctx context.Context, s window.Surface) error {
	a.mu.Lock()
	if err := ctx.Err(); err != nil {
		a.mu.Unlock()
		return err
	}
	a.surfaces[s.ID()] = s
	surface.WriteContent(s, msgConnecting)
	a.mu.Unlock()

	loadErr := a.loader.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if loadErr != nil {
		surface.WriteContent(s, "Error: Could not load YouTube Player API. "+loadErr.Error())
		return loadErr
	}
	if a.defaultVideo == "" {
		surface.WriteContent(s, msgPrompt)
		return nil
	}
	a.createLocked(s.ID(), a.defaultVideo)
	return nil
}

// Cleanup destroys the player of appID. Safe to call more than once.
func (a *App) Cleanup(appID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.players[appID]; ok {
		delete(a.players, appID)
		a.logger.Debug("Destroyed player", zap.String("app_id", appID))
	}
	if s, ok := a.surfaces[appID]; ok {
		surface.WriteContent(s, msgClosed)
		delete(a.surfaces, appID)
	}
}

// LoadVideo replaces the player of appID with one for urlOrID
func (a *App) LoadVideo(appID, urlOrID string) (Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.surfaces[appID]
	if !ok || !a.loader.Loaded() {
		return Player{}, fmt.Errorf("%w for %s", ErrNoPlayer, appID)
	}

	videoID, ok := VideoID(urlOrID)
	if !ok {
		delete(a.players, appID)
		surface.WriteContent(s, "Invalid YouTube URL or Video ID.")
		return Player{}, ErrInvalidVideo
	}
	return *a.createLocked(appID, videoID), nil
}

// Play resumes playback
func (a *App) Play(appID string) (Player, error) {
	return a.control(appID, func(p *Player) {
		p.State = StatePlaying
	})
}

// Pause pauses playback
func (a *App) Pause(appID string) (Player, error) {
	return a.control(appID, func(p *Player) {
		if p.State == StatePlaying {
			p.State = StatePaused
		}
	})
}

// Stop ends playback
func (a *App) Stop(appID string) (Player, error) {
	return a.control(appID, func(p *Player) {
		p.State = StateEnded
	})
}

// Player returns the player of appID
func (a *App) Player(appID string) (Player, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[appID]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (a *App) control(appID string, fn func(*Player)) (Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[appID]
	if !ok {
		return Player{}, fmt.Errorf("%w for %s", ErrNoPlayer, appID)
	}
	fn(p)
	a.renderLocked(appID, p)
	return *p, nil
}

// createLocked starts videoID in a fresh player. Must hold mu.
func (a *App) createLocked(appID, videoID string) *Player {
	p := &Player{VideoID: videoID, State: StatePlaying}
	a.players[appID] = p
	a.renderLocked(appID, p)
	return p
}

func (a *App) renderLocked(appID string, p *Player) {
	if s, ok := a.surfaces[appID]; ok {
		surface.WriteContent(s, fmt.Sprintf("Video %s [%s]", p.VideoID, p.State))
	}
}
