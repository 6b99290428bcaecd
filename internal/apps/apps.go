// Package apps assembles the app collaborators and binds them to the
// window dispatcher by catalog id.
package apps

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/calculator"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/dos"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/media"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/minesweeper"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/apps/paint"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/resilience"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Suite holds the collaborators with state of their own. Apps not
// covered here open with window.Noop.
type Suite struct {
	Minesweeper *minesweeper.App
	Paint       *paint.App
	Media       *media.App
	DOS         *dos.App
	Calculator  *calculator.App
}

// Options configures NewSuite
type Options struct {
	Media  config.MediaConfig
	Critic paint.Critic
	Clock  clockwork.Clock
	Logger *logging.Logger
	Seed   uint64 // Non-zero makes minesweeper boards reproducible
}

// NewSuite builds every collaborator
func NewSuite(opts Options) *Suite {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	mediaLog := opts.Logger.ForApp("mediaPlayer")
	breaker := resilience.New("media-api", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to resilience.State) {
			mediaLog.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		Clock: opts.Clock,
	})
	loader := media.NewLoader(opts.Media.APIURL, opts.Media.LoadTimeout, breaker, mediaLog)

	mines := minesweeper.New(opts.Clock, opts.Logger.ForApp("minesweeper"))
	if opts.Seed != 0 {
		mines.WithSeed(opts.Seed)
	}

	return &Suite{
		Minesweeper: mines,
		Paint:       paint.New(opts.Critic, opts.Clock, opts.Logger.ForApp("paint")),
		Media:       media.New(loader, opts.Media.DefaultVideo, mediaLog),
		DOS:         dos.New(nil, opts.Logger.ForApp("dos")),
		Calculator:  calculator.NewApp(opts.Logger.ForApp("calculator")),
	}
}

// Register binds the suite's collaborators to d for every app in cat.
// Focusable apps with a configured game embed it through the DOS
// collaborator.
func Register(d *window.Dispatcher, cat *catalog.Catalog, s *Suite) error {
	for _, id := range cat.IDs() {
		app, err := cat.Get(id)
		if err != nil {
			return err
		}

		var collaborator window.App
		switch {
		case app.ID == "minesweeper" && s.Minesweeper != nil:
			collaborator = s.Minesweeper
		case app.ID == "paint" && s.Paint != nil:
			collaborator = s.Paint
		case app.ID == "mediaPlayer" && s.Media != nil:
			collaborator = s.Media
		case app.ID == "calculator" && s.Calculator != nil:
			collaborator = s.Calculator
		case app.Focusable && s.DOS != nil && s.DOS.Supports(app.ID):
			collaborator = s.DOS
		default:
			continue
		}
		if err := d.Register(app.ID, collaborator); err != nil {
			return err
		}
	}
	return nil
}
