package window

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	AppFunc
	cleanups int
}

func (c *countingCleaner) Cleanup(string) { c.cleanups++ }

type panickyCleaner struct{ AppFunc }

func (panickyCleaner) Cleanup(string) { panic("boom") }

type canvasApp struct{ AppFunc }

func (canvasApp) FocusInput(s Surface) { s.RequestInputFocus() }

func TestDispatcherRegister(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register("paint", Noop))

	err := d.Register("paint", Noop)
	assert.True(t, errors.Is(err, ErrAppRegistered))

	assert.Error(t, d.Register("nil", nil))
	assert.ElementsMatch(t, []string{"paint"}, d.Registered())
}

func TestDispatcherLookupFallsBackToNoop(t *testing.T) {
	d := NewDispatcher()
	app := d.Lookup("calculator")
	require.NotNil(t, app)
	assert.NoError(t, app.Init(context.Background(), newFakeSurface("calculator")))
}

func TestDispatcherTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []Phase
		wantErr bool
	}{
		{name: "full cycle", path: []Phase{PhaseOpening, PhaseOpen, PhaseClosing, PhaseClosed}},
		{name: "close while opening", path: []Phase{PhaseOpening, PhaseClosing, PhaseClosed}},
		{name: "open without opening", path: []Phase{PhaseOpen}, wantErr: true},
		{name: "reopen while open", path: []Phase{PhaseOpening, PhaseOpen, PhaseOpening}, wantErr: true},
		{name: "close twice", path: []Phase{PhaseOpening, PhaseClosing, PhaseClosed, PhaseClosed}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher()
			var err error
			for _, phase := range tt.path {
				if err = d.transition("app", phase); err != nil {
					break
				}
			}
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path[len(tt.path)-1], d.Phase("app"))
		})
	}
}

func TestDispatcherInitializeWrapsFailures(t *testing.T) {
	d := NewDispatcher()
	cause := errors.New("api unreachable")
	require.NoError(t, d.Register("failing", AppFunc(func(context.Context, Surface) error { return cause })))
	require.NoError(t, d.Register("panicking", AppFunc(func(context.Context, Surface) error { panic("bad markup") })))

	err := d.initialize(context.Background(), "failing", newFakeSurface("failing"))
	var initErr *InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "failing", initErr.AppID)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrInitialization))
	assert.Equal(t, "failed to open failing: api unreachable", err.Error())

	err = d.initialize(context.Background(), "panicking", newFakeSurface("panicking"))
	require.True(t, errors.As(err, &initErr))
	assert.Contains(t, err.Error(), "bad markup")

	assert.NoError(t, d.initialize(context.Background(), "unknown", newFakeSurface("unknown")))
}

func TestDispatcherCleanup(t *testing.T) {
	d := NewDispatcher()
	counter := &countingCleaner{AppFunc: Noop.(AppFunc)}
	require.NoError(t, d.Register("minesweeper", counter))
	require.NoError(t, d.Register("broken", panickyCleaner{}))

	d.cleanup("minesweeper")
	d.cleanup("minesweeper")
	assert.Equal(t, 2, counter.cleanups)

	assert.NotPanics(t, func() { d.cleanup("broken") })
	assert.NotPanics(t, func() { d.cleanup("no-cleaner") })
}

func TestDispatcherFocusInput(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register("doom", canvasApp{}))

	doom := &AppWindow{ID: "doom", surface: newFakeSurface("doom")}
	plain := &AppWindow{ID: "notepad", surface: newFakeSurface("notepad")}

	d.focusInput(doom)
	d.focusInput(plain)

	assert.Equal(t, 1, doom.surface.(*fakeSurface).focused)
	assert.Equal(t, 0, plain.surface.(*fakeSurface).focused)
}
