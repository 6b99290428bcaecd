package paint

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/surface"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

type recordingCritic struct {
	mu    sync.Mutex
	calls [][]string
	reply string
	err   error
}

func (c *recordingCritic) critique(_ context.Context, strokes []string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, strokes)
	return c.reply, c.err
}

func (c *recordingCritic) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func start(t *testing.T, critic Critic) (*App, *surface.Element, fakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	app := New(critic, clock, nil)
	el := surface.NewElement("paint", window.Geometry{})
	el.Show()
	require.NoError(t, app.Init(context.Background(), el))
	clock.BlockUntil(1)
	return app, el, clock
}

func TestCritiqueOnInterval(t *testing.T) {
	critic := &recordingCritic{reply: "  Bold use of nothing.  "}
	app, el, clock := start(t, critic.critique)
	assert.Equal(t, warmup, el.Content())

	text, n, ok := app.Commentary("paint")
	require.True(t, ok)
	assert.Equal(t, warmup, text)
	assert.Zero(t, n)

	app.Draw("paint", "line 0,0 10,10")
	clock.Advance(DefaultInterval)

	assert.Eventually(t, func() bool {
		_, n, _ := app.Commentary("paint")
		return n == 1
	}, time.Second, 5*time.Millisecond)

	text, _, _ = app.Commentary("paint")
	assert.Equal(t, "Bold use of nothing.", text)
	assert.Equal(t, text, el.Content())
	assert.Equal(t, [][]string{{"line 0,0 10,10"}}, critic.calls)
}

func TestCritiqueSkippedWhileHidden(t *testing.T) {
	critic := &recordingCritic{reply: "meh"}
	_, el, clock := start(t, critic.critique)
	el.Hide()

	clock.Advance(DefaultInterval)
	assert.Never(t, func() bool { return critic.count() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestCritiqueError(t *testing.T) {
	critic := &recordingCritic{err: errors.New("quota exceeded")}
	app, _, clock := start(t, critic.critique)

	clock.Advance(DefaultInterval)
	assert.Eventually(t, func() bool {
		text, _, _ := app.Commentary("paint")
		return text == "Critique Error: quota exceeded"
	}, time.Second, 5*time.Millisecond)
}

func TestCleanupStopsCritique(t *testing.T) {
	critic := &recordingCritic{reply: "meh"}
	app, _, clock := start(t, critic.critique)

	app.Cleanup("paint")
	app.Cleanup("paint")
	_, _, ok := app.Commentary("paint")
	assert.False(t, ok)
	assert.False(t, app.Draw("paint", "dot"))

	clock.Advance(DefaultInterval)
	assert.Never(t, func() bool { return critic.count() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestClear(t *testing.T) {
	critic := &recordingCritic{reply: "Minimalism."}
	app, _, clock := start(t, critic.critique)

	app.Draw("paint", "dot 1,1")
	require.True(t, app.Clear("paint"))
	clock.Advance(DefaultInterval)

	assert.Eventually(t, func() bool { return critic.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, critic.calls[0])
}

func TestDefaultCritic(t *testing.T) {
	app, _, clock := start(t, nil)

	clock.Advance(DefaultInterval)
	assert.Eventually(t, func() bool {
		text, _, _ := app.Commentary("paint")
		return text == fallback
	}, time.Second, 5*time.Millisecond)
}

func TestInitWithCancelledContext(t *testing.T) {
	critic := &recordingCritic{reply: "meh"}
	clock := clockwork.NewFakeClock()
	app := New(critic.critique, clock, nil)
	el := surface.NewElement("paint", window.Geometry{})
	el.Show()

	// Window closed before Init got to run.
	app.Cleanup("paint")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.Init(ctx, el)
	assert.ErrorIs(t, err, context.Canceled)

	_, _, ok := app.Commentary("paint")
	assert.False(t, ok)
	assert.Empty(t, el.Content())

	clock.Advance(DefaultInterval)
	assert.Never(t, func() bool { return critic.count() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestCritiqueSkipsStaleSession(t *testing.T) {
	critic := &recordingCritic{reply: "meh"}
	app, _, _ := start(t, critic.critique)

	app.mu.Lock()
	sess := app.sessions["paint"]
	app.mu.Unlock()
	require.NotNil(t, sess)

	app.Cleanup("paint")

	// A tick that raced the cancel must not reach the critic.
	app.critique(context.Background(), "paint", sess)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	app.critique(cancelled, "paint", sess)

	assert.Zero(t, critic.count())
}
