package events

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Envelope {
	t.Helper()
	select {
	case env, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return env
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Envelope{}
	}
}

func TestBusDelivers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	bus := NewBus(DefaultHistory).WithClock(clock)
	sub := bus.Subscribe(4)
	defer sub.Close()

	bus.Observe(window.Event{Kind: window.EventOpened, AppID: "paint", ZIndex: 21})

	env := receive(t, sub)
	assert.Equal(t, window.EventOpened, env.Kind)
	assert.Equal(t, "paint", env.AppID)
	assert.Equal(t, 21, env.ZIndex)
	assert.True(t, strings.HasPrefix(env.ID.String(), "evt_"))
	assert.Equal(t, clock.Now().UTC(), env.Time)
}

func TestBusFiltersKinds(t *testing.T) {
	bus := NewBus(0)
	sub := bus.Subscribe(4, window.EventFocusChanged)
	defer sub.Close()

	bus.Observe(window.Event{Kind: window.EventOpened, AppID: "paint"})
	bus.Observe(window.Event{Kind: window.EventFocusChanged, AppID: "paint"})

	env := receive(t, sub)
	assert.Equal(t, window.EventFocusChanged, env.Kind)
	assert.Empty(t, sub.C())
}

func TestBusDropsForSlowSubscriber(t *testing.T) {
	metrics := monitoring.NewMetrics()
	bus := NewBus(0).WithMetrics(metrics)
	slow := bus.Subscribe(1)
	defer slow.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			bus.Observe(window.Event{Kind: window.EventFocusChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	assert.Equal(t, 4, slow.Dropped())
	assert.Equal(t, int64(4), metrics.GetSnapshot().EventsDropped)
}

func TestBusHistory(t *testing.T) {
	bus := NewBus(2)
	for _, app := range []string{"a", "b", "c"} {
		bus.Observe(window.Event{Kind: window.EventOpened, AppID: app})
	}

	history := bus.History()
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].AppID)
	assert.Equal(t, "c", history[1].AppID)
	assert.Less(t, history[0].ID.String(), history[1].ID.String(), "ids sort in publish order")
}

func TestSubscriptionClose(t *testing.T) {
	bus := NewBus(0)
	sub := bus.Subscribe(1)
	require.Equal(t, 1, bus.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, bus.Subscribers())

	_, ok := <-sub.C()
	assert.False(t, ok)

	assert.NotPanics(t, func() { bus.Observe(window.Event{Kind: window.EventClosed}) })
}

func TestBusClose(t *testing.T) {
	bus := NewBus(4)
	sub := bus.Subscribe(1)

	bus.Close()
	bus.Close()
	_, ok := <-sub.C()
	assert.False(t, ok)

	late := bus.Subscribe(1)
	_, ok = <-late.C()
	assert.False(t, ok, "subscribing to a closed bus yields a closed channel")
	assert.NotPanics(t, late.Close)

	bus.Observe(window.Event{Kind: window.EventOpened})
	assert.Empty(t, bus.History())
}

func TestEnvelopeEncoding(t *testing.T) {
	env := Envelope{
		ID:      "evt_01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Kind:    window.EventNotification,
		AppID:   "mediaPlayer",
		Message: "failed to open mediaPlayer: timeout",
		Time:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := env.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"notification"`)
	assert.NotContains(t, string(data), "z_index")

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, env.Time.Equal(decoded.Time))
	decoded.Time = env.Time
	assert.Equal(t, env, decoded)
}

func TestBusConcurrentPublish(t *testing.T) {
	bus := NewBus(DefaultHistory)
	sub := bus.Subscribe(1000)
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Observe(window.Event{Kind: window.EventFocusChanged})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, sub.C(), 500)
	assert.Len(t, bus.History(), DefaultHistory)
}
