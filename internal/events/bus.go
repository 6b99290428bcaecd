package events

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/desktop/internal/shared/id"
	"github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 64

// DefaultHistory is the number of envelopes kept for late subscribers
const DefaultHistory = 128

// Envelope is a desktop event as delivered to subscribers
type Envelope struct {
	ID      id.EventID       `json:"id"`
	Kind    window.EventKind `json:"kind"`
	AppID   string           `json:"app_id,omitempty"`
	ZIndex  int              `json:"z_index,omitempty"`
	Message string           `json:"message,omitempty"`
	Time    time.Time        `json:"time"`
}

// Encode serializes the envelope as JSON
func (e Envelope) Encode() ([]byte, error) {
	return sonic.Marshal(e)
}

// Decode parses a JSON envelope
func Decode(data []byte) (Envelope, error) {
	var e Envelope
	err := sonic.Unmarshal(data, &e)
	return e, err
}

// Bus fans window manager events out to subscribers. Publishing never
// blocks: a subscriber whose queue is full misses the event.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  uint64
	history []Envelope
	limit   int
	closed  bool

	ids     *id.Generator
	clock   clockwork.Clock
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

var _ window.Observer = (*Bus)(nil)

// NewBus creates an event bus keeping up to history past envelopes
func NewBus(history int) *Bus {
	if history < 0 {
		history = 0
	}
	return &Bus{
		subs:   make(map[uint64]*Subscription),
		limit:  history,
		ids:    id.Default(),
		clock:  clockwork.NewRealClock(),
		logger: zap.NewNop(),
	}
}

// WithClock sets the clock stamping envelopes
func (b *Bus) WithClock(clock clockwork.Clock) *Bus {
	b.clock = clock
	return b
}

// WithLogger sets the bus logger
func (b *Bus) WithLogger(logger *zap.Logger) *Bus {
	b.logger = logger
	return b
}

// WithMetrics counts dropped deliveries
func (b *Bus) WithMetrics(metrics *monitoring.Metrics) *Bus {
	b.metrics = metrics
	return b
}

// Observe implements window.Observer
func (b *Bus) Observe(e window.Event) {
	b.Publish(Envelope{
		Kind:    e.Kind,
		AppID:   e.AppID,
		ZIndex:  e.ZIndex,
		Message: e.Message,
	})
}

// Publish stamps env with an id and time and delivers it
func (b *Bus) Publish(env Envelope) Envelope {
	env.ID = id.EventID(b.ids.GenerateWithPrefix(id.EventPrefix))
	if env.Time.IsZero() {
		env.Time = b.clock.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return env
	}

	if b.limit > 0 {
		if len(b.history) == b.limit {
			copy(b.history, b.history[1:])
			b.history = b.history[:b.limit-1]
		}
		b.history = append(b.history, env)
	}

	for _, sub := range b.subs {
		if !sub.accepts(env.Kind) {
			continue
		}
		select {
		case sub.ch <- env:
		default:
			sub.dropped++
			b.metrics.IncEventsDropped()
			b.logger.Debug("Dropped event for slow subscriber",
				zap.Uint64("subscriber", sub.id),
				zap.String("kind", string(env.Kind)),
			)
		}
	}
	return env
}

// Subscribe registers a subscriber for kinds, or every kind when none
// are given
func (b *Bus) Subscribe(buffer int, kinds ...window.EventKind) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:  b.nextID,
		ch:  make(chan Envelope, buffer),
		bus: b,
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[window.EventKind]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// History returns the retained envelopes, oldest first
func (b *Bus) History() []Envelope {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Envelope, len(b.history))
	copy(out, b.history)
	return out
}

// Subscribers returns the number of live subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close ends every subscription. Later publishes are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for key, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, key)
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.id]; ok {
		delete(b.subs, sub.id)
		close(sub.ch)
	}
}

// Subscription is one consumer of the bus
type Subscription struct {
	id      uint64
	ch      chan Envelope
	kinds   map[window.EventKind]struct{}
	dropped int // Protected by bus.mu
	bus     *Bus
	once    sync.Once
}

// C delivers envelopes until the subscription or the bus is closed
func (s *Subscription) C() <-chan Envelope {
	return s.ch
}

// Dropped returns how many envelopes this subscriber missed
func (s *Subscription) Dropped() int {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()

	return s.dropped
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.bus.unsubscribe(s) })
}

func (s *Subscription) accepts(kind window.EventKind) bool {
	if s.kinds == nil {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}
