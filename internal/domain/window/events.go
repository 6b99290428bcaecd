package window

// EventKind names a desktop state change
type EventKind string

const (
	EventOpened         EventKind = "window.opened"
	EventReopened       EventKind = "window.reopened"
	EventInitialized    EventKind = "window.initialized"
	EventClosed         EventKind = "window.closed"
	EventHidden         EventKind = "window.hidden"
	EventMinimized      EventKind = "window.minimized"
	EventMaximized      EventKind = "window.maximized"
	EventRestored       EventKind = "window.restored"
	EventFocusChanged   EventKind = "focus.changed"
	EventFocusCleared   EventKind = "focus.cleared"
	EventTaskbarAdded   EventKind = "taskbar.added"
	EventTaskbarRemoved EventKind = "taskbar.removed"
	EventNotification   EventKind = "notification"
)

// Event describes one change for layers mirroring the desktop
type Event struct {
	Kind    EventKind
	AppID   string
	ZIndex  int
	Message string
}

// Observer receives desktop events. Observe is called with the manager
// lock held and must not block.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(e Event)

// Observe calls f(e)
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
