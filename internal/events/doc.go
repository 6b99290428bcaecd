// Package events turns window manager notifications into stamped
// envelopes and fans them out to in-process subscribers such as the
// websocket stream. Envelope ids are monotonic ULIDs, so clients can
// order and de-duplicate what they receive.
//
//	bus := events.NewBus(events.DefaultHistory)
//	manager.WithObserver(bus)
//
//	sub := bus.Subscribe(0, window.EventFocusChanged)
//	defer sub.Close()
//	for env := range sub.C() {
//		...
//	}
package events
