// Package window manages the windows of the simulated desktop shell.
//
// A Manager owns one desktop: the registry of open windows, the z-order
// allocator, the single active window, the taskbar entries and the
// per-app lifecycle (Closed → Opening → Open → Closing → Closed).
//
// Invariants held after every operation:
//   - at most one window per app identifier
//   - every bring-to-front gets a z-index above all previous ones
//   - the active window is the visible window with the highest z-index,
//     and nothing is active when no window is visible
//
// App collaborators plug in through the App, Cleaner and FocusTarget
// interfaces. Init runs in the background after the window is shown; a
// completion arriving after its window was closed is discarded by
// identifier and generation.
//
// Example usage:
//
//	dispatcher := window.NewDispatcher()
//	dispatcher.Register("minesweeper", minesweeper.New(clock, logger))
//	manager := window.NewManager(window.DefaultConfig(), desktop, dispatcher, catalog)
//	launch, err := manager.OpenApp(ctx, "minesweeper")
//	if err != nil {
//		// element missing
//	}
//	if err := launch.Wait(ctx); err != nil {
//		// init failed, window stays open
//	}
package window
