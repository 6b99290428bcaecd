package window

import "context"

// Display is the visibility of an open window
type Display int

const (
	// Hidden means minimized or not yet shown
	Hidden Display = iota
	// Visible means shown on the desktop
	Visible
)

// String returns the string representation of the display state
func (d Display) String() string {
	switch d {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return "unknown"
	}
}

// MarshalText encodes the display state for JSON APIs
func (d Display) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Phase is the lifecycle phase of an app identifier
type Phase string

const (
	PhaseClosed  Phase = "closed"
	PhaseOpening Phase = "opening"
	PhaseOpen    Phase = "open"
	PhaseClosing Phase = "closing"
)

// Surface CSS-like classes toggled by the manager
const (
	ClassActive     = "active"
	ClassAnimateIn  = "animate-in"
	ClassAnimateOut = "animate-out"
)

// Geometry is a window's position and size in pixels
type Geometry struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Viewport describes the desktop area windows are laid out in
type Viewport struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	TaskbarHeight int `json:"taskbar_height"`
}

// Maximized returns the geometry of a maximized window: the full viewport
// minus the taskbar reservation.
func (v Viewport) Maximized() Geometry {
	height := v.Height - v.TaskbarHeight
	if height < 0 {
		height = 0
	}
	return Geometry{Top: 0, Left: 0, Width: v.Width, Height: height}
}

// Surface is the visual container of one app window.
// Implementations must be safe for concurrent use: the deferred close
// animation touches a surface from a timer goroutine.
type Surface interface {
	ID() string
	Show()
	Hide()
	Visible() bool
	Geometry() Geometry
	SetGeometry(g Geometry)
	SetZIndex(z int)
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
	// MarkOpened records the generation of the window currently using the
	// surface. Deferred work compares it before touching the surface.
	MarkOpened(generation uint64)
	OpenedGeneration() uint64
	RequestInputFocus()
}

// Surfaces locates the visual container for an app identifier
type Surfaces interface {
	Lookup(appID string) (Surface, bool)
}

// App is the collaborator contract for one application type.
// Init may block on network or other slow work; it runs outside the
// manager lock and the window is already visible while it runs.
type App interface {
	Init(ctx context.Context, s Surface) error
}

// Cleaner is implemented by apps that allocate resources during Init.
// Cleanup must be idempotent and safe to call when Init never ran.
// It is called with the manager lock held and must not call back into
// the Manager.
type Cleaner interface {
	Cleanup(appID string)
}

// FocusTarget is implemented by apps embedding a focusable surface
// (game canvas). FocusInput runs after the window is brought to front.
type FocusTarget interface {
	FocusInput(s Surface)
}

// AppFunc adapts a plain function to the App interface
type AppFunc func(ctx context.Context, s Surface) error

// Init calls f(ctx, s)
func (f AppFunc) Init(ctx context.Context, s Surface) error {
	return f(ctx, s)
}

// Noop is the collaborator used for app identifiers without one
var Noop App = AppFunc(func(context.Context, Surface) error { return nil })

// AppWindow is the manager's record of one open app
type AppWindow struct {
	ID         string
	Display    Display
	ZIndex     int
	Maximized  bool
	Saved      *Geometry // Set only while maximized
	Token      TaskbarToken
	Generation uint64
	Phase      Phase
	InitErr    error

	surface Surface
	cancel  context.CancelFunc
}

// Surface returns the window's visual container
func (w *AppWindow) Surface() Surface {
	return w.surface
}

// WindowState is a read-only snapshot of one window for UI layers
type WindowState struct {
	ID         string    `json:"id"`
	Display    Display   `json:"display"`
	ZIndex     int       `json:"z_index"`
	Maximized  bool      `json:"maximized"`
	Active     bool      `json:"active"`
	Phase      Phase     `json:"phase"`
	Geometry   Geometry  `json:"geometry"`
	Saved      *Geometry `json:"saved_geometry,omitempty"`
	Generation uint64    `json:"generation"`
	InitError  string    `json:"init_error,omitempty"`
}

func (w *AppWindow) state(active bool) WindowState {
	st := WindowState{
		ID:         w.ID,
		Display:    w.Display,
		ZIndex:     w.ZIndex,
		Maximized:  w.Maximized,
		Active:     active,
		Phase:      w.Phase,
		Generation: w.Generation,
	}
	if w.surface != nil {
		st.Geometry = w.surface.Geometry()
	}
	if w.Saved != nil {
		saved := *w.Saved
		st.Saved = &saved
	}
	if w.InitErr != nil {
		st.InitError = w.InitErr.Error()
	}
	return st
}
