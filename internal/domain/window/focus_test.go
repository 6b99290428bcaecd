package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type focusFixture struct {
	registry *Registry
	taskbar  *Taskbar
	focus    *Focus
}

func newFocusFixture(t *testing.T, ids ...string) *focusFixture {
	t.Helper()
	f := &focusFixture{registry: NewRegistry(), taskbar: NewTaskbar(nil)}
	f.focus = NewFocus(f.registry, NewZOrder(DefaultZIndexBase), f.taskbar)
	for _, id := range ids {
		w := newWindow(t, f.registry, id)
		w.Token = f.taskbar.Add(id, false)
	}
	return f
}

func (f *focusFixture) window(id string) *AppWindow {
	w, _ := f.registry.Get(id)
	return w
}

func TestFocusBringToFront(t *testing.T) {
	f := newFocusFixture(t, "a", "b")

	require.True(t, f.focus.BringToFront("a"))
	require.True(t, f.focus.BringToFront("b"))

	a, b := f.window("a"), f.window("b")
	assert.Equal(t, 21, a.ZIndex)
	assert.Equal(t, 22, b.ZIndex)

	active, ok := f.focus.Active()
	require.True(t, ok)
	assert.Equal(t, "b", active)

	assert.False(t, a.surface.HasClass(ClassActive))
	assert.True(t, b.surface.HasClass(ClassActive))

	entryA, _ := f.taskbar.Entry(a.Token)
	entryB, _ := f.taskbar.Entry(b.Token)
	assert.False(t, entryA.Active)
	assert.True(t, entryB.Active)
}

func TestFocusBringToFrontActiveIsNoop(t *testing.T) {
	f := newFocusFixture(t, "a")
	f.focus.BringToFront("a")
	z := f.window("a").ZIndex

	assert.False(t, f.focus.BringToFront("a"))
	assert.Equal(t, z, f.window("a").ZIndex, "no new z-index for the active window")
}

func TestFocusBringToFrontUnknown(t *testing.T) {
	f := newFocusFixture(t)
	assert.False(t, f.focus.BringToFront("ghost"))
	_, ok := f.focus.Active()
	assert.False(t, ok)
}

func TestFocusBringToFrontShowsHiddenWindow(t *testing.T) {
	f := newFocusFixture(t, "a")
	a := f.window("a")
	a.Display = Hidden

	f.focus.BringToFront("a")
	assert.Equal(t, Visible, a.Display)
	assert.True(t, a.surface.Visible())
}

func TestFocusHooks(t *testing.T) {
	f := newFocusFixture(t, "a", "b")
	var focused []string
	f.focus.OnFocus(func(w *AppWindow) { focused = append(focused, w.ID) })

	f.focus.BringToFront("a")
	f.focus.BringToFront("a")
	f.focus.BringToFront("b")

	assert.Equal(t, []string{"a", "b"}, focused, "hooks run only on actual focus changes")
}

func TestFocusReassign(t *testing.T) {
	f := newFocusFixture(t, "a", "b", "c")
	f.focus.BringToFront("a")
	f.focus.BringToFront("b")
	f.focus.BringToFront("c")

	f.window("c").Display = Hidden
	require.True(t, f.focus.Release("c"))
	f.focus.Reassign()

	active, _ := f.focus.Active()
	assert.Equal(t, "b", active)
	assert.Equal(t, 24, f.window("b").ZIndex, "reassignment raises the new active window")

	f.window("a").Display = Hidden
	f.window("b").Display = Hidden
	require.True(t, f.focus.Release("b"))
	f.focus.Reassign()

	_, ok := f.focus.Active()
	assert.False(t, ok, "no visible window leaves nothing active")
}

func TestFocusRelease(t *testing.T) {
	f := newFocusFixture(t, "a", "b")
	f.focus.BringToFront("a")

	assert.False(t, f.focus.Release("b"), "b is not active")
	assert.True(t, f.focus.Release("a"))
	assert.False(t, f.window("a").surface.HasClass(ClassActive))

	_, ok := f.focus.Active()
	assert.False(t, ok)
}
