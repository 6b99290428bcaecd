package window

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	newWindow(t, r, "paint")

	err := r.Register(&AppWindow{ID: "paint"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyOpen))

	var already *AlreadyOpenError
	require.True(t, errors.As(err, &already))
	assert.Equal(t, "paint", already.AppID)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	w := newWindow(t, r, "notepad")

	got, err := r.Unregister("notepad")
	require.NoError(t, err)
	assert.Same(t, w, got)
	assert.False(t, r.Has("notepad"))

	_, err = r.Unregister("notepad")
	assert.True(t, errors.Is(err, ErrNotOpen))

	var notOpen *NotOpenError
	require.True(t, errors.As(err, &notOpen))
	assert.Equal(t, "notepad", notOpen.AppID)
}

func TestRegistryListOrdersByZIndex(t *testing.T) {
	r := NewRegistry()
	newWindow(t, r, "a").ZIndex = 30
	newWindow(t, r, "b").ZIndex = 10
	newWindow(t, r, "c").ZIndex = 20

	var ids []string
	for _, w := range r.List() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestRegistryTopVisible(t *testing.T) {
	r := NewRegistry()

	_, ok := r.TopVisible()
	assert.False(t, ok, "empty registry has no top window")

	a := newWindow(t, r, "a")
	a.ZIndex = 21
	b := newWindow(t, r, "b")
	b.ZIndex = 25
	b.Display = Hidden
	c := newWindow(t, r, "c")
	c.ZIndex = 23

	top, ok := r.TopVisible()
	require.True(t, ok)
	assert.Equal(t, "c", top.ID, "hidden windows are skipped")

	a.Display = Hidden
	c.Display = Hidden
	_, ok = r.TopVisible()
	assert.False(t, ok)
}
