package window

import "sort"

// TaskbarToken is an opaque handle to a taskbar entry. Zero is no entry.
type TaskbarToken uint64

// TaskbarEntry is the taskbar representation of one open window
type TaskbarEntry struct {
	Token  TaskbarToken `json:"token"`
	AppID  string       `json:"app_id"`
	Title  string       `json:"title"`
	Icon   string       `json:"icon,omitempty"`
	Active bool         `json:"active"`
}

// Labeler supplies the title and icon shown on a taskbar button
type Labeler interface {
	Label(appID string) (title, icon string)
}

type idLabeler struct{}

func (idLabeler) Label(appID string) (string, string) {
	return appID, ""
}

// Taskbar mirrors registry membership and focus into taskbar entries.
// Entries are created and destroyed in lockstep with registry entries.
type Taskbar struct {
	entries  map[TaskbarToken]*TaskbarEntry
	next     TaskbarToken
	labels   Labeler
	observer Observer
}

// NewTaskbar creates an empty taskbar. A nil labeler labels entries with
// the app identifier.
func NewTaskbar(labels Labeler) *Taskbar {
	if labels == nil {
		labels = idLabeler{}
	}
	return &Taskbar{
		entries:  make(map[TaskbarToken]*TaskbarEntry),
		labels:   labels,
		observer: nopObserver{},
	}
}

// Add creates an entry for appID and returns its token
func (t *Taskbar) Add(appID string, active bool) TaskbarToken {
	t.next++
	title, icon := t.labels.Label(appID)
	if title == "" {
		title = appID
	}
	t.entries[t.next] = &TaskbarEntry{
		Token:  t.next,
		AppID:  appID,
		Title:  title,
		Icon:   icon,
		Active: active,
	}
	t.observer.Observe(Event{Kind: EventTaskbarAdded, AppID: appID})
	return t.next
}

// Remove destroys the entry behind token
func (t *Taskbar) Remove(token TaskbarToken) bool {
	entry, ok := t.entries[token]
	if !ok {
		return false
	}
	delete(t.entries, token)
	t.observer.Observe(Event{Kind: EventTaskbarRemoved, AppID: entry.AppID})
	return true
}

// SetActive toggles the highlight of the entry behind token
func (t *Taskbar) SetActive(token TaskbarToken, active bool) {
	if entry, ok := t.entries[token]; ok {
		entry.Active = active
	}
}

// Entry returns a copy of the entry behind token
func (t *Taskbar) Entry(token TaskbarToken) (TaskbarEntry, bool) {
	entry, ok := t.entries[token]
	if !ok {
		return TaskbarEntry{}, false
	}
	return *entry, true
}

// Len returns the number of entries
func (t *Taskbar) Len() int {
	return len(t.entries)
}

// Entries returns copies of all entries in creation order
func (t *Taskbar) Entries() []TaskbarEntry {
	list := make([]TaskbarEntry, 0, len(t.entries))
	for _, entry := range t.entries {
		list = append(list, *entry)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Token < list[j].Token })
	return list
}
