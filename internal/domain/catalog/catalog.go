package catalog

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrUnknownApp    = errors.New("unknown app")
	ErrUnsupported   = errors.New("unsupported catalog format")
	ErrInvalidEntry  = errors.New("invalid catalog entry")
	ErrDuplicateApp  = errors.New("duplicate app id")
	titleSanitizer   = bluemonday.StrictPolicy()
	maxTitleRunes    = 64
	supportedFormats = []string{".yaml", ".yml", ".toml"}
)

// App describes one desktop application
type App struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Title string `json:"title" yaml:"title" toml:"title"`
	Icon  string `json:"icon,omitempty" yaml:"icon" toml:"icon"`
	// Focusable apps embed a canvas that receives keyboard input when
	// the window comes to front
	Focusable bool `json:"focusable" yaml:"focusable" toml:"focusable"`
	Hidden    bool `json:"hidden,omitempty" yaml:"hidden" toml:"hidden"`
}

// file is the on-disk catalog layout
type file struct {
	Apps []App `yaml:"apps" toml:"apps"`
}

// Catalog is the table of known apps. It labels taskbar buttons and
// decides which window elements exist.
type Catalog struct {
	mu   sync.RWMutex
	apps map[string]App
}

// New creates a catalog from apps. Titles are sanitized.
func New(apps ...App) (*Catalog, error) {
	c := &Catalog{apps: make(map[string]App, len(apps))}
	for _, app := range apps {
		if _, exists := c.apps[app.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateApp, app.ID)
		}
		if err := c.put(app); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns the stock desktop catalog
func Default() *Catalog {
	c, err := New(Defaults()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML or TOML catalog file and merges it over the defaults.
// Entries with a known id override the stock entry; new ids are added.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	overrides, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for _, app := range overrides {
		if err := c.merge(app); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return c, nil
}

// Parse decodes catalog entries; ext selects the format
func Parse(data []byte, ext string) ([]App, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnsupported, ext, strings.Join(supportedFormats, ", "))
	}
	return f.Apps, nil
}

// Get returns the app with id
func (c *Catalog) Get(id string) (App, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	app, ok := c.apps[id]
	if !ok {
		return App{}, fmt.Errorf("%w: %s", ErrUnknownApp, id)
	}
	return app, nil
}

// Has reports whether id is a known app
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.apps[id]
	return ok
}

// List returns the visible apps ordered by id
func (c *Catalog) List() []App {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]App, 0, len(c.apps))
	for _, app := range c.apps {
		if !app.Hidden {
			list = append(list, app)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// IDs returns every app id, hidden ones included, ordered
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.apps))
	for id := range c.apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Label implements window.Labeler
func (c *Catalog) Label(appID string) (string, string) {
	app, err := c.Get(appID)
	if err != nil {
		return appID, ""
	}
	return app.Title, app.Icon
}

// merge overlays non-empty fields of app onto the existing entry
func (c *Catalog) merge(app App) error {
	c.mu.RLock()
	current, exists := c.apps[app.ID]
	c.mu.RUnlock()

	if exists {
		if app.Title == "" {
			app.Title = current.Title
		}
		if app.Icon == "" {
			app.Icon = current.Icon
		}
	}
	return c.put(app)
}

func (c *Catalog) put(app App) error {
	if app.ID == "" || strings.ContainsAny(app.ID, " /\t") {
		return fmt.Errorf("%w: id %q", ErrInvalidEntry, app.ID)
	}
	app.Title = SanitizeTitle(app.Title)
	if app.Title == "" {
		app.Title = app.ID
	}

	c.mu.Lock()
	c.apps[app.ID] = app
	c.mu.Unlock()
	return nil
}

// SanitizeTitle strips markup from a window title and bounds its length
func SanitizeTitle(title string) string {
	clean := html.UnescapeString(titleSanitizer.Sanitize(title))
	clean = strings.Join(strings.Fields(clean), " ")

	if runes := []rune(clean); len(runes) > maxTitleRunes {
		clean = string(runes[:maxTitleRunes])
	}
	return clean
}
