// Package app wires configuration, template storage and the recognizers into
// the pathsense tracking pipeline.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/pathsense/internal/config"
	"github.com/ayusman/pathsense/internal/geom"
	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/store"
	"github.com/ayusman/pathsense/internal/tracker"
)

var (
	// ErrEmptyName is returned when training a template without a name.
	ErrEmptyName = errors.New("template name is required")
	// ErrNoStore is returned by operations that need a template store.
	ErrNoStore = errors.New("no template store configured")
)

// Config holds the dependencies of an App.
type Config struct {
	Settings *config.Config // nil uses config.Default()
	Store    *store.Store   // nil keeps trained templates in memory only
	Logger   *slog.Logger   // nil uses slog.Default()
}

// App owns the recognizers shared by every tracker it creates, and keeps
// them in sync with the template store.
type App struct {
	settings *config.Config
	store    *store.Store
	logger   *slog.Logger
	trainer  *gesture.Trainer

	dollar *gesture.DollarOne
	dtw    *gesture.DTWRecognizer // nil unless recognizer.enable_dtw is set

	mu     sync.Mutex
	custom map[string]string // template name -> installed template id
}

// New creates a new App instance with the given configuration.
func New(c Config) *App {
	settings := c.Settings
	if settings == nil {
		settings = config.Default()
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		settings: settings,
		store:    c.Store,
		logger:   logger,
		trainer:  gesture.NewTrainer(),
		dollar:   gesture.NewDollarOne(settings.Recognizer.Threshold),
		custom:   make(map[string]string),
	}
	if settings.Recognizer.EnableDTW {
		a.dtw = gesture.NewDTWRecognizer(settings.Recognizer.DTWTolerance)
	}
	return a
}

// Settings returns the configuration in use.
func (a *App) Settings() *config.Config {
	return a.settings
}

// Recognizers returns the recognizer registry handed to new trackers, in
// tie-breaking order.
func (a *App) Recognizers() []gesture.Recognizer {
	rs := []gesture.Recognizer{a.dollar}
	if a.dtw != nil {
		rs = append(rs, a.dtw)
	}
	return rs
}

// NewTracker creates a tracker using the configured parameters, the App's
// logger and its recognizers. opts are applied after those defaults.
func (a *App) NewTracker(opts ...tracker.Option) *tracker.Tracker {
	base := []tracker.Option{
		tracker.WithLogger(a.logger),
		tracker.WithRecognizers(a.Recognizers()...),
	}
	return tracker.New(a.settings.TrackerConfig(), append(base, opts...)...)
}

// LoadTemplates installs every stored template into the recognizers and
// returns how many were loaded.
func (a *App) LoadTemplates() (int, error) {
	if a.store == nil {
		return 0, nil
	}

	templates, err := a.store.Gestures().LoadTemplates()
	if err != nil {
		return 0, fmt.Errorf("failed to load templates: %w", err)
	}
	for _, t := range templates {
		a.install(t)
	}

	a.logger.Info("loaded templates", "count", len(templates), "db", a.store.Path())
	return len(templates), nil
}

// Train builds a CUSTOM template named name from strokes, persists it with
// its strokes when a store is configured, and installs it into the
// recognizers. A template with the same name is replaced.
func (a *App) Train(name string, strokes [][]geom.Sample) (*gesture.Template, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	raw := make([]json.RawMessage, 0, len(strokes))
	for _, s := range strokes {
		sample := gesture.StrokeSample{Points: s}
		if len(s) > 0 {
			sample.RecordedAt = s[0].TimestampMs
		}
		data, err := json.Marshal(sample)
		if err != nil {
			return nil, fmt.Errorf("failed to encode stroke: %w", err)
		}
		raw = append(raw, data)
	}

	tmpl, err := a.trainer.TrainSamples(uuid.NewString(), name, raw)
	if err != nil {
		return nil, err
	}

	if a.store != nil {
		if _, err := a.store.Gestures().SaveTemplate(tmpl, raw); err != nil {
			return nil, err
		}
	}

	a.install(tmpl)
	a.logger.Info("trained template", "name", name, "id", tmpl.ID, "strokes", len(raw))
	return tmpl, nil
}

// Retrain rebuilds the named template from its stored training strokes,
// keeping its ID, and reinstalls it. It returns store.ErrNotFound if no
// such template is stored.
func (a *App) Retrain(name string) (*gesture.Template, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}

	g, err := a.store.Gestures().GetByName(name)
	if err != nil {
		return nil, err
	}
	strokes, err := a.store.Strokes().GetByGestureID(g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read strokes for %q: %w", name, err)
	}

	raw := make([]json.RawMessage, len(strokes))
	for i, s := range strokes {
		raw[i] = s.Data
	}
	tmpl, err := a.trainer.TrainSamples(g.ID, name, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to retrain %q: %w", name, err)
	}
	if _, err := a.store.Gestures().SaveTemplate(tmpl, raw); err != nil {
		return nil, err
	}

	a.install(tmpl)
	a.logger.Info("retrained template", "name", name, "id", tmpl.ID, "strokes", len(raw))
	return tmpl, nil
}

// Templates lists the stored templates.
func (a *App) Templates() ([]*store.Gesture, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.Gestures().List()
}

// DeleteTemplate removes the named template from the store and the
// recognizers. It returns store.ErrNotFound if no such template exists.
func (a *App) DeleteTemplate(name string) error {
	if a.store != nil {
		g, err := a.store.Gestures().GetByName(name)
		if err != nil {
			return err
		}
		if err := a.store.Gestures().Delete(g.ID); err != nil {
			return err
		}
		a.uninstall(name)
		return nil
	}

	if !a.uninstall(name) {
		return store.ErrNotFound
	}
	return nil
}

func (a *App) install(t *gesture.Template) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if old, ok := a.custom[t.Name]; ok {
		a.removeLocked(old)
	}
	a.dollar.AddTemplate(t)
	if a.dtw != nil {
		a.dtw.AddTemplate(t)
	}
	a.custom[t.Name] = t.ID
}

func (a *App) uninstall(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, ok := a.custom[name]
	if !ok {
		return false
	}
	a.removeLocked(id)
	delete(a.custom, name)
	return true
}

func (a *App) removeLocked(id string) {
	a.dollar.RemoveTemplate(id)
	if a.dtw != nil {
		a.dtw.RemoveTemplate(id)
	}
}
