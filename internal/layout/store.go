// Package layout owns the live label layout: loading and persisting it,
// resetting it to defaults, and repositioning elements by pointer drags.
package layout

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/model"
)

// Storage keys. Both carry the layout schema version so payloads written by
// an incompatible release are never merged in.
const (
	SettingsKey = "wmsLabelSettings_v11"
	VisitedKey  = "wmsLabelVisited_v11"
)

// KeyValueStore is the persistence collaborator of a Store.
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store holds the current LayoutConfig.
type Store struct {
	kv  KeyValueStore
	log *slog.Logger

	mu     sync.Mutex
	cfg    model.LayoutConfig
	subs   map[int]func(model.LayoutConfig)
	nextID int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore creates a store holding the default layout. Call Load to merge
// persisted state.
func NewStore(kv KeyValueStore, opts ...StoreOption) *Store {
	s := &Store{
		kv:   kv,
		log:  applog.WithComponent("layout"),
		cfg:  model.DefaultLayout(),
		subs: map[int]func(model.LayoutConfig){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the current layout. With forceDefault the compiled-in
// defaults are used; otherwise persisted values are merged over them key by
// key. Missing, unreadable or malformed persisted state counts as absent.
func (s *Store) Load(forceDefault bool) {
	cfg := model.DefaultLayout()
	if !forceDefault {
		if persisted, ok := s.readPersisted(); ok {
			cfg = persisted
		}
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.notify(cfg)
}

func (s *Store) readPersisted() (model.LayoutConfig, bool) {
	raw, ok, err := s.kv.Get(SettingsKey)
	if err != nil {
		s.log.Debug("stored layout unreadable, using defaults", slog.Any("err", err))
		return model.LayoutConfig{}, false
	}
	if !ok || raw == "" {
		return model.LayoutConfig{}, false
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		s.log.Debug("stored layout malformed, using defaults", slog.Any("err", err))
		return model.LayoutConfig{}, false
	}
	return model.MergeLayout(values), true
}

// Save overwrites the persisted layout with the current one. Equal layouts
// always produce identical bytes. A failed write is logged as a warning and
// returned; the in-memory layout is unaffected.
func (s *Store) Save() error {
	cfg := s.Config()
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := s.kv.Set(SettingsKey, string(data)); err != nil {
		s.log.Warn("layout not saved", slog.Any("err", err))
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

// Update sets one parameter. Unknown keys leave the layout untouched and
// report false. Update never persists.
func (s *Store) Update(key model.LayoutKey, value float64) bool {
	s.mu.Lock()
	ok := s.cfg.Set(key, value)
	cfg := s.cfg
	s.mu.Unlock()
	if !ok {
		s.log.Debug("ignoring unknown layout key", slog.String("key", string(key)))
		return false
	}
	s.notify(cfg)
	return true
}

// Apply replaces the whole layout, e.g. from an undo step or an imported
// preset. Like Update it does not persist.
func (s *Store) Apply(cfg model.LayoutConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.notify(cfg)
}

// Reset reverts both the live and the persisted layout to the defaults and
// clears the first-run marker.
func (s *Store) Reset() error {
	s.Load(true)
	err := s.Save()
	s.ClearIntroSeen()
	return err
}

// Config returns a snapshot of the current layout.
func (s *Store) Config() model.LayoutConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Value returns the current value of key, or 0 for unknown keys.
func (s *Store) Value(key model.LayoutKey) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := s.cfg.Get(key)
	return v
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(model.LayoutConfig)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(cfg model.LayoutConfig) {
	s.mu.Lock()
	fns := make([]func(model.LayoutConfig), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(cfg)
	}
}

// IntroSeen reports whether the first-run message has been dismissed.
func (s *Store) IntroSeen() bool {
	v, ok, err := s.kv.Get(VisitedKey)
	return err == nil && ok && v == "true"
}

// MarkIntroSeen records that the first-run message was dismissed.
func (s *Store) MarkIntroSeen() {
	if err := s.kv.Set(VisitedKey, "true"); err != nil {
		s.log.Warn("first-run marker not saved", slog.Any("err", err))
	}
}

// ClearIntroSeen makes the first-run message appear again.
func (s *Store) ClearIntroSeen() {
	if err := s.kv.Delete(VisitedKey); err != nil {
		s.log.Warn("first-run marker not cleared", slog.Any("err", err))
	}
}
