package ui

import (
	"fyne.io/fyne/v2"

	"github.com/piwi3910/WMSLabel/internal/layout"
)

// absent is returned by the fallback lookup for keys that were never set.
const absent = "\x00absent"

// preferencesStore exposes fyne Preferences as a layout.KeyValueStore.
type preferencesStore struct {
	prefs fyne.Preferences
}

var _ layout.KeyValueStore = preferencesStore{}

func newPreferencesStore(prefs fyne.Preferences) preferencesStore {
	return preferencesStore{prefs: prefs}
}

func (p preferencesStore) Get(key string) (string, bool, error) {
	v := p.prefs.StringWithFallback(key, absent)
	if v == absent {
		return "", false, nil
	}
	return v, true, nil
}

func (p preferencesStore) Set(key, value string) error {
	p.prefs.SetString(key, value)
	return nil
}

func (p preferencesStore) Delete(key string) error {
	p.prefs.RemoveValue(key)
	return nil
}
