package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
)

func TestPreferencesStore(t *testing.T) {
	a := test.NewTempApp(t)
	kv := newPreferencesStore(a.Preferences())

	_, ok, err := kv.Get(layout.SettingsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", "v"))
	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, kv.Delete("k"))
	_, ok, _ = kv.Get("k")
	assert.False(t, ok)
}

func TestPreferencesStore_BacksLayoutStore(t *testing.T) {
	a := test.NewTempApp(t)
	store := layout.NewStore(newPreferencesStore(a.Preferences()), layout.WithLogger(applog.Discard()))
	store.Update(model.KeySpacedSize, 28)
	require.NoError(t, store.Save())

	again := layout.NewStore(newPreferencesStore(a.Preferences()), layout.WithLogger(applog.Discard()))
	again.Load(false)
	assert.Equal(t, 28.0, again.Value(model.KeySpacedSize))
}
