package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/WMSLabel/internal/model"
)

func TestExportImportLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets", "aisle-a.yaml")

	cfg := model.DefaultLayout()
	cfg.LargeLeft = 120.25
	cfg.TitleSize = 36
	require.NoError(t, ExportLayout(path, "aisle A", cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1.0.0")
	assert.Contains(t, string(data), "large-left: 120.25mm")
	assert.Contains(t, string(data), "title-size: 36pt")

	got, err := ImportLayout(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDecodePreset_PartialLayout(t *testing.T) {
	in := "version: 1.0.0\nlayout:\n  small-scale: \"3\"\n  small-top: 12px\n  colour: red\n"
	p, err := DecodePreset(strings.NewReader(in))
	require.NoError(t, err)

	cfg := p.Config()
	want := model.DefaultLayout()
	want.SmallScale = 3
	assert.Equal(t, want, cfg, "bad suffix and unknown keys fall back to defaults")
}

func TestDecodePreset_Invalid(t *testing.T) {
	for name, in := range map[string]string{
		"empty":      "",
		"no version": "layout:\n  small-top: 1mm\n",
		"not yaml":   "version: [1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePreset(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestEncodePreset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePreset(&buf, NewLayoutPreset("", model.DefaultLayout())))
	assert.NotContains(t, buf.String(), "name:")

	p, err := DecodePreset(&buf)
	require.NoError(t, err)
	assert.Equal(t, PresetVersion, p.Version)
	assert.NotEmpty(t, p.CreatedAt)
	assert.Len(t, p.Layout, len(model.LayoutKeys()))
}

func TestImportLayout_Missing(t *testing.T) {
	_, err := ImportLayout(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
