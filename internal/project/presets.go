package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// PresetVersion is written into every exported layout preset.
const PresetVersion = "1.0.0"

// LayoutPreset is the file format of an exported layout. Values use the same
// unit-suffixed strings as the persisted settings.
type LayoutPreset struct {
	Version   string            `yaml:"version"`
	CreatedAt string            `yaml:"created_at"`
	Name      string            `yaml:"name,omitempty"`
	Layout    map[string]string `yaml:"layout"`
}

// NewLayoutPreset captures cfg.
func NewLayoutPreset(name string, cfg model.LayoutConfig) LayoutPreset {
	return LayoutPreset{
		Version:   PresetVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Name:      name,
		Layout:    cfg.Strings(),
	}
}

// Config merges the preset over the defaults. Unknown keys and malformed
// values are ignored.
func (p LayoutPreset) Config() model.LayoutConfig {
	return model.MergeLayout(p.Layout)
}

// EncodePreset writes p as YAML.
func EncodePreset(w io.Writer, p LayoutPreset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode layout preset: %w", err)
	}
	return enc.Close()
}

// DecodePreset reads a YAML preset.
func DecodePreset(r io.Reader) (LayoutPreset, error) {
	var p LayoutPreset
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return LayoutPreset{}, errors.New("invalid layout preset: empty file")
		}
		return LayoutPreset{}, fmt.Errorf("failed to parse layout preset: %w", err)
	}
	if p.Version == "" {
		return LayoutPreset{}, errors.New("invalid layout preset: missing version field")
	}
	return p, nil
}

// ExportLayout writes cfg as a preset file at path.
func ExportLayout(path, name string, cfg model.LayoutConfig) error {
	var buf bytes.Buffer
	if err := EncodePreset(&buf, NewLayoutPreset(name, cfg)); err != nil {
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write layout preset: %w", err)
	}
	return nil
}

// ImportLayout reads a preset file and returns the layout it describes.
func ImportLayout(path string) (model.LayoutConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.LayoutConfig{}, fmt.Errorf("failed to read layout preset: %w", err)
	}
	defer f.Close()
	p, err := DecodePreset(f)
	if err != nil {
		return model.LayoutConfig{}, err
	}
	return p.Config(), nil
}
