package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/WMSLabel/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.Symbology = model.SymbologyQR
	cfg.Theme = "dark"
	cfg.SettleDelayMS = 250
	cfg.LastDirectory = "/srv/exports"

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.Symbology != model.SymbologyQR {
		t.Errorf("expected Symbology=qr, got %s", loaded.Symbology)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.SettleDelayMS != 250 {
		t.Errorf("expected SettleDelayMS=250, got %d", loaded.SettleDelayMS)
	}
	if loaded.LastDirectory != "/srv/exports" {
		t.Errorf("expected LastDirectory=/srv/exports, got %s", loaded.LastDirectory)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != model.DefaultAppConfig() {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadAppConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"light","large_bar_height":-3}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", cfg.Theme)
	}
	if cfg.LargeBarHeight != 24 {
		t.Errorf("expected invalid LargeBarHeight to reset to 24, got %f", cfg.LargeBarHeight)
	}
	if cfg.PreviewScale != 0.85 {
		t.Errorf("expected default PreviewScale, got %f", cfg.PreviewScale)
	}
}

func TestLoadAppConfigCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for corrupt config")
	}
}

func TestSaveAppConfigCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected config file to be created")
	}
}
