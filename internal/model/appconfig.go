package model

import "strings"

// Symbology selects the barcode type printed on labels.
type Symbology string

const (
	SymbologyCode39 Symbology = "code39" // Code 39 extended (full ASCII)
	SymbologyQR     Symbology = "qr"
)

// AppConfig holds application-wide preferences.
type AppConfig struct {
	// Preview
	PreviewScale float64 `json:"preview_scale"` // on-screen zoom of the A4 preview

	// Barcodes
	Symbology      Symbology `json:"symbology"`
	SmallBarHeight float64   `json:"small_bar_height"` // mm at scale 1
	LargeBarHeight float64   `json:"large_bar_height"` // mm at scale 1

	// Printing
	SettleDelayMS int `json:"settle_delay_ms"` // wait between rendering and print handoff

	// Application preferences
	LogLevel      string `json:"log_level"`
	LastDirectory string `json:"last_directory"`
	Theme         string `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with the stock values.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PreviewScale:   0.85,
		Symbology:      SymbologyCode39,
		SmallBarHeight: 10,
		LargeBarHeight: 24,
		SettleDelayMS:  500,
		LogLevel:       "info",
		Theme:          "system",
	}
}

// Validate replaces out-of-range values with their defaults.
func (c *AppConfig) Validate() {
	d := DefaultAppConfig()
	if c.PreviewScale <= 0 || c.PreviewScale > 4 {
		c.PreviewScale = d.PreviewScale
	}
	switch Symbology(strings.ToLower(string(c.Symbology))) {
	case SymbologyCode39:
		c.Symbology = SymbologyCode39
	case SymbologyQR:
		c.Symbology = SymbologyQR
	default:
		c.Symbology = d.Symbology
	}
	if c.SmallBarHeight <= 0 {
		c.SmallBarHeight = d.SmallBarHeight
	}
	if c.LargeBarHeight <= 0 {
		c.LargeBarHeight = d.LargeBarHeight
	}
	if c.SettleDelayMS < 0 {
		c.SettleDelayMS = d.SettleDelayMS
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	switch c.Theme {
	case "light", "dark", "system":
	default:
		c.Theme = d.Theme
	}
}
