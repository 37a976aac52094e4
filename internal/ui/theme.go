// Package ui is the WMSLabel desktop shell: menus, toolbar, layout sliders
// and the label preview, on top of the engine package.
package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LabelTheme wraps the default Fyne theme with compact sizing overrides.
type LabelTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	follow  bool // use the variant requested by the system
}

// NewLabelTheme creates a LabelTheme that follows the system variant.
func NewLabelTheme() *LabelTheme {
	return &LabelTheme{base: theme.DefaultTheme(), follow: true}
}

// NewLabelThemeWithVariant creates a LabelTheme with a fixed light/dark variant.
func NewLabelThemeWithVariant(variant fyne.ThemeVariant) *LabelTheme {
	return &LabelTheme{base: theme.DefaultTheme(), variant: variant}
}

// ThemeForName maps the config value "light", "dark" or "system" to a theme.
func ThemeForName(name string) *LabelTheme {
	switch name {
	case "light":
		return NewLabelThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewLabelThemeWithVariant(theme.VariantDark)
	default:
		return NewLabelTheme()
	}
}

// Color delegates to the base theme with the stored variant.
func (t *LabelTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.follow {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *LabelTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *LabelTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size keeps the sidebar compact and widens scroll bars for panning the
// A4 preview.
func (t *LabelTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameScrollBar:
		return 12
	default:
		return t.base.Size(name)
	}
}
