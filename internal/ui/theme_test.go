package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
)

func TestThemeForName(t *testing.T) {
	if th := ThemeForName("dark"); th.follow || th.variant != theme.VariantDark {
		t.Errorf("expected fixed dark variant, got %+v", th)
	}
	if th := ThemeForName("light"); th.follow || th.variant != theme.VariantLight {
		t.Errorf("expected fixed light variant, got %+v", th)
	}
	if th := ThemeForName("system"); !th.follow {
		t.Error("system theme should follow the requested variant")
	}
	if th := ThemeForName("bogus"); !th.follow {
		t.Error("unknown names should follow the system")
	}
}

func TestLabelThemeCompactSizes(t *testing.T) {
	th := NewLabelTheme()
	if got := th.Size(theme.SizeNameText); got != 13 {
		t.Errorf("expected text size 13, got %v", got)
	}
	if got := th.Size(theme.SizeNameScrollBar); got != 12 {
		t.Errorf("expected scroll bar size 12, got %v", got)
	}
	if got := th.Size(theme.SizeNameSeparatorThickness); got != theme.DefaultTheme().Size(theme.SizeNameSeparatorThickness) {
		t.Errorf("expected separator thickness to fall through to the default theme, got %v", got)
	}
}
