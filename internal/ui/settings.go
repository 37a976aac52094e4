package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
)

// sliderRow is the slider of one layout binding and its value caption.
type sliderRow struct {
	binding layout.Binding
	slider  *widget.Slider
	value   *widget.Label
}

// buildSettingsPanel creates one slider per layout binding. Values are
// applied while the slider moves and persisted when it is released.
func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.sliders = make(map[string]*sliderRow, len(layout.Bindings))

	rows := []fyne.CanvasObject{}
	for _, b := range layout.Bindings {
		current := a.store.Value(b.Key)
		row := &sliderRow{
			binding: b,
			slider:  widget.NewSlider(b.Min, b.Max),
			value:   widget.NewLabel(b.Display(current)),
		}
		row.slider.Step = b.Step
		row.slider.Value = b.Clamp(current)
		row.slider.OnChanged = func(v float64) {
			if a.syncing {
				return
			}
			layout.ApplyControl(a.store, b.Control, v)
		}
		row.slider.OnChangeEnded = func(float64) {
			if a.syncing {
				return
			}
			a.commitLayout("Change " + b.Label)
		}
		a.sliders[b.Control] = row

		rows = append(rows,
			container.NewBorder(nil, nil, widget.NewLabel(b.Label), row.value),
			row.slider,
		)
	}

	return widget.NewCard("Layout", "Drag elements on the preview to move them", container.NewVBox(rows...))
}

// syncSettings shows cfg on the sliders without feeding the values back.
func (a *App) syncSettings(cfg model.LayoutConfig) {
	a.syncing = true
	defer func() { a.syncing = false }()

	for _, row := range a.sliders {
		v, _ := cfg.Get(row.binding.Key)
		row.value.SetText(row.binding.Display(v))
		if clamped := row.binding.Clamp(v); row.slider.Value != clamped {
			row.slider.SetValue(clamped)
		}
	}
}
