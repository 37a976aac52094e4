package layout

import (
	"strconv"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// Binding ties an input control to the layout parameter it edits.
type Binding struct {
	Control string // presentation identifier of the control
	Key     model.LayoutKey
	Label   string
	Min     float64
	Max     float64
	Step    float64
}

// Bindings lists the slider controls of the settings panel.
var Bindings = []Binding{
	{Control: "setting-small-scale", Key: model.KeySmallScale, Label: "Small barcode scale", Min: 0.5, Max: 4, Step: 0.1},
	{Control: "setting-large-scale", Key: model.KeyLargeScale, Label: "Large barcode scale", Min: 0.5, Max: 6, Step: 0.1},
	{Control: "setting-spaced-size", Key: model.KeySpacedSize, Label: "Spaced text size", Min: 8, Max: 72, Step: 1},
	{Control: "setting-title-size", Key: model.KeyTitleSize, Label: "Title text size", Min: 8, Max: 96, Step: 1},
}

// BindingFor looks up the binding of a control.
func BindingFor(control string) (Binding, bool) {
	for _, b := range Bindings {
		if b.Control == control {
			return b, true
		}
	}
	return Binding{}, false
}

// Clamp limits v to the binding's range.
func (b Binding) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Display formats v with the binding's unit suffix, e.g. "20pt".
func (b Binding) Display(v float64) string {
	return strconv.FormatFloat(model.Round2(v), 'f', -1, 64) + b.Key.Unit().Suffix()
}

// ApplyControl routes a control change to the store. Unbound controls are
// ignored and report false.
func ApplyControl(store *Store, control string, v float64) bool {
	b, ok := BindingFor(control)
	if !ok {
		return false
	}
	return store.Update(b.Key, b.Clamp(v))
}
