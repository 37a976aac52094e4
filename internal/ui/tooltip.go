package ui

// Toolbar buttons show their action as a hover tooltip. Tooltips are only
// drawn when the window content is wrapped by withToolTipLayer.

import (
	"fyne.io/fyne/v2"

	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only toolbar button.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// withToolTipLayer wraps window content so tooltips can be drawn above it.
func withToolTipLayer(content fyne.CanvasObject, w fyne.Window) fyne.CanvasObject {
	return fynetooltip.AddWindowToolTipLayer(content, w.Canvas())
}
