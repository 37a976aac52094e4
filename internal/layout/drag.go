package layout

import (
	"context"
	"log/slog"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// DragSession is the baseline captured when a drag starts.
type DragSession struct {
	XKey, YKey                 model.LayoutKey
	OriginX, OriginY           float64 // pointer position at start, device pixels
	OriginValueX, OriginValueY float64 // element position at start, mm
}

// Controller repositions one element. It is Idle until Start and Dragging
// until End; moves received while Idle are ignored.
type Controller struct {
	store    *Store
	element  model.Element
	scale    func() float64
	onCommit func()
	session  *DragSession
}

// NewController creates the controller for element. scale reports the
// display scale the preview is drawn at; onCommit runs once per completed
// drag and may be nil.
func NewController(store *Store, element model.Element, scale func() float64, onCommit func()) *Controller {
	if scale == nil {
		scale = func() float64 { return 1 }
	}
	return &Controller{store: store, element: element, scale: scale, onCommit: onCommit}
}

// Element returns the element this controller moves.
func (c *Controller) Element() model.Element { return c.element }

// Dragging reports whether a session is open.
func (c *Controller) Dragging() bool { return c.session != nil }

// Session returns a copy of the open session.
func (c *Controller) Session() (DragSession, bool) {
	if c.session == nil {
		return DragSession{}, false
	}
	return *c.session, true
}

// Start opens a session at pointer position (x, y). A session that is
// already open is replaced.
func (c *Controller) Start(x, y float64) {
	xKey, yKey := c.element.PositionKeys()
	c.session = &DragSession{
		XKey:         xKey,
		YKey:         yKey,
		OriginX:      x,
		OriginY:      y,
		OriginValueX: c.store.Value(xKey),
		OriginValueY: c.store.Value(yKey),
	}
}

// Move places the element at its start position plus the pointer delta,
// converted to millimetres and rounded to two decimals. It does not persist.
func (c *Controller) Move(x, y float64) {
	s := c.session
	if s == nil {
		return
	}
	scale := c.scale()
	dx := model.PixelsToMillimeters(x-s.OriginX, scale)
	dy := model.PixelsToMillimeters(y-s.OriginY, scale)
	c.store.Update(s.XKey, model.Round2(s.OriginValueX+dx))
	c.store.Update(s.YKey, model.Round2(s.OriginValueY+dy))
}

// End closes the session and runs the commit callback. End while Idle does
// nothing.
func (c *Controller) End() {
	if c.session == nil {
		return
	}
	c.session = nil
	if c.onCommit != nil {
		c.onCommit()
	}
}

// Cancel discards the session without committing. The element keeps
// whatever position the last move gave it.
func (c *Controller) Cancel() {
	c.session = nil
}

// SaveOnCommit returns a commit callback that persists the store and then
// runs each of then with the save result. A failed write is logged as a
// warning and is not fatal to the drag.
func SaveOnCommit(store *Store, log *slog.Logger, then ...func(error)) func() {
	return func() {
		err := store.Save()
		if err != nil && log != nil {
			log.Warn("drag position not persisted", slog.Any("err", err))
		}
		for _, fn := range then {
			fn(err)
		}
	}
}

// PointerKind is the type of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is one input event in device pixels. Target names the element
// under the pointer and is only meaningful for PointerDown.
type PointerEvent struct {
	Kind   PointerKind
	Target model.Element
	X, Y   float64
}

// Surface routes pointer events for the whole preview. Moves and releases
// are tracked at surface scope, so releasing the pointer outside the element
// still ends its drag.
type Surface struct {
	controllers map[model.Element]*Controller
	order       []model.Element
}

// NewSurface creates one controller per element, all sharing scale and
// onCommit.
func NewSurface(store *Store, scale func() float64, onCommit func()) *Surface {
	s := &Surface{controllers: map[model.Element]*Controller{}}
	for _, e := range model.Elements() {
		s.controllers[e] = NewController(store, e, scale, onCommit)
		s.order = append(s.order, e)
	}
	return s
}

// Controller returns the controller of element.
func (s *Surface) Controller(e model.Element) (*Controller, bool) {
	c, ok := s.controllers[e]
	return c, ok
}

// Dispatch applies one event.
func (s *Surface) Dispatch(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		if c, ok := s.controllers[ev.Target]; ok {
			c.Start(ev.X, ev.Y)
		}
	case PointerMove:
		for _, e := range s.order {
			s.controllers[e].Move(ev.X, ev.Y)
		}
	case PointerUp:
		for _, e := range s.order {
			s.controllers[e].End()
		}
	}
}

// CancelAll discards every open session, e.g. when the preview is rebuilt or
// the layout is reset.
func (s *Surface) CancelAll() {
	for _, c := range s.controllers {
		c.Cancel()
	}
}

// Run consumes events until the source is closed or ctx is done.
func (s *Surface) Run(ctx context.Context, events <-chan PointerEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Dispatch(ev)
		}
	}
}
