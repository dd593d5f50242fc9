package screens

import (
	"strings"
	"time"

	"embliss/config"
	"embliss/midi"
	"embliss/setstore"

	"github.com/pkg/errors"
)

// Scanner maps the external machine's pattern slots to kits
type Scanner interface {
	Scan() (midi.KitMap, error)
}

// Env is shared by every screen
type Env struct {
	Nav     *Navigator
	Store   *setstore.Store
	Scanner Scanner // nil disables the kit scan
	UI      config.UIConfig
}

// Start activates the root screen
func (e *Env) Start() {
	e.Nav.ChangeScreen(NewBrowser(e, ""))
}

func (e *Env) message(line1, line2 string, then func()) {
	e.Nav.Flash(line1, line2, e.UI.MessageDuration, then)
}

func (e *Env) failure(line1 string, err error, then func()) {
	e.Nav.Flash(line1, ShortError(err), e.UI.ErrorDuration, then)
}

// goTo returns a callback switching to the screen built by next
func (e *Env) goTo(next func() Screen) func() {
	return func() { e.Nav.ChangeScreen(next()) }
}

// stem strips the set extension for display
func (e *Env) stem(file string) string {
	return strings.TrimSuffix(file, e.Store.Ext())
}

// base carries the render-pending flag shared by all screens
type base struct {
	env   *Env
	dirty bool
}

func (b *base) Activate() {
	b.dirty = true
}

func (b *base) Deactivate() {}

func (b *base) Tick(now time.Time) {}

func (b *base) Dirty() bool {
	return b.dirty
}

func (b *base) Rendered() {
	b.dirty = false
}

func (b *base) markDirty() {
	b.dirty = true
}

// confirm is a yes/no sub-state that lapses after a timeout
type confirm struct {
	active   bool
	deadline time.Time
}

func (c *confirm) start(now time.Time, timeout time.Duration) {
	c.active = true
	c.deadline = now.Add(timeout)
}

func (c *confirm) cancel() {
	c.active = false
}

// expired cancels and reports true once the deadline has passed
func (c *confirm) expired(now time.Time) bool {
	if c.active && !now.Before(c.deadline) {
		c.active = false
		return true
	}
	return false
}

// answer maps a pad press in confirm mode: P6 yes, P5 no (shifted or not)
func answer(ev midi.Event) (yes, no bool) {
	if ev.Kind != midi.Trigger || !ev.Pressed {
		return false, false
	}
	switch ev.Control {
	case midi.Pad6:
		return true, false
	case midi.Pad5:
		return false, true
	}
	return false, false
}

// wrap moves idx by step within n entries with wraparound
func wrap(idx, step, n int) int {
	if n == 0 {
		return -1
	}
	return ((idx+step)%n + n) % n
}

// ShortError turns an error into a message that fits on line 2
func ShortError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, setstore.ErrNotFound):
		return "Not found"
	case errors.Is(err, setstore.ErrExists):
		return "Name exists"
	case errors.Is(err, setstore.ErrExhausted):
		return "No free slot"
	case errors.Is(err, setstore.ErrSameFile):
		return "Same set"
	case errors.Is(err, setstore.ErrSameTrack):
		return "Same track"
	case errors.Is(err, setstore.ErrNoUndo):
		return "No undo data"
	case errors.Is(err, setstore.ErrInvalidName):
		return "Name Empty"
	case errors.Is(err, setstore.ErrOutOfRange):
		return "Bad segment"
	case errors.Is(err, setstore.ErrChanged):
		return "Set changed"
	case errors.Is(err, midi.ErrScanTimeout):
		return "No response"
	case errors.Is(err, midi.ErrNoDevice):
		return "No device"
	}
	return "Save Error"
}
