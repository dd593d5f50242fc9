package screens

import (
	"context"
	"time"

	"embliss/config"
	"embliss/debug"
	"embliss/midi"
)

// Display shows two lines of text
type Display interface {
	Render(line1, line2 string) error
}

// Input yields pending events without blocking
type Input interface {
	Poll() (midi.Event, bool)
}

// Screen is one UI mode. Exactly one screen is active at a time; once
// replaced it is discarded.
type Screen interface {
	Name() string
	Activate()
	Deactivate()
	HandleInput(ev midi.Event)
	Tick(now time.Time) // timeouts
	Render() (line1, line2 string)
	Dirty() bool // render pending
	Rendered()   // called after an actual render
}

// flash is a transient message shown in place of the active screen
type flash struct {
	line1, line2 string
	until        time.Time
	then         func()
}

// Navigator owns the active screen, routes input and ticks to it and pushes
// its lines to the display, at most once per refresh interval
type Navigator struct {
	display  Display
	now      func() time.Time
	line1Max int
	line2Max int
	interval time.Duration

	active     Screen
	lastRender time.Time
	flash      *flash
}

// NewNavigator creates a navigator rendering to d
func NewNavigator(d Display, cfg config.DisplayConfig) *Navigator {
	return &Navigator{
		display:  d,
		now:      time.Now,
		line1Max: cfg.Line1Max,
		line2Max: cfg.Line2Max,
		interval: cfg.RefreshInterval,
	}
}

// SetClock replaces the time source (tests)
func (n *Navigator) SetClock(now func() time.Time) {
	n.now = now
}

// SetDisplay switches to a new display (after a reconnect) and redraws
func (n *Navigator) SetDisplay(d Display) {
	n.display = d
	n.RenderNow()
}

// Now returns the navigator's current time
func (n *Navigator) Now() time.Time {
	return n.now()
}

// Active returns the active screen
func (n *Navigator) Active() Screen {
	return n.active
}

// ChangeScreen deactivates the current screen and activates s, rendering it
// immediately
func (n *Navigator) ChangeScreen(s Screen) {
	if n.active != nil {
		debug.Log("nav", "%s -> %s", n.active.Name(), s.Name())
		n.active.Deactivate()
	} else {
		debug.Log("nav", "start %s", s.Name())
	}
	n.active = s
	s.Activate()
	if n.flash == nil {
		n.render()
	}
}

// Dispatch forwards ev to the active screen. Input is ignored while a
// flash message is showing.
func (n *Navigator) Dispatch(ev midi.Event) {
	if n.active == nil {
		return
	}
	if n.flash != nil {
		debug.Log("nav", "ignored %s during message", ev)
		return
	}
	n.active.HandleInput(ev)
}

// Tick expires flash messages, lets the screen run its timeouts and renders
// if something changed and the refresh interval has passed
func (n *Navigator) Tick() {
	now := n.now()

	if n.flash != nil {
		if now.Before(n.flash.until) {
			return
		}
		then := n.flash.then
		n.flash = nil
		before := n.active
		if then != nil {
			then()
		}
		if n.flash == nil && n.active == before {
			n.render()
		}
		return
	}

	if n.active == nil {
		return
	}
	n.active.Tick(now)
	if n.active.Dirty() && now.Sub(n.lastRender) >= n.interval {
		n.render()
	}
}

// RenderNow renders the active screen (or flash message) immediately
func (n *Navigator) RenderNow() {
	if n.flash != nil {
		n.push(n.flash.line1, n.flash.line2)
		return
	}
	n.render()
}

// Flash shows a message for d, then runs then (may be nil) and redraws
func (n *Navigator) Flash(line1, line2 string, d time.Duration, then func()) {
	debug.Log("nav", "message %q / %q for %v", line1, line2, d)
	n.flash = &flash{line1: line1, line2: line2, until: n.now().Add(d), then: then}
	n.push(line1, line2)
}

// Flashing reports whether a message is showing
func (n *Navigator) Flashing() bool {
	return n.flash != nil
}

func (n *Navigator) render() {
	if n.active == nil {
		return
	}
	line1, line2 := n.active.Render()
	n.push(line1, line2)
	n.active.Rendered()
}

func (n *Navigator) push(line1, line2 string) {
	line1 = truncate(line1, n.line1Max)
	line2 = truncate(line2, n.line2Max)
	n.lastRender = n.now()
	if n.display == nil {
		return
	}
	if err := n.display.Render(line1, line2); err != nil {
		debug.LogEvery(20, "nav", "display: %v", err)
	}
}

// Run polls input and ticks every period until ctx is done
func (n *Navigator) Run(ctx context.Context, in Input, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		for {
			ev, ok := in.Poll()
			if !ok {
				break
			}
			n.Dispatch(ev)
		}
		n.Tick()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// truncate cuts s to limit runes
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
