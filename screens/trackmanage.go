package screens

import (
	"time"

	"embliss/debug"
	"embliss/midi"
	"embliss/setstore"
)

// TrackManage moves, deletes, copies and restores one track of a set
type TrackManage struct {
	base
	file       string
	track      string
	restoreIdx int

	targets []string
	idx     int
	confirm confirm
}

// NewTrackManage manages track in file; exiting returns to segment restoreIdx
func NewTrackManage(env *Env, file, track string, restoreIdx int) *TrackManage {
	return &TrackManage{base: base{env: env}, file: file, track: track, restoreIdx: restoreIdx}
}

func (t *TrackManage) Name() string { return "trackmanage" }

func (t *TrackManage) Activate() {
	t.base.Activate()
	t.reload()
}

// reload lists the other tracks of the file, keeping the selection if it
// still exists
func (t *TrackManage) reload() {
	prev := t.target()
	groups, err := t.env.Store.TrackGroups(t.file)
	if err != nil {
		debug.Error("screen", "track groups %s: %v", t.file, err)
	}
	t.targets = t.targets[:0]
	for _, name := range setstore.TrackNames(groups) {
		if name != setstore.UnsetTrack && name != t.track {
			t.targets = append(t.targets, name)
		}
	}
	t.idx = clamp(t.idx, len(t.targets))
	for i, name := range t.targets {
		if name == prev {
			t.idx = i
		}
	}
	t.markDirty()
}

func (t *TrackManage) target() string {
	if t.idx < 0 || t.idx >= len(t.targets) {
		return ""
	}
	return t.targets[t.idx]
}

func (t *TrackManage) Tick(now time.Time) {
	if t.confirm.expired(now) {
		t.markDirty()
	}
}

func (t *TrackManage) Render() (string, string) {
	switch {
	case t.confirm.active:
		return t.track, "Del? P5=N P6=Y"
	case len(t.targets) == 0:
		return t.track, "No other tracks"
	}
	return t.track, "P1 " + t.target() + " P2"
}

func (t *TrackManage) HandleInput(ev midi.Event) {
	env := t.env
	if t.confirm.active {
		yes, no := answer(ev)
		switch {
		case yes:
			t.confirm.cancel()
			t.delete()
		case no:
			t.confirm.cancel()
			t.markDirty()
		}
		return
	}
	if step := ev.Step(); step != 0 {
		if len(t.targets) > 0 {
			t.idx = wrap(t.idx, step, len(t.targets))
			t.markDirty()
		}
		return
	}

	switch {
	case ev.IsPad(1):
		t.move(false)
	case ev.IsPad(2):
		t.move(true)
	case ev.IsPad(5):
		env.Nav.ChangeScreen(t.returnTo())
	case ev.IsShiftPad(5):
		t.confirm.start(env.Nav.Now(), env.UI.ConfirmTimeout)
		t.markDirty()
	case ev.IsShiftPad(7):
		t.undo()
	case ev.IsShiftPad(4):
		env.Nav.ChangeScreen(NewCopyTrack(env, t.file, t.track, t.again))
	}
}

func (t *TrackManage) returnTo() Screen {
	return NewSegmentList(t.env, t.file, t.restoreIdx)
}

// again rebuilds this screen for flows that come back to it
func (t *TrackManage) again() Screen {
	return NewTrackManage(t.env, t.file, t.track, t.restoreIdx)
}

func (t *TrackManage) toTop() func() {
	env, file := t.env, t.file
	return env.goTo(func() Screen { return NewSegmentList(env, file, 0) })
}

func (t *TrackManage) move(after bool) {
	env := t.env
	target := t.target()
	if target == "" {
		env.message("No target", "", nil)
		return
	}
	if err := env.Store.MoveTrack(t.file, t.track, target, after); err != nil {
		debug.Error("screen", "move %s: %v", t.track, err)
		env.failure("Move Failed", err, nil)
		return
	}
	env.message("Track Moved", "Success!", t.toTop())
}

func (t *TrackManage) delete() {
	env := t.env
	if err := env.Store.DeleteTrack(t.file, t.track); err != nil {
		debug.Error("screen", "delete track %s: %v", t.track, err)
		env.failure("Delete Failed", err, nil)
		return
	}
	env.message("Track Deleted", t.track, t.toTop())
}

func (t *TrackManage) undo() {
	env := t.env
	if err := env.Store.Undo(t.file); err != nil {
		debug.Warn("screen", "undo %s: %v", t.file, err)
		env.failure("Undo Failed", err, nil)
		return
	}
	t.reload()
	env.message("Undo Successful", "", nil)
}
