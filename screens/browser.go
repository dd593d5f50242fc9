package screens

import (
	"fmt"
	"time"

	"embliss/debug"
	"embliss/midi"
)

// Browser lists base names, then the versions of one base
type Browser struct {
	base
	picker  setPicker
	target  string
	active  string // version marked with P1
	confirm confirm
}

// NewBrowser creates the set browser. A non-empty target opens its base's
// version list with target selected.
func NewBrowser(env *Env, target string) *Browser {
	return &Browser{
		base:   base{env: env},
		picker: setPicker{store: env.Store},
		target: target,
	}
}

func (b *Browser) Name() string { return "browser" }

func (b *Browser) Activate() {
	b.base.Activate()
	b.picker.reload()
	if b.target != "" {
		b.picker.target(b.target)
		b.target = ""
	}
}

func (b *Browser) Tick(now time.Time) {
	if b.confirm.expired(now) {
		debug.Log("screen", "delete confirm lapsed")
		b.markDirty()
	}
}

func (b *Browser) Render() (string, string) {
	p := &b.picker
	if p.level == levelBases {
		if len(p.bases) == 0 {
			return "No sets found", "Check sets dir"
		}
		return fmt.Sprintf("%d/%d: %s", p.baseIdx+1, len(p.bases), p.base()), "P6:Open SP6:New"
	}

	file := p.file()
	mark := ""
	if file == b.active {
		mark = "*"
	}
	line1 := fmt.Sprintf("%d/%d %s%s", p.verIdx+1, len(p.versions), b.env.stem(file), mark)
	switch {
	case b.confirm.active:
		return line1, "Del? P5=N P6=Y"
	case file == b.active:
		return line1, "Active P2:Segs"
	}
	return line1, "P1:OK P2:Segs"
}

func (b *Browser) HandleInput(ev midi.Event) {
	if b.confirm.active {
		b.handleConfirm(ev)
		return
	}
	if step := ev.Step(); step != 0 {
		if b.picker.scroll(step) {
			b.markDirty()
		}
		return
	}

	if b.picker.level == levelBases {
		b.handleBases(ev)
	} else {
		b.handleVersions(ev)
	}
}

func (b *Browser) handleBases(ev midi.Event) {
	switch {
	case ev.IsPad(6):
		if b.picker.open() {
			b.markDirty()
		}
	case ev.IsShiftPad(6):
		b.env.Nav.ChangeScreen(NewCreate(b.env))
	}
}

func (b *Browser) handleVersions(ev midi.Event) {
	file := b.picker.file()
	env := b.env

	switch {
	case ev.IsPad(1):
		b.active = file
		debug.Info("screen", "active set %s", file)
		env.message("Selected!", env.stem(file), nil)
		b.markDirty()
	case ev.IsPad(2):
		env.Nav.ChangeScreen(NewSegmentList(env, file, 0))
	case ev.IsPad(5):
		if b.active != "" {
			b.active = ""
		} else {
			b.picker.back()
		}
		b.markDirty()
	case ev.IsShiftPad(5):
		b.confirm.start(env.Nav.Now(), env.UI.ConfirmTimeout)
		b.markDirty()
	case ev.IsShiftPad(6):
		env.Nav.ChangeScreen(NewCreate(env))
	case ev.IsShiftPad(7):
		env.Nav.ChangeScreen(NewRename(env, file))
	case ev.IsShiftPad(8):
		b.iterate(file)
	}
}

func (b *Browser) handleConfirm(ev midi.Event) {
	yes, no := answer(ev)
	switch {
	case yes:
		b.confirm.cancel()
		b.delete(b.picker.file())
	case no:
		b.confirm.cancel()
		b.markDirty()
	}
}

func (b *Browser) iterate(file string) {
	env := b.env
	next, err := env.Store.Iterate(file)
	if err != nil {
		debug.Error("screen", "iterate %s: %v", file, err)
		env.failure("Iterate Failed", err, nil)
		return
	}
	env.message("Iterated", env.stem(next), env.goTo(func() Screen { return NewBrowser(env, next) }))
}

func (b *Browser) delete(file string) {
	env := b.env
	if err := env.Store.Delete(file); err != nil {
		debug.Error("screen", "delete %s: %v", file, err)
		env.failure("Delete Failed", err, nil)
		return
	}
	if b.active == file {
		b.active = ""
	}
	b.picker.reload()
	b.markDirty()
	env.message("Deleted", env.stem(file), nil)
}
