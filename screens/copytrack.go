package screens

import (
	"fmt"

	"embliss/debug"
	"embliss/midi"
	"embliss/setstore"
)

// CopyTrack picks the destination set for a track copy
type CopyTrack struct {
	base
	src      string
	track    string
	picker   setPicker
	returnTo func() Screen
}

// NewCopyTrack copies track of src; cancel and completion go to returnTo
func NewCopyTrack(env *Env, src, track string, returnTo func() Screen) *CopyTrack {
	return &CopyTrack{
		base:     base{env: env},
		src:      src,
		track:    track,
		picker:   setPicker{store: env.Store},
		returnTo: returnTo,
	}
}

func (c *CopyTrack) Name() string { return "copytrack" }

func (c *CopyTrack) Activate() {
	c.base.Activate()
	c.picker.reload()
	c.picker.target(c.src)
}

func (c *CopyTrack) Render() (string, string) {
	line1 := fmt.Sprintf("Copy '%s'", c.track)
	p := &c.picker
	switch {
	case len(p.bases) == 0:
		return line1, "No sets found"
	case p.level == levelBases:
		return line1, fmt.Sprintf("To: %s.. P6:Y", p.base())
	}
	return line1, fmt.Sprintf("To: %s P6:Y", c.env.stem(p.file()))
}

func (c *CopyTrack) HandleInput(ev midi.Event) {
	if step := ev.Step(); step != 0 {
		if c.picker.scroll(step) {
			c.markDirty()
		}
		return
	}

	switch {
	case ev.IsPad(5):
		if c.picker.back() {
			c.markDirty()
			return
		}
		c.env.Nav.ChangeScreen(c.returnTo())
	case ev.IsPad(6):
		if c.picker.level == levelBases {
			if c.picker.open() {
				c.markDirty()
			}
			return
		}
		c.plan(c.picker.file())
	}
}

func (c *CopyTrack) plan(dest string) {
	env, returnTo := c.env, c.returnTo
	plan, err := env.Store.PlanCopy(c.src, c.track, dest)
	if err != nil {
		debug.Error("screen", "plan copy %s -> %s: %v", c.track, dest, err)
		env.failure("Copy Failed", err, nil)
		return
	}
	debug.Log("screen", "copy plan %s", plan.Summary())

	switch {
	case len(plan.Mappings) == 0:
		if err := env.Store.CommitCopy(plan); err != nil {
			env.failure("Copy Failed", err, nil)
			return
		}
		env.message("Track Copied", "No banks mapped", env.goTo(returnTo))
	case plan.HasType(setstore.KeyMNM) && env.Scanner != nil:
		env.Nav.ChangeScreen(NewPrompt(env, "Conn MMIO>emb", "P5:C P6:Cont",
			func() Screen { return NewScanPrompt(env, plan, returnTo) }, returnTo))
	default:
		env.Nav.ChangeScreen(NewPreview(env, plan, nil, returnTo))
	}
}
