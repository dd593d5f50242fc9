package screens

import (
	"fmt"
	"sort"

	"embliss/debug"
	"embliss/midi"
	"embliss/setstore"
)

// Preview pages through the bank remaps of a copy plan before writing it
type Preview struct {
	base
	plan     *setstore.CopyPlan
	kits     *midi.KitMap // nil when no scan ran
	mappings []setstore.BankMapping
	idx      int
	returnTo func() Screen
}

// NewPreview shows plan's mappings, md first
func NewPreview(env *Env, plan *setstore.CopyPlan, kits *midi.KitMap, returnTo func() Screen) *Preview {
	mappings := append([]setstore.BankMapping(nil), plan.Mappings...)
	sort.SliceStable(mappings, func(i, j int) bool {
		return mappings[i].Type == setstore.KeyMD && mappings[j].Type != setstore.KeyMD
	})
	return &Preview{
		base:     base{env: env},
		plan:     plan,
		kits:     kits,
		mappings: mappings,
		returnTo: returnTo,
	}
}

func (p *Preview) Name() string { return "preview" }

// position returns the 1-based rank of the current mapping within its type
// and the count of that type
func (p *Preview) position() (int, int) {
	cur := p.mappings[p.idx]
	pos, total := 0, 0
	for i, m := range p.mappings {
		if m.Type != cur.Type {
			continue
		}
		total++
		if i <= p.idx {
			pos++
		}
	}
	return pos, total
}

func (p *Preview) Render() (string, string) {
	if len(p.mappings) == 0 {
		return "Nothing to map", "P6:Copy P5:C"
	}
	m := p.mappings[p.idx]
	pos, total := p.position()
	line2 := m.Source + "->" + m.Dest
	if m.Type == setstore.KeyMNM && p.kits != nil {
		if slot, err := setstore.ParseBank(m.Dest); err == nil && p.kits[slot] > 0 {
			line2 += fmt.Sprintf(" k%d", p.kits[slot])
		}
	}
	return fmt.Sprintf("transfer %s %d/%d:", m.Type, pos, total), line2
}

func (p *Preview) HandleInput(ev midi.Event) {
	env := p.env
	if step := ev.Step(); step != 0 {
		if len(p.mappings) > 0 {
			p.idx = wrap(p.idx, step, len(p.mappings))
			p.markDirty()
		}
		return
	}

	switch {
	case ev.IsPad(5):
		debug.Log("screen", "copy of %s cancelled", p.plan.Track)
		env.Nav.ChangeScreen(p.returnTo())
	case ev.IsPad(6):
		if err := env.Store.CommitCopy(p.plan); err != nil {
			debug.Error("screen", "commit copy %s -> %s: %v", p.plan.Track, p.plan.Dest, err)
			env.failure("Copy Failed", err, env.goTo(p.returnTo))
			return
		}
		env.message("Copy Complete!", env.stem(p.plan.Dest), env.goTo(p.returnTo))
	}
}
