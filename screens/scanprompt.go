package screens

import (
	"embliss/debug"
	"embliss/midi"
	"embliss/setstore"
)

type scanState int

const (
	scanPrompt scanState = iota
	scanRunning
	scanFailed
)

// ScanPrompt runs the external kit scan before the copy preview
type ScanPrompt struct {
	base
	plan     *setstore.CopyPlan
	returnTo func() Screen
	state    scanState
}

func NewScanPrompt(env *Env, plan *setstore.CopyPlan, returnTo func() Screen) *ScanPrompt {
	return &ScanPrompt{base: base{env: env}, plan: plan, returnTo: returnTo}
}

func (s *ScanPrompt) Name() string { return "scan" }

func (s *ScanPrompt) Render() (string, string) {
	switch s.state {
	case scanRunning:
		return "Scanning MnM...", "Please wait."
	case scanFailed:
		return "Scan Failed.", "P5:C P6:Retry"
	}
	return "Load Dest on MnM", "P5:C P6:Scan"
}

func (s *ScanPrompt) HandleInput(ev midi.Event) {
	switch {
	case ev.IsPad(5):
		s.env.Nav.ChangeScreen(s.returnTo())
	case ev.IsPad(6):
		s.scan()
	}
}

// scan blocks the navigator until the scanner answers or times out
func (s *ScanPrompt) scan() {
	env := s.env
	s.state = scanRunning
	env.Nav.RenderNow()

	kits, err := env.Scanner.Scan()
	if err != nil {
		debug.Error("scan", "kit scan: %v", err)
		s.state = scanFailed
		s.markDirty()
		return
	}

	plan, returnTo := s.plan, s.returnTo
	env.Nav.ChangeScreen(NewPrompt(env, "Conn MMIO>c6", "P5:C P6:Cont",
		func() Screen { return NewPreview(env, plan, &kits, returnTo) }, returnTo))
}
