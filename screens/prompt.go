package screens

import "embliss/midi"

// Prompt shows a fixed instruction: P6 continues, P5 cancels
type Prompt struct {
	base
	line1, line2 string
	next, cancel func() Screen
}

func NewPrompt(env *Env, line1, line2 string, next, cancel func() Screen) *Prompt {
	return &Prompt{base: base{env: env}, line1: line1, line2: line2, next: next, cancel: cancel}
}

func (p *Prompt) Name() string { return "prompt" }

func (p *Prompt) Render() (string, string) {
	return p.line1, p.line2
}

func (p *Prompt) HandleInput(ev midi.Event) {
	switch {
	case ev.IsPad(6):
		p.env.Nav.ChangeScreen(p.next())
	case ev.IsPad(5):
		p.env.Nav.ChangeScreen(p.cancel())
	}
}
