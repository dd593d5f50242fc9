package tui

import (
	"sync"

	"embliss/debug"
	"embliss/midi"
)

// ControlStep is how far one key press moves a slider or knob
const ControlStep = 5

// Sim stands in for the controller: it stores rendered lines and queues
// events produced from the keyboard
type Sim struct {
	mu           sync.Mutex
	line1, line2 string
	queue        []midi.Event
	shift        bool
	sliders      [4]uint8
	knob         uint8
}

func NewSim() *Sim {
	return &Sim{}
}

// Render implements the display side
func (s *Sim) Render(line1, line2 string) error {
	s.mu.Lock()
	s.line1, s.line2 = line1, line2
	s.mu.Unlock()
	return nil
}

// Poll implements the input side
func (s *Sim) Poll() (midi.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return midi.Event{}, false
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, true
}

func (s *Sim) Lines() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line1, s.line2
}

func (s *Sim) push(ev midi.Event) {
	debug.Log("sim", "%s", ev)
	s.queue = append(s.queue, ev)
}

// Turn emits one encoder detent per step
func (s *Sim) Turn(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := midi.EncoderUp
	if step < 0 {
		v = midi.EncoderDown
		step = -step
	}
	for i := 0; i < step; i++ {
		s.push(midi.CC(midi.Encoder, v))
	}
}

// Press emits a press of pad n. A latched shift applies to this press only.
func (s *Sim) Press(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push(midi.Press(n, s.shift))
	s.shift = false
}

// ToggleShift latches or releases shift for the next pad
func (s *Sim) ToggleShift() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift = !s.shift
}

func (s *Sim) Shifted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shift
}

// NudgeSlider moves slider n (1-4) by delta, clamped to 0-127
func (s *Sim) NudgeSlider(n, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sliders[n-1] = nudge(s.sliders[n-1], delta)
	s.push(midi.CC(midi.Slider(n), s.sliders[n-1]))
}

// NudgeKnob moves knob 8 (version) by delta
func (s *Sim) NudgeKnob(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knob = nudge(s.knob, delta)
	s.push(midi.CC(midi.Knob8, s.knob))
}

// Levels returns slider 1-4 and knob 8 values
func (s *Sim) Levels() ([4]uint8, uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sliders, s.knob
}

func nudge(v uint8, delta int) uint8 {
	n := int(v) + delta
	switch {
	case n < 0:
		n = 0
	case n > 127:
		n = 127
	}
	return uint8(n)
}
