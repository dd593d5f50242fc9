package midi

import (
	"sync"

	"embliss/config"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Mapping translates raw controller messages into Events using the control
// table from the config. It tracks the shift button so pads pressed while
// shift is held come out shifted.
type Mapping struct {
	cfg config.ControlsConfig

	mu      sync.Mutex
	shifted bool
}

// NewMapping creates a mapping for the given control table
func NewMapping(cfg config.ControlsConfig) *Mapping {
	return &Mapping{cfg: cfg}
}

// Translate converts msg; ok is false for messages outside the table
func (m *Mapping) Translate(msg gomidi.Message) (Event, bool) {
	var channel, key, value uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &value):
		if channel != m.cfg.PadsChannel {
			return Event{}, false
		}
		return m.pad(key, value > 0)
	case msg.GetNoteOff(&channel, &key, &value):
		if channel != m.cfg.PadsChannel {
			return Event{}, false
		}
		return m.pad(key, false)
	case msg.GetControlChange(&channel, &key, &value):
		return m.controlChange(channel, key, value)
	}
	return Event{}, false
}

func (m *Mapping) pad(note uint8, pressed bool) (Event, bool) {
	for i, n := range m.cfg.Pads {
		if n == note {
			m.mu.Lock()
			shifted := m.shifted
			m.mu.Unlock()
			return Event{Kind: Trigger, Control: Pad(i + 1), Pressed: pressed, Shifted: shifted}, true
		}
	}
	return Event{}, false
}

func (m *Mapping) controlChange(channel, cc, value uint8) (Event, bool) {
	if cc == m.cfg.ShiftCC {
		m.mu.Lock()
		m.shifted = value > 0
		m.mu.Unlock()
		return Event{Kind: Trigger, Control: Shift, Pressed: value > 0}, true
	}

	// shifted pads arrive as dedicated CCs on either channel
	for i, n := range m.cfg.ShiftPads {
		if n != 0 && n == cc {
			return Event{Kind: Trigger, Control: Pad(i + 1), Pressed: value > 0, Shifted: true}, true
		}
	}

	if channel != m.cfg.Channel {
		return Event{}, false
	}

	if cc == m.cfg.EncoderCC {
		return m.encoder(value)
	}
	for i, n := range m.cfg.Sliders {
		if n == cc {
			return CC(Slider(i+1), value), true
		}
	}
	for i, n := range m.cfg.Knobs {
		if n == cc {
			return CC(Knob(i+1), value), true
		}
	}
	return Event{}, false
}

// encoder normalizes the relative encoder value to EncoderUp/EncoderDown
func (m *Mapping) encoder(value uint8) (Event, bool) {
	switch {
	case value == m.cfg.EncoderUp:
		return CC(Encoder, EncoderUp), true
	case value == m.cfg.EncoderDown:
		return CC(Encoder, EncoderDown), true
	case value > 64:
		return CC(Encoder, EncoderUp), true
	case value < 64:
		return CC(Encoder, EncoderDown), true
	}
	return Event{}, false
}

// Shifted reports whether shift is currently held
func (m *Mapping) Shifted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shifted
}
