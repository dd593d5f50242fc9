package midi

import "fmt"

// Kind separates continuous controls from buttons
type Kind int

const (
	Continuous Kind = iota // knobs, sliders, encoder: Value 0-127
	Trigger                // pads, shift: Pressed
)

// Control identifies a physical control independent of its CC/note number
type Control int

const (
	ControlNone Control = iota
	Encoder
	Slider1
	Slider2
	Slider3
	Slider4
	Knob1
	Knob2
	Knob3
	Knob4
	Knob5
	Knob6
	Knob7
	Knob8
	Shift
	Pad1
	Pad2
	Pad3
	Pad4
	Pad5
	Pad6
	Pad7
	Pad8
)

// Encoder values after normalization
const (
	EncoderUp   uint8 = 65
	EncoderDown uint8 = 62
)

// Pad returns the Control of pad n (1-8)
func Pad(n int) Control {
	return Pad1 + Control(n-1)
}

// Slider returns the Control of slider n (1-4)
func Slider(n int) Control {
	return Slider1 + Control(n-1)
}

// Knob returns the Control of knob n (1-8)
func Knob(n int) Control {
	return Knob1 + Control(n-1)
}

func (c Control) String() string {
	switch {
	case c == Encoder:
		return "enc"
	case c == Shift:
		return "shift"
	case c >= Slider1 && c <= Slider4:
		return fmt.Sprintf("s%d", c-Slider1+1)
	case c >= Knob1 && c <= Knob8:
		return fmt.Sprintf("k%d", c-Knob1+1)
	case c >= Pad1 && c <= Pad8:
		return fmt.Sprintf("p%d", c-Pad1+1)
	}
	return "none"
}

// Event is a normalized input event
type Event struct {
	Kind    Kind
	Control Control
	Value   uint8 // Continuous
	Pressed bool  // Trigger
	Shifted bool  // Trigger sent while shift was held
}

// CC builds a continuous event
func CC(c Control, value uint8) Event {
	return Event{Kind: Continuous, Control: c, Value: value}
}

// Press builds a pad press, shifted or not
func Press(n int, shifted bool) Event {
	return Event{Kind: Trigger, Control: Pad(n), Pressed: true, Shifted: shifted}
}

// IsPad reports an unshifted press of pad n
func (e Event) IsPad(n int) bool {
	return e.Kind == Trigger && e.Pressed && !e.Shifted && e.Control == Pad(n)
}

// IsShiftPad reports a shifted press of pad n
func (e Event) IsShiftPad(n int) bool {
	return e.Kind == Trigger && e.Pressed && e.Shifted && e.Control == Pad(n)
}

// Step returns +1 / -1 for encoder turns, 0 otherwise
func (e Event) Step() int {
	if e.Kind != Continuous || e.Control != Encoder {
		return 0
	}
	switch e.Value {
	case EncoderUp:
		return 1
	case EncoderDown:
		return -1
	}
	return 0
}

func (e Event) String() string {
	if e.Kind == Continuous {
		return fmt.Sprintf("%s=%d", e.Control, e.Value)
	}
	prefix := ""
	if e.Shifted {
		prefix = "shift+"
	}
	state := "up"
	if e.Pressed {
		state = "down"
	}
	return fmt.Sprintf("%s%s %s", prefix, e.Control, state)
}
