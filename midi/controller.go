package midi

import (
	"sync"

	"embliss/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Arturia text command: F0 <header> 01 <line1> 00 02 <line2> F7
var textPrefix = []byte{0x00, 0x20, 0x6B, 0x7F, 0x42, 0x04, 0x02, 0x60}

// DisplaySysEx builds the payload (without F0/F7) that shows two lines of
// text. Characters outside 7-bit ASCII are sent as '?'.
func DisplaySysEx(line1, line2 string) []byte {
	data := make([]byte, 0, len(textPrefix)+len(line1)+len(line2)+3)
	data = append(data, textPrefix...)
	data = append(data, 0x01)
	data = appendASCII(data, line1)
	data = append(data, 0x00, 0x02)
	data = appendASCII(data, line2)
	return data
}

func appendASCII(dst []byte, s string) []byte {
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		dst = append(dst, byte(r))
	}
	return dst
}

// Minilab is a connected controller: a two-line display plus normalized
// input events
type Minilab struct {
	id      string
	inPort  drivers.In
	outPort drivers.Out
	send    func(msg gomidi.Message) error
	stop    func()
	mapping *Mapping

	events chan Event

	mu     sync.Mutex
	closed bool
}

// NewMinilab opens the ports, sends init (if any) and starts listening
func NewMinilab(id string, inPort drivers.In, outPort drivers.Out, mapping *Mapping, init []byte) (*Minilab, error) {
	c := &Minilab{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		mapping: mapping,
		events:  make(chan Event, 64),
	}

	send, err := gomidi.SendTo(outPort)
	if err != nil {
		closePorts(inPort, outPort)
		return nil, errors.Wrap(err, "open output")
	}
	c.send = send

	if len(init) > 0 {
		if err := c.send(gomidi.SysEx(init)); err != nil {
			closePorts(inPort, outPort)
			return nil, errors.Wrap(err, "send init sysex")
		}
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		ev, ok := c.mapping.Translate(msg)
		if !ok {
			debug.LogEvery(50, "midi", "unmapped %s", msg)
			return
		}
		select {
		case c.events <- ev:
		default:
			debug.Warn("midi", "input buffer full, dropped %s", ev)
		}
	})
	if err != nil {
		closePorts(inPort, outPort)
		return nil, errors.Wrap(err, "open input")
	}
	c.stop = stop

	debug.Info("midi", "controller connected: %s", id)
	return c, nil
}

// closePorts releases ports after a failed open
func closePorts(in drivers.In, out drivers.Out) {
	if in != nil {
		in.Close()
	}
	if out != nil {
		out.Close()
	}
}

func (c *Minilab) ID() string {
	return c.id
}

// Events returns the input channel
func (c *Minilab) Events() <-chan Event {
	return c.events
}

// Poll returns the next pending event without blocking
func (c *Minilab) Poll() (Event, bool) {
	select {
	case ev := <-c.events:
		return ev, true
	default:
		return Event{}, false
	}
}

// Render shows two lines on the display. Lines must already fit.
func (c *Minilab) Render(line1, line2 string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("controller closed")
	}
	return c.send(gomidi.SysEx(DisplaySysEx(line1, line2)))
}

// Clear blanks the display
func (c *Minilab) Clear() error {
	return c.Render("", "")
}

func (c *Minilab) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.stop != nil {
		c.stop()
	}
	var err error
	if c.inPort != nil && c.inPort.IsOpen() {
		err = c.inPort.Close()
	}
	if c.outPort != nil && c.outPort.IsOpen() {
		if cerr := c.outPort.Close(); err == nil {
			err = cerr
		}
	}
	debug.Info("midi", "controller closed: %s", c.id)
	return err
}
