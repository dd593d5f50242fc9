package midi

import (
	"context"
	"time"

	"embliss/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// PPQ is the MIDI clock resolution (pulses per quarter note)
const PPQ = 24

// PulseInterval is the time between clock pulses at bpm
func PulseInterval(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = 120
	}
	return time.Minute / time.Duration(bpm*PPQ)
}

// Clock emits MIDI timing clock on one output
type Clock struct {
	send func(msg gomidi.Message) error
	bpm  int
}

// NewClock creates a clock sending through send
func NewClock(send func(msg gomidi.Message) error, bpm int) *Clock {
	return &Clock{send: send, bpm: bpm}
}

// Run sends Start, then a pulse every PulseInterval until ctx is done, then
// Stop. Pulse n is scheduled at start + n*interval so timer jitter does not
// accumulate.
func (c *Clock) Run(ctx context.Context) error {
	if err := c.send(gomidi.Start()); err != nil {
		return errors.Wrap(err, "send start")
	}
	debug.Info("clock", "started at %d bpm", c.bpm)

	interval := PulseInterval(c.bpm)
	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	var pulse int64
	for {
		select {
		case <-ctx.Done():
			if err := c.send(gomidi.Stop()); err != nil {
				return errors.Wrap(err, "send stop")
			}
			debug.Info("clock", "stopped after %d pulses", pulse)
			return nil
		case <-timer.C:
			if err := c.send(gomidi.TimingClock()); err != nil {
				debug.LogEvery(PPQ*4, "clock", "send pulse: %v", err)
			}
			pulse++
			next := start.Add(time.Duration(pulse) * interval)
			timer.Reset(time.Until(next))
		}
	}
}
