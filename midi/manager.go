package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"embliss/config"
	"embliss/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrNoDevice is returned when no port matches the configured name
var ErrNoDevice = errors.New("midi device not found")

// portScanTimeout guards port enumeration, which can hang on a wedged
// MIDI service
const portScanTimeout = 3 * time.Second

// Ports lists the current input and output ports
func Ports() ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		inPorts := gomidi.GetInPorts()
		outPorts := gomidi.GetOutPorts()
		ch <- portsResult{inPorts: inPorts, outPorts: outPorts}
	}()

	select {
	case result := <-ch:
		return result.inPorts, result.outPorts, nil
	case <-time.After(portScanTimeout):
		return nil, nil, errors.New("port enumeration timed out")
	}
}

// FindPorts returns the first input and output whose names contain substr
// (case-insensitive)
func FindPorts(substr string) (drivers.In, drivers.Out, error) {
	inPorts, outPorts, err := Ports()
	if err != nil {
		return nil, nil, err
	}
	var in drivers.In
	var out drivers.Out
	for _, p := range inPorts {
		if matchPort(p.String(), substr) {
			in = p
			break
		}
	}
	for _, p := range outPorts {
		if matchPort(p.String(), substr) {
			out = p
			break
		}
	}
	if in == nil || out == nil {
		return nil, nil, errors.Wrapf(ErrNoDevice, "%q (in=%v out=%v)", substr, in != nil, out != nil)
	}
	return in, out, nil
}

func matchPort(name, substr string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(substr))
}

// DeviceManager owns the controller connection and notices when it goes away
type DeviceManager struct {
	cfg     *config.Config
	mapping *Mapping

	mu   sync.Mutex
	ctrl *Minilab
}

// NewDeviceManager creates a manager for the configured controller
func NewDeviceManager(cfg *config.Config) *DeviceManager {
	return &DeviceManager{
		cfg:     cfg,
		mapping: NewMapping(cfg.Controls),
	}
}

// Connect finds and opens the controller
func (dm *DeviceManager) Connect() (*Minilab, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.ctrl != nil {
		return dm.ctrl, nil
	}

	in, out, err := FindPorts(dm.cfg.MIDI.DeviceSubstring)
	if err != nil {
		return nil, err
	}
	ctrl, err := NewMinilab(in.String(), in, out, dm.mapping, dm.cfg.MIDI.InitBytes())
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", in.String())
	}
	dm.ctrl = ctrl
	return ctrl, nil
}

// Present reports whether the connected controller still shows up in the
// port list
func (dm *DeviceManager) Present() bool {
	dm.mu.Lock()
	ctrl := dm.ctrl
	dm.mu.Unlock()
	if ctrl == nil {
		return false
	}

	inPorts, _, err := Ports()
	if err != nil {
		// wedged enumeration is not a disconnect
		return true
	}
	for _, p := range inPorts {
		if p.String() == ctrl.ID() {
			return true
		}
	}
	return false
}

// Watch cancels the returned context when the controller disappears
func (dm *DeviceManager) Watch(ctx context.Context, every time.Duration) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !dm.Present() {
					debug.Warn("midi", "controller disappeared")
					return
				}
			}
		}
	}()
	return ctx
}

// Disconnect closes the controller, optionally blanking its display first
func (dm *DeviceManager) Disconnect(clear bool) {
	dm.mu.Lock()
	ctrl := dm.ctrl
	dm.ctrl = nil
	dm.mu.Unlock()

	if ctrl == nil {
		return
	}
	if clear {
		if err := ctrl.Clear(); err != nil {
			debug.Log("midi", "clear on disconnect: %v", err)
		}
	}
	if err := ctrl.Close(); err != nil {
		debug.Log("midi", "close: %v", err)
	}
}
