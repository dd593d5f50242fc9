package midi

import (
	"bytes"
	"time"

	"embliss/config"
	"embliss/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Elektron status protocol (Monomachine)
var elektronHeader = []byte{0x00, 0x20, 0x3c, 0x03, 0x00}

const (
	cmdSetStatus      = 0x71
	cmdRequestStatus  = 0x70
	cmdStatusResponse = 0x72
	paramPattern      = 0x04
	paramKit          = 0x02
)

// NumPatterns is the number of pattern slots scanned
const NumPatterns = 128

// KitMap holds the kit number (1-based) used by each pattern slot
type KitMap [NumPatterns]int

// ErrScanTimeout is returned when the device stops answering
var ErrScanTimeout = errors.New("no kit response")

// sysexPort is the request/response channel the scan talks over
type sysexPort interface {
	Send(data []byte) error   // payload without F0/F7
	Responses() <-chan []byte // payloads without F0/F7
	Close() error
}

// KitScanner maps every pattern slot to its kit via SysEx status requests
type KitScanner struct {
	cfg  config.ScanConfig
	open func() (sysexPort, error)
}

// NewKitScanner scans over the first port pair matching cfg.PortKeyword
func NewKitScanner(cfg config.ScanConfig) *KitScanner {
	s := &KitScanner{cfg: cfg}
	s.open = func() (sysexPort, error) { return openSysexPort(cfg.PortKeyword) }
	return s
}

// Scan blocks for up to NumPatterns steps. Each step fails after the
// configured step timeout.
func (s *KitScanner) Scan() (KitMap, error) {
	port, err := s.open()
	if err != nil {
		return KitMap{}, errors.Wrap(err, "kit scan")
	}
	defer port.Close()

	debug.Info("scan", "starting kit scan")
	kits, err := scanKits(port, s.cfg.StepTimeout, s.cfg.SettleDelay)
	if err != nil {
		debug.Warn("scan", "kit scan failed: %v", err)
		return KitMap{}, err
	}
	debug.Info("scan", "kit scan complete")
	return kits, nil
}

func scanKits(port sysexPort, stepTimeout, settle time.Duration) (KitMap, error) {
	var kits KitMap
	want := append(append([]byte(nil), elektronHeader...), cmdStatusResponse, paramKit)

	for i := 0; i < NumPatterns; i++ {
		setPattern := append(append([]byte(nil), elektronHeader...), cmdSetStatus, paramPattern, byte(i))
		if err := port.Send(setPattern); err != nil {
			return kits, errors.Wrapf(err, "set pattern %d", i)
		}
		time.Sleep(settle)

		// stale responses from an earlier step would be misread
		drain(port.Responses())

		request := append(append([]byte(nil), elektronHeader...), cmdRequestStatus, paramKit)
		if err := port.Send(request); err != nil {
			return kits, errors.Wrapf(err, "request kit %d", i)
		}

		kit, err := awaitKit(port.Responses(), want, stepTimeout)
		if err != nil {
			return kits, errors.Wrapf(err, "pattern %d", i)
		}
		kits[i] = kit
		debug.LogEvery(16, "scan", "pattern %d kit %d", i, kit)
	}
	return kits, nil
}

func awaitKit(responses <-chan []byte, want []byte, timeout time.Duration) (int, error) {
	deadline := time.After(timeout)
	for {
		select {
		case data := <-responses:
			if len(data) > len(want) && bytes.HasPrefix(data, want) {
				return int(data[len(want)]) + 1, nil
			}
		case <-deadline:
			return 0, ErrScanTimeout
		}
	}
}

func drain(ch <-chan []byte) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// gomidiPort adapts a pair of driver ports to sysexPort
type gomidiPort struct {
	in        drivers.In
	out       drivers.Out
	send      func(msg gomidi.Message) error
	stop      func()
	responses chan []byte
}

func openSysexPort(keyword string) (sysexPort, error) {
	in, out, err := FindPorts(keyword)
	if err != nil {
		return nil, err
	}
	return newGomidiPort(in, out)
}

func newGomidiPort(in drivers.In, out drivers.Out) (*gomidiPort, error) {
	p := &gomidiPort{in: in, out: out, responses: make(chan []byte, 16)}

	var err error
	p.send, err = gomidi.SendTo(out)
	if err != nil {
		closePorts(in, out)
		return nil, errors.Wrap(err, "open scan output")
	}
	p.stop, err = gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		var data []byte
		if !msg.GetSysEx(&data) {
			return
		}
		select {
		case p.responses <- data:
		default:
		}
	}, gomidi.UseSysEx())
	if err != nil {
		closePorts(in, out)
		return nil, errors.Wrap(err, "open scan input")
	}
	return p, nil
}

func (p *gomidiPort) Send(data []byte) error {
	return p.send(gomidi.SysEx(data))
}

func (p *gomidiPort) Responses() <-chan []byte {
	return p.responses
}

func (p *gomidiPort) Close() error {
	if p.stop != nil {
		p.stop()
	}
	p.in.Close()
	return p.out.Close()
}
