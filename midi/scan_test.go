package midi

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"embliss/config"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// fakeMachine answers kit requests for the last selected pattern
type fakeMachine struct {
	responses chan []byte
	pattern   byte
	silentAt  int // pattern index that never answers, -1 for none
	closed    bool
}

func newFakeMachine(silentAt int) *fakeMachine {
	return &fakeMachine{responses: make(chan []byte, 4), silentAt: silentAt}
}

func (f *fakeMachine) Send(data []byte) error {
	if !bytes.HasPrefix(data, elektronHeader) {
		return nil
	}
	body := data[len(elektronHeader):]
	switch {
	case len(body) == 3 && body[0] == cmdSetStatus && body[1] == paramPattern:
		f.pattern = body[2]
	case len(body) == 2 && body[0] == cmdRequestStatus && body[1] == paramKit:
		if int(f.pattern) == f.silentAt {
			return nil
		}
		resp := append(append([]byte(nil), elektronHeader...), cmdStatusResponse, paramKit, f.pattern%8)
		f.responses <- resp
	}
	return nil
}

func (f *fakeMachine) Responses() <-chan []byte { return f.responses }

func (f *fakeMachine) Close() error {
	f.closed = true
	return nil
}

func TestScanKits(t *testing.T) {
	kits, err := scanKits(newFakeMachine(-1), 50*time.Millisecond, 0)
	if err != nil {
		t.Fatalf("scanKits() error = %v", err)
	}
	for i, k := range kits {
		if want := i%8 + 1; k != want {
			t.Fatalf("kits[%d] = %d, want %d", i, k, want)
		}
	}
}

func TestScanKitsTimeout(t *testing.T) {
	start := time.Now()
	_, err := scanKits(newFakeMachine(3), 20*time.Millisecond, 0)
	if !errors.Is(err, ErrScanTimeout) {
		t.Fatalf("err = %v, want ErrScanTimeout", err)
	}
	if time.Since(start) > time.Second {
		t.Error("scan did not give up after the step timeout")
	}
}

func TestKitScannerClosesPort(t *testing.T) {
	fake := newFakeMachine(-1)
	s := &KitScanner{
		cfg:  config.ScanConfig{StepTimeout: 50 * time.Millisecond},
		open: func() (sysexPort, error) { return fake, nil },
	}
	if _, err := s.Scan(); err != nil {
		t.Fatal(err)
	}
	if !fake.closed {
		t.Error("port not closed after scan")
	}
}

func TestPulseInterval(t *testing.T) {
	if got, want := PulseInterval(120), time.Minute/(120*24); got != want {
		t.Errorf("PulseInterval(120) = %v, want %v", got, want)
	}
	if PulseInterval(0) != PulseInterval(120) {
		t.Error("non-positive bpm should fall back to 120")
	}
}

func TestClockRunSendsStartPulsesStop(t *testing.T) {
	var mu sync.Mutex
	var sent []gomidi.Message
	send := func(msg gomidi.Message) error {
		mu.Lock()
		sent = append(sent, msg)
		mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := NewClock(send, 300).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sent) < 3 {
		t.Fatalf("sent %d messages, want start, pulses and stop", len(sent))
	}
	if !bytes.Equal(sent[0].Bytes(), gomidi.Start().Bytes()) {
		t.Errorf("first message = %v, want start", sent[0])
	}
	if !bytes.Equal(sent[len(sent)-1].Bytes(), gomidi.Stop().Bytes()) {
		t.Errorf("last message = %v, want stop", sent[len(sent)-1])
	}
	for _, msg := range sent[1 : len(sent)-1] {
		if !bytes.Equal(msg.Bytes(), gomidi.TimingClock().Bytes()) {
			t.Errorf("unexpected message between start and stop: %v", msg)
		}
	}
}
