package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MIDIConfig identifies the controller and how to wake it up
type MIDIConfig struct {
	DeviceSubstring string `yaml:"deviceSubstring"`
	InitSysEx       []int  `yaml:"initSysEx,omitempty,flow"` // without F0/F7
}

// InitBytes returns the init SysEx payload as bytes
func (m MIDIConfig) InitBytes() []byte {
	out := make([]byte, len(m.InitSysEx))
	for i, v := range m.InitSysEx {
		out[i] = byte(v)
	}
	return out
}

// ControlsConfig is the physical control table (CC numbers and pad notes)
type ControlsConfig struct {
	// wire channels, 0-based
	Channel     uint8 `yaml:"channel"`     // knobs, sliders, encoder
	PadsChannel uint8 `yaml:"padsChannel"` // drum pads

	Knobs   [8]uint8 `yaml:"knobs,flow"`
	Sliders [4]uint8 `yaml:"sliders,flow"`

	EncoderCC   uint8 `yaml:"encoderCC"`
	EncoderUp   uint8 `yaml:"encoderUp"`
	EncoderDown uint8 `yaml:"encoderDown"`

	ShiftCC uint8 `yaml:"shiftCC"`

	Pads      [8]uint8 `yaml:"pads,flow"`      // note numbers, unshifted
	ShiftPads [8]uint8 `yaml:"shiftPads,flow"` // CC numbers sent by pads while shift is held, 0 = none
}

// SetsConfig describes where set files live and how they are named
type SetsConfig struct {
	Dir            string `yaml:"dir"`
	Extension      string `yaml:"extension"`
	MaxVersion     int    `yaml:"maxVersion"`
	DefaultContent string `yaml:"defaultContent"`
}

// DisplayConfig holds the device text limits
type DisplayConfig struct {
	Line1Max        int           `yaml:"line1Max"`
	Line2Max        int           `yaml:"line2Max"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

// UIConfig holds screen timings
type UIConfig struct {
	ConfirmTimeout    time.Duration `yaml:"confirmTimeout"`
	MessageDuration   time.Duration `yaml:"messageDuration"`
	ErrorDuration     time.Duration `yaml:"errorDuration"`
	PollInterval      time.Duration `yaml:"pollInterval"`
	ReconnectInterval time.Duration `yaml:"reconnectInterval"`
}

// ScanConfig configures the external kit scan
type ScanConfig struct {
	PortKeyword string        `yaml:"portKeyword"`
	StepTimeout time.Duration `yaml:"stepTimeout"`
	SettleDelay time.Duration `yaml:"settleDelay"`
}

// ClockConfig configures the clock process
type ClockConfig struct {
	PortName string `yaml:"portName"`
	BPM      int    `yaml:"bpm"`
}

// APIConfig configures the inspection server
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the main configuration structure
type Config struct {
	MIDI     MIDIConfig     `yaml:"midi"`
	Controls ControlsConfig `yaml:"controls"`
	Sets     SetsConfig     `yaml:"sets"`
	Display  DisplayConfig  `yaml:"display"`
	UI       UIConfig       `yaml:"ui"`
	Scan     ScanConfig     `yaml:"scan"`
	Clock    ClockConfig    `yaml:"clock"`
	API      APIConfig      `yaml:"api"`
}

// DefaultContent is written into freshly created sets
const DefaultContent = "md A01 mnm A01 rep 1 len 32 tin 0 bpm 150 bpmr 0 poly 0;\n"

// DefaultConfig returns the Minilab3 setup
func DefaultConfig() *Config {
	setsDir := "sets"
	if dir, err := ConfigDir(); err == nil {
		setsDir = filepath.Join(dir, "sets")
	}

	return &Config{
		MIDI: MIDIConfig{
			DeviceSubstring: "MINILAB3 MIDI",
			InitSysEx:       []int{0x00, 0x20, 0x6B, 0x7F, 0x42, 0x02, 0x02, 0x40, 0x6A, 0x21},
		},
		Controls: ControlsConfig{
			Channel:     1,
			PadsChannel: 10,
			Knobs:       [8]uint8{86, 87, 89, 90, 110, 111, 116, 117},
			Sliders:     [4]uint8{14, 15, 30, 31},
			EncoderCC:   28,
			EncoderUp:   65,
			EncoderDown: 62,
			ShiftCC:     27,
			Pads:        [8]uint8{36, 37, 38, 39, 40, 41, 42, 43},
			ShiftPads:   [8]uint8{0, 0, 0, 104, 105, 106, 107, 108},
		},
		Sets: SetsConfig{
			Dir:            setsDir,
			Extension:      ".mset",
			MaxVersion:     63,
			DefaultContent: DefaultContent,
		},
		Display: DisplayConfig{
			Line1Max:        16,
			Line2Max:        15,
			RefreshInterval: 75 * time.Millisecond,
		},
		UI: UIConfig{
			ConfirmTimeout:    3 * time.Second,
			MessageDuration:   time.Second,
			ErrorDuration:     2 * time.Second,
			PollInterval:      5 * time.Millisecond,
			ReconnectInterval: 5 * time.Second,
		},
		Scan: ScanConfig{
			PortKeyword: "pisound",
			StepTimeout: time.Second,
			SettleDelay: 150 * time.Millisecond,
		},
		Clock: ClockConfig{
			PortName: "em_clock_out",
			BPM:      120,
		},
		API: APIConfig{
			Addr: ":8080",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "embliss"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DebugLogPath returns where the simulator writes its log
func DebugLogPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return "debug.log"
	}
	return filepath.Join(dir, "debug.log")
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the UI cannot work with
func (c *Config) Validate() error {
	switch {
	case c.Sets.Extension == "":
		return errors.New("sets.extension must not be empty")
	case c.Sets.MaxVersion < 0 || c.Sets.MaxVersion > 999:
		return errors.Errorf("sets.maxVersion %d out of range 0-999", c.Sets.MaxVersion)
	case c.Display.Line1Max <= 0 || c.Display.Line2Max <= 0:
		return errors.New("display line limits must be positive")
	case c.Controls.EncoderUp == c.Controls.EncoderDown:
		return errors.New("controls.encoderUp and encoderDown must differ")
	case c.Clock.BPM <= 0:
		return errors.Errorf("clock.bpm %d must be positive", c.Clock.BPM)
	case c.Scan.SettleDelay < 0:
		return errors.Errorf("scan.settleDelay %v must not be negative", c.Scan.SettleDelay)
	}

	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"display.refreshInterval", c.Display.RefreshInterval},
		{"ui.confirmTimeout", c.UI.ConfirmTimeout},
		{"ui.messageDuration", c.UI.MessageDuration},
		{"ui.errorDuration", c.UI.ErrorDuration},
		{"ui.pollInterval", c.UI.PollInterval},
		{"ui.reconnectInterval", c.UI.ReconnectInterval},
		{"scan.stepTimeout", c.Scan.StepTimeout},
	} {
		if d.v <= 0 {
			return errors.Errorf("%s %v must be positive", d.name, d.v)
		}
	}
	return nil
}
