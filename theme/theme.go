package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	PadLit   rune // ■ pad pressed
	PadDark  rune // □ pad idle
	Fill     rune // █ slider/knob level
	Track    rune // ░ slider/knob remainder
	ShiftOn  rune // ⇧ shift latched
	ShiftOff rune // · shift released
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			PadLit:   '■',
			PadDark:  '□',
			Fill:     '█',
			Track:    '░',
			ShiftOn:  '⇧',
			ShiftOff: '·',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBacklight = 0.0  // LCD background
	RoleMuted     = 0.25 // hints, idle pads
	RoleLCD       = 0.5  // LCD text
	RoleAccent    = 0.65 // header
	RoleActive    = 0.8  // pressed pad, shift
	RoleWarning   = 0.9
)

func (t *Theme) Backlight() lipgloss.Color { return t.Color(RoleBacklight) }
func (t *Theme) Muted() lipgloss.Color     { return t.Color(RoleMuted) }
func (t *Theme) LCD() lipgloss.Color       { return t.Color(RoleLCD) }
func (t *Theme) Accent() lipgloss.Color    { return t.Color(RoleAccent) }
func (t *Theme) Active() lipgloss.Color    { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color   { return t.Color(RoleWarning) }

// Color returns the lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	c := t.Palette.Lookup(norm)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
