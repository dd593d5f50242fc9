package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"embliss/theme"
)

// RenderLCD draws the two display lines padded to width inside a backlit box
func RenderLCD(th *theme.Theme, line1, line2 string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(th.LCD()).
		Background(th.Backlight()).
		Width(width).
		Padding(0, 1)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Muted())
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, style.Render(line1), style.Render(line2)))
}

// RenderPad renders a single pad, lit while pressed
func RenderPad(th *theme.Theme, lit bool) string {
	if lit {
		return lipgloss.NewStyle().Foreground(th.Active()).Render(string(th.Symbols.PadLit))
	}
	return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.PadDark))
}

// RenderPadRow renders pads 1-8 with their numbers underneath; lit is 0-based
func RenderPadRow(th *theme.Theme, lit int) string {
	var pads, labels strings.Builder
	for i := 0; i < 8; i++ {
		if i > 0 {
			pads.WriteString(" ")
			labels.WriteString(" ")
		}
		pads.WriteString(RenderPad(th, i == lit))
		labels.WriteByte(byte('1' + i))
	}
	dim := lipgloss.NewStyle().Foreground(th.Muted())
	return pads.String() + "\n" + dim.Render(labels.String())
}

// RenderLevel draws a 0-127 control value as a bar of width cells
func RenderLevel(th *theme.Theme, label string, value uint8, width int) string {
	filled := int(value) * width / 127
	bar := strings.Repeat(string(th.Symbols.Fill), filled) +
		strings.Repeat(string(th.Symbols.Track), width-filled)
	return lipgloss.NewStyle().Foreground(th.Muted()).Render(label) + " " +
		lipgloss.NewStyle().Foreground(th.LCD()).Render(bar)
}

// RenderShift shows the shift latch
func RenderShift(th *theme.Theme, on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(th.Active()).Render(string(th.Symbols.ShiftOn) + " shift")
	}
	return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.ShiftOff) + " shift")
}
