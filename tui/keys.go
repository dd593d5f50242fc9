package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	EncDown    key.Binding
	EncUp      key.Binding
	Pads       key.Binding
	Shift      key.Binding
	SliderUp   key.Binding
	SliderDown key.Binding
	KnobUp     key.Binding
	KnobDown   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// slider keys in slider order
var (
	sliderUpKeys   = []string{"q", "w", "e", "r"}
	sliderDownKeys = []string{"a", "s", "d", "f"}
)

func defaultKeyMap() keyMap {
	return keyMap{
		EncDown:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "enc -")),
		EncUp:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "enc +")),
		Pads:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "pads")),
		Shift:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "shift")),
		SliderUp:   key.NewBinding(key.WithKeys(sliderUpKeys...), key.WithHelp("qwer", "sliders +")),
		SliderDown: key.NewBinding(key.WithKeys(sliderDownKeys...), key.WithHelp("asdf", "sliders -")),
		KnobUp:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "k8 +")),
		KnobDown:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "k8 -")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EncDown, k.EncUp, k.Pads, k.Shift, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.EncDown, k.EncUp, k.Pads, k.Shift},
		{k.SliderUp, k.SliderDown, k.KnobUp, k.KnobDown},
		{k.Help, k.Quit},
	}
}

// indexOf returns the 1-based position of s in keys, 0 if absent
func indexOf(keys []string, s string) int {
	for i, k := range keys {
		if k == s {
			return i + 1
		}
	}
	return 0
}
