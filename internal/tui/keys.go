package tui

import (
	"awsps/internal/selector"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "tab"),
			key.WithHelp("↓/ctrl+n", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Escape, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Back, k.Escape, k.Quit},
	}
}

// translateKey maps a key press to a selector event. Typed and pasted text,
// space included, becomes a single EventRunes.
func translateKey(msg tea.KeyMsg, keys keyMap) (selector.Event, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return selector.Event{}, false
		}
		return selector.Event{Kind: selector.EventRunes, Runes: msg.Runes}, true
	case tea.KeySpace:
		return selector.Event{Kind: selector.EventRunes, Runes: []rune{' '}}, true
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return selector.Key(selector.EventInterrupt), true
	case key.Matches(msg, keys.Up):
		return selector.Key(selector.EventUp), true
	case key.Matches(msg, keys.Down):
		return selector.Key(selector.EventDown), true
	case key.Matches(msg, keys.Enter):
		return selector.Key(selector.EventEnter), true
	case key.Matches(msg, keys.Back):
		return selector.Key(selector.EventBackspace), true
	case key.Matches(msg, keys.Escape):
		return selector.Key(selector.EventEscape), true
	}
	return selector.Event{}, false
}
