// Package selector implements the staged account/role search as an explicit
// state machine. The Controller never touches a terminal: it consumes Events
// and exposes a RenderModel, and Run drives it against any Terminal.
package selector

import (
	"fmt"

	"awsps/internal/aws"
)

// Stage is one phase of the narrowing search.
type Stage int

const (
	Initial Stage = iota
	AccountSearch
	RoleSearch
	Confirmed
	Cancelled
)

func (s Stage) String() string {
	switch s {
	case Initial:
		return "initial"
	case AccountSearch:
		return "account-search"
	case RoleSearch:
		return "role-search"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Terminal reports whether the stage ends the selection.
func (s Stage) Terminal() bool {
	return s == Confirmed || s == Cancelled
}

// EventKind identifies a user input.
type EventKind int

const (
	EventRunes EventKind = iota
	EventBackspace
	EventEscape
	EventEnter
	EventUp
	EventDown
	EventResize
	EventInterrupt
)

func (k EventKind) String() string {
	switch k {
	case EventRunes:
		return "runes"
	case EventBackspace:
		return "backspace"
	case EventEscape:
		return "escape"
	case EventEnter:
		return "enter"
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventResize:
		return "resize"
	case EventInterrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one input delivered to the Controller. Runes carries typed or
// pasted text for EventRunes; Width and Height are set for EventResize.
type Event struct {
	Kind   EventKind
	Runes  []rune
	Width  int
	Height int
}

// Type returns an EventRunes event for s.
func Type(s string) Event {
	return Event{Kind: EventRunes, Runes: []rune(s)}
}

// Key returns a payload-free event of the given kind.
func Key(kind EventKind) Event {
	return Event{Kind: kind}
}

// State is the observable selection state.
type State struct {
	Stage         Stage
	Query         string
	ChosenAccount string
	// Cursor indexes the highlighted candidate, -1 when there is none.
	Cursor int
}

// Option is one rendered candidate.
type Option struct {
	Label  string
	Detail string
	// Matched holds the rune positions of Label that matched the query.
	Matched []int
	Score   int
}

// RenderModel is everything a Terminal needs to draw the current frame.
type RenderModel struct {
	Stage   Stage
	Title   string
	Query   string
	Account string
	Options []Option
	Cursor  int
	// Total is the number of candidates before filtering.
	Total  int
	Width  int
	Height int
}

// Selected returns the highlighted option, if any.
func (m RenderModel) Selected() (Option, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return Option{}, false
	}
	return m.Options[m.Cursor], true
}

// Outcome is how a selection ended.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeConfirmed
)

func (o Outcome) String() string {
	if o == OutcomeConfirmed {
		return "confirmed"
	}
	return "cancelled"
}

// Result is returned by Run once the Controller reaches a terminal stage.
type Result struct {
	Outcome Outcome
	Profile aws.Profile
}
