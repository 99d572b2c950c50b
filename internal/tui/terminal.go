package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"awsps/internal/selector"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrClosed is returned by NextEvent once the terminal has shut down.
var ErrClosed = errors.New("terminal closed")

const eventBuffer = 256

type renderMsg selector.RenderModel

type model struct {
	frame  selector.RenderModel
	events chan<- selector.Event
	keys   keyMap
	help   help.Model
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case renderMsg:
		m.frame = selector.RenderModel(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.emit(selector.Event{Kind: selector.EventResize, Width: msg.Width, Height: msg.Height})
		return m, nil

	case tea.KeyMsg:
		if ev, ok := translateKey(msg, m.keys); ok {
			m.emit(ev)
		}
		return m, nil
	}
	return m, nil
}

// emit hands an event to the selection loop without blocking the program.
func (m model) emit(ev selector.Event) {
	select {
	case m.events <- ev:
	default:
	}
}

func (m model) View() string {
	if m.frame.Stage.Terminal() {
		return ""
	}
	return renderFrame(m.frame, &m.help, m.keys)
}

// Terminal runs a bubbletea program and exposes it as a selector.Terminal.
// Keys and resizes become events; Render swaps the frame the program draws.
type Terminal struct {
	program *tea.Program
	events  chan selector.Event
	done    chan struct{}

	closeOnce sync.Once
	err       error
}

var _ selector.Terminal = (*Terminal)(nil)

type config struct {
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// Option configures a Terminal.
type Option func(*config)

// WithInput reads keys from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(c *config) { c.input = r }
}

// WithOutput draws to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithoutAltScreen draws inline instead of on the alternate screen.
func WithoutAltScreen() Option {
	return func(c *config) { c.altScreen = false }
}

// Start launches the program. The caller must Close it.
func Start(opts ...Option) *Terminal {
	cfg := config{output: os.Stderr, altScreen: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	// stdout is captured by the shell wrapper, so colors follow the output.
	r := lipgloss.NewRenderer(cfg.output)
	lipgloss.SetColorProfile(r.ColorProfile())
	lipgloss.SetHasDarkBackground(r.HasDarkBackground())

	events := make(chan selector.Event, eventBuffer)
	h := help.New()
	h.Styles.ShortKey = InfoStyle
	h.Styles.ShortDesc = MutedStyle
	h.Styles.ShortSeparator = MutedStyle

	progOpts := []tea.ProgramOption{tea.WithOutput(cfg.output)}
	if cfg.input != nil {
		progOpts = append(progOpts, tea.WithInput(cfg.input))
	}
	if cfg.altScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	t := &Terminal{
		program: tea.NewProgram(model{events: events, keys: defaultKeyMap(), help: h}, progOpts...),
		events:  events,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		if _, err := t.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			t.err = err
		}
	}()
	return t
}

// Render implements selector.Terminal.
func (t *Terminal) Render(m selector.RenderModel) error {
	select {
	case <-t.done:
		return t.closedErr()
	default:
	}
	t.program.Send(renderMsg(m))
	return nil
}

// NextEvent implements selector.Terminal.
func (t *Terminal) NextEvent(ctx context.Context) (selector.Event, error) {
	select {
	case ev := <-t.events:
		return ev, nil
	case <-ctx.Done():
		return selector.Event{}, ctx.Err()
	case <-t.done:
		return selector.Event{}, t.closedErr()
	}
}

// Close stops the program, restores the terminal and reports any error the
// program exited with.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.program.Quit()
		<-t.done
	})
	return t.err
}

func (t *Terminal) closedErr() error {
	if t.err != nil {
		return t.err
	}
	return ErrClosed
}
