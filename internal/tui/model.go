// Package tui provides the BubbleTea-based terminal preview. The
// engine runs its own loop on a separate goroutine; the model only
// reads engine state when a frame is due and repaints.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/milkwidget/milk/internal/config"
	"github.com/milkwidget/milk/internal/engine"
	"github.com/milkwidget/milk/internal/render"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModePreview Mode = iota
	ModeDiagnostics
	ModeHelp
)

// Model is the main preview model.
type Model struct {
	cfg     *config.Config
	eng     *engine.Engine
	surface *render.Surface

	mode   Mode
	paused bool

	// Last painted frame, kept so pausing freezes the display.
	frame string

	width  int
	height int
	ready  bool

	keys KeyMap
	help help.Model

	statusMsg string
	statusErr bool

	events <-chan engine.Event
}

// New creates a new preview model over a running engine.
func New(cfg *config.Config, eng *engine.Engine) Model {
	events := make(chan engine.Event, 16)
	eng.Subscribe(func(ev engine.Event) {
		// Never block the engine on a slow repaint.
		select {
		case events <- ev:
		default:
		}
	})

	return Model{
		cfg:     cfg,
		eng:     eng,
		surface: render.NewSurface(cfg.Render.Width, cfg.Render.Height, eng),
		mode:    ModePreview,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		events:  events,
	}
}

// Init initializes the preview.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.frameTick(), m.waitEvent)
}

type frameMsg time.Time

// frameTick schedules the next repaint at the configured frame rate.
func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type eventMsg engine.Event

// waitEvent delivers the next engine event as a message.
func (m Model) waitEvent() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return nil
	}
	return eventMsg(ev)
}

type statusNote struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		// One line is reserved for the status bar.
		if m.cfg.Render.Width == 0 || m.cfg.Render.Height == 0 {
			m.surface.Resize(msg.Width, msg.Height-1)
		}
		m.frame = m.surface.Render(m.eng.Tree())
		return m, nil

	case frameMsg:
		if !m.paused {
			m.frame = m.surface.Render(m.eng.Tree())
		}
		return m, m.frameTick()

	case eventMsg:
		return m.handleEvent(engine.Event(msg))

	case statusNote:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusNote{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusNote{text: "Copied frame to clipboard"}
		}
	}

	return m, nil
}

// handleEvent reacts to engine lifecycle events.
func (m Model) handleEvent(ev engine.Event) (tea.Model, tea.Cmd) {
	note := func(text string, isErr bool) tea.Cmd {
		return func() tea.Msg { return statusNote{text: text, isErr: isErr} }
	}

	switch ev.Kind {
	case engine.EventThemeLoaded:
		m.surface.Reset()
		return m, tea.Batch(m.waitEvent, note(fmt.Sprintf("Theme %q loaded", ev.Theme), false))
	case engine.EventTreeReplaced:
		m.surface.Reset()
		if ev.Diags.HasErrors() {
			return m, tea.Batch(m.waitEvent, note("Reloaded with errors, press d", true))
		}
		return m, tea.Batch(m.waitEvent, note("Reloaded", false))
	case engine.EventReloadFailed:
		return m, tea.Batch(m.waitEvent, note("Reload failed: "+ev.Err.Error(), true))
	default:
		return m, m.waitEvent
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModePreview
		} else {
			m.mode = ModeHelp
		}
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		if m.mode == ModeDiagnostics {
			m.mode = ModePreview
		} else {
			m.mode = ModeDiagnostics
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.eng.RequestReload()
		return m, func() tea.Msg {
			return statusNote{text: "Reloading..."}
		}

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		text := "Paused"
		if !m.paused {
			text = "Resumed"
		}
		return m, func() tea.Msg {
			return statusNote{text: text}
		}

	case key.Matches(msg, m.keys.Copy):
		frame := m.frame
		return m, func() tea.Msg {
			return copyResultMsg{err: copyText(frame)}
		}
	}

	return m, nil
}

// View renders the preview.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeDiagnostics:
		return m.viewDiagnostics()
	case ModeHelp:
		return m.viewHelp()
	default:
		return m.viewPreview()
	}
}

func (m Model) viewPreview() string {
	return m.frame + "\n" + m.statusBar()
}

func (m Model) viewDiagnostics() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	s := headerStyle.Render("Diagnostics") + "\n\n"

	diags := m.eng.Diagnostics()
	if len(diags) == 0 {
		s += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("  no diagnostics")
	} else {
		for _, d := range diags {
			s += "  " + d.String() + "\n"
		}
	}

	return s + "\n" + m.statusBar()
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += keyStyle.Render("  r") + "        Reload the theme\n"
	s += keyStyle.Render("  p/space") + "  Pause or resume the preview\n"
	s += keyStyle.Render("  c") + "        Copy the current frame to the clipboard\n"
	s += keyStyle.Render("  d") + "        Toggle diagnostics\n"
	s += keyStyle.Render("  ?") + "        Toggle this help\n"
	s += keyStyle.Render("  q") + "        Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? to return")

	return s
}

// statusBar is the bottom line: a transient status message when one is
// set, the keybind help otherwise.
func (m Model) statusBar() string {
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return statusStyle.Render(m.statusMsg)
	}
	return m.help.View(m.keys)
}

// RunOptions configures the preview.
type RunOptions struct {
	Config *config.Config
	Engine *engine.Engine
}

// Run starts the preview over a running engine and blocks until the
// user quits. The caller owns the engine's loop and shutdown.
func Run(opts RunOptions) error {
	m := New(opts.Config, opts.Engine)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
