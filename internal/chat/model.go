package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/suitools/suicli/internal/agent"
)

// pollInterval is how often buffered stream fragments are drained into
// the view.
const pollInterval = 100 * time.Millisecond

type sessionState int

const (
	// stateAwaitingInput: the prompt is focused and editable.
	stateAwaitingInput sessionState = iota
	// stateStreaming: a request is in flight; input is disabled so
	// fragments of distinct requests can never interleave.
	stateStreaming
	// stateTerminated: the session is shutting down.
	stateTerminated
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	agentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

type tickMsg time.Time

// Model is the interactive session loop.
type Model struct {
	client     *agent.Client
	bridge     *agent.Bridge
	transcript *Transcript
	workerDone <-chan error

	keyName string
	address string

	state     sessionState
	messages  []Message
	streaming strings.Builder

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	width  int
	height int
	ready  bool

	err error
}

// New builds the session model. workerDone should fire if the worker
// process exits; the loop then terminates with an error instead of
// hanging on a dead endpoint.
func New(client *agent.Client, transcript *Transcript, workerDone <-chan error, keyName, address string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.Prompt = promptStyle.Render("> ")
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = dimStyle

	return &Model{
		client:     client,
		bridge:     agent.NewBridge(),
		transcript: transcript,
		workerDone: workerDone,
		keyName:    keyName,
		address:    address,
		state:      stateAwaitingInput,
		input:      ti,
		spin:       sp,
	}
}

// Err reports the failure that terminated the session, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.state = stateTerminated
			return m, tea.Quit
		case tea.KeyEnter:
			if m.state == stateAwaitingInput {
				return m, m.submit()
			}
			return m, nil
		}

	case tickMsg:
		cmd := m.drain()
		return m, tea.Batch(cmd, tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.state == stateAwaitingInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit appends the user message optimistically and launches one
// goroutine for the request.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	m.input.Reset()
	m.append(NewMessage(RoleUser, text))

	m.state = stateStreaming
	m.input.Blur()
	m.streaming.Reset()

	bridge, client := m.bridge, m.client
	return func() tea.Msg {
		bridge.Stream(context.Background(), client, text)
		return nil
	}
}

// drain moves every currently-buffered fragment into the view without
// blocking. The terminator finalizes the in-flight response.
func (m *Model) drain() tea.Cmd {
	changed := false
	for {
		fragment, ok := m.bridge.TryNext()
		if !ok {
			break
		}
		if fragment == agent.Terminator {
			m.append(NewMessage(RoleAgent, m.streaming.String()))
			m.streaming.Reset()
			m.state = stateAwaitingInput
			m.input.Focus()
			changed = true
			continue
		}
		m.streaming.WriteString(fragment)
		changed = true
	}

	select {
	case err := <-m.workerDone:
		if err != nil {
			m.err = fmt.Errorf("agent worker exited unexpectedly: %w", err)
		} else {
			m.err = errors.New("agent worker exited unexpectedly")
		}
		m.state = stateTerminated
		return tea.Quit
	default:
	}

	if changed {
		m.refreshViewport()
	}
	return nil
}

func (m *Model) append(msg Message) {
	m.messages = append(m.messages, msg)
	if m.transcript != nil {
		// A transcript write failure must not take the session down.
		_ = m.transcript.Append(msg)
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	for _, msg := range m.messages {
		label := userStyle.Render("You")
		if msg.Role == RoleAgent {
			label = agentStyle.Render("Agent")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(wordwrap.String(msg.Text, width)))
		b.WriteString("\n\n")
	}
	if m.state == stateStreaming && m.streaming.Len() > 0 {
		b.WriteString(agentStyle.Render("Agent"))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(wordwrap.String(m.streaming.String(), width)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) View() string {
	if !m.ready {
		return "Starting session..."
	}

	header := titleStyle.Render("Sui agent session") +
		dimStyle.Render(fmt.Sprintf("  %s (%s)", m.keyName, shortAddress(m.address)))

	var footer string
	switch m.state {
	case stateStreaming:
		footer = m.spin.View() + dimStyle.Render(" waiting for agent... (esc to quit)")
	case stateTerminated:
		if m.err != nil {
			footer = errorStyle.Render(m.err.Error())
		} else {
			footer = dimStyle.Render("session closed")
		}
	default:
		footer = m.input.View() + "\n" + dimStyle.Render("enter to send, esc to quit")
	}

	return header + "\n\n" + m.viewport.View() + "\n" + footer
}

func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:10] + "..." + addr[len(addr)-4:]
}
