// Package tui is the terminal chat frontend: a scrolling conversation
// history above a single-line input box.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Asker is the TUI-facing subset of the API client.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

type role int

const (
	roleUser role = iota
	roleAssistant
)

type chatMessage struct {
	role    role
	content string
}

// answerMsg carries the backend's reply (or a connection error) back into
// the update loop.
type answerMsg struct {
	text string
	err  error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	client   Asker
	input    textinput.Model
	viewport viewport.Model
	messages []chatMessage
	waiting  bool
	ready    bool
}

// New creates a new chat model talking to the given API client.
func New(client Asker) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask your question here"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{client: client, input: ti, viewport: vp}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh // header, status line, input frame
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.messages = append(m.messages, chatMessage{role: roleUser, content: q})
				m.input.Reset()
				m.waiting = true
				m.viewport.SetContent(m.renderConversation())
				m.viewport.GotoBottom()
				return m, m.askCmd(q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	case answerMsg:
		m.waiting = false
		content := msg.text
		if msg.err != nil {
			// Connection problems are shown in the assistant's bubble so
			// the conversation keeps its shape.
			content = "Error: " + msg.err.Error()
		}
		m.messages = append(m.messages, chatMessage{role: roleAssistant, content: content})
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) askCmd(query string) tea.Cmd {
	return func() tea.Msg {
		text, err := m.client.Ask(context.Background(), query)
		return answerMsg{text: text, err: err}
	}
}

// View renders the conversation, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("FAQ Chatbot")
	status := "Type a question and press Enter. Ctrl+C to quit."
	if m.waiting {
		status = "Thinking..."
	}
	return header + "\n" +
		m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(status)
}

func (m Model) renderConversation() string {
	if len(m.messages) == 0 {
		return "Ask questions and get answers grounded in the FAQ knowledge base."
	}
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.role {
		case roleUser:
			b.WriteString(userLabelStyle.Render("You: "))
		case roleAssistant:
			b.WriteString(assistantLabelStyle.Render("Bot: "))
		}
		b.WriteString(msg.content)
	}
	return b.String()
}

var (
	headerStyle         = lipgloss.NewStyle().Bold(true)
	inputBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
