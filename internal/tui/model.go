package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"infomate/internal/client"
)

// ChatPort is the TUI-facing subset of the API client.
type ChatPort interface {
	Chat(query string) (*client.Answer, error)
}

// Model is the Bubble Tea model for the chat frontend.
type Model struct {
	api        ChatPort
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	banner     string
	status     string
	ready      bool
}

// New creates a new chat TUI model.
func New(api ChatPort, banner string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{api: api, input: ti, viewport: vp, banner: banner, status: "Connected. Ask away."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // banner lines, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.SetValue("")
			m.transcript = append(m.transcript, youStyle.Render("You: ")+q)
			ans, err := m.api.Chat(q)
			if err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.status = fmt.Sprintf("Answered (%d sources)", len(ans.Sources))
				m.transcript = append(m.transcript, botStyle.Render("InfoMate: ")+ans.Answer)
				if cite := formatSources(ans.Sources); cite != "" {
					m.transcript = append(m.transcript, sourceStyle.Render(cite))
				}
			}
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("InfoMate")
	banner := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.banner)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + banner + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No messages yet."
	}
	return strings.Join(m.transcript, "\n\n")
}

func formatSources(sources []client.Source) string {
	if len(sources) == 0 {
		return ""
	}
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = fmt.Sprintf("%s#%d (%.3f)", s.Source, s.ChunkID, s.Score)
	}
	return "sources: " + strings.Join(parts, ", ")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
