// Package tui is the interactive courtroom client. It renders exactly
// one of two views, flagging or courtroom, as a pure projection of the
// session driver's state.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openveritas/cybercourt/internal/session"
)

// Field indexes into the flagging form.
const (
	fieldContent = iota
	fieldVictim
	fieldAddress
	fieldCount
)

// stateMsg delivers a driver state snapshot through the message loop.
type stateMsg struct {
	state session.State
}

// flagDoneMsg reports completion of an async FlagPost call.
type flagDoneMsg struct {
	outcome session.FlagOutcome
	err     error
}

// startDoneMsg reports completion of an async Start call.
type startDoneMsg struct {
	err error
}

// Model is the bubbletea model for the courtroom client.
type Model struct {
	driver *session.Driver
	state  session.State

	inputs  [fieldCount]textinput.Model
	focus   int
	spin    spinner.Model
	logView viewport.Model

	updates     chan session.State
	unsubscribe func()

	width  int
	height int
	ready  bool
	notice string
}

// New builds the model and subscribes it to the driver.
func New(driver *session.Driver) Model {
	var inputs [fieldCount]textinput.Model

	content := textinput.New()
	content.Placeholder = "offending post content"
	content.CharLimit = 2000
	content.Focus()
	inputs[fieldContent] = content

	victim := textinput.New()
	victim.Placeholder = "victim name or handle"
	victim.CharLimit = 200
	inputs[fieldVictim] = victim

	address := textinput.New()
	address.Placeholder = "victim ETH address (optional, 0x...)"
	address.CharLimit = 42
	inputs[fieldAddress] = address

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	updates := make(chan session.State, 16)
	unsubscribe := driver.Subscribe(func(st session.State) {
		select {
		case updates <- st:
		default:
			// The loop is behind; it will catch up on the next send.
		}
	})

	return Model{
		driver:      driver,
		state:       driver.State(),
		inputs:      inputs,
		spin:        sp,
		logView:     viewport.New(0, 0),
		updates:     updates,
		unsubscribe: unsubscribe,
	}
}

// Init starts the spinner and the state-update pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForState())
}

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-m.updates
		if !ok {
			return nil
		}
		return stateMsg{state: st}
	}
}

func (m Model) flagCmd(in session.FlagInput) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.driver.FlagPost(context.Background(), in)
		return flagDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		return startDoneMsg{err: m.driver.Start(context.Background())}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		m.logView.Height = maxInt(4, msg.Height-18)
		m.ready = true
		return m, nil

	case stateMsg:
		atBottom := m.logView.AtBottom()
		m.state = msg.state
		m.logView.SetContent(renderTranscript(m.state.Session, m.logView.Width))
		if atBottom {
			m.logView.GotoBottom()
		}
		return m, m.waitForState()

	case flagDoneMsg:
		// The form clears on completion either way; the address field
		// is kept for reuse across reports.
		m.inputs[fieldContent].SetValue("")
		m.inputs[fieldVictim].SetValue("")
		if msg.err != nil {
			m.notice = errorStyle.Render(msg.err.Error())
			return m, nil
		}
		m.notice = msg.outcome.Message
		return m, nil

	case startDoneMsg:
		if msg.err != nil {
			m.notice = errorStyle.Render(msg.err.Error())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.unsubscribe()
		return m, tea.Quit
	}

	if m.state.View == session.ViewCourtroom {
		switch msg.String() {
		case "q":
			m.unsubscribe()
			return m, tea.Quit
		case "s":
			if m.state.Session.FinalVerdict == nil && !m.state.Polling {
				return m, m.startCmd()
			}
		case "r":
			m.driver.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.unsubscribe()
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		dir := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			dir = -1
		}
		m.focus = (m.focus + dir + fieldCount) % fieldCount
		for i := range m.inputs {
			if i == m.focus {
				m.inputs[i].Focus()
			} else {
				m.inputs[i].Blur()
			}
		}
		return m, nil
	case "enter":
		if m.state.Busy {
			return m, nil
		}
		in := session.FlagInput{
			Content:       m.inputs[fieldContent].Value(),
			VictimInfo:    m.inputs[fieldVictim].Value(),
			VictimAddress: m.inputs[fieldAddress].Value(),
		}
		return m, m.flagCmd(in)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the active top-level view.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.state.View == session.ViewCourtroom {
		return m.courtroomView()
	}
	return m.flaggingView()
}

func (m Model) flaggingView() string {
	var rows []string
	rows = append(rows, titleStyle.Render("cybercourt — flag a post"), "")
	rows = append(rows, labelStyle.Render("Post content"), m.inputs[fieldContent].View())
	rows = append(rows, labelStyle.Render("Victim info"), m.inputs[fieldVictim].View())
	rows = append(rows, labelStyle.Render("Victim ETH address"), m.inputs[fieldAddress].View())
	rows = append(rows, "")
	if m.state.Busy {
		rows = append(rows, m.spin.View()+" submitting for initial analysis...")
	} else if m.notice != "" {
		rows = append(rows, m.notice)
	}
	if m.state.ErrorText != "" && !m.state.Busy {
		rows = append(rows, errorStyle.Render(m.state.ErrorText))
	}
	rows = append(rows, "", helpStyle.Render("enter submit · tab next field · esc quit"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) courtroomView() string {
	s := m.state.Session
	var rows []string

	header := titleStyle.Render("cybercourt — courtroom") + "  " +
		labelStyle.Render("case ") + m.state.CaseID
	rows = append(rows, header)
	rows = append(rows, phaseStyle.Render(phaseLabel(s.CourtStatus)))
	if m.state.Polling {
		rows = append(rows, m.spin.View()+" session in progress")
	}
	rows = append(rows, renderAgentPanels(s, m.width))
	if votes := renderJuryVotes(s.JuryVotes); votes != "" {
		rows = append(rows, votes)
	}
	rows = append(rows, m.logView.View())
	if s.FinalVerdict != nil {
		rows = append(rows, renderVerdict(*s.FinalVerdict, m.width))
	}
	if s.ErrorMessage != "" {
		rows = append(rows, errorStyle.Render("error: "+s.ErrorMessage))
	}
	rows = append(rows, helpStyle.Render(actionHelp(m.state)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// actionHelp flips the primary action from start to reset once the
// session has a verdict or has otherwise ended.
func actionHelp(st session.State) string {
	if st.Session.FinalVerdict != nil || st.Session.CourtStatus.Terminal() {
		return "r reset · q quit"
	}
	if st.Polling {
		return "r reset · q quit"
	}
	return "s start session · r reset · q quit"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
