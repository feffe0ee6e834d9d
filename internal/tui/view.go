package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/openveritas/cybercourt/internal/model"
)

// phaseLabel turns a court status into a display label. Statuses
// outside the known set are in-progress phases and are shown as-is.
func phaseLabel(status model.CourtStatus) string {
	switch status {
	case model.StatusIdle:
		return "Awaiting session start"
	case model.StatusStarting:
		return "Session commencing"
	case model.StatusOpening:
		return "Phase: Opening Statements"
	case model.StatusQueryRounds:
		return "Phase: Query Rounds"
	case model.StatusDeliberation:
		return "Phase: Jury Deliberation"
	case model.StatusVoting:
		return "Phase: Jury Voting"
	case model.StatusSentencing:
		return "Phase: Verdict & Sentencing"
	case model.StatusCompleted:
		return "Session concluded"
	case model.StatusError:
		return "Session failed"
	default:
		return "Phase: " + strings.ReplaceAll(string(status), "_", " ")
	}
}

// renderAgentPanels draws one panel per roster agent, highlighting the
// agent whose turn it is.
func renderAgentPanels(s model.SessionState, width int) string {
	panels := make([]string, 0, len(model.Roster))
	for _, name := range model.Roster {
		style := panelStyle
		if name == s.CurrentTurnAgent {
			style = activePanelStyle
		}
		body := agentNameStyle.Render(shortAgentName(name)) + "\n" + s.AgentStatus(name)
		panels = append(panels, style.Render(body))
	}
	perRow := 4
	if width > 0 && width < 96 {
		perRow = 2
	}
	var rows []string
	for i := 0; i < len(panels); i += perRow {
		end := i + perRow
		if end > len(panels) {
			end = len(panels)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func shortAgentName(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, "Court "), " Lawyer")
}

// renderTranscript renders the full transcript in received order with
// kind-dependent styling.
func renderTranscript(s model.SessionState, width int) string {
	if len(s.Transcript) == 0 {
		return labelStyle.Render("(transcript empty)")
	}
	var b strings.Builder
	for _, entry := range s.Transcript {
		style := styleForKind(entry.Kind)
		line := fmt.Sprintf("[%s] %s", entry.AgentName, entry.Message)
		if width > 0 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderJuryVotes summarizes recorded votes once any juror has voted.
func renderJuryVotes(votes map[string]model.JuryVote) string {
	if len(votes) == 0 {
		return ""
	}
	names := make([]string, 0, len(votes))
	for name := range votes {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", shortAgentName(name), votes[name].Vote))
	}
	return labelStyle.Render("Votes · ") + strings.Join(parts, " · ")
}

// renderVerdict draws the final verdict summary panel. The judge's
// explanation is markdown; render it nicely when possible.
func renderVerdict(v model.Verdict, width int) string {
	explanation := v.Explanation
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(maxInt(40, width-8))); err == nil {
		if out, rerr := r.Render(v.Explanation); rerr == nil {
			explanation = strings.TrimSpace(out)
		}
	}

	lines := []string{
		agentNameStyle.Render("FINAL VERDICT: " + v.VerdictType),
		fmt.Sprintf("Fine: %.4f ETH · Compensation: %.4f ETH", v.FineEth, v.CompensationEth),
		fmt.Sprintf("Ban: %s · Social score: %d/100", v.BanStatus, v.SocialScore),
	}
	if v.SocialScoreReason != "" {
		lines = append(lines, labelStyle.Render(v.SocialScoreReason))
	}
	if explanation != "" {
		lines = append(lines, "", explanation)
	}
	return verdictStyle.Render(strings.Join(lines, "\n"))
}
