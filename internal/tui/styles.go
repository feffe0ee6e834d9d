package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/openveritas/cybercourt/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("55")).Padding(0, 1)
	phaseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activePanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("213")).
				Foreground(lipgloss.Color("213"))

	verdictStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("42")).Padding(0, 1)

	agentNameStyle = lipgloss.NewStyle().Bold(true)
)

// transcriptStyles maps entry kinds to their visual treatment. Unknown
// kinds fall back to the statement style.
var transcriptStyles = map[string]lipgloss.Style{
	model.KindStatement:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	model.KindVote:         lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	model.KindQuery:        lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	model.KindAnswer:       lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
	model.KindDeliberation: lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Italic(true),
	model.KindLog:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	model.KindSystem:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	model.KindError:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

func styleForKind(kind string) lipgloss.Style {
	if s, ok := transcriptStyles[kind]; ok {
		return s
	}
	return transcriptStyles[model.KindStatement]
}
