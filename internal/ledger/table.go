package ledger

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openveritas/cybercourt/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	closedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderTable renders the mirrored ledger as a table. It is a pure
// projection of the snapshot: no storage or transport concerns.
func RenderTable(records []model.CaseRecord) string {
	if len(records) == 0 {
		return "no cases on the ledger yet\n"
	}

	headers := []string{"CASE", "FILED", "STATUS", "VIOLATION", "VERDICT", "FINE (WEI)", "SCORE"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		score := "-"
		if r.SocialScore != nil {
			score = fmt.Sprintf("%d", *r.SocialScore)
		}
		fine := "-"
		if r.FineWei > 0 {
			fine = fmt.Sprintf("%d", r.FineWei)
		}
		rows = append(rows, []string{
			r.ID,
			shortTimestamp(r.Timestamp),
			r.Status,
			orDash(r.ViolationType),
			orDash(r.VerdictType),
			fine,
			score,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(headerStyle.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		style := cellStyle
		if row[2] == model.CaseStatusClosed {
			style = closedStyle
		}
		for i, cell := range row {
			b.WriteString(style.Render(pad(cell, widths[i])))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortTimestamp(ts string) string {
	if len(ts) > 19 {
		return ts[:19]
	}
	return ts
}
