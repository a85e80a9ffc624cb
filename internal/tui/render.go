package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
)

const defaultWidth = 96

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	grabbedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	columnStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedColumn = columnStyle.BorderForeground(lipgloss.Color("12"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

func (a *App) View() string {
	var body string
	if a.state.HasBoard() {
		body = a.renderBoard()
	} else {
		body = a.renderLanding()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderError() string {
	if a.state.Error == "" {
		return ""
	}
	return errorStyle.Render("! "+a.state.Error) + faintStyle.Render("  [ctrl+x] dismiss") + "\n"
}

func (a *App) renderLanding() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Boards") + "\n\n")
	b.WriteString(a.renderError())
	if a.state.Loading {
		b.WriteString(faintStyle.Render("loading...") + "\n")
	}
	b.WriteString(a.createInput.View() + "\n")
	b.WriteString(a.loadInput.View() + "\n")

	if len(a.recent) > 0 {
		b.WriteString("\n" + titleStyle.Render("Recent boards") + "\n")
		for i, e := range a.recent {
			marker := " "
			if a.focus == focusRecent && i == a.recentCursor {
				marker = "▶"
			}
			line := fmt.Sprintf("%s %-24s %s", marker, ansi.Truncate(e.Name, 24, "…"), faintStyle.Render(e.BoardID))
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n[enter] Submit  [tab] Next field  [x] Forget recent  [X] Forget all  [ctrl+x] Dismiss error  [ctrl+c] Quit")
	return b.String()
}

func (a *App) renderBoard() string {
	cur := a.state.CurrentBoard
	var b strings.Builder
	b.WriteString(titleStyle.Render(cur.Name) + "  " + faintStyle.Render("Board ID: "+cur.BoardID) + "\n")
	b.WriteString(a.renderError())
	if a.state.Loading {
		b.WriteString(faintStyle.Render("loading...") + "\n")
	}
	if a.filter != "" {
		b.WriteString(faintStyle.Render("filter: "+a.filter) + "\n")
	}

	width := a.width
	if width <= 0 {
		width = defaultWidth
	}
	colWidth := (width - 6*len(board.Columns)) / len(board.Columns)
	if colWidth < 16 {
		colWidth = 16
	}

	cols := make([]string, 0, len(board.Columns))
	for i, col := range board.Columns {
		cols = append(cols, a.renderColumn(i, col, colWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n")
	b.WriteString("[a] Add  [e] Edit  [d] Delete  [space] Move  [r] Rename  [D] Delete board  [/] Filter  [b] Back  [q] Quit")
	return b.String()
}

func (a *App) renderColumn(i int, col board.Column, width int) string {
	cards := a.visible(i)
	header := fmt.Sprintf("%s (%d)", col.Title(), len(cards))
	if a.grabbed != "" && i == a.col {
		header += " ⇣"
	}
	lines := []string{titleStyle.Render(ansi.Truncate(header, width, "…")), ""}
	if len(cards) == 0 {
		lines = append(lines, faintStyle.Render("No cards"))
	}
	for j, c := range cards {
		title := ansi.Truncate(c.Title, width, "…")
		switch {
		case c.ID == a.grabbed:
			title = grabbedStyle.Render(title)
		case i == a.col && j == a.row && a.grabbed == "":
			title = selectedStyle.Render(title)
		}
		lines = append(lines, title)
		if c.Description != "" {
			lines = append(lines, faintStyle.Render(ansi.Truncate(c.Description, width, "…")))
		}
	}
	style := columnStyle
	if i == a.col {
		style = focusedColumn
	}
	return style.Width(width + 2).Render(strings.Join(lines, "\n"))
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCardForm:
		title := "Edit card"
		if a.form.cardID == "" {
			title = "New card in " + a.form.column.Title()
		}
		return modalStyle.Render(titleStyle.Render(title) + "\n" + a.form.title.View() + "\n" + a.form.desc.View() +
			"\n[enter] Save  [tab] Next field  [esc] Cancel")
	case modalRename:
		return modalStyle.Render(titleStyle.Render("Rename board") + "\n" + a.renameInput.View() + "\n[enter] Save  [esc] Cancel")
	case modalFilter:
		return a.filterInput.View()
	case modalConfirmCard:
		return modalStyle.Render(titleStyle.Render("Delete card?") + "\n[y] Yes  [n] No")
	case modalConfirmBoard:
		return modalStyle.Render(titleStyle.Render("Delete board?") + "\nThis removes the board and all its cards.\n[y] Yes  [n] No")
	default:
		return ""
	}
}
