package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
	"github.com/Vybyranyi/task-management-boards-app/internal/store"
)

// cardForm edits a card's title and description. cardID is empty when
// adding a new card to column.
type cardForm struct {
	cardID string
	column board.Column
	title  textinput.Model
	desc   textinput.Model
	focus  int
}

func newCardForm(c board.Card) cardForm {
	f := cardForm{
		cardID: c.ID,
		column: c.Column,
		title:  newInput("Title: ", "required"),
		desc:   newInput("Description: ", "optional"),
	}
	f.title.SetValue(c.Title)
	f.desc.SetValue(c.Description)
	f.title.Focus()
	return f
}

func (f *cardForm) toggle() {
	f.focus = (f.focus + 1) % 2
	if f.focus == 0 {
		f.desc.Blur()
		f.title.Focus()
		return
	}
	f.title.Blur()
	f.desc.Focus()
}

func (a *App) handleLandingKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+x":
		a.state = store.Reduce(a.state, store.ClearError())
		return a, nil
	case "tab", "shift+tab":
		stops := []landingFocus{focusCreate, focusLoad}
		if len(a.recent) > 0 {
			stops = append(stops, focusRecent)
		}
		dir := 1
		if m.String() == "shift+tab" {
			dir = -1
		}
		i := 0
		for j, f := range stops {
			if f == a.focus {
				i = j
			}
		}
		a.setFocus(stops[(i+dir+len(stops))%len(stops)])
		return a, nil
	case "enter":
		if a.state.Loading {
			return a, nil
		}
		switch a.focus {
		case focusCreate:
			name := strings.TrimSpace(a.createInput.Value())
			if board.ValidateName(name) != nil {
				return a, nil
			}
			return a, a.apply(a.dispatch.CreateBoard(name))
		case focusLoad:
			id := strings.TrimSpace(a.loadInput.Value())
			if board.ValidateID(id) != nil {
				return a, nil
			}
			return a, a.apply(a.dispatch.LoadBoard(id))
		case focusRecent:
			if a.recentCursor < len(a.recent) {
				return a, a.apply(a.dispatch.LoadBoard(a.recent[a.recentCursor].BoardID))
			}
		}
		return a, nil
	}

	if a.focus == focusRecent {
		switch m.String() {
		case "q", "esc":
			return a, tea.Quit
		case "up", "k":
			if a.recentCursor > 0 {
				a.recentCursor--
			}
		case "down", "j":
			if a.recentCursor < len(a.recent)-1 {
				a.recentCursor++
			}
		case "x":
			if a.recentCursor < len(a.recent) {
				return a, a.forget(a.recent[a.recentCursor].BoardID)
			}
		case "X":
			return a, a.forgetAll()
		}
		return a, nil
	}

	var cmd tea.Cmd
	if a.focus == focusLoad {
		a.loadInput, cmd = a.loadInput.Update(m)
	} else {
		a.createInput, cmd = a.createInput.Update(m)
	}
	return a, cmd
}

func (a *App) handleBoardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.grabbed != "" {
		return a.handleGrabKey(m)
	}
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "ctrl+x":
		a.state = store.Reduce(a.state, store.ClearError())
	case "left", "h":
		if a.col > 0 {
			a.col--
		}
		a.clampSelection()
	case "right", "l":
		if a.col < len(board.Columns)-1 {
			a.col++
		}
		a.clampSelection()
	case "up", "k":
		if a.row > 0 {
			a.row--
		}
	case "down", "j":
		if a.row < len(a.visible(a.col))-1 {
			a.row++
		}
	case "a":
		a.form = newCardForm(board.Card{Column: board.Columns[a.col]})
		a.modal = modalCardForm
	case "e":
		if c, ok := a.selected(); ok {
			a.form = newCardForm(c)
			a.modal = modalCardForm
		}
	case "d":
		if c, ok := a.selected(); ok {
			a.deletingCard = c.ID
			a.modal = modalConfirmCard
		}
	case " ", "enter":
		if c, ok := a.selected(); ok {
			a.grabbed = c.ID
			a.status = fmt.Sprintf("Moving %q: ←/→ choose column, space to drop, esc to cancel", c.Title)
		}
	case "r":
		a.renameInput.SetValue(a.state.CurrentBoard.Name)
		a.renameInput.CursorEnd()
		a.renameInput.Focus()
		a.modal = modalRename
	case "D":
		a.modal = modalConfirmBoard
	case "/":
		a.filterInput.SetValue(a.filter)
		a.filterInput.CursorEnd()
		a.filterInput.Focus()
		a.modal = modalFilter
	case "esc":
		if a.filter != "" {
			a.filter = ""
			a.filterInput.Reset()
			a.clampSelection()
			return a, nil
		}
		return a, a.back()
	case "b":
		return a, a.back()
	}
	return a, nil
}

// handleGrabKey moves the drop target while a card is held.
func (a *App) handleGrabKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "left", "h":
		if a.col > 0 {
			a.col--
		}
	case "right", "l":
		if a.col < len(board.Columns)-1 {
			a.col++
		}
	case "esc":
		a.grabbed = ""
		a.status = ""
		a.clampSelection()
	case " ", "enter":
		id := a.grabbed
		a.grabbed = ""
		a.status = ""
		card, ok := store.FindCard(a.state, id)
		if !ok {
			a.clampSelection()
			return a, nil
		}
		req, ok := store.PlanDrop(a.state, card, board.Columns[a.col])
		a.clampSelection()
		if !ok {
			return a, nil
		}
		return a, a.apply(a.dispatch.MoveCard(card.ID, req))
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Every modal acts on the open board, which a late deleteBoard can clear.
	if !a.state.HasBoard() {
		a.resetBoardView()
		return a, nil
	}
	switch a.modal {
	case modalConfirmCard:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			id := a.deletingCard
			a.deletingCard = ""
			return a, a.apply(a.dispatch.DeleteCard(id))
		case "n", "N", "esc":
			a.modal = modalNone
			a.deletingCard = ""
		}
	case modalConfirmBoard:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			cmd := a.apply(a.dispatch.DeleteBoard(a.state.CurrentBoard.BoardID))
			return a, tea.Batch(cmd, a.back())
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalRename:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.renameInput.Blur()
		case tea.KeyEnter:
			a.modal = modalNone
			a.renameInput.Blur()
			name := strings.TrimSpace(a.renameInput.Value())
			cur := a.state.CurrentBoard
			if cur == nil || board.ValidateName(name) != nil || name == cur.Name {
				return a, nil
			}
			return a, a.apply(a.dispatch.UpdateBoard(cur.BoardID, name))
		default:
			var cmd tea.Cmd
			a.renameInput, cmd = a.renameInput.Update(m)
			return a, cmd
		}
	case modalFilter:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.filter = ""
			a.filterInput.Reset()
			a.filterInput.Blur()
		case tea.KeyEnter:
			a.modal = modalNone
			a.filterInput.Blur()
		default:
			var cmd tea.Cmd
			a.filterInput, cmd = a.filterInput.Update(m)
			a.filter = strings.TrimSpace(a.filterInput.Value())
			a.row = 0
			a.clampSelection()
			return a, cmd
		}
		a.clampSelection()
	case modalCardForm:
		return a.handleCardFormKey(m)
	}
	return a, nil
}

func (a *App) handleCardFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.form
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyTab, tea.KeyShiftTab:
		f.toggle()
		return a, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(f.title.Value())
		if err := board.ValidateTitle(title); err != nil {
			a.status = "Title is required"
			return a, nil
		}
		desc := strings.TrimSpace(f.desc.Value())
		a.modal = modalNone
		a.status = ""
		if f.cardID == "" {
			if a.state.CurrentBoard == nil {
				return a, nil
			}
			req := board.CreateCardRequest{Title: title}
			if desc != "" {
				req.Description = &desc
			}
			col := f.column
			req.Column = &col
			return a, a.apply(a.dispatch.CreateCard(a.state.CurrentBoard.BoardID, req))
		}
		return a, a.apply(a.dispatch.UpdateCard(f.cardID, board.UpdateCardRequest{Title: &title, Description: &desc}))
	}
	var cmd tea.Cmd
	if f.focus == 0 {
		f.title, cmd = f.title.Update(m)
	} else {
		f.desc, cmd = f.desc.Update(m)
	}
	return a, cmd
}
