package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
	"github.com/Vybyranyi/task-management-boards-app/internal/dispatch"
	"github.com/Vybyranyi/task-management-boards-app/internal/history"
	"github.com/Vybyranyi/task-management-boards-app/internal/logging"
	"github.com/Vybyranyi/task-management-boards-app/internal/remote"
	"github.com/Vybyranyi/task-management-boards-app/internal/store"
)

// App is the Bubble Tea model. Board data lives in state and only changes
// through store.Reduce; everything else is view state.
type App struct {
	ctx      context.Context
	dispatch *dispatch.Dispatcher
	recents  *history.Repo
	log      *log.Logger
	limit    int
	initial  string

	state store.State

	// landing
	createInput  textinput.Model
	loadInput    textinput.Model
	focus        landingFocus
	recent       []history.Entry
	recentCursor int

	// board
	col     int
	row     int
	grabbed string
	filter  string

	modal        modalState
	form         cardForm
	renameInput  textinput.Model
	filterInput  textinput.Model
	deletingCard string

	status string
	width  int
}

type landingFocus int

const (
	focusCreate landingFocus = iota
	focusLoad
	focusRecent
)

type modalState string

const (
	modalNone         modalState = ""
	modalCardForm     modalState = "cardForm"
	modalRename       modalState = "rename"
	modalConfirmCard  modalState = "confirmDeleteCard"
	modalConfirmBoard modalState = "confirmDeleteBoard"
	modalFilter       modalState = "filter"
)

// Options configures New. Recents may be nil to run without history.
type Options struct {
	Dispatcher   *dispatch.Dispatcher
	Recents      *history.Repo
	Logger       *log.Logger
	HistoryLimit int
	// InitialBoard is loaded on start when set.
	InitialBoard string
}

func New(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		ctx:         ctx,
		dispatch:    opts.Dispatcher,
		recents:     opts.Recents,
		log:         logger,
		limit:       opts.HistoryLimit,
		initial:     opts.InitialBoard,
		state:       store.Initial(),
		createInput: newInput("Create New Board: ", "board name"),
		loadInput:   newInput("Load Existing Board: ", "board id"),
		renameInput: newInput("Name: ", ""),
		filterInput: newInput("/", "filter cards"),
	}
	a.createInput.Focus()
	return a
}

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

// State returns the current store state.
func (a *App) State() store.State { return a.state }

func (a *App) Init() tea.Cmd {
	if board.ValidateID(a.initial) != nil {
		return a.loadRecent()
	}
	return tea.Batch(a.loadRecent(), a.apply(a.dispatch.LoadBoard(a.initial)))
}

type recentMsg []history.Entry

type errMsg struct{ error }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if !a.state.HasBoard() {
			return a.handleLandingKey(m)
		}
		return a.handleBoardKey(m)
	case dispatch.Outcome:
		had := a.state.HasBoard()
		a.state = store.Reduce(a.state, m.Event)
		cmd := a.afterOutcome(m)
		if had && !a.state.HasBoard() {
			a.resetBoardView()
			a.setFocus(focusCreate)
			return a, tea.Batch(cmd, a.loadRecent())
		}
		return a, cmd
	case store.Event:
		a.state = store.Reduce(a.state, m)
	case recentMsg:
		a.recent = []history.Entry(m)
		if a.recentCursor >= len(a.recent) {
			a.recentCursor = 0
		}
		if a.focus == focusRecent && len(a.recent) == 0 {
			a.setFocus(focusCreate)
		}
	case errMsg:
		a.log.WithError(m.error).Warn("history")
		a.status = "error: " + m.Error()
	}
	return a, nil
}

// apply reduces the pending event now and hands back its command.
func (a *App) apply(ev store.Event, cmd tea.Cmd) tea.Cmd {
	a.state = store.Reduce(a.state, ev)
	return cmd
}

// afterOutcome runs side effects that are not store state: history upkeep,
// the status line for operations whose failures never reach State.Error,
// and keeping the selection inside the board.
func (a *App) afterOutcome(o dispatch.Outcome) tea.Cmd {
	defer a.clampSelection()
	if o.Phase == store.PhaseRejected {
		switch o.Op {
		case store.OpCreateBoard:
			return nil
		case store.OpLoadBoard:
			a.resetBoardView()
			if remote.IsNotFound(o.Err) && o.Subject != "" {
				return a.forget(o.Subject)
			}
			return nil
		}
		a.status = o.Message
		return nil
	}

	switch o.Op {
	case store.OpCreateBoard:
		if b, ok := o.Payload.(board.Board); ok {
			a.createInput.Reset()
			a.resetBoardView()
			a.status = "Board created: " + b.BoardID
			return a.touch(b.BoardID, b.Name)
		}
	case store.OpLoadBoard:
		if l, ok := o.Payload.(store.Loaded); ok {
			a.loadInput.Reset()
			a.resetBoardView()
			a.status = ""
			return a.touch(l.Board.BoardID, l.Board.Name)
		}
	case store.OpUpdateBoard:
		if b, ok := o.Payload.(board.Board); ok {
			return a.rename(b.BoardID, b.Name)
		}
	case store.OpDeleteBoard:
		a.status = "Board deleted"
		return a.forget(o.Subject)
	case store.OpDeleteCard:
		if a.grabbed == o.Subject {
			a.grabbed = ""
		}
	}
	return nil
}

// back leaves the board screen.
func (a *App) back() tea.Cmd {
	a.state = store.Reduce(a.state, store.Reset())
	a.resetBoardView()
	a.status = ""
	a.setFocus(focusCreate)
	return a.loadRecent()
}

func (a *App) resetBoardView() {
	a.col, a.row = 0, 0
	a.grabbed = ""
	a.filter = ""
	a.filterInput.Reset()
	a.modal = modalNone
}

func (a *App) setFocus(f landingFocus) {
	a.focus = f
	a.createInput.Blur()
	a.loadInput.Blur()
	switch f {
	case focusCreate:
		a.createInput.Focus()
	case focusLoad:
		a.loadInput.Focus()
	}
}

// visible returns the cards shown in column i, sorted and filtered.
func (a *App) visible(i int) []board.Card {
	cards := store.ColumnCards(a.state, board.Columns[i])
	if a.filter == "" {
		return cards
	}
	return board.MatchCards(cards, a.filter)
}

func (a *App) selected() (board.Card, bool) {
	cards := a.visible(a.col)
	if a.row < 0 || a.row >= len(cards) {
		return board.Card{}, false
	}
	return cards[a.row], true
}

func (a *App) clampSelection() {
	if a.col < 0 {
		a.col = 0
	}
	if a.col >= len(board.Columns) {
		a.col = len(board.Columns) - 1
	}
	n := len(a.visible(a.col))
	if a.row >= n {
		a.row = n - 1
	}
	if a.row < 0 {
		a.row = 0
	}
}

// history commands

func (a *App) loadRecent() tea.Cmd {
	if a.recents == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := a.recents.List(a.ctx, a.limit)
		if err != nil {
			return errMsg{err}
		}
		return recentMsg(list)
	}
}

func (a *App) touch(boardID, name string) tea.Cmd {
	return a.historyCmd(func(ctx context.Context) error { return a.recents.Touch(ctx, boardID, name) })
}

func (a *App) rename(boardID, name string) tea.Cmd {
	return a.historyCmd(func(ctx context.Context) error { return a.recents.Rename(ctx, boardID, name) })
}

func (a *App) forget(boardID string) tea.Cmd {
	return a.historyCmd(func(ctx context.Context) error { return a.recents.Remove(ctx, boardID) })
}

func (a *App) forgetAll() tea.Cmd {
	return a.historyCmd(a.recents.Clear)
}

func (a *App) historyCmd(fn func(ctx context.Context) error) tea.Cmd {
	if a.recents == nil {
		return nil
	}
	return func() tea.Msg {
		if err := fn(a.ctx); err != nil {
			return errMsg{err}
		}
		list, err := a.recents.List(a.ctx, a.limit)
		if err != nil {
			return errMsg{err}
		}
		return recentMsg(list)
	}
}
