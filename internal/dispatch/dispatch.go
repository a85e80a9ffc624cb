// Package dispatch issues board service operations and reports each outcome
// as a store lifecycle event.
package dispatch

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
	"github.com/Vybyranyi/task-management-boards-app/internal/logging"
	"github.com/Vybyranyi/task-management-boards-app/internal/remote"
	"github.com/Vybyranyi/task-management-boards-app/internal/store"
)

// Remote is the subset of the board service client the dispatcher needs.
type Remote interface {
	CreateBoard(ctx context.Context, name string) (board.Board, error)
	GetBoard(ctx context.Context, boardID string) (board.Board, error)
	ListCards(ctx context.Context, boardID string) ([]board.Card, error)
	UpdateBoard(ctx context.Context, boardID, name string) (board.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
	CreateCard(ctx context.Context, boardID string, req board.CreateCardRequest) (board.Card, error)
	UpdateCard(ctx context.Context, cardID string, req board.UpdateCardRequest) (board.Card, error)
	DeleteCard(ctx context.Context, cardID string) error
	MoveCard(ctx context.Context, cardID string, req board.MoveCardRequest) (board.Card, error)
}

// Outcome is the message a dispatched command produces. It wraps the
// fulfilled or rejected event with what the caller needs for side effects
// (history, status line) that are not part of store state.
type Outcome struct {
	store.Event
	RequestID string
	// Subject is the board or card id the operation targeted.
	Subject string
	Err     error
}

// Dispatcher runs operations against the board service. Commands use ctx as
// their parent and are never cancelled individually.
type Dispatcher struct {
	ctx    context.Context
	remote Remote
	log    *log.Logger
	newID  func() string
}

func New(ctx context.Context, r Remote, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{ctx: ctx, remote: r, log: logger, newID: uuid.NewString}
}

func (d *Dispatcher) CreateBoard(name string) (store.Event, tea.Cmd) {
	return d.run(store.OpCreateBoard, "", func(ctx context.Context) (any, string, error) {
		b, err := d.remote.CreateBoard(ctx, name)
		return b, store.MsgCreateBoardFailed, err
	})
}

// LoadBoard fetches the board, then its cards. A failed board fetch is
// reported without fetching cards.
func (d *Dispatcher) LoadBoard(boardID string) (store.Event, tea.Cmd) {
	return d.run(store.OpLoadBoard, boardID, func(ctx context.Context) (any, string, error) {
		b, err := d.remote.GetBoard(ctx, boardID)
		if err != nil {
			return nil, store.MsgLoadBoardFailed, err
		}
		cards, err := d.remote.ListCards(ctx, boardID)
		if err != nil {
			return nil, store.MsgLoadCardsFailed, err
		}
		return store.Loaded{Board: b, Cards: cards}, "", nil
	})
}

func (d *Dispatcher) UpdateBoard(boardID, name string) (store.Event, tea.Cmd) {
	return d.run(store.OpUpdateBoard, boardID, func(ctx context.Context) (any, string, error) {
		b, err := d.remote.UpdateBoard(ctx, boardID, name)
		return b, store.MsgUpdateBoardFailed, err
	})
}

func (d *Dispatcher) DeleteBoard(boardID string) (store.Event, tea.Cmd) {
	return d.run(store.OpDeleteBoard, boardID, func(ctx context.Context) (any, string, error) {
		return boardID, store.MsgDeleteBoardFailed, d.remote.DeleteBoard(ctx, boardID)
	})
}

func (d *Dispatcher) CreateCard(boardID string, req board.CreateCardRequest) (store.Event, tea.Cmd) {
	return d.run(store.OpCreateCard, boardID, func(ctx context.Context) (any, string, error) {
		c, err := d.remote.CreateCard(ctx, boardID, req)
		return c, store.MsgCreateCardFailed, err
	})
}

func (d *Dispatcher) UpdateCard(cardID string, req board.UpdateCardRequest) (store.Event, tea.Cmd) {
	return d.run(store.OpUpdateCard, cardID, func(ctx context.Context) (any, string, error) {
		c, err := d.remote.UpdateCard(ctx, cardID, req)
		return c, store.MsgUpdateCardFailed, err
	})
}

func (d *Dispatcher) DeleteCard(cardID string) (store.Event, tea.Cmd) {
	return d.run(store.OpDeleteCard, cardID, func(ctx context.Context) (any, string, error) {
		return cardID, store.MsgDeleteCardFailed, d.remote.DeleteCard(ctx, cardID)
	})
}

func (d *Dispatcher) MoveCard(cardID string, req board.MoveCardRequest) (store.Event, tea.Cmd) {
	return d.run(store.OpMoveCard, cardID, func(ctx context.Context) (any, string, error) {
		c, err := d.remote.MoveCard(ctx, cardID, req)
		return c, store.MsgMoveCardFailed, err
	})
}

// call performs the remote work. It returns the fulfilled payload, or the
// fallback message to use when err is not nil.
type call func(ctx context.Context) (payload any, fallback string, err error)

func (d *Dispatcher) run(op store.Op, subject string, fn call) (store.Event, tea.Cmd) {
	reqID := d.newID()
	entry := d.log.WithFields(log.Fields{"op": string(op), "request_id": reqID, "subject": subject})
	entry.WithField("phase", string(store.PhasePending)).Debug("dispatch")

	return store.Pending(op), func() tea.Msg {
		start := time.Now()
		payload, fallback, err := fn(remote.WithRequestID(d.ctx, reqID))
		done := entry.WithField("duration", time.Since(start).String())
		if err != nil {
			msg := remote.Message(err, fallback)
			done.WithError(err).WithField("phase", string(store.PhaseRejected)).Warn(msg)
			return Outcome{Event: store.Rejected(op, msg), RequestID: reqID, Subject: subject, Err: err}
		}
		done.WithField("phase", string(store.PhaseFulfilled)).Info("dispatch")
		return Outcome{Event: store.Fulfilled(op, payload), RequestID: reqID, Subject: subject}
	}
}
