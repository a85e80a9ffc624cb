// Package store holds the board view state and the reducer that moves it
// between lifecycle events. Nothing outside Reduce changes a State.
package store

import (
	"sort"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
)

// Fallback messages used when a rejection carries no server message.
const (
	MsgCreateBoardFailed = "Failed to create board"
	MsgLoadBoardFailed   = "Failed to load board"
	MsgLoadCardsFailed   = "Failed to load cards"
	MsgUpdateBoardFailed = "Failed to update board"
	MsgDeleteBoardFailed = "Failed to delete board"
	MsgCreateCardFailed  = "Failed to create card"
	MsgUpdateCardFailed  = "Failed to update card"
	MsgDeleteCardFailed  = "Failed to delete card"
	MsgMoveCardFailed    = "Failed to move card"
)

// State is the client view of the current board.
type State struct {
	CurrentBoard *board.Board
	Cards        []board.Card
	Loading      bool
	Error        string
}

// Initial returns the empty state.
func Initial() State {
	return State{Cards: []board.Card{}}
}

// HasBoard reports whether a board is currently open.
func (s State) HasBoard() bool { return s.CurrentBoard != nil }

// Reduce applies ev to prev and returns the next state. prev is not modified.
func Reduce(prev State, ev Event) State {
	s := prev.clone()
	switch ev.Op {
	case OpClearError:
		s.Error = ""
	case OpReset:
		return Initial()
	case OpCreateBoard:
		switch ev.Phase {
		case PhasePending:
			s.Loading = true
			s.Error = ""
		case PhaseFulfilled:
			b, ok := ev.Payload.(board.Board)
			if !ok {
				return s
			}
			s.Loading = false
			s.CurrentBoard = &b
			s.Cards = []board.Card{}
		case PhaseRejected:
			s.Loading = false
			s.Error = messageOr(ev.Message, MsgCreateBoardFailed)
		}
	case OpLoadBoard:
		switch ev.Phase {
		case PhasePending:
			s.Loading = true
			s.Error = ""
		case PhaseFulfilled:
			l, ok := ev.Payload.(Loaded)
			if !ok {
				return s
			}
			b := l.Board
			s.Loading = false
			s.CurrentBoard = &b
			s.Cards = append([]board.Card{}, l.Cards...)
		case PhaseRejected:
			s.Loading = false
			s.Error = messageOr(ev.Message, MsgLoadBoardFailed)
			s.CurrentBoard = nil
			s.Cards = []board.Card{}
		}
	case OpUpdateBoard:
		if ev.Phase != PhaseFulfilled {
			return s
		}
		if b, ok := ev.Payload.(board.Board); ok {
			s.CurrentBoard = &b
		}
	case OpDeleteBoard:
		if ev.Phase != PhaseFulfilled {
			return s
		}
		s.CurrentBoard = nil
		s.Cards = []board.Card{}
	case OpCreateCard:
		if ev.Phase != PhaseFulfilled {
			return s
		}
		if c, ok := ev.Payload.(board.Card); ok {
			s.Cards = append(s.Cards, c)
		}
	case OpUpdateCard, OpMoveCard:
		if ev.Phase != PhaseFulfilled {
			return s
		}
		if c, ok := ev.Payload.(board.Card); ok {
			s.replaceCard(c)
		}
	case OpDeleteCard:
		if ev.Phase != PhaseFulfilled {
			return s
		}
		if id, ok := ev.Payload.(string); ok {
			s.removeCard(id)
		}
	}
	return s
}

func (s State) clone() State {
	out := s
	if s.CurrentBoard != nil {
		b := *s.CurrentBoard
		out.CurrentBoard = &b
	}
	out.Cards = append(make([]board.Card, 0, len(s.Cards)), s.Cards...)
	return out
}

// replaceCard swaps in c for the card with the same id. A missing id means
// the card was deleted while the request was in flight; nothing happens.
func (s *State) replaceCard(c board.Card) {
	for i := range s.Cards {
		if s.Cards[i].ID == c.ID {
			s.Cards[i] = c
			return
		}
	}
}

func (s *State) removeCard(id string) {
	kept := s.Cards[:0]
	for _, c := range s.Cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.Cards = kept
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// ColumnCards returns the cards of one column sorted by order. Cards with
// equal order keep their relative position in s.Cards.
func ColumnCards(s State, col board.Column) []board.Card {
	out := make([]board.Card, 0)
	for _, c := range s.Cards {
		if c.Column == col {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// FindCard looks a card up by id.
func FindCard(s State, id string) (board.Card, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return board.Card{}, false
}

// PlanDrop decides the move request for dropping card on target. Dropped
// cards always go last: the new order is the number of other cards already
// in target. ok is false when the card is already there, or no board is open.
func PlanDrop(s State, card board.Card, target board.Column) (req board.MoveCardRequest, ok bool) {
	if s.CurrentBoard == nil {
		return board.MoveCardRequest{}, false
	}
	n := 0
	for _, c := range s.Cards {
		if c.Column == target && c.ID != card.ID {
			n++
		}
	}
	if card.Column == target && card.Order == n {
		return board.MoveCardRequest{}, false
	}
	return board.MoveCardRequest{Column: target, Order: n}, true
}
