package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
)

func card(id string, col board.Column, order int) board.Card {
	return board.Card{ID: id, BoardID: "b1", Title: "card " + id, Column: col, Order: order}
}

func loadedState(cards ...board.Card) State {
	return Reduce(Initial(), Fulfilled(OpLoadBoard, Loaded{
		Board: board.Board{BoardID: "b1", Name: "Sprint 1"},
		Cards: cards,
	}))
}

func TestCreateBoardLifecycle(t *testing.T) {
	s := Reduce(Initial(), Pending(OpCreateBoard))
	require.True(t, s.Loading)
	require.Empty(t, s.Error)

	s = Reduce(s, Fulfilled(OpCreateBoard, board.Board{BoardID: "b1", Name: "Sprint 1"}))
	require.Equal(t, State{
		CurrentBoard: &board.Board{BoardID: "b1", Name: "Sprint 1"},
		Cards:        []board.Card{},
		Loading:      false,
		Error:        "",
	}, s)
}

func TestCreateBoardFulfilledDropsPreviousCards(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	s = Reduce(s, Fulfilled(OpCreateBoard, board.Board{BoardID: "b2", Name: "Next"}))
	require.Equal(t, "b2", s.CurrentBoard.BoardID)
	require.Empty(t, s.Cards)
}

func TestCreateBoardRejectedKeepsBoard(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	s = Reduce(s, Pending(OpCreateBoard))
	s = Reduce(s, Rejected(OpCreateBoard, "name taken"))
	require.False(t, s.Loading)
	require.Equal(t, "name taken", s.Error)
	require.Equal(t, "b1", s.CurrentBoard.BoardID)
	require.Len(t, s.Cards, 1)

	s = Reduce(s, Rejected(OpCreateBoard, ""))
	require.Equal(t, MsgCreateBoardFailed, s.Error)
}

func TestLoadBoardPendingClearsError(t *testing.T) {
	s := Reduce(Initial(), Rejected(OpCreateBoard, "boom"))
	s = Reduce(s, Pending(OpLoadBoard))
	require.True(t, s.Loading)
	require.Empty(t, s.Error)
}

func TestLoadBoardFulfilledReplacesWholesale(t *testing.T) {
	s := loadedState(card("old", board.ColumnDone, 0))
	want := []board.Card{card("c1", board.ColumnTodo, 0), card("c2", board.ColumnDone, 0)}
	b := board.Board{BoardID: "b9", Name: "Other", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}

	s = Reduce(s, Pending(OpLoadBoard))
	s = Reduce(s, Fulfilled(OpLoadBoard, Loaded{Board: b, Cards: want}))
	require.False(t, s.Loading)
	require.Equal(t, b, *s.CurrentBoard)
	require.Equal(t, want, s.Cards)
}

func TestLoadBoardRejectedClearsEverything(t *testing.T) {
	priors := map[string]State{
		"empty":  Initial(),
		"loaded": loadedState(card("c1", board.ColumnTodo, 0), card("c2", board.ColumnTodo, 1)),
	}
	for name, prior := range priors {
		t.Run(name, func(t *testing.T) {
			s := Reduce(prior, Pending(OpLoadBoard))
			s = Reduce(s, Rejected(OpLoadBoard, "Board not found"))
			require.Nil(t, s.CurrentBoard)
			require.Empty(t, s.Cards)
			require.False(t, s.Loading)
			require.Equal(t, "Board not found", s.Error)
		})
	}

	s := Reduce(Initial(), Rejected(OpLoadBoard, ""))
	require.Equal(t, MsgLoadBoardFailed, s.Error)
}

func TestUpdateBoardOnlyFulfilledApplies(t *testing.T) {
	s := loadedState()
	before := s

	s = Reduce(s, Pending(OpUpdateBoard))
	require.Equal(t, before, s)
	s = Reduce(s, Rejected(OpUpdateBoard, "nope"))
	require.Equal(t, before, s, "updateBoard failures are not reflected in loading or error")

	s = Reduce(s, Fulfilled(OpUpdateBoard, board.Board{BoardID: "b1", Name: "Renamed"}))
	require.Equal(t, "Renamed", s.CurrentBoard.Name)
}

func TestDeleteBoardFulfilledClears(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	s = Reduce(s, Fulfilled(OpDeleteBoard, "b1"))
	require.Nil(t, s.CurrentBoard)
	require.Empty(t, s.Cards)
}

// Errors from card and board mutations other than create/load never reach
// State.Error. This pins current behavior; it may be unintended.
func TestMutationRejectionsDoNotSetError(t *testing.T) {
	ops := []Op{OpUpdateBoard, OpDeleteBoard, OpCreateCard, OpUpdateCard, OpDeleteCard, OpMoveCard}
	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			s := loadedState(card("c1", board.ColumnTodo, 0))
			before := s
			s = Reduce(s, Pending(op))
			s = Reduce(s, Rejected(op, "server said no"))
			require.Equal(t, before, s)
		})
	}
}

func TestCreateCardScenario(t *testing.T) {
	s := Reduce(Initial(), Fulfilled(OpCreateBoard, board.Board{BoardID: "b1", Name: "Sprint 1"}))
	c1 := board.Card{ID: "c1", BoardID: "b1", Title: "Fix bug", Column: board.ColumnTodo, Order: 0}
	s = Reduce(s, Fulfilled(OpCreateCard, c1))

	require.Contains(t, s.Cards, c1)
	require.Equal(t, []board.Card{c1}, ColumnCards(s, board.ColumnTodo))
	require.Empty(t, ColumnCards(s, board.ColumnDone))
}

func TestUpdateCardReplacesByID(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0), card("c2", board.ColumnTodo, 1))
	updated := card("c2", board.ColumnTodo, 1)
	updated.Title = "new title"
	updated.Description = "details"

	s = Reduce(s, Fulfilled(OpUpdateCard, updated))
	got, ok := FindCard(s, "c2")
	require.True(t, ok)
	require.Equal(t, updated, got)
	require.Len(t, s.Cards, 2)
}

func TestUpdateCardUnknownIDIsNoop(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	before := s
	s = Reduce(s, Fulfilled(OpUpdateCard, card("ghost", board.ColumnTodo, 3)))
	require.Equal(t, before, s)

	s = Reduce(s, Fulfilled(OpMoveCard, card("ghost", board.ColumnDone, 0)))
	require.Equal(t, before, s)
}

func TestDeleteCardRemoves(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0), card("c2", board.ColumnTodo, 1))
	s = Reduce(s, Fulfilled(OpDeleteCard, "c1"))
	_, ok := FindCard(s, "c1")
	require.False(t, ok)
	require.Len(t, s.Cards, 1)

	s = Reduce(s, Fulfilled(OpDeleteCard, "c1"))
	require.Len(t, s.Cards, 1)
}

func TestMoveCardTakesServerColumnAndOrder(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0), card("c2", board.ColumnDone, 0))
	s = Reduce(s, Fulfilled(OpMoveCard, card("c1", board.ColumnDone, 1)))

	require.Empty(t, ColumnCards(s, board.ColumnTodo))
	done := ColumnCards(s, board.ColumnDone)
	require.Equal(t, []string{"c2", "c1"}, ids(done))
}

func TestCardSequencesKeepOneEntryPerLiveID(t *testing.T) {
	s := loadedState()
	events := []Event{
		Fulfilled(OpCreateCard, card("c1", board.ColumnTodo, 0)),
		Fulfilled(OpCreateCard, card("c2", board.ColumnTodo, 1)),
		Fulfilled(OpMoveCard, card("c1", board.ColumnInProgress, 0)),
		Fulfilled(OpUpdateCard, card("c2", board.ColumnTodo, 0)),
		Fulfilled(OpCreateCard, card("c3", board.ColumnDone, 0)),
		Fulfilled(OpDeleteCard, "c2"),
		Fulfilled(OpMoveCard, card("c3", board.ColumnTodo, 0)),
		Fulfilled(OpUpdateCard, card("c2", board.ColumnTodo, 0)),
		Fulfilled(OpDeleteCard, "c1"),
	}
	for _, ev := range events {
		s = Reduce(s, ev)
		seen := map[string]int{}
		for _, c := range s.Cards {
			seen[c.ID]++
			require.Equal(t, 1, seen[c.ID], "duplicate %s after %s", c.ID, ev)
		}
	}
	require.Equal(t, []string{"c3"}, ids(s.Cards))
}

// A slow update that lands after a later delete does not come back, because
// updateCard only replaces. A slow create landing after its delete does.
// Responses are applied in arrival order with no sequencing.
func TestOutOfOrderResponsesAppliedInArrivalOrder(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	s = Reduce(s, Fulfilled(OpDeleteCard, "c1"))
	s = Reduce(s, Fulfilled(OpUpdateCard, card("c1", board.ColumnTodo, 0)))
	require.Empty(t, s.Cards)

	s = Reduce(s, Fulfilled(OpDeleteCard, "c9"))
	s = Reduce(s, Fulfilled(OpCreateCard, card("c9", board.ColumnTodo, 0)))
	require.Equal(t, []string{"c9"}, ids(s.Cards))
}

func TestClearErrorTouchesNothingElse(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	s = Reduce(s, Pending(OpCreateBoard))
	s = Reduce(s, Rejected(OpCreateBoard, "bad name"))
	before := s

	s = Reduce(s, ClearError())
	require.Empty(t, s.Error)
	before.Error = ""
	require.Equal(t, before, s)
}

func TestResetIsIdempotent(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	s = Reduce(s, Pending(OpCreateBoard))
	s = Reduce(s, Rejected(OpCreateBoard, "x"))

	once := Reduce(s, Reset())
	twice := Reduce(once, Reset())
	require.Equal(t, Initial(), once)
	require.Equal(t, once, twice)
}

func TestFulfillmentAfterResetFindsNothing(t *testing.T) {
	s := Reduce(loadedState(card("c1", board.ColumnTodo, 0)), Reset())
	s = Reduce(s, Fulfilled(OpUpdateCard, card("c1", board.ColumnTodo, 0)))
	s = Reduce(s, Fulfilled(OpMoveCard, card("c1", board.ColumnDone, 0)))
	s = Reduce(s, Fulfilled(OpDeleteCard, "c1"))
	require.Equal(t, Initial(), s)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	prior := loadedState(card("c1", board.ColumnTodo, 0), card("c2", board.ColumnTodo, 1))
	snapshot := loadedState(card("c1", board.ColumnTodo, 0), card("c2", board.ColumnTodo, 1))

	_ = Reduce(prior, Fulfilled(OpDeleteCard, "c1"))
	_ = Reduce(prior, Fulfilled(OpMoveCard, card("c2", board.ColumnDone, 0)))
	_ = Reduce(prior, Fulfilled(OpUpdateBoard, board.Board{BoardID: "b1", Name: "changed"}))
	require.Equal(t, snapshot, prior)
}

func TestUnexpectedPayloadIgnored(t *testing.T) {
	s := loadedState(card("c1", board.ColumnTodo, 0))
	before := s
	s = Reduce(s, Fulfilled(OpCreateCard, "not a card"))
	s = Reduce(s, Fulfilled(OpDeleteCard, 42))
	s = Reduce(s, Event{Op: "unknown", Phase: PhaseFulfilled})
	require.Equal(t, before, s)
}

func TestColumnCardsStableSort(t *testing.T) {
	s := loadedState(
		card("c3", board.ColumnTodo, 2),
		card("c1", board.ColumnTodo, 0),
		card("x", board.ColumnDone, 0),
		card("c2", board.ColumnTodo, 1),
	)
	first := ids(ColumnCards(s, board.ColumnTodo))
	require.Equal(t, []string{"c1", "c2", "c3"}, first)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, ids(ColumnCards(s, board.ColumnTodo)))
	}
}

func TestPlanDrop(t *testing.T) {
	x := card("x", board.ColumnTodo, 0)

	t.Run("to_other_column_appends", func(t *testing.T) {
		s := loadedState(x, card("d1", board.ColumnDone, 0), card("d2", board.ColumnDone, 1))
		req, ok := PlanDrop(s, x, board.ColumnDone)
		require.True(t, ok)
		require.Equal(t, board.MoveCardRequest{Column: board.ColumnDone, Order: 2}, req)
	})

	t.Run("only_card_same_column_noop", func(t *testing.T) {
		s := loadedState(x)
		_, ok := PlanDrop(s, x, board.ColumnTodo)
		require.False(t, ok)
	})

	t.Run("last_card_same_column_noop", func(t *testing.T) {
		last := card("c2", board.ColumnTodo, 1)
		s := loadedState(card("c1", board.ColumnTodo, 0), last)
		_, ok := PlanDrop(s, last, board.ColumnTodo)
		require.False(t, ok)
	})

	t.Run("same_column_not_last_moves_to_end", func(t *testing.T) {
		first := card("c1", board.ColumnTodo, 0)
		s := loadedState(first, card("c2", board.ColumnTodo, 1), card("c3", board.ColumnTodo, 2))
		req, ok := PlanDrop(s, first, board.ColumnTodo)
		require.True(t, ok)
		require.Equal(t, board.MoveCardRequest{Column: board.ColumnTodo, Order: 2}, req)
	})

	t.Run("empty_target", func(t *testing.T) {
		s := loadedState(x)
		req, ok := PlanDrop(s, x, board.ColumnInProgress)
		require.True(t, ok)
		require.Equal(t, board.MoveCardRequest{Column: board.ColumnInProgress, Order: 0}, req)
	})

	t.Run("no_board", func(t *testing.T) {
		_, ok := PlanDrop(Initial(), x, board.ColumnDone)
		require.False(t, ok)
	})
}

func TestEventString(t *testing.T) {
	require.Equal(t, "moveCard/rejected", Rejected(OpMoveCard, "x").String())
	require.Equal(t, "reset", Reset().String())
}

func ids(cards []board.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
