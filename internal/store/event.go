package store

import (
	"fmt"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
)

// Op names an operation against the board service, or a local action.
type Op string

const (
	OpCreateBoard Op = "createBoard"
	OpLoadBoard   Op = "loadBoard"
	OpUpdateBoard Op = "updateBoard"
	OpDeleteBoard Op = "deleteBoard"
	OpCreateCard  Op = "createCard"
	OpUpdateCard  Op = "updateCard"
	OpDeleteCard  Op = "deleteCard"
	OpMoveCard    Op = "moveCard"
	OpClearError  Op = "clearError"
	OpReset       Op = "reset"
)

// Phase is the lifecycle stage of an asynchronous operation.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// Loaded is the payload of a fulfilled loadBoard.
type Loaded struct {
	Board board.Board
	Cards []board.Card
}

// Event is one lifecycle transition. Payload depends on Op:
//
//	createBoard, updateBoard   board.Board
//	loadBoard                  Loaded
//	createCard, updateCard,
//	moveCard                   board.Card
//	deleteBoard, deleteCard    string (the deleted id)
//
// Message is only set on rejected events.
type Event struct {
	Op      Op
	Phase   Phase
	Payload any
	Message string
}

func (e Event) String() string {
	if e.Phase == "" {
		return string(e.Op)
	}
	return fmt.Sprintf("%s/%s", e.Op, e.Phase)
}

func Pending(op Op) Event {
	return Event{Op: op, Phase: PhasePending}
}

func Fulfilled(op Op, payload any) Event {
	return Event{Op: op, Phase: PhaseFulfilled, Payload: payload}
}

func Rejected(op Op, message string) Event {
	return Event{Op: op, Phase: PhaseRejected, Message: message}
}

// ClearError dismisses the current error.
func ClearError() Event {
	return Event{Op: OpClearError}
}

// Reset returns the store to its initial shape.
func Reset() Event {
	return Event{Op: OpReset}
}
