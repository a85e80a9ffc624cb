package board

import (
	"errors"
	"strings"
	"time"
)

// Column is a fixed workflow stage.
type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "inProgress"
	ColumnDone       Column = "done"
)

// Columns lists the workflow stages in display order.
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnDone}

func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnInProgress, ColumnDone:
		return true
	}
	return false
}

func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	}
	return string(c)
}

// Index returns the display position of c, or -1 for unknown columns.
func (c Column) Index() int {
	for i, col := range Columns {
		if col == c {
			return i
		}
	}
	return -1
}

// Board is a named container of cards. BoardID is assigned by the server.
type Board struct {
	BoardID   string     `json:"boardId"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Card is a unit of work placed in one column at a specific order.
type Card struct {
	ID          string    `json:"_id"`
	BoardID     string    `json:"boardId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Column      Column    `json:"column"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateBoardRequest struct {
	Name string `json:"name"`
}

type UpdateBoardRequest struct {
	Name string `json:"name"`
}

type CreateCardRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Column      *Column `json:"column,omitempty"`
}

type UpdateCardRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type MoveCardRequest struct {
	Column Column `json:"column"`
	Order  int    `json:"order"`
}

var (
	ErrEmptyName  = errors.New("board name is required")
	ErrEmptyTitle = errors.New("card title is required")
	ErrEmptyID    = errors.New("board id is required")
)

// ValidateName rejects names that are blank after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateTitle rejects card titles that are blank after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateID rejects blank board identifiers.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	return nil
}
