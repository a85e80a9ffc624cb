// Package remotetest runs an in-memory board service that speaks the same
// REST contract as the real one. It exists for tests.
package remotetest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
)

const maxBodySize = 64 << 10

// Request is one call observed by the server.
type Request struct {
	Method    string
	Path      string
	RequestID string
}

type failure struct {
	method string
	path   string
	status int
	body   string
}

// Server is an httptest server backed by maps.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	boards   map[string]board.Board
	cards    map[string]board.Card
	failures []failure
	requests []Request
	now      func() time.Time
}

func NewServer() *Server {
	s := &Server{
		boards: map[string]board.Board{},
		cards:  map[string]board.Card{},
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record, s.inject)

	e.POST("/boards", s.createBoard)
	e.GET("/boards/:boardId", s.getBoard)
	e.PUT("/boards/:boardId", s.updateBoard)
	e.DELETE("/boards/:boardId", s.deleteBoard)
	e.GET("/cards/board/:boardId", s.listCards)
	e.POST("/cards/board/:boardId", s.createCard)
	e.PUT("/cards/:cardId", s.updateCard)
	e.DELETE("/cards/:cardId", s.deleteCard)
	e.PATCH("/cards/:cardId/move", s.moveCard)

	s.Server = httptest.NewServer(e)
	return s
}

// FailNext makes the next request matching method and path answer with
// status and the raw body instead of reaching its handler.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status, body: body})
}

// Requests returns every call seen so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// SeedBoard stores a board directly.
func (s *Server) SeedBoard(name string) board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := board.Board{BoardID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	s.boards[b.BoardID] = b
	return b
}

// SeedCard appends a card to col of an existing board.
func (s *Server) SeedCard(boardID, title string, col board.Column) board.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCard(boardID, title, "", col)
}

// Cards returns the stored cards of a board sorted by column then order.
func (s *Server) Cards(boardID string) []board.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cardsOf(boardID)
}

// Board returns the stored board, if any.
func (s *Server) Board(boardID string) (board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	return b, ok
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, RequestID: r.Header.Get("X-Request-ID")})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		var hit *failure
		for i, f := range s.failures {
			if f.method == r.Method && f.path == r.URL.Path {
				hit = &s.failures[i]
				s.failures = append(s.failures[:i:i], s.failures[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		if hit == nil {
			return next(c)
		}
		return c.Blob(hit.status, echo.MIMEApplicationJSON, []byte(hit.body))
	}
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func decode(c echo.Context, v any) error {
	return sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize)).Decode(v)
}

func (s *Server) createBoard(c echo.Context) error {
	var req board.CreateBoardRequest
	if err := decode(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return errorJSON(c, http.StatusBadRequest, "Board name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := board.Board{BoardID: uuid.NewString(), Name: req.Name, CreatedAt: s.now()}
	s.boards[b.BoardID] = b
	return c.JSON(http.StatusCreated, b)
}

func (s *Server) getBoard(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[c.Param("boardId")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) updateBoard(c echo.Context) error {
	var req board.UpdateBoardRequest
	if err := decode(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return errorJSON(c, http.StatusBadRequest, "Board name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[c.Param("boardId")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Board not found")
	}
	now := s.now()
	b.Name = req.Name
	b.UpdatedAt = &now
	s.boards[b.BoardID] = b
	return c.JSON(http.StatusOK, b)
}

func (s *Server) deleteBoard(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("boardId")
	if _, ok := s.boards[id]; !ok {
		return errorJSON(c, http.StatusNotFound, "Board not found")
	}
	delete(s.boards, id)
	for cid, card := range s.cards {
		if card.BoardID == id {
			delete(s.cards, cid)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Board deleted"})
}

func (s *Server) listCards(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("boardId")
	if _, ok := s.boards[id]; !ok {
		return errorJSON(c, http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusOK, s.cardsOf(id))
}

func (s *Server) createCard(c echo.Context) error {
	var req board.CreateCardRequest
	if err := decode(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return errorJSON(c, http.StatusBadRequest, "Title is required")
	}
	col := board.ColumnTodo
	if req.Column != nil {
		col = *req.Column
	}
	if !col.Valid() {
		return errorJSON(c, http.StatusBadRequest, "Invalid column")
	}
	desc := ""
	if req.Description != nil {
		desc = *req.Description
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("boardId")
	if _, ok := s.boards[id]; !ok {
		return errorJSON(c, http.StatusNotFound, "Board not found")
	}
	return c.JSON(http.StatusCreated, s.insertCard(id, req.Title, desc, col))
}

func (s *Server) updateCard(c echo.Context) error {
	var req board.UpdateCardRequest
	if err := decode(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return errorJSON(c, http.StatusBadRequest, "Title cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[c.Param("cardId")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Card not found")
	}
	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Description != nil {
		card.Description = *req.Description
	}
	card.UpdatedAt = s.now()
	s.cards[card.ID] = card
	return c.JSON(http.StatusOK, card)
}

func (s *Server) deleteCard(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[c.Param("cardId")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Card not found")
	}
	delete(s.cards, card.ID)
	s.renumber(card.BoardID, card.Column, nil, 0)
	return c.JSON(http.StatusOK, map[string]string{"message": "Card deleted"})
}

func (s *Server) moveCard(c echo.Context) error {
	var req board.MoveCardRequest
	if err := decode(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if !req.Column.Valid() {
		return errorJSON(c, http.StatusBadRequest, "Invalid column")
	}
	if req.Order < 0 {
		return errorJSON(c, http.StatusBadRequest, "Order must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[c.Param("cardId")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Card not found")
	}
	from := card.Column
	card.Column = req.Column
	card.UpdatedAt = s.now()
	delete(s.cards, card.ID)
	s.renumber(card.BoardID, from, nil, 0)
	s.renumber(card.BoardID, req.Column, &card, req.Order)
	return c.JSON(http.StatusOK, s.cards[card.ID])
}

// insertCard appends a card at the end of col. Caller holds mu.
func (s *Server) insertCard(boardID, title, desc string, col board.Column) board.Card {
	n := 0
	for _, c := range s.cards {
		if c.BoardID == boardID && c.Column == col {
			n++
		}
	}
	now := s.now()
	card := board.Card{
		ID:          uuid.NewString(),
		BoardID:     boardID,
		Title:       title,
		Description: desc,
		Column:      col,
		Order:       n,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.cards[card.ID] = card
	return card
}

// renumber rewrites orders in one column to 0..n-1, optionally inserting
// extra at position at (clamped). Caller holds mu.
func (s *Server) renumber(boardID string, col board.Column, extra *board.Card, at int) {
	var list []board.Card
	for _, c := range s.cards {
		if c.BoardID == boardID && c.Column == col {
			list = append(list, c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	if extra != nil {
		if at > len(list) {
			at = len(list)
		}
		list = append(list[:at], append([]board.Card{*extra}, list[at:]...)...)
	}
	for i := range list {
		list[i].Order = i
		s.cards[list[i].ID] = list[i]
	}
}

// cardsOf lists one board's cards by column then order. Caller holds mu.
func (s *Server) cardsOf(boardID string) []board.Card {
	out := []board.Card{}
	for _, c := range s.cards {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Column != out[j].Column {
			return out[i].Column.Index() < out[j].Column.Index()
		}
		return out[i].Order < out[j].Order
	})
	return out
}
