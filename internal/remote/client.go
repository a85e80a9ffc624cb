// Package remote is the HTTP client for the board service REST API.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/Vybyranyi/task-management-boards-app/internal/board"
	"github.com/Vybyranyi/task-management-boards-app/internal/logging"
)

const (
	DefaultTimeout = 15 * time.Second

	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 1 << 20
)

// Client talks JSON to the board service.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the timeout for a single request. It applies to a copy
// of the http.Client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) CreateBoard(ctx context.Context, name string) (board.Board, error) {
	var out board.Board
	err := c.do(ctx, http.MethodPost, "/boards", board.CreateBoardRequest{Name: name}, &out)
	return out, err
}

func (c *Client) GetBoard(ctx context.Context, boardID string) (board.Board, error) {
	var out board.Board
	err := c.do(ctx, http.MethodGet, "/boards/"+url.PathEscape(boardID), nil, &out)
	return out, err
}

func (c *Client) ListCards(ctx context.Context, boardID string) ([]board.Card, error) {
	out := []board.Card{}
	if err := c.do(ctx, http.MethodGet, "/cards/board/"+url.PathEscape(boardID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []board.Card{}
	}
	return out, nil
}

func (c *Client) UpdateBoard(ctx context.Context, boardID, name string) (board.Board, error) {
	var out board.Board
	err := c.do(ctx, http.MethodPut, "/boards/"+url.PathEscape(boardID), board.UpdateBoardRequest{Name: name}, &out)
	return out, err
}

func (c *Client) DeleteBoard(ctx context.Context, boardID string) error {
	return c.do(ctx, http.MethodDelete, "/boards/"+url.PathEscape(boardID), nil, nil)
}

func (c *Client) CreateCard(ctx context.Context, boardID string, req board.CreateCardRequest) (board.Card, error) {
	var out board.Card
	err := c.do(ctx, http.MethodPost, "/cards/board/"+url.PathEscape(boardID), req, &out)
	return out, err
}

func (c *Client) UpdateCard(ctx context.Context, cardID string, req board.UpdateCardRequest) (board.Card, error) {
	var out board.Card
	err := c.do(ctx, http.MethodPut, "/cards/"+url.PathEscape(cardID), req, &out)
	return out, err
}

func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+url.PathEscape(cardID), nil, nil)
}

func (c *Client) MoveCard(ctx context.Context, cardID string, req board.MoveCardRequest) (board.Card, error) {
	var out board.Card
	err := c.do(ctx, http.MethodPatch, "/cards/"+url.PathEscape(cardID)+"/move", req, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := RequestID(ctx)
	if reqID != "" {
		req.Header.Set(HeaderRequestID, reqID)
	}

	start := time.Now()
	status := 0
	defer func() {
		entry := c.log.WithFields(log.Fields{
			"method":     method,
			"path":       path,
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": reqID,
		})
		if err != nil {
			entry.WithError(err).Warn("board service request failed")
			return
		}
		entry.Debug("board service request")
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// APIError is a non-2xx response. Message is the body's "error" field and is
// empty when the body could not be parsed.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("board service: status %d", e.Status)
	}
	return fmt.Sprintf("board service: status %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var eb errorBody
	if err := sonic.Unmarshal(data, &eb); err == nil {
		apiErr.Message = strings.TrimSpace(eb.Error)
	}
	return apiErr
}

// Message turns err into user-facing text: the server's message when there is
// one, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsNotFound reports whether err is a 404 from the board service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
