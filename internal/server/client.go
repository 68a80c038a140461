package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/toastq/internal/logging"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/gorilla/websocket"
)

const clientTimeout = 10 * time.Second

// Client drives a queue hosted by a remote server. Enqueue and Dismiss go
// over HTTP; Subscribe receives the server's websocket event stream.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger logging.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	observers map[int]toast.Observer
	nextObs   int
	done      chan struct{}
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://127.0.0.1:7777". A bare host:port is accepted.
func NewClient(baseURL string, logger logging.Logger) (*Client, error) {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		base:      u,
		http:      &http.Client{Timeout: clientTimeout},
		logger:    logger.With("component", "client"),
		observers: make(map[int]toast.Observer),
		done:      make(chan struct{}),
	}, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// Connect opens the websocket event stream. Events enqueued before Connect
// returns are not delivered.
func (c *Client) Connect(ctx context.Context) error {
	u := *c.base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("connect to %s: %w", u.String(), err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	go c.readLoop(conn)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer close(c.done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("event stream closed", "error", err)
			}
			return
		}
		var ev EventJSON
		if err := json.Unmarshal(data, &ev); err != nil {
			c.logger.Warn("malformed event", "error", err)
			continue
		}

		c.mu.Lock()
		observers := make([]toast.Observer, 0, len(c.observers))
		for _, fn := range c.observers {
			observers = append(observers, fn)
		}
		c.mu.Unlock()

		event := ev.toEvent()
		for _, fn := range observers {
			fn(event)
		}
	}
}

// Done is closed when the event stream ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Subscribe registers fn for events received from the server.
func (c *Client) Subscribe(fn toast.Observer) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// Enqueue posts t to the server and returns the ID it was stored under.
// Callbacks on t cannot travel and are dropped; button labels are kept.
func (c *Client) Enqueue(t toast.Toast) (string, error) {
	req := EnqueueRequest{
		ID:          t.ID,
		Kind:        t.Kind.String(),
		Message:     t.Message,
		Description: t.Description,
		DurationMS:  durationToMillis(t.Duration),
		Position:    t.Position.String(),
		Dismissible: &t.Dismissible,
	}
	if t.Action != nil {
		req.Action = t.Action.Label
	}
	if t.Cancel != nil {
		req.Cancel = t.Cancel.Label
	}
	if t.Payload != nil {
		payload, err := json.Marshal(t.Payload)
		if err != nil {
			return "", fmt.Errorf("encode payload: %w", err)
		}
		req.Payload = payload
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Post(c.endpoint("/toasts"), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("enqueue: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("enqueue: %w", readError(resp))
	}
	var created ToastJSON
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("enqueue: decode response: %w", err)
	}
	return created.ID, nil
}

// Active returns the toasts currently on the server's queue, in arrival
// order. It needs no event stream.
func (c *Client) Active(ctx context.Context) ([]toast.Toast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/toasts"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list toasts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list toasts: %w", readError(resp))
	}
	var body []ToastJSON
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("list toasts: decode response: %w", err)
	}
	out := make([]toast.Toast, len(body))
	for i, j := range body {
		out[i] = j.toToast()
	}
	return out, nil
}

// Dismiss asks the server to dismiss id. It returns false when the request
// failed; the server itself treats unknown ids as already dismissed.
func (c *Client) Dismiss(id string) bool {
	req, err := http.NewRequest(http.MethodDelete, c.endpoint("/toasts/"+url.PathEscape(id)), nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("dismiss failed", "id", id, "error", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusNoContent
}

// Close shuts the event stream down.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return conn.Close()
}

func readError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
