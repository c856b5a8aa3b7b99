// Package client talks to a running simulation server over HTTP and
// follows its event stream over WebSocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Client is an HTTP+WebSocket client for one simulation server.
type Client struct {
	baseURL  string
	httpC    *http.Client
	wsConn   *websocket.Conn
	events   chan model.Event
	mu       sync.Mutex
	closedWS bool
}

// New creates a client targeting the given server URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan model.Event, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Simulation fetches the current snapshot and runner status.
func (c *Client) Simulation(ctx context.Context) (*model.SimulationView, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/simulation", nil)
}

// Initialize starts a new run on the server.
func (c *Client) Initialize(ctx context.Context, numRegions, totalBudget int) (*model.SimulationView, error) {
	req := model.InitializeRequest{NumRegions: numRegions, TotalBudget: totalBudget}
	return c.do(ctx, http.MethodPost, "/api/v1/simulation", req)
}

// Step allocates one unit.
func (c *Client) Step(ctx context.Context) (*model.SimulationView, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/simulation/step", nil)
}

// Reset restarts the current run with the same configuration.
func (c *Client) Reset(ctx context.Context) (*model.SimulationView, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/simulation/reset", nil)
}

// Start turns on automatic stepping.
func (c *Client) Start(ctx context.Context) (*model.SimulationView, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/simulation/start", nil)
}

// Stop pauses automatic stepping.
func (c *Client) Stop(ctx context.Context) (*model.SimulationView, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/simulation/stop", nil)
}

// ConnectWS opens the event stream and starts delivering events.
func (c *Client) ConnectWS(ctx context.Context) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// Pause asks the server to stop sending step events to this client.
func (c *Client) Pause() error { return c.sendAction("pause") }

// Resume re-enables step events and requests a fresh snapshot.
func (c *Client) Resume() error { return c.sendAction("resume") }

// RequestSnapshot asks for the current snapshot.
func (c *Client) RequestSnapshot() error { return c.sendAction("snapshot") }

func (c *Client) sendAction(action string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn == nil || c.closedWS {
		return fmt.Errorf("ws not connected")
	}
	return c.wsConn.WriteJSON(map[string]string{"action": action})
}

// Events returns the channel of incoming events. It is closed when the
// connection ends.
func (c *Client) Events() <-chan model.Event { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) closing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closedWS
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			if !c.closing() {
				log.Debug().Err(err).Msg("WS read error")
			}
			return
		}
		// The server batches queued events into one frame, newline separated.
		for _, line := range bytes.Split(msg, []byte("\n")) {
			var event model.Event
			if err := json.Unmarshal(line, &event); err != nil {
				continue
			}
			c.events <- event
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*model.SimulationView, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: string(body)}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		return nil, apiErr
	}

	var view model.SimulationView
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &view, nil
}
