// Package statesync receives authoritative game-state deltas over a
// websocket. Frames are opaque (possibly compressed) payloads decoded
// through the engine's wire-decode capability; this package owns the
// connection lifecycle and retry policy, not the delta format.
package statesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nhooyr.io/websocket"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Config wires a Client.
type Config struct {
	// URL of the authoritative state stream.
	URL string
	// Engine decodes wire frames.
	Engine engine.Engine
	// OnMessage receives every decoded delta.
	OnMessage func(json.RawMessage)
	// OnTrump, if set, is called when a delta carries a new trump
	// configuration, so dependents can warm caches.
	OnTrump func(domain.Trump)
	// Logger receives connection diagnostics; nil uses slog.Default.
	Logger *slog.Logger
}

// Client maintains the state-stream subscription across reconnects.
type Client struct {
	cfg       Config
	log       *slog.Logger
	lastTrump string // key of the last trump seen, to dedup OnTrump calls
}

// New returns a Client; call Run to start receiving.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("statesync: URL is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("statesync: engine is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, log: log}, nil
}

// Run connects and reads deltas until ctx is canceled, reconnecting with
// capped exponential backoff after any connection failure.
func (c *Client) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("state stream disconnected, reconnecting", "backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing state stream: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	c.log.Info("state stream connected", "url", c.cfg.URL)

	for {
		_, frame, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading state stream: %w", err)
		}
		c.handleFrame(ctx, frame)
	}
}

func (c *Client) handleFrame(ctx context.Context, frame []byte) {
	resp, err := c.cfg.Engine.DecodeWireMessage(ctx, engine.DecodeWireMessageRequest{Message: frame}).Await(ctx)
	if err != nil {
		c.log.Warn("dropping undecodable state frame", "error", err)
		return
	}

	if c.cfg.OnTrump != nil {
		// Peek for a trump announcement; deltas without one pass through
		// untouched.
		var probe struct {
			Trump *domain.Trump `json:"trump"`
		}
		if json.Unmarshal(resp.Message, &probe) == nil && probe.Trump != nil {
			if key := probe.Trump.Key(); key != c.lastTrump {
				c.lastTrump = key
				c.cfg.OnTrump(*probe.Trump)
			}
		}
	}

	if c.cfg.OnMessage != nil {
		c.cfg.OnMessage(resp.Message)
	}
}
