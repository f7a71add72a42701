// Package remote implements the engine.Engine contract over a single HTTP
// JSON endpoint. Requests and responses carry a top-level "type"
// discriminator; the discriminator is framing only and is stripped before
// a response reaches the caller.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rbtying/shengji-sub001/internal/engine"
)

// Client is the remote-procedure backend. It performs no retries; retry
// policy belongs to callers.
type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

// New returns a Client for the given endpoint URL. A nil httpClient gets a
// default with a conservative timeout.
func New(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{endpoint: endpoint, http: httpClient, log: logger}
}

// tag merges the discriminator into the operation's own fields, producing
// the wire request body.
func tag(op string, req any) ([]byte, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"] = json.RawMessage(`"` + op + `"`)
	return json.Marshal(fields)
}

// roundTrip posts a tagged request and decodes the tagged response,
// classifying failures as transport, protocol, or application level.
func roundTrip[T any](c *Client, ctx context.Context, op string, req any) (T, error) {
	var zero T

	body, err := tag(op, req)
	if err != nil {
		return zero, &engine.ProtocolError{Reason: "encoding request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, &engine.TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return zero, &engine.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return zero, &engine.TransportError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &engine.TransportError{Err: err}
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return zero, &engine.ProtocolError{Reason: "response is not valid JSON", Err: err}
	}

	rawType, ok := fields["type"]
	if !ok {
		return zero, &engine.ProtocolError{Reason: "response lacks a discriminator"}
	}
	var discriminator string
	if err := json.Unmarshal(rawType, &discriminator); err != nil {
		return zero, &engine.ProtocolError{Reason: "discriminator is not a string", Err: err}
	}

	switch discriminator {
	case engine.OpError:
		var msg string
		if raw, ok := fields["Error"]; ok {
			json.Unmarshal(raw, &msg)
		}
		return zero, &engine.AppError{Message: msg}
	case op:
		// Strip the discriminator; the caller sees only the operation's
		// own fields.
		delete(fields, "type")
		stripped, err := json.Marshal(fields)
		if err != nil {
			return zero, &engine.ProtocolError{Reason: "re-encoding response", Err: err}
		}
		var out T
		if err := json.Unmarshal(stripped, &out); err != nil {
			return zero, &engine.ProtocolError{Reason: "decoding response fields", Err: err}
		}
		return out, nil
	default:
		return zero, &engine.ProtocolError{Reason: "unexpected discriminator " + discriminator}
	}
}

// invoke wraps roundTrip in a deferred result so the caller is never
// blocked by the network round trip.
func invoke[T any](c *Client, ctx context.Context, op string, req any) *engine.Future[T] {
	return engine.Async(func() (T, error) {
		return roundTrip[T](c, ctx, op, req)
	})
}

func (c *Client) FindViablePlays(ctx context.Context, req engine.FindViablePlaysRequest) *engine.Future[engine.FindViablePlaysResponse] {
	return invoke[engine.FindViablePlaysResponse](c, ctx, engine.OpFindViablePlays, req)
}

func (c *Client) FindValidBids(ctx context.Context, req engine.FindValidBidsRequest) *engine.Future[engine.FindValidBidsResponse] {
	return invoke[engine.FindValidBidsResponse](c, ctx, engine.OpFindValidBids, req)
}

func (c *Client) SortAndGroupCards(ctx context.Context, req engine.SortAndGroupCardsRequest) *engine.Future[engine.SortAndGroupCardsResponse] {
	return invoke[engine.SortAndGroupCardsResponse](c, ctx, engine.OpSortAndGroupCards, req)
}

func (c *Client) DecomposeTrickFormat(ctx context.Context, req engine.DecomposeTrickFormatRequest) *engine.Future[engine.DecomposeTrickFormatResponse] {
	return invoke[engine.DecomposeTrickFormatResponse](c, ctx, engine.OpDecomposeTrickFormat, req)
}

func (c *Client) CanPlayCards(ctx context.Context, req engine.CanPlayCardsRequest) *engine.Future[engine.CanPlayCardsResponse] {
	return invoke[engine.CanPlayCardsResponse](c, ctx, engine.OpCanPlayCards, req)
}

func (c *Client) ExplainScoring(ctx context.Context, req engine.ExplainScoringRequest) *engine.Future[engine.ExplainScoringResponse] {
	return invoke[engine.ExplainScoringResponse](c, ctx, engine.OpExplainScoring, req)
}

func (c *Client) NextThresholdReachable(ctx context.Context, req engine.NextThresholdReachableRequest) *engine.Future[engine.NextThresholdReachableResponse] {
	return invoke[engine.NextThresholdReachableResponse](c, ctx, engine.OpNextThresholdReachable, req)
}

func (c *Client) ComputeScore(ctx context.Context, req engine.ComputeScoreRequest) *engine.Future[engine.ComputeScoreResponse] {
	return invoke[engine.ComputeScoreResponse](c, ctx, engine.OpComputeScore, req)
}

func (c *Client) ComputeDeckLen(ctx context.Context, req engine.ComputeDeckLenRequest) *engine.Future[engine.ComputeDeckLenResponse] {
	return invoke[engine.ComputeDeckLenResponse](c, ctx, engine.OpComputeDeckLen, req)
}

func (c *Client) BatchedCardInfo(ctx context.Context, req engine.BatchedCardInfoRequest) *engine.Future[engine.BatchedCardInfoResponse] {
	return invoke[engine.BatchedCardInfoResponse](c, ctx, engine.OpBatchedCardInfo, req)
}

func (c *Client) DecodeWireMessage(ctx context.Context, req engine.DecodeWireMessageRequest) *engine.Future[engine.DecodeWireMessageResponse] {
	return invoke[engine.DecodeWireMessageResponse](c, ctx, engine.OpDecodeWireMessage, req)
}

var _ engine.Engine = (*Client)(nil)
