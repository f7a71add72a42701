package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
	"github.com/rbtying/shengji-sub001/internal/engine/embedded"
	"github.com/rbtying/shengji-sub001/internal/rules"
	"github.com/rbtying/shengji-sub001/internal/rulesserver"
)

func TestRequestCarriesDiscriminator(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"type":"ComputeDeckLen","length":108}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	resp, err := c.ComputeDeckLen(context.Background(), engine.ComputeDeckLenRequest{NumDecks: 2}).Await(context.Background())
	if err != nil {
		t.Fatalf("ComputeDeckLen error: %v", err)
	}
	if resp.Length != 108 {
		t.Fatalf("length = %d, want 108", resp.Length)
	}

	var discriminator string
	if err := json.Unmarshal(got["type"], &discriminator); err != nil || discriminator != "ComputeDeckLen" {
		t.Fatalf("request discriminator = %s (%v), want ComputeDeckLen", got["type"], err)
	}
	var decks int
	if err := json.Unmarshal(got["num_decks"], &decks); err != nil || decks != 2 {
		t.Fatalf("num_decks = %s (%v), want 2", got["num_decks"], err)
	}
}

func TestCannedFindValidBids(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"type":"FindValidBids","results":[{"id":1,"card":"2S","count":1},{"id":1,"card":"2S","count":2}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	resp, err := c.FindValidBids(context.Background(), engine.FindValidBidsRequest{ID: 1}).Await(context.Background())
	if err != nil {
		t.Fatalf("FindValidBids error: %v", err)
	}
	want := []engine.Bid{
		{ID: 1, Card: "2S", Count: 1},
		{ID: 1, Card: "2S", Count: 2},
	}
	if !reflect.DeepEqual(resp.Results, want) {
		t.Fatalf("bids = %+v, want %+v", resp.Results, want)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "transport failure on non 2xx",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var te *engine.TransportError
				if !errors.As(err, &te) {
					t.Fatalf("error = %v, want TransportError", err)
				}
				if te.Status != http.StatusBadGateway {
					t.Fatalf("status = %d, want 502", te.Status)
				}
			},
		},
		{
			name: "protocol failure on invalid JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte("not json"))
			},
			check: func(t *testing.T, err error) {
				var pe *engine.ProtocolError
				if !errors.As(err, &pe) {
					t.Fatalf("error = %v, want ProtocolError", err)
				}
			},
		},
		{
			name: "protocol failure on missing discriminator",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"length":108}`))
			},
			check: func(t *testing.T, err error) {
				var pe *engine.ProtocolError
				if !errors.As(err, &pe) {
					t.Fatalf("error = %v, want ProtocolError", err)
				}
			},
		},
		{
			name: "protocol failure on wrong discriminator",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"type":"SortAndGroupCards","results":[]}`))
			},
			check: func(t *testing.T, err error) {
				var pe *engine.ProtocolError
				if !errors.As(err, &pe) {
					t.Fatalf("error = %v, want ProtocolError", err)
				}
			},
		},
		{
			name: "application failure on Error discriminator",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"type":"Error","Error":"num_decks must be positive"}`))
			},
			check: func(t *testing.T, err error) {
				var ae *engine.AppError
				if !errors.As(err, &ae) {
					t.Fatalf("error = %v, want AppError", err)
				}
				if ae.Message != "num_decks must be positive" {
					t.Fatalf("message = %q", ae.Message)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(srv.URL, srv.Client(), nil)
			_, err := c.ComputeDeckLen(context.Background(), engine.ComputeDeckLenRequest{NumDecks: 2}).Await(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestTransportFailureOnUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1/rules", nil, nil)
	_, err := c.ComputeDeckLen(context.Background(), engine.ComputeDeckLenRequest{NumDecks: 1}).Await(context.Background())
	var te *engine.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}

// TestBackendEquivalence runs the same requests through the embedded
// adapter and through the remote adapter backed by the reference server,
// and expects identical responses.
func TestBackendEquivalence(t *testing.T) {
	srv := httptest.NewServer(rulesserver.Handler(rules.New(), nil))
	defer srv.Close()

	remoteEng := New(srv.URL, srv.Client(), nil)
	embeddedEng := embedded.New(rules.New())
	ctx := context.Background()
	trump := domain.NewStandardTrump(domain.SuitHearts, "4")

	t.Run("SortAndGroupCards", func(t *testing.T) {
		req := engine.SortAndGroupCardsRequest{Trump: trump, Cards: []string{"HJ", "3C", "4S", "9H", "AC"}}
		a, err := embeddedEng.SortAndGroupCards(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("embedded error: %v", err)
		}
		b, err := remoteEng.SortAndGroupCards(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("remote error: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("embedded = %+v, remote = %+v", a, b)
		}
	})

	t.Run("BatchedCardInfo", func(t *testing.T) {
		req := engine.BatchedCardInfoRequest{Trump: trump, Cards: domain.PrefillTokens()}
		a, err := embeddedEng.BatchedCardInfo(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("embedded error: %v", err)
		}
		b, err := remoteEng.BatchedCardInfo(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("remote error: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("embedded and remote card info diverge")
		}
	})

	t.Run("ExplainScoring", func(t *testing.T) {
		req := engine.ExplainScoringRequest{Params: engine.ScoringParams{NumDecks: 2}, DeckLen: 108}
		a, err := embeddedEng.ExplainScoring(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("embedded error: %v", err)
		}
		b, err := remoteEng.ExplainScoring(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("remote error: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("embedded = %+v, remote = %+v", a, b)
		}
	})

	t.Run("FindValidBids", func(t *testing.T) {
		req := engine.FindValidBidsRequest{
			ID:      1,
			Hands:   engine.Hands{"1": {"4S", "4S", "LJ"}},
			Players: []engine.Player{{ID: 1, Name: "p1", Level: "4"}, {ID: 2, Name: "p2", Level: "4"}},
		}
		a, err := embeddedEng.FindValidBids(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("embedded error: %v", err)
		}
		b, err := remoteEng.FindValidBids(ctx, req).Await(ctx)
		if err != nil {
			t.Fatalf("remote error: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("embedded = %+v, remote = %+v", a, b)
		}
	})
}
