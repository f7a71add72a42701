package facade

import (
	"context"
	"errors"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rbtying/shengji-sub001/internal/engine"
	"github.com/rbtying/shengji-sub001/internal/engine/embedded"
	"github.com/rbtying/shengji-sub001/internal/rules"
	"github.com/rbtying/shengji-sub001/internal/rulesserver"
)

func TestForcedRemoteJourney(t *testing.T) {
	srv := httptest.NewServer(rulesserver.Handler(rules.New(), nil))
	defer srv.Close()

	f, err := New(Config{
		ForceRemote: true,
		Endpoint:    srv.URL,
		HTTPClient:  srv.Client(),
		Probe:       DefaultProbe, // must be ignored
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if f.Backend() != BackendRemote {
		t.Fatalf("backend = %s, want remote", f.Backend())
	}

	ctx := context.Background()
	resp, err := f.FindValidBids(ctx, engine.FindValidBidsRequest{
		ID:      0,
		Bids:    []engine.Bid{},
		Hands:   engine.Hands{"0": {"2S", "2S", "3H"}},
		Players: []engine.Player{{ID: 0, Name: "a", Level: "2"}, {ID: 1, Name: "b", Level: "2"}},
	}).Await(ctx)
	if err != nil {
		t.Fatalf("FindValidBids error: %v", err)
	}
	want := []engine.Bid{
		{ID: 0, Card: "2S", Count: 1},
		{ID: 0, Card: "2S", Count: 2},
	}
	if !reflect.DeepEqual(resp.Results, want) {
		t.Fatalf("bids = %+v, want %+v", resp.Results, want)
	}
}

func TestProbeSelectsEmbedded(t *testing.T) {
	var published embedded.Module
	SetDebugHook(func(mod embedded.Module) { published = mod })
	defer SetDebugHook(nil)

	f, err := New(Config{Probe: DefaultProbe})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if f.Backend() != BackendEmbedded {
		t.Fatalf("backend = %s, want embedded", f.Backend())
	}
	if published == nil {
		t.Fatalf("debug hook not called with module handle")
	}

	resp, err := f.ComputeDeckLen(context.Background(), engine.ComputeDeckLenRequest{NumDecks: 1}).Await(context.Background())
	if err != nil {
		t.Fatalf("ComputeDeckLen error: %v", err)
	}
	if resp.Length != 54 {
		t.Fatalf("length = %d, want 54", resp.Length)
	}
}

func TestProbeFailureFallsBackToRemote(t *testing.T) {
	srv := httptest.NewServer(rulesserver.Handler(rules.New(), nil))
	defer srv.Close()

	tests := []struct {
		name  string
		probe Probe
	}{
		{name: "probe error", probe: func() (embedded.Module, error) { return nil, errors.New("no runtime") }},
		{name: "probe nil module", probe: func() (embedded.Module, error) { return nil, nil }},
		{name: "probe panic", probe: func() (embedded.Module, error) { panic("init blew up") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(Config{
				Endpoint:   srv.URL,
				HTTPClient: srv.Client(),
				Probe:      tt.probe,
			})
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			if f.Backend() != BackendRemote {
				t.Fatalf("backend = %s, want remote fallback", f.Backend())
			}
		})
	}
}

func TestNoBackendAvailable(t *testing.T) {
	_, err := New(Config{
		Probe: func() (embedded.Module, error) { return nil, errors.New("no runtime") },
	})
	if err == nil {
		t.Fatalf("expected error with no endpoint and failing probe")
	}
}
