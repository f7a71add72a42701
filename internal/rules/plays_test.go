package rules

import (
	"reflect"
	"testing"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

func TestFindViablePlaysTractor(t *testing.T) {
	e := New()
	trump := domain.NewStandardTrump(domain.SuitSpades, "2")

	resp, err := e.FindViablePlays(engine.FindViablePlaysRequest{
		Trump: trump,
		Cards: []string{"5H", "5H", "6H", "6H"},
	})
	if err != nil {
		t.Fatalf("FindViablePlays error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("plays = %d, want 2 (tractor and singles)", len(resp.Results))
	}
	tractor := resp.Results[0]
	if len(tractor.Grouping) != 1 || len(tractor.Grouping[0]) != 4 {
		t.Fatalf("tractor grouping = %+v", tractor.Grouping)
	}
	if tractor.Description != "2x2 tractor from 5H" {
		t.Fatalf("description = %q", tractor.Description)
	}
}

func TestFindViablePlaysSkipsTrumpNumberGap(t *testing.T) {
	e := New()
	// With 6 as the trump number, 5H 5H 7H 7H is a tractor.
	trump := domain.NewStandardTrump(domain.SuitSpades, "6")

	resp, err := e.FindViablePlays(engine.FindViablePlaysRequest{
		Trump: trump,
		Cards: []string{"5H", "5H", "7H", "7H"},
	})
	if err != nil {
		t.Fatalf("FindViablePlays error: %v", err)
	}
	if got := resp.Results[0].Description; got != "2x2 tractor from 5H" {
		t.Fatalf("description = %q, want tractor across the trump number gap", got)
	}
}

func TestDecomposeTrickFormat(t *testing.T) {
	e := New()
	trump := domain.NewStandardTrump(domain.SuitSpades, "2")

	resp, err := e.DecomposeTrickFormat(engine.DecomposeTrickFormatRequest{
		Trump: trump,
		Cards: []string{"5H", "5H", "6H", "6H"},
		Hand:  []string{"3H", "4H", "9S", "KD"},
	})
	if err != nil {
		t.Fatalf("DecomposeTrickFormat error: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("formats = %d, want 3 (tractor, pairs, singles)", len(resp.Results))
	}
	if !reflect.DeepEqual(resp.Results[0].Units, []engine.TrickUnit{{Count: 2, Length: 2}}) {
		t.Fatalf("format 0 units = %+v", resp.Results[0].Units)
	}
	if !reflect.DeepEqual(resp.Results[1].Units, []engine.TrickUnit{{Count: 2, Length: 1}, {Count: 2, Length: 1}}) {
		t.Fatalf("format 1 units = %+v", resp.Results[1].Units)
	}
	if len(resp.Results[2].Units) != 4 {
		t.Fatalf("format 2 units = %+v", resp.Results[2].Units)
	}
	// Hearts in hand are playable against a hearts lead.
	if !reflect.DeepEqual(resp.Results[0].Playable, []string{"3H", "4H"}) {
		t.Fatalf("playable = %+v", resp.Results[0].Playable)
	}
}

func TestCanPlayCards(t *testing.T) {
	e := New()
	trump := domain.NewStandardTrump(domain.SuitSpades, "2")

	hand := []string{"3H", "4H", "9S", "KD", "KD"}
	tests := []struct {
		name     string
		trick    []string
		cards    []string
		playable bool
	}{
		{name: "lead single suit", trick: nil, cards: []string{"KD", "KD"}, playable: true},
		{name: "lead mixed suits", trick: nil, cards: []string{"3H", "KD"}, playable: false},
		{name: "follow in suit", trick: []string{"6H"}, cards: []string{"3H"}, playable: true},
		{name: "discard while holding suit", trick: []string{"6H"}, cards: []string{"KD"}, playable: false},
		{name: "partial follow when short", trick: []string{"6H", "7H", "8H"}, cards: []string{"3H", "4H", "KD"}, playable: true},
		{name: "short follow withholds suit", trick: []string{"6H", "7H", "8H"}, cards: []string{"3H", "KD", "KD"}, playable: false},
		{name: "wrong count", trick: []string{"6H"}, cards: []string{"3H", "4H"}, playable: false},
		{name: "cards not in hand", trick: nil, cards: []string{"AC"}, playable: false},
		{name: "empty play", trick: nil, cards: nil, playable: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.CanPlayCards(engine.CanPlayCardsRequest{
				Trump: trump,
				Trick: tt.trick,
				Hand:  hand,
				Cards: tt.cards,
			})
			if err != nil {
				t.Fatalf("CanPlayCards error: %v", err)
			}
			if resp.Playable != tt.playable {
				t.Fatalf("playable = %v, want %v", resp.Playable, tt.playable)
			}
		})
	}
}
