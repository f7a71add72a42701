package domain

import "testing"

func TestParseCard(t *testing.T) {
	tests := []struct {
		token   string
		rank    string
		suit    Suit
		typ     CardType
		wantErr bool
	}{
		{token: "2C", rank: "2", suit: SuitClubs, typ: TypeStandard},
		{token: "10D", rank: "10", suit: SuitDiamonds, typ: TypeStandard},
		{token: "AS", rank: "A", suit: SuitSpades, typ: TypeStandard},
		{token: "LJ", typ: TypeJoker},
		{token: "HJ", typ: TypeJoker},
		{token: "BK", typ: TypeBack},
		{token: "1S", wantErr: true},
		{token: "2X", wantErr: true},
		{token: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			c, err := ParseCard(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCard(%q) expected error, got %+v", tt.token, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard(%q) error: %v", tt.token, err)
			}
			if c.Rank != tt.rank || c.Suit != tt.suit || c.Typ != tt.typ {
				t.Fatalf("ParseCard(%q) = %+v, want rank=%s suit=%s typ=%s", tt.token, c, tt.rank, tt.suit, tt.typ)
			}
		})
	}
}

func TestCardPoints(t *testing.T) {
	var total int
	for _, token := range NewDeck() {
		c, err := ParseCard(token)
		if err != nil {
			t.Fatalf("ParseCard(%q) error: %v", token, err)
		}
		total += c.Points()
	}
	if total != pointsInDeck {
		t.Fatalf("deck points = %d, want %d", total, pointsInDeck)
	}
}

const pointsInDeck = 100 // four 5s, four 10s, four kings

func TestDeckAndPrefillTokens(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}
	seen := make(map[string]bool, len(deck))
	for _, token := range deck {
		if seen[token] {
			t.Fatalf("duplicate token %q in deck", token)
		}
		seen[token] = true
	}

	tokens := PrefillTokens()
	if len(tokens) != DeckSize+1 {
		t.Fatalf("prefill tokens = %d, want %d", len(tokens), DeckSize+1)
	}
	if tokens[len(tokens)-1] != TokenBack {
		t.Fatalf("last prefill token = %q, want %q", tokens[len(tokens)-1], TokenBack)
	}
}

func TestFallbackInfo(t *testing.T) {
	info := FallbackInfo("KH")
	if info.Points != 10 || info.Suit != SuitHearts || info.EffectiveSuit != SuitHearts {
		t.Fatalf("FallbackInfo(KH) = %+v", info)
	}

	// Unknown tokens still produce a queryable placeholder.
	info = FallbackInfo("??")
	if info.Value != "??" || info.Points != 0 {
		t.Fatalf("FallbackInfo(??) = %+v", info)
	}
}
