package domain

import "fmt"

// Suit is a natural card suit. Jokers and the card back carry no suit.
type Suit string

const (
	SuitClubs    Suit = "♣"
	SuitDiamonds Suit = "♦"
	SuitHearts   Suit = "♥"
	SuitSpades   Suit = "♠"
	// SuitTrump is the effective suit of any card that behaves as trump
	// under the active trump configuration.
	SuitTrump Suit = "T"
)

// CardType classifies a card token.
type CardType string

const (
	TypeStandard CardType = "standard"
	TypeJoker    CardType = "joker"
	TypeBack     CardType = "back"
)

const (
	// TokenLittleJoker and TokenBigJoker are the two joker tokens.
	TokenLittleJoker = "LJ"
	TokenBigJoker    = "HJ"
	// TokenBack is the face-down placeholder token.
	TokenBack = "BK"
)

// Ranks in ascending natural order. Shengji has no rank 1; aces are high.
var Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Suits in the catalog's canonical order.
var Suits = []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

var rankIndex = func() map[string]int {
	m := make(map[string]int, len(Ranks))
	for i, r := range Ranks {
		m[r] = i
	}
	return m
}()

// RankIndex returns the ascending position of a rank string, or -1 for an
// unknown rank.
func RankIndex(rank string) int {
	if i, ok := rankIndex[rank]; ok {
		return i
	}
	return -1
}

// Card is a decoded card token.
type Card struct {
	Token string
	Typ   CardType
	Suit  Suit   // empty for jokers and back
	Rank  string // empty for jokers and back
}

// ParseCard decodes an opaque card token ("10♠" tokens are rank + suit
// letter, e.g. "10S"; jokers are "LJ"/"HJ"; back is "BK").
func ParseCard(token string) (Card, error) {
	switch token {
	case TokenLittleJoker, TokenBigJoker:
		return Card{Token: token, Typ: TypeJoker}, nil
	case TokenBack:
		return Card{Token: token, Typ: TypeBack}, nil
	}
	if len(token) < 2 {
		return Card{}, fmt.Errorf("card token %q too short", token)
	}
	rank := token[:len(token)-1]
	var suit Suit
	switch token[len(token)-1] {
	case 'C':
		suit = SuitClubs
	case 'D':
		suit = SuitDiamonds
	case 'H':
		suit = SuitHearts
	case 'S':
		suit = SuitSpades
	default:
		return Card{}, fmt.Errorf("card token %q has unknown suit", token)
	}
	if RankIndex(rank) < 0 {
		return Card{}, fmt.Errorf("card token %q has unknown rank", token)
	}
	return Card{Token: token, Typ: TypeStandard, Suit: suit, Rank: rank}, nil
}

// Display returns the human-readable form of a card.
func (c Card) Display() string {
	switch c.Typ {
	case TypeJoker:
		if c.Token == TokenBigJoker {
			return "HJ"
		}
		return "LJ"
	case TypeBack:
		return "🂠"
	default:
		return c.Rank + string(c.Suit)
	}
}

// Points returns the Shengji point value of a card: fives are worth 5,
// tens and kings are worth 10, everything else is worth nothing.
func (c Card) Points() int {
	switch c.Rank {
	case "5":
		return 5
	case "10", "K":
		return 10
	}
	return 0
}

// CardInfo is the resolved description of a card under a specific trump
// configuration. It is the value cached by the metadata cache and returned
// by the card-info capability on both backends.
type CardInfo struct {
	Value         string   `json:"value"`
	DisplayValue  string   `json:"display_value"`
	Typ           CardType `json:"typ"`
	Number        string   `json:"number,omitempty"`
	Points        int      `json:"points"`
	Suit          Suit     `json:"suit,omitempty"`
	EffectiveSuit Suit     `json:"effective_suit"`
}
