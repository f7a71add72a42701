package domain

// DeckSize is the number of cards in one Shengji deck (52 + 2 jokers).
const DeckSize = 54

// NewDeck returns one ordered 54-card deck of tokens.
func NewDeck() []string {
	deck := make([]string, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, TokenFor(r, s))
		}
	}
	deck = append(deck, TokenLittleJoker, TokenBigJoker)
	return deck
}

// TokenFor builds the card token for a rank and suit.
func TokenFor(rank string, suit Suit) string {
	var letter string
	switch suit {
	case SuitClubs:
		letter = "C"
	case SuitDiamonds:
		letter = "D"
	case SuitHearts:
		letter = "H"
	case SuitSpades:
		letter = "S"
	}
	return rank + letter
}

// PrefillTokens is the full set of tokens requiring metadata under any trump
// configuration: one full deck plus the back-of-card placeholder, in a
// stable order.
func PrefillTokens() []string {
	return append(NewDeck(), TokenBack)
}
