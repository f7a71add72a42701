package domain

// TrumpType discriminates the two trump modes.
type TrumpType string

const (
	TrumpStandard TrumpType = "Standard"
	TrumpNoTrump  TrumpType = "NoTrump"
)

// Trump is the active trump configuration: a standard suit + number, or
// no-trump with an optional number. Immutable once constructed.
type Trump struct {
	Type   TrumpType `json:"type"`
	Suit   Suit      `json:"suit,omitempty"`
	Number string    `json:"number,omitempty"`
}

// NewStandardTrump returns a suited trump configuration.
func NewStandardTrump(suit Suit, number string) Trump {
	return Trump{Type: TrumpStandard, Suit: suit, Number: number}
}

// NewNoTrump returns a no-trump configuration; number may be empty.
func NewNoTrump(number string) Trump {
	return Trump{Type: TrumpNoTrump, Number: number}
}

// Key returns the stable cache-partitioning serialization of the
// configuration. Structurally equal configurations always yield the same
// key; differing ones never collide because every field occupies a fixed
// slot.
func (t Trump) Key() string {
	return string(t.Type) + "|" + string(t.Suit) + "|" + t.Number
}

// IsTrump reports whether a card behaves as trump under this configuration.
// Jokers are always trump; cards of the trump number are trump in every
// suit.
func (t Trump) IsTrump(c Card) bool {
	switch c.Typ {
	case TypeJoker:
		return true
	case TypeStandard:
		if t.Number != "" && c.Rank == t.Number {
			return true
		}
		return t.Type == TrumpStandard && c.Suit == t.Suit
	}
	return false
}

// EffectiveSuit returns how the card groups under this configuration:
// SuitTrump for any trump card, its natural suit otherwise.
func (t Trump) EffectiveSuit(c Card) Suit {
	if t.IsTrump(c) {
		return SuitTrump
	}
	return c.Suit
}
