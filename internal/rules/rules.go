// Package rules is the builtin synchronous rules evaluator: the in-process
// implementation of the embedded engine module. It resolves card metadata
// under a trump configuration, sorts and groups hands, searches bids and
// viable plays, checks trick legality, and computes scores.
package rules

import (
	"fmt"
	"sort"

	"github.com/rbtying/shengji-sub001/internal/domain"
)

// Evaluator implements the synchronous capability surface consumed by the
// embedded backend adapter (embedded.Module).
type Evaluator struct{}

// New constructs an Evaluator. Construction doubles as the availability
// probe target: it must be cheap and must not fail when the package is
// linked in.
func New() *Evaluator {
	return &Evaluator{}
}

// suitOrder fixes the display order of effective-suit groups: natural suits
// first, trump last.
func suitOrder(s domain.Suit) int {
	switch s {
	case domain.SuitClubs:
		return 0
	case domain.SuitDiamonds:
		return 1
	case domain.SuitHearts:
		return 2
	case domain.SuitSpades:
		return 3
	case domain.SuitTrump:
		return 4
	}
	return 5
}

// rankPos returns the ascending strength position of a card within its
// effective suit under the given trump. Positions are dense: two cards are
// tractor-adjacent iff their positions differ by one. Pulling the trump
// number out of the natural suits is what makes e.g. 5♥ and 7♥ adjacent
// when 6 is the trump number.
func rankPos(t domain.Trump, c domain.Card) int {
	if !t.IsTrump(c) {
		pos := domain.RankIndex(c.Rank)
		if t.Number != "" && domain.RankIndex(t.Number) < pos {
			pos--
		}
		return pos
	}

	switch t.Type {
	case domain.TrumpStandard:
		// Trump-suit naturals, then off-suit trump number, then
		// trump-suit trump number, then the jokers.
		base := 13
		if t.Number != "" {
			base = 12
		}
		switch {
		case c.Typ == domain.TypeJoker && c.Token == domain.TokenBigJoker:
			return base + 3
		case c.Typ == domain.TypeJoker:
			return base + 2
		case c.Rank == t.Number && c.Suit == t.Suit:
			return base + 1
		case c.Rank == t.Number:
			return base
		default:
			pos := domain.RankIndex(c.Rank)
			if t.Number != "" && domain.RankIndex(t.Number) < pos {
				pos--
			}
			return pos
		}
	default: // no trump
		switch {
		case c.Typ == domain.TypeJoker && c.Token == domain.TokenBigJoker:
			if t.Number == "" {
				return 1
			}
			return 2
		case c.Typ == domain.TypeJoker:
			if t.Number == "" {
				return 0
			}
			return 1
		default:
			// Trump-number card in a no-trump game; all suits rank
			// equally below the jokers.
			return 0
		}
	}
}

// parseAll decodes every token, failing on the first malformed one.
func parseAll(tokens []string) ([]domain.Card, error) {
	cards := make([]domain.Card, 0, len(tokens))
	for _, token := range tokens {
		c, err := domain.ParseCard(token)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// sortCards orders cards by effective-suit group, then ascending strength,
// breaking ties by token for determinism.
func sortCards(t domain.Trump, cards []domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		si, sj := suitOrder(t.EffectiveSuit(cards[i])), suitOrder(t.EffectiveSuit(cards[j]))
		if si != sj {
			return si < sj
		}
		pi, pj := rankPos(t, cards[i]), rankPos(t, cards[j])
		if pi != pj {
			return pi < pj
		}
		return cards[i].Token < cards[j].Token
	})
}

// CardInfo resolves one card's metadata under the given trump
// configuration.
func (e *Evaluator) CardInfo(trump domain.Trump, token string) (domain.CardInfo, error) {
	c, ok := domain.CatalogCard(token)
	if !ok {
		var err error
		c, err = domain.ParseCard(token)
		if err != nil {
			return domain.CardInfo{}, fmt.Errorf("unknown card token %q", token)
		}
	}
	return domain.CardInfo{
		Value:         c.Token,
		DisplayValue:  c.Display(),
		Typ:           c.Typ,
		Number:        c.Rank,
		Points:        c.Points(),
		Suit:          c.Suit,
		EffectiveSuit: trump.EffectiveSuit(c),
	}, nil
}
