package rules

import (
	"fmt"
	"sort"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

// SortAndGroupCards sorts a set of cards under the trump configuration and
// groups adjacent runs sharing an effective suit.
func (e *Evaluator) SortAndGroupCards(req engine.SortAndGroupCardsRequest) (engine.SortAndGroupCardsResponse, error) {
	cards, err := parseAll(req.Cards)
	if err != nil {
		return engine.SortAndGroupCardsResponse{}, err
	}
	sortCards(req.Trump, cards)

	var groups []engine.SuitGroup
	for _, c := range cards {
		suit := req.Trump.EffectiveSuit(c)
		if n := len(groups); n > 0 && groups[n-1].Suit == suit {
			groups[n-1].Cards = append(groups[n-1].Cards, c.Token)
			continue
		}
		groups = append(groups, engine.SuitGroup{Suit: suit, Cards: []string{c.Token}})
	}
	return engine.SortAndGroupCardsResponse{Results: groups}, nil
}

// unit is one structural block of a play: Count copies of Length adjacent
// strength positions, with the concrete tokens backing it.
type unit struct {
	Count  int
	Length int
	Tokens []string
	Low    string // lowest card, for descriptions
}

// decompose greedily extracts tractors, then same-position tuples, from
// cards that share an effective suit. Cards from different effective suits
// are decomposed independently and concatenated in sorted order.
func decompose(t domain.Trump, cards []domain.Card) []unit {
	sorted := append([]domain.Card(nil), cards...)
	sortCards(t, sorted)

	// Bucket tokens by (effective suit, strength position).
	type slot struct {
		suit domain.Suit
		pos  int
	}
	buckets := make(map[slot][]string)
	var order []slot
	for _, c := range sorted {
		s := slot{t.EffectiveSuit(c), rankPos(t, c)}
		if _, seen := buckets[s]; !seen {
			order = append(order, s)
		}
		buckets[s] = append(buckets[s], c.Token)
	}

	var units []unit

	// Tractors: maximal runs of adjacent positions each holding at least
	// a pair. Extract pairs across the whole run.
	for i := 0; i < len(order); i++ {
		if len(buckets[order[i]]) < 2 {
			continue
		}
		j := i
		for j+1 < len(order) &&
			order[j+1].suit == order[i].suit &&
			order[j+1].pos == order[j].pos+1 &&
			len(buckets[order[j+1]]) >= 2 {
			j++
		}
		if j == i {
			continue
		}
		u := unit{Count: 2, Length: j - i + 1, Low: buckets[order[i]][0]}
		for k := i; k <= j; k++ {
			s := order[k]
			u.Tokens = append(u.Tokens, buckets[s][:2]...)
			buckets[s] = buckets[s][2:]
		}
		units = append(units, u)
		i = j
	}

	// Whatever remains becomes same-position tuples.
	for _, s := range order {
		if toks := buckets[s]; len(toks) > 0 {
			units = append(units, unit{Count: len(toks), Length: 1, Tokens: toks, Low: toks[0]})
		}
	}

	// Most structured first.
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].Count*units[i].Length != units[j].Count*units[j].Length {
			return units[i].Count*units[i].Length > units[j].Count*units[j].Length
		}
		return units[i].Length > units[j].Length
	})
	return units
}

func describeUnit(u unit) string {
	switch {
	case u.Length > 1:
		return fmt.Sprintf("%dx%d tractor from %s", u.Count, u.Length, u.Low)
	case u.Count == 1:
		return "single " + u.Low
	case u.Count == 2:
		return "pair of " + u.Low
	case u.Count == 3:
		return "triple of " + u.Low
	default:
		return fmt.Sprintf("%d of %s", u.Count, u.Low)
	}
}

func describeUnits(units []unit) string {
	desc := ""
	for i, u := range units {
		if i > 0 {
			desc += ", "
		}
		desc += describeUnit(u)
	}
	return desc
}

func groupingOf(units []unit) [][]string {
	grouping := make([][]string, 0, len(units))
	for _, u := range units {
		grouping = append(grouping, append([]string(nil), u.Tokens...))
	}
	return grouping
}

// FindViablePlays returns the ways the selected cards can be grouped when
// played: the most structured decomposition first, then the flat all-singles
// grouping when it differs.
func (e *Evaluator) FindViablePlays(req engine.FindViablePlaysRequest) (engine.FindViablePlaysResponse, error) {
	cards, err := parseAll(req.Cards)
	if err != nil {
		return engine.FindViablePlaysResponse{}, err
	}
	if len(cards) == 0 {
		return engine.FindViablePlaysResponse{}, nil
	}

	units := decompose(req.Trump, cards)
	plays := []engine.FoundViablePlay{{
		Description: describeUnits(units),
		Grouping:    groupingOf(units),
	}}

	if len(units) != len(cards) {
		sorted := append([]domain.Card(nil), cards...)
		sortCards(req.Trump, sorted)
		singles := make([][]string, 0, len(sorted))
		desc := make([]unit, 0, len(sorted))
		for _, c := range sorted {
			singles = append(singles, []string{c.Token})
			desc = append(desc, unit{Count: 1, Length: 1, Low: c.Token})
		}
		plays = append(plays, engine.FoundViablePlay{
			Description: describeUnits(desc),
			Grouping:    singles,
		})
	}
	return engine.FindViablePlaysResponse{Results: plays}, nil
}

// DecomposeTrickFormat returns the structural formats a play decomposes
// into, from most to least structured: the greedy decomposition, tractors
// split into pairs, and all singles. When a hand is supplied, each format
// also reports the hand's cards in the play's leading effective suit.
func (e *Evaluator) DecomposeTrickFormat(req engine.DecomposeTrickFormatRequest) (engine.DecomposeTrickFormatResponse, error) {
	cards, err := parseAll(req.Cards)
	if err != nil {
		return engine.DecomposeTrickFormatResponse{}, err
	}
	if len(cards) == 0 {
		return engine.DecomposeTrickFormatResponse{}, nil
	}

	var playable []string
	if len(req.Hand) > 0 {
		hand, err := parseAll(req.Hand)
		if err != nil {
			return engine.DecomposeTrickFormatResponse{}, err
		}
		led := req.Trump.EffectiveSuit(cards[0])
		matching := hand[:0:0]
		for _, c := range hand {
			if req.Trump.EffectiveSuit(c) == led {
				matching = append(matching, c)
			}
		}
		sortCards(req.Trump, matching)
		for _, c := range matching {
			playable = append(playable, c.Token)
		}
	}

	formatOf := func(units []unit) engine.TrickFormat {
		f := engine.TrickFormat{Description: describeUnits(units), Playable: playable}
		for _, u := range units {
			f.Units = append(f.Units, engine.TrickUnit{Count: u.Count, Length: u.Length})
		}
		return f
	}

	greedy := decompose(req.Trump, cards)
	formats := []engine.TrickFormat{formatOf(greedy)}

	// Tractors split into their component pairs.
	var split []unit
	for _, u := range greedy {
		if u.Length > 1 {
			for i := 0; i < u.Length; i++ {
				split = append(split, unit{Count: u.Count, Length: 1, Tokens: u.Tokens[i*u.Count : (i+1)*u.Count], Low: u.Tokens[i*u.Count]})
			}
			continue
		}
		split = append(split, u)
	}
	if len(split) != len(greedy) {
		formats = append(formats, formatOf(split))
	}

	if len(split) != len(cards) {
		var singles []unit
		sorted := append([]domain.Card(nil), cards...)
		sortCards(req.Trump, sorted)
		for _, c := range sorted {
			singles = append(singles, unit{Count: 1, Length: 1, Tokens: []string{c.Token}, Low: c.Token})
		}
		formats = append(formats, formatOf(singles))
	}
	return engine.DecomposeTrickFormatResponse{Results: formats}, nil
}

// CanPlayCards checks a proposed play against the current trick and the
// player's hand: the play must come from the hand, match the led count,
// and follow the led effective suit for as long as the hand can.
func (e *Evaluator) CanPlayCards(req engine.CanPlayCardsRequest) (engine.CanPlayCardsResponse, error) {
	play, err := parseAll(req.Cards)
	if err != nil {
		return engine.CanPlayCardsResponse{}, err
	}
	hand, err := parseAll(req.Hand)
	if err != nil {
		return engine.CanPlayCardsResponse{}, err
	}
	if len(play) == 0 || !multisetContains(req.Hand, req.Cards) {
		return engine.CanPlayCardsResponse{Playable: false}, nil
	}

	if len(req.Trick) == 0 {
		// Leading: the play must live in one effective suit.
		led := req.Trump.EffectiveSuit(play[0])
		for _, c := range play[1:] {
			if req.Trump.EffectiveSuit(c) != led {
				return engine.CanPlayCardsResponse{Playable: false}, nil
			}
		}
		return engine.CanPlayCardsResponse{Playable: true}, nil
	}

	trick, err := parseAll(req.Trick)
	if err != nil {
		return engine.CanPlayCardsResponse{}, err
	}
	if len(play) != len(trick) {
		return engine.CanPlayCardsResponse{Playable: false}, nil
	}

	led := req.Trump.EffectiveSuit(trick[0])
	held := 0
	for _, c := range hand {
		if req.Trump.EffectiveSuit(c) == led {
			held++
		}
	}
	played := 0
	for _, c := range play {
		if req.Trump.EffectiveSuit(c) == led {
			played++
		}
	}

	// Follow suit while able: play entirely in-suit if the hand covers the
	// trick length, otherwise exhaust every in-suit card held.
	required := held
	if held > len(trick) {
		required = len(trick)
	}
	return engine.CanPlayCardsResponse{Playable: played >= required}, nil
}

// multisetContains reports whether every token in sub appears in super at
// least as many times.
func multisetContains(super, sub []string) bool {
	counts := make(map[string]int, len(super))
	for _, token := range super {
		counts[token]++
	}
	for _, token := range sub {
		counts[token]--
		if counts[token] < 0 {
			return false
		}
	}
	return true
}
