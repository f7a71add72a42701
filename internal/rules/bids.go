package rules

import (
	"fmt"
	"strconv"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

// bidTier ranks the card classes a bid can be made with: suited
// trump-number cards, then the little joker, then the big joker.
func bidTier(token string) int {
	switch token {
	case domain.TokenBigJoker:
		return 2
	case domain.TokenLittleJoker:
		return 1
	default:
		return 0
	}
}

// outbids reports whether a bid of (count, tier) beats the bid of
// (prevCount, prevTier): strictly more cards, or the same number of cards
// from a higher tier.
func outbids(count, tier, prevCount, prevTier int) bool {
	if count != prevCount {
		return count > prevCount
	}
	return tier > prevTier
}

// FindValidBids enumerates every bid the requesting player can legally make
// given the bid history and their hand: suited bids on their level's rank,
// and joker bids of at least a pair. A player holding the current winning
// bid may reinforce it by raising the count with the same card.
func (e *Evaluator) FindValidBids(req engine.FindValidBidsRequest) (engine.FindValidBidsResponse, error) {
	level := ""
	for _, p := range req.Players {
		if p.ID == req.ID {
			level = p.Level
		}
	}
	if level == "" {
		return engine.FindValidBidsResponse{}, fmt.Errorf("player %d not found", req.ID)
	}
	if domain.RankIndex(level) < 0 {
		return engine.FindValidBidsResponse{}, fmt.Errorf("player %d has invalid level %q", req.ID, level)
	}

	hand := req.Hands[strconv.Itoa(req.ID)]
	held := make(map[string]int, 6)
	for _, token := range hand {
		c, err := domain.ParseCard(token)
		if err != nil {
			return engine.FindValidBidsResponse{}, err
		}
		if c.Typ == domain.TypeJoker || c.Rank == level {
			held[token]++
		}
	}

	prevCount, prevTier := 0, -1
	if n := len(req.Bids); n > 0 {
		last := req.Bids[n-1]
		prevCount, prevTier = last.Count, bidTier(last.Card)
	}

	var results []engine.Bid
	for _, candidate := range biddableTokens(level) {
		n := held[candidate]
		tier := bidTier(candidate)
		minCount := 1
		if tier > 0 {
			// Joker bids declare no-trump and require at least a pair.
			minCount = 2
		}
		for count := minCount; count <= n; count++ {
			if outbids(count, tier, prevCount, prevTier) {
				results = append(results, engine.Bid{ID: req.ID, Card: candidate, Count: count, Epoch: req.Epoch})
			}
		}
	}
	return engine.FindValidBidsResponse{Results: results}, nil
}

// biddableTokens lists the tokens a player at the given level can bid with,
// in a stable order.
func biddableTokens(level string) []string {
	tokens := make([]string, 0, 6)
	for _, s := range domain.Suits {
		tokens = append(tokens, domain.TokenFor(level, s))
	}
	return append(tokens, domain.TokenLittleJoker, domain.TokenBigJoker)
}
