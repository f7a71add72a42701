package rules

import (
	"fmt"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

// pointsPerDeck is the point total in one deck: four 5s, four 10s, four Ks.
const pointsPerDeck = 100

const defaultStepPerDeck = 20

func deckCount(p engine.ScoringParams) int {
	if p.NumDecks > 0 {
		return p.NumDecks
	}
	return 2
}

func stepFor(p engine.ScoringParams, decks int) int {
	step := p.StepSizePerDeck
	if step <= 0 {
		step = defaultStepPerDeck
	}
	return step * decks
}

// scoreAt computes the round outcome when the non-landlord team finishes
// with the given points. The landlord team defends below two steps; at two
// steps and above the defenders take over, advancing one level per
// additional step. TruncateZero removes the advance-free takeover window at
// exactly two steps.
func scoreAt(p engine.ScoringParams, decks int, smallerTeam bool, points int) engine.GameResult {
	step := stepFor(p, decks)
	var r engine.GameResult
	switch {
	case points <= 0:
		r = engine.GameResult{LandlordWon: true, LandlordDelta: 3}
	case points < step:
		r = engine.GameResult{LandlordWon: true, LandlordDelta: 2}
	case points < 2*step:
		r = engine.GameResult{LandlordWon: true, LandlordDelta: 1}
	default:
		delta := points/step - 2
		if p.TruncateZero {
			delta = points/step - 1
		}
		r = engine.GameResult{LandlordWon: false, NonLandlordDelta: delta}
	}
	if smallerTeam {
		// A short-handed landlord team raises the stakes for whoever
		// wins the round.
		if r.LandlordWon {
			r.LandlordDelta++
		} else {
			r.NonLandlordDelta++
		}
	}
	return r
}

// ExplainScoring enumerates the outcome at every threshold from zero to the
// full point total, together with the step size used.
func (e *Evaluator) ExplainScoring(req engine.ExplainScoringRequest) (engine.ExplainScoringResponse, error) {
	decks := deckCount(req.Params)
	if req.DeckLen > 0 {
		if req.DeckLen%domain.DeckSize != 0 {
			return engine.ExplainScoringResponse{}, fmt.Errorf("deck length %d is not a multiple of %d", req.DeckLen, domain.DeckSize)
		}
		decks = req.DeckLen / domain.DeckSize
	}
	step := stepFor(req.Params, decks)
	total := pointsPerDeck * decks

	var segments []engine.ScoreSegment
	for point := 0; point <= total; point += step {
		segments = append(segments, engine.ScoreSegment{
			Point:   point,
			Results: scoreAt(req.Params, decks, req.SmallerLandlordTeam, point),
		})
	}
	return engine.ExplainScoringResponse{
		Results:     segments,
		StepSize:    step,
		TotalPoints: total,
	}, nil
}

// ComputeScore scores a finished round and reports the next point threshold
// that would change the outcome.
func (e *Evaluator) ComputeScore(req engine.ComputeScoreRequest) (engine.ComputeScoreResponse, error) {
	decks := deckCount(req.Params)
	step := stepFor(req.Params, decks)
	total := pointsPerDeck * decks

	next := (req.NonLandlordPoints/step + 1) * step
	if req.NonLandlordPoints < 0 {
		next = 0
	}
	if next > total {
		next = total
	}
	return engine.ComputeScoreResponse{
		Score:         scoreAt(req.Params, decks, req.SmallerLandlordTeam, req.NonLandlordPoints),
		NextThreshold: next,
	}, nil
}

// NextThresholdReachable reports whether the non-landlord team can still
// reach its next scoring threshold given how many points have already been
// decided.
func (e *Evaluator) NextThresholdReachable(req engine.NextThresholdReachableRequest) (engine.NextThresholdReachableResponse, error) {
	decks := deckCount(req.Params)
	step := stepFor(req.Params, decks)
	total := pointsPerDeck * decks

	next := (req.NonLandlordPoints/step + 1) * step
	if next > total {
		next = total
	}
	remaining := total - req.ObservedPoints
	if remaining < 0 {
		remaining = 0
	}
	return engine.NextThresholdReachableResponse{
		Reachable: req.NonLandlordPoints+remaining >= next,
	}, nil
}

// ComputeDeckLen returns the total number of cards across the given number
// of decks.
func (e *Evaluator) ComputeDeckLen(req engine.ComputeDeckLenRequest) (engine.ComputeDeckLenResponse, error) {
	if req.NumDecks <= 0 {
		return engine.ComputeDeckLenResponse{}, fmt.Errorf("num_decks must be positive, got %d", req.NumDecks)
	}
	return engine.ComputeDeckLenResponse{Length: req.NumDecks * domain.DeckSize}, nil
}
