package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

// Coordinator eagerly populates the Store in batched round trips and
// deduplicates concurrent prefill requests for the same key. A prefill
// never fails from the caller's perspective: on any backend failure the
// coordinator falls back to static-catalog placeholders so the cache ends
// up total for the requested key.
type Coordinator struct {
	store *Store
	eng   engine.Engine
	log   *slog.Logger

	// inflight maps a prefill key to the completion signal of the one
	// in-flight prefill for that key. The channel is closed on settle,
	// success or failure, and the marker removed.
	inflight map[string]chan struct{}
}

// NewCoordinator wires a Coordinator to a store and an engine.
func NewCoordinator(store *Store, eng engine.Engine, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:    store,
		eng:      eng,
		log:      logger,
		inflight: make(map[string]chan struct{}),
	}
}

// PrefillCardInfo fetches metadata for every card token under the given
// trump configuration in one batched request and stores the results. The
// returned channel closes when the prefill settles. Concurrent calls for
// the same trump key attach to the same in-flight operation: at most one
// batch request is outstanding per key.
func (c *Coordinator) PrefillCardInfo(ctx context.Context, trump domain.Trump) <-chan struct{} {
	key := trump.Key()

	c.store.mu.Lock()
	if done, ok := c.inflight[key]; ok {
		c.store.mu.Unlock()
		return done
	}

	// Idempotent re-entry: only fetch the gap left by earlier prefills.
	var gap []string
	for _, token := range domain.PrefillTokens() {
		if _, ok := c.store.cardInfo[CardInfoKey(trump, token)]; !ok {
			gap = append(gap, token)
		}
	}
	if len(gap) == 0 {
		c.store.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}

	// The marker must be installed before the fetch is dispatched, so a
	// second caller in any interleaving observes it instead of racing
	// past.
	done := make(chan struct{})
	c.inflight[key] = done
	c.store.mu.Unlock()

	fut := c.eng.BatchedCardInfo(ctx, engine.BatchedCardInfoRequest{Trump: trump, Cards: gap})
	go func() {
		defer c.settle(key, done)
		c.storeCardInfo(ctx, fut, trump, gap)
	}()
	return done
}

func (c *Coordinator) storeCardInfo(ctx context.Context, fut *engine.Future[engine.BatchedCardInfoResponse], trump domain.Trump, gap []string) {
	resp, err := fut.Await(ctx)
	if err != nil {
		// Total failure: leave the cache total anyway with static
		// placeholders so every requested token stays queryable.
		c.log.Warn("card info prefill failed, using catalog fallback",
			"trump", trump.Key(), "cards", len(gap), "error", err)
		for _, token := range gap {
			c.store.PutCardInfo(CardInfoKey(trump, token), domain.FallbackInfo(token))
		}
		return
	}

	if len(resp.Results) != len(gap) {
		c.log.Warn("card info prefill length mismatch",
			"trump", trump.Key(), "requested", len(gap), "returned", len(resp.Results))
	}
	// Zip positionally up to the shorter length; placeholder the tail so
	// the cache is total for this key either way.
	n := len(resp.Results)
	if n > len(gap) {
		n = len(gap)
	}
	for i := 0; i < n; i++ {
		c.store.PutCardInfo(CardInfoKey(trump, gap[i]), resp.Results[i])
	}
	for i := n; i < len(gap); i++ {
		c.store.PutCardInfo(CardInfoKey(trump, gap[i]), domain.FallbackInfo(gap[i]))
	}
}

// PrefillScoring fetches scoring explanations for both values of the
// smaller-landlord-team flag (at most two requests) and stores them. Same
// dedup and fallback policy as card-info prefill.
func (c *Coordinator) PrefillScoring(ctx context.Context, params engine.ScoringParams, deckLen int) <-chan struct{} {
	// The marker key carries the same signature as the cache entries it
	// covers; prefills for the same params but different deck lengths are
	// distinct operations and must not dedup against each other.
	key := fmt.Sprintf("scoring|%s|%d", params.Key(), deckLen)

	c.store.mu.Lock()
	if done, ok := c.inflight[key]; ok {
		c.store.mu.Unlock()
		return done
	}

	var gap []bool
	for _, smaller := range []bool{false, true} {
		if _, ok := c.store.scoring[ScoringKey(params, smaller, deckLen)]; !ok {
			gap = append(gap, smaller)
		}
	}
	if len(gap) == 0 {
		c.store.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}

	done := make(chan struct{})
	c.inflight[key] = done
	c.store.mu.Unlock()

	go func() {
		defer c.settle(key, done)
		for _, smaller := range gap {
			req := engine.ExplainScoringRequest{Params: params, SmallerLandlordTeam: smaller, DeckLen: deckLen}
			resp, err := c.eng.ExplainScoring(ctx, req).Await(ctx)
			if err != nil {
				c.log.Warn("scoring prefill failed, using placeholder",
					"params", params.Key(), "error", err)
				resp = placeholderScoring(params, deckLen)
			}
			c.store.PutScoring(ScoringKey(params, smaller, deckLen), resp)
		}
	}()
	return done
}

// settle removes the in-flight marker and releases every waiter, whatever
// the outcome, so a future call can retry.
func (c *Coordinator) settle(key string, done chan struct{}) {
	c.store.mu.Lock()
	delete(c.inflight, key)
	c.store.mu.Unlock()
	close(done)
}

// placeholderScoring synthesizes a best-effort explanation from the params
// alone: correct step size and total, no per-threshold outcomes.
func placeholderScoring(params engine.ScoringParams, deckLen int) engine.ExplainScoringResponse {
	decks := params.NumDecks
	if deckLen > 0 && deckLen%domain.DeckSize == 0 {
		decks = deckLen / domain.DeckSize
	}
	if decks <= 0 {
		decks = 2
	}
	step := params.StepSizePerDeck
	if step <= 0 {
		step = 20
	}
	return engine.ExplainScoringResponse{
		StepSize:    step * decks,
		TotalPoints: 100 * decks,
	}
}
