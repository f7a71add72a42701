// Package embedded adapts a synchronous, in-process rules module to the
// asynchronous engine.Engine contract.
package embedded

import (
	"context"
	"fmt"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

// Module is the synchronous capability surface of an in-process rules
// evaluator. Card info is single-item only; the adapter performs batching.
type Module interface {
	FindViablePlays(req engine.FindViablePlaysRequest) (engine.FindViablePlaysResponse, error)
	FindValidBids(req engine.FindValidBidsRequest) (engine.FindValidBidsResponse, error)
	SortAndGroupCards(req engine.SortAndGroupCardsRequest) (engine.SortAndGroupCardsResponse, error)
	DecomposeTrickFormat(req engine.DecomposeTrickFormatRequest) (engine.DecomposeTrickFormatResponse, error)
	CanPlayCards(req engine.CanPlayCardsRequest) (engine.CanPlayCardsResponse, error)
	ExplainScoring(req engine.ExplainScoringRequest) (engine.ExplainScoringResponse, error)
	NextThresholdReachable(req engine.NextThresholdReachableRequest) (engine.NextThresholdReachableResponse, error)
	ComputeScore(req engine.ComputeScoreRequest) (engine.ComputeScoreResponse, error)
	ComputeDeckLen(req engine.ComputeDeckLenRequest) (engine.ComputeDeckLenResponse, error)
	CardInfo(trump domain.Trump, token string) (domain.CardInfo, error)
	DecodeWireMessage(req engine.DecodeWireMessageRequest) (engine.DecodeWireMessageResponse, error)
}

// Adapter wraps a Module so every capability returns a deferred result that
// is already settled when the call returns. Computation failures propagate
// unwrapped; nothing is swallowed or retried here.
type Adapter struct {
	mod Module
}

// New returns an Adapter over the given module.
func New(mod Module) *Adapter {
	return &Adapter{mod: mod}
}

// Module returns the underlying synchronous module. Diagnostic use only.
func (a *Adapter) Module() Module {
	return a.mod
}

// call runs a synchronous computation and settles a future with its
// outcome. A panic in the module becomes a failed future rather than
// tearing down the caller.
func call[T any](fn func() (T, error)) (f *engine.Future[T]) {
	defer func() {
		if r := recover(); r != nil {
			f = engine.Failed[T](fmt.Errorf("embedded module panic: %v", r))
		}
	}()
	v, err := fn()
	if err != nil {
		return engine.Failed[T](err)
	}
	return engine.Resolved(v)
}

func (a *Adapter) FindViablePlays(_ context.Context, req engine.FindViablePlaysRequest) *engine.Future[engine.FindViablePlaysResponse] {
	return call(func() (engine.FindViablePlaysResponse, error) { return a.mod.FindViablePlays(req) })
}

func (a *Adapter) FindValidBids(_ context.Context, req engine.FindValidBidsRequest) *engine.Future[engine.FindValidBidsResponse] {
	return call(func() (engine.FindValidBidsResponse, error) { return a.mod.FindValidBids(req) })
}

func (a *Adapter) SortAndGroupCards(_ context.Context, req engine.SortAndGroupCardsRequest) *engine.Future[engine.SortAndGroupCardsResponse] {
	return call(func() (engine.SortAndGroupCardsResponse, error) { return a.mod.SortAndGroupCards(req) })
}

func (a *Adapter) DecomposeTrickFormat(_ context.Context, req engine.DecomposeTrickFormatRequest) *engine.Future[engine.DecomposeTrickFormatResponse] {
	return call(func() (engine.DecomposeTrickFormatResponse, error) { return a.mod.DecomposeTrickFormat(req) })
}

func (a *Adapter) CanPlayCards(_ context.Context, req engine.CanPlayCardsRequest) *engine.Future[engine.CanPlayCardsResponse] {
	return call(func() (engine.CanPlayCardsResponse, error) { return a.mod.CanPlayCards(req) })
}

func (a *Adapter) ExplainScoring(_ context.Context, req engine.ExplainScoringRequest) *engine.Future[engine.ExplainScoringResponse] {
	return call(func() (engine.ExplainScoringResponse, error) { return a.mod.ExplainScoring(req) })
}

func (a *Adapter) NextThresholdReachable(_ context.Context, req engine.NextThresholdReachableRequest) *engine.Future[engine.NextThresholdReachableResponse] {
	return call(func() (engine.NextThresholdReachableResponse, error) { return a.mod.NextThresholdReachable(req) })
}

func (a *Adapter) ComputeScore(_ context.Context, req engine.ComputeScoreRequest) *engine.Future[engine.ComputeScoreResponse] {
	return call(func() (engine.ComputeScoreResponse, error) { return a.mod.ComputeScore(req) })
}

func (a *Adapter) ComputeDeckLen(_ context.Context, req engine.ComputeDeckLenRequest) *engine.Future[engine.ComputeDeckLenResponse] {
	return call(func() (engine.ComputeDeckLenResponse, error) { return a.mod.ComputeDeckLen(req) })
}

// BatchedCardInfo emulates the batched capability with one module call per
// token. Results are collected in request order so callers can zip them
// back to the request positionally.
func (a *Adapter) BatchedCardInfo(_ context.Context, req engine.BatchedCardInfoRequest) *engine.Future[engine.BatchedCardInfoResponse] {
	return call(func() (engine.BatchedCardInfoResponse, error) {
		results := make([]domain.CardInfo, 0, len(req.Cards))
		for _, token := range req.Cards {
			info, err := a.mod.CardInfo(req.Trump, token)
			if err != nil {
				return engine.BatchedCardInfoResponse{}, fmt.Errorf("card info for %q: %w", token, err)
			}
			results = append(results, info)
		}
		return engine.BatchedCardInfoResponse{Results: results}, nil
	})
}

func (a *Adapter) DecodeWireMessage(_ context.Context, req engine.DecodeWireMessageRequest) *engine.Future[engine.DecodeWireMessageResponse] {
	return call(func() (engine.DecodeWireMessageResponse, error) { return a.mod.DecodeWireMessage(req) })
}

var _ engine.Engine = (*Adapter)(nil)
