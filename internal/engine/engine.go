// Package engine defines the rules-evaluation capability set consumed by
// the client: the request/response value types, the deferred-result type,
// the error taxonomy, and the Engine interface both backends implement.
package engine

import "context"

// Engine exposes every rules-evaluation capability as an asynchronous
// operation. Request and response shapes are identical regardless of which
// backend services a call; no backend-specific framing leaks to callers.
type Engine interface {
	FindViablePlays(ctx context.Context, req FindViablePlaysRequest) *Future[FindViablePlaysResponse]
	FindValidBids(ctx context.Context, req FindValidBidsRequest) *Future[FindValidBidsResponse]
	SortAndGroupCards(ctx context.Context, req SortAndGroupCardsRequest) *Future[SortAndGroupCardsResponse]
	DecomposeTrickFormat(ctx context.Context, req DecomposeTrickFormatRequest) *Future[DecomposeTrickFormatResponse]
	CanPlayCards(ctx context.Context, req CanPlayCardsRequest) *Future[CanPlayCardsResponse]
	ExplainScoring(ctx context.Context, req ExplainScoringRequest) *Future[ExplainScoringResponse]
	NextThresholdReachable(ctx context.Context, req NextThresholdReachableRequest) *Future[NextThresholdReachableResponse]
	ComputeScore(ctx context.Context, req ComputeScoreRequest) *Future[ComputeScoreResponse]
	ComputeDeckLen(ctx context.Context, req ComputeDeckLenRequest) *Future[ComputeDeckLenResponse]
	BatchedCardInfo(ctx context.Context, req BatchedCardInfoRequest) *Future[BatchedCardInfoResponse]
	DecodeWireMessage(ctx context.Context, req DecodeWireMessageRequest) *Future[DecodeWireMessageResponse]
}
