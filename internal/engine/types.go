package engine

import (
	"encoding/json"
	"fmt"

	"github.com/rbtying/shengji-sub001/internal/domain"
)

// Discriminator tags, one per capability. The remote protocol carries these
// in the top-level "type" field of requests and responses; the embedded
// backend never sees them.
const (
	OpFindViablePlays        = "FindViablePlays"
	OpFindValidBids          = "FindValidBids"
	OpSortAndGroupCards      = "SortAndGroupCards"
	OpDecomposeTrickFormat   = "DecomposeTrickFormat"
	OpCanPlayCards           = "CanPlayCards"
	OpExplainScoring         = "ExplainScoring"
	OpNextThresholdReachable = "NextThresholdReachable"
	OpComputeScore           = "ComputeScore"
	OpComputeDeckLen         = "ComputeDeckLen"
	OpBatchedCardInfo        = "BatchedCardInfo"
	OpDecodeWireMessage      = "DecodeWireMessage"

	// OpError is the in-band application-failure discriminator.
	OpError = "Error"
)

// Hands maps a player ID to the card tokens they hold.
type Hands map[string][]string

// Player identifies a participant for bid evaluation.
type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Bid is a single bid in the bid history: count copies of a biddable card.
type Bid struct {
	ID    int    `json:"id"`
	Card  string `json:"card"`
	Count int    `json:"count"`
	Epoch int    `json:"epoch,omitempty"`
}

// ScoringParams configures score computation. Also a cache-key component,
// hence the stable Key serialization.
type ScoringParams struct {
	NumDecks        int  `json:"num_decks"`
	StepSizePerDeck int  `json:"step_size_per_deck"`
	TruncateZero    bool `json:"truncate_zero_crossing_window"`
}

// Key returns the stable serialization used for cache partitioning.
func (p ScoringParams) Key() string {
	return fmt.Sprintf("%d|%d|%t", p.NumDecks, p.StepSizePerDeck, p.TruncateZero)
}

// GameResult describes the outcome of a round at a given point total.
type GameResult struct {
	LandlordWon      bool `json:"landlord_won"`
	LandlordDelta    int  `json:"landlord_delta"`
	NonLandlordDelta int  `json:"non_landlord_delta"`
}

// ScoreSegment is one row of a scoring explanation: the outcome when the
// non-landlord team ends the round with exactly Point points.
type ScoreSegment struct {
	Point   int        `json:"point"`
	Results GameResult `json:"results"`
}

// FoundViablePlay is one way the selected cards can be grouped as a play.
type FoundViablePlay struct {
	Description string     `json:"description"`
	Grouping    [][]string `json:"grouping"`
}

// SuitGroup is a run of cards sharing an effective suit, in sorted order.
type SuitGroup struct {
	Suit  domain.Suit `json:"suit"`
	Cards []string    `json:"cards"`
}

// TrickUnit describes one structural unit of a trick format: Count copies
// of Length adjacent ranks (1×1 single, 2×1 pair, 2×2 tractor, ...).
type TrickUnit struct {
	Count  int `json:"count"`
	Length int `json:"length"`
}

// TrickFormat is one decomposition of a play into units, most structured
// first.
type TrickFormat struct {
	Description string      `json:"description"`
	Units       []TrickUnit `json:"units"`
	Playable    []string    `json:"playable,omitempty"`
}

type FindViablePlaysRequest struct {
	Trump domain.Trump `json:"trump"`
	Cards []string     `json:"cards"`
}

type FindViablePlaysResponse struct {
	Results []FoundViablePlay `json:"results"`
}

type FindValidBidsRequest struct {
	ID      int      `json:"id"`
	Bids    []Bid    `json:"bids"`
	Hands   Hands    `json:"hands"`
	Players []Player `json:"players"`
	Epoch   int      `json:"epoch"`
}

type FindValidBidsResponse struct {
	Results []Bid `json:"results"`
}

type SortAndGroupCardsRequest struct {
	Trump domain.Trump `json:"trump"`
	Cards []string     `json:"cards"`
}

type SortAndGroupCardsResponse struct {
	Results []SuitGroup `json:"results"`
}

type DecomposeTrickFormatRequest struct {
	Trump domain.Trump `json:"trump"`
	Cards []string     `json:"cards"`
	Hand  []string     `json:"hand,omitempty"`
}

type DecomposeTrickFormatResponse struct {
	Results []TrickFormat `json:"results"`
}

type CanPlayCardsRequest struct {
	Trump domain.Trump `json:"trump"`
	Trick []string     `json:"trick"`
	Hand  []string     `json:"hand"`
	Cards []string     `json:"cards"`
}

type CanPlayCardsResponse struct {
	Playable bool `json:"playable"`
}

type ExplainScoringRequest struct {
	Params              ScoringParams `json:"params"`
	SmallerLandlordTeam bool          `json:"smaller_landlord_team"`
	DeckLen             int           `json:"deck_len"`
}

type ExplainScoringResponse struct {
	Results     []ScoreSegment `json:"results"`
	StepSize    int            `json:"step_size"`
	TotalPoints int            `json:"total_points"`
}

type NextThresholdReachableRequest struct {
	Params            ScoringParams `json:"params"`
	NonLandlordPoints int           `json:"non_landlord_points"`
	ObservedPoints    int           `json:"observed_points"`
}

type NextThresholdReachableResponse struct {
	Reachable bool `json:"reachable"`
}

type ComputeScoreRequest struct {
	Params              ScoringParams `json:"params"`
	SmallerLandlordTeam bool          `json:"smaller_landlord_team"`
	NonLandlordPoints   int           `json:"non_landlord_points"`
}

type ComputeScoreResponse struct {
	Score         GameResult `json:"score"`
	NextThreshold int        `json:"next_threshold"`
}

type ComputeDeckLenRequest struct {
	NumDecks int `json:"num_decks"`
}

type ComputeDeckLenResponse struct {
	Length int `json:"length"`
}

type BatchedCardInfoRequest struct {
	Trump domain.Trump `json:"trump"`
	Cards []string     `json:"cards"`
}

type BatchedCardInfoResponse struct {
	Results []domain.CardInfo `json:"results"`
}

type DecodeWireMessageRequest struct {
	Message []byte `json:"msg"`
}

type DecodeWireMessageResponse struct {
	Message json.RawMessage `json:"message"`
}
