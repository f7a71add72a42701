// Package cache holds session-scoped response caches for the two
// high-fanout rules operations (card metadata, scoring explanations) and
// the prefill coordinator that populates them.
package cache

import (
	"fmt"
	"sync"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
)

// CardInfoKey builds the deterministic cache key for a card's metadata
// under a trump configuration.
func CardInfoKey(trump domain.Trump, token string) string {
	return trump.Key() + "|" + token
}

// ScoringKey builds the deterministic cache key for a scoring explanation.
func ScoringKey(params engine.ScoringParams, smallerLandlordTeam bool, deckLen int) string {
	return fmt.Sprintf("%s|%t|%d", params.Key(), smallerLandlordTeam, deckLen)
}

// Store is the response cache. Entries are immutable for a fixed key within
// a session, so there is no invalidation and no eviction: the per-session
// key space (tokens × trump configurations actually seen) is small. Misses
// are not auto-populated; callers and the prefill coordinator write back.
type Store struct {
	mu       sync.Mutex
	cardInfo map[string]domain.CardInfo
	scoring  map[string]engine.ExplainScoringResponse
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		cardInfo: make(map[string]domain.CardInfo),
		scoring:  make(map[string]engine.ExplainScoringResponse),
	}
}

// CardInfo looks up cached card metadata.
func (s *Store) CardInfo(key string) (domain.CardInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.cardInfo[key]
	return info, ok
}

// PutCardInfo writes card metadata under the given key. Idempotent for a
// fixed key.
func (s *Store) PutCardInfo(key string, info domain.CardInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardInfo[key] = info
}

// Scoring looks up a cached scoring explanation.
func (s *Store) Scoring(key string) (engine.ExplainScoringResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.scoring[key]
	return resp, ok
}

// PutScoring writes a scoring explanation under the given key.
func (s *Store) PutScoring(key string, resp engine.ExplainScoringResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoring[key] = resp
}

// CardInfoCount reports how many card metadata entries are cached.
func (s *Store) CardInfoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cardInfo)
}
