package domain

// Static card catalog: baseline display/type/point data for every known
// token, available without any backend. Used as the last-resort source for
// card metadata when both the cache and the active backend fail.

var catalog = func() map[string]Card {
	m := make(map[string]Card, DeckSize+1)
	for _, token := range PrefillTokens() {
		c, err := ParseCard(token)
		if err != nil {
			panic(err) // catalog tokens are generated, never malformed
		}
		m[token] = c
	}
	return m
}()

// CatalogCard looks up a token in the static catalog.
func CatalogCard(token string) (Card, bool) {
	c, ok := catalog[token]
	return c, ok
}

// FallbackInfo synthesizes best-effort metadata for a token from the static
// catalog alone: natural suit, unknown effective suit, defaulted points for
// tokens the catalog does not know.
func FallbackInfo(token string) CardInfo {
	c, ok := catalog[token]
	if !ok {
		return CardInfo{Value: token, DisplayValue: token, Typ: TypeBack}
	}
	return CardInfo{
		Value:         c.Token,
		DisplayValue:  c.Display(),
		Typ:           c.Typ,
		Number:        c.Rank,
		Points:        c.Points(),
		Suit:          c.Suit,
		EffectiveSuit: c.Suit,
	}
}
