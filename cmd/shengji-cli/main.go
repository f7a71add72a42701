// shengji-cli is a terminal demonstration client: it selects a rules
// backend, warms the metadata cache for a trump configuration, and renders
// a sorted hand and the scoring explanation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/rbtying/shengji-sub001/internal/cache"
	"github.com/rbtying/shengji-sub001/internal/config"
	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
	"github.com/rbtying/shengji-sub001/internal/engine/facade"
	"github.com/rbtying/shengji-sub001/internal/logging"
	"github.com/rbtying/shengji-sub001/internal/statesync"
)

var sampleHand = []string{
	"2S", "2S", "3S", "5H", "5H", "6H", "7C", "7C", "8C", "10D", "KD", "AD", "LJ", "HJ",
}

func main() {
	configPath := flag.String("config", "", "path to client config JSON")
	endpoint := flag.String("endpoint", "http://127.0.0.1:8211/api/rules", "remote rules endpoint")
	forceRemote := flag.Bool("force-remote", false, "skip the embedded engine and use the remote endpoint")
	trumpSuit := flag.String("trump-suit", "S", "trump suit letter (C, D, H, S) or empty for no-trump")
	trumpNumber := flag.String("trump-number", "2", "trump number rank")
	decks := flag.Int("decks", 2, "number of decks")
	stateURL := flag.String("state-url", "", "state-stream websocket URL; when set the client follows the stream")
	flag.Parse()

	logLevel := "warn"
	if *configPath != "" {
		if err := config.LoadClientConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		c := config.GetClientConfig()
		if c.RulesEndpoint != "" {
			*endpoint = c.RulesEndpoint
		}
		*forceRemote = *forceRemote || c.ForceRemote
		if c.StateSyncURL != "" && *stateURL == "" {
			*stateURL = c.StateSyncURL
		}
		if c.LogLevel != "" {
			logLevel = c.LogLevel
		}
	}
	logging.Init(logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f, err := facade.New(facade.Config{
		ForceRemote: *forceRemote,
		Endpoint:    *endpoint,
		HTTPClient: &http.Client{
			Timeout: time.Duration(config.GetHTTPTimeoutSeconds()) * time.Second,
		},
		Probe: facade.DefaultProbe,
	})
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.Info.Printfln("rules backend: %s", f.Backend())

	trump := parseTrump(*trumpSuit, *trumpNumber)
	store := cache.NewStore()
	coord := cache.NewCoordinator(store, f, nil)

	// Warm the metadata cache before rendering anything.
	<-coord.PrefillCardInfo(ctx, trump)

	if err := renderHand(ctx, f, store, trump); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := renderScoring(ctx, f, *decks); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	if *stateURL != "" {
		if err := followState(f, coord, *stateURL); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
	}
}

// followState subscribes to the authoritative state stream and warms the
// metadata cache whenever the trump configuration changes. Runs until the
// stream client gives up or the process is killed.
func followState(f *facade.Facade, coord *cache.Coordinator, url string) error {
	ctx := context.Background()
	client, err := statesync.New(statesync.Config{
		URL:    url,
		Engine: f,
		OnTrump: func(trump domain.Trump) {
			pterm.Info.Printfln("trump changed: %s", trump.Key())
			coord.PrefillCardInfo(ctx, trump)
		},
		OnMessage: func(m json.RawMessage) {
			pterm.Debug.Printfln("state delta: %s", m)
		},
	})
	if err != nil {
		return err
	}
	return client.Run(ctx)
}

func parseTrump(suit, number string) domain.Trump {
	switch suit {
	case "C":
		return domain.NewStandardTrump(domain.SuitClubs, number)
	case "D":
		return domain.NewStandardTrump(domain.SuitDiamonds, number)
	case "H":
		return domain.NewStandardTrump(domain.SuitHearts, number)
	case "S":
		return domain.NewStandardTrump(domain.SuitSpades, number)
	default:
		return domain.NewNoTrump(number)
	}
}

func renderHand(ctx context.Context, eng engine.Engine, store *cache.Store, trump domain.Trump) error {
	resp, err := eng.SortAndGroupCards(ctx, engine.SortAndGroupCardsRequest{
		Trump: trump,
		Cards: sampleHand,
	}).Await(ctx)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printfln("Hand under %s", trump.Key())
	data := pterm.TableData{{"Suit", "Cards", "Points"}}
	for _, group := range resp.Results {
		line, points := "", 0
		for _, token := range group.Cards {
			info, ok := store.CardInfo(cache.CardInfoKey(trump, token))
			if !ok {
				info = domain.FallbackInfo(token)
			}
			if line != "" {
				line += " "
			}
			line += info.DisplayValue
			points += info.Points
		}
		data = append(data, []string{string(group.Suit), line, fmt.Sprintf("%d", points)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderScoring(ctx context.Context, eng engine.Engine, decks int) error {
	resp, err := eng.ExplainScoring(ctx, engine.ExplainScoringRequest{
		Params:  engine.ScoringParams{NumDecks: decks},
		DeckLen: decks * domain.DeckSize,
	}).Await(ctx)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printfln("Scoring (%d decks, step %d, %d points)", decks, resp.StepSize, resp.TotalPoints)
	data := pterm.TableData{{"Defender points", "Winner", "Level change"}}
	for _, seg := range resp.Results {
		winner, delta := "landlord", seg.Results.LandlordDelta
		if !seg.Results.LandlordWon {
			winner, delta = "defenders", seg.Results.NonLandlordDelta
		}
		data = append(data, []string{
			fmt.Sprintf("%d", seg.Point), winner, fmt.Sprintf("+%d", delta),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
