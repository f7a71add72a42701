// Package rulesserver serves a synchronous rules module behind the remote
// procedure protocol: one POST route, a "type" discriminator on requests
// and responses, and in-band {"type":"Error","Error":...} failures. It is
// the reference implementation of the endpoint the remote backend speaks
// to, and doubles as the fixture server in tests.
package rulesserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/rbtying/shengji-sub001/internal/domain"
	"github.com/rbtying/shengji-sub001/internal/engine"
	"github.com/rbtying/shengji-sub001/internal/engine/embedded"
)

// Handler returns the rules-procedure HTTP handler over the given module.
func Handler(mod embedded.Module, log *slog.Logger) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "reading request", http.StatusBadRequest)
			return
		}

		fields := make(map[string]json.RawMessage)
		if err := json.Unmarshal(body, &fields); err != nil {
			writeError(w, log, "request is not valid JSON")
			return
		}
		rawType, ok := fields["type"]
		if !ok {
			writeError(w, log, "request lacks a discriminator")
			return
		}
		var op string
		if err := json.Unmarshal(rawType, &op); err != nil {
			writeError(w, log, "discriminator is not a string")
			return
		}
		delete(fields, "type")
		stripped, err := json.Marshal(fields)
		if err != nil {
			writeError(w, log, "re-encoding request")
			return
		}

		dispatch(w, log, mod, op, stripped)
	}
}

func dispatch(w http.ResponseWriter, log *slog.Logger, mod embedded.Module, op string, body []byte) {
	switch op {
	case engine.OpFindViablePlays:
		serve(w, log, op, body, mod.FindViablePlays)
	case engine.OpFindValidBids:
		serve(w, log, op, body, mod.FindValidBids)
	case engine.OpSortAndGroupCards:
		serve(w, log, op, body, mod.SortAndGroupCards)
	case engine.OpDecomposeTrickFormat:
		serve(w, log, op, body, mod.DecomposeTrickFormat)
	case engine.OpCanPlayCards:
		serve(w, log, op, body, mod.CanPlayCards)
	case engine.OpExplainScoring:
		serve(w, log, op, body, mod.ExplainScoring)
	case engine.OpNextThresholdReachable:
		serve(w, log, op, body, mod.NextThresholdReachable)
	case engine.OpComputeScore:
		serve(w, log, op, body, mod.ComputeScore)
	case engine.OpComputeDeckLen:
		serve(w, log, op, body, mod.ComputeDeckLen)
	case engine.OpBatchedCardInfo:
		serve(w, log, op, body, func(req engine.BatchedCardInfoRequest) (engine.BatchedCardInfoResponse, error) {
			results := make([]domain.CardInfo, 0, len(req.Cards))
			for _, token := range req.Cards {
				info, err := mod.CardInfo(req.Trump, token)
				if err != nil {
					return engine.BatchedCardInfoResponse{}, err
				}
				results = append(results, info)
			}
			return engine.BatchedCardInfoResponse{Results: results}, nil
		})
	case engine.OpDecodeWireMessage:
		serve(w, log, op, body, mod.DecodeWireMessage)
	default:
		writeError(w, log, "unknown operation "+op)
	}
}

// serve decodes the operation fields, runs the computation, and writes the
// tagged response. Computation failures become in-band Error responses,
// not HTTP failures.
func serve[Req, Resp any](w http.ResponseWriter, log *slog.Logger, op string, body []byte, fn func(Req) (Resp, error)) {
	var req Req
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, log, "decoding "+op+" request: "+err.Error())
		return
	}
	resp, err := fn(req)
	if err != nil {
		writeError(w, log, err.Error())
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		writeError(w, log, "encoding "+op+" response")
		return
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		writeError(w, log, "tagging "+op+" response")
		return
	}
	fields["type"] = json.RawMessage(`"` + op + `"`)
	writeJSON(w, log, fields)
}

func writeError(w http.ResponseWriter, log *slog.Logger, msg string) {
	writeJSON(w, log, map[string]any{"type": engine.OpError, "Error": msg})
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("writing rules response", "error", err)
	}
}
