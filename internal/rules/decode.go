package rules

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/rbtying/shengji-sub001/internal/engine"
)

// DecodeWireMessage decodes a game-state frame: plain JSON passes through,
// anything else is treated as a zstd-compressed JSON payload.
func (e *Evaluator) DecodeWireMessage(req engine.DecodeWireMessageRequest) (engine.DecodeWireMessageResponse, error) {
	if len(req.Message) == 0 {
		return engine.DecodeWireMessageResponse{}, fmt.Errorf("empty wire message")
	}
	if json.Valid(req.Message) {
		return engine.DecodeWireMessageResponse{Message: json.RawMessage(req.Message)}, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return engine.DecodeWireMessageResponse{}, fmt.Errorf("initializing zstd: %w", err)
	}
	defer dec.Close()

	plain, err := dec.DecodeAll(req.Message, nil)
	if err != nil {
		return engine.DecodeWireMessageResponse{}, fmt.Errorf("decompressing wire message: %w", err)
	}
	if !json.Valid(plain) {
		return engine.DecodeWireMessageResponse{}, fmt.Errorf("decompressed wire message is not valid JSON")
	}
	return engine.DecodeWireMessageResponse{Message: json.RawMessage(plain)}, nil
}
