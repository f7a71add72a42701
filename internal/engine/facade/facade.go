// Package facade selects a rules-evaluation backend once at startup and
// presents the unified engine.Engine interface regardless of the choice.
package facade

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rbtying/shengji-sub001/internal/engine"
	"github.com/rbtying/shengji-sub001/internal/engine/embedded"
	"github.com/rbtying/shengji-sub001/internal/engine/remote"
	"github.com/rbtying/shengji-sub001/internal/rules"
)

// Backend identifies which execution strategy the façade settled on.
// Telemetry and diagnostics only; application logic must not branch on it.
type Backend string

const (
	BackendEmbedded Backend = "embedded"
	BackendRemote   Backend = "remote"
)

// Probe attempts to construct a minimal instance of the embedded engine's
// runtime. A nil module or an error means the embedded backend is unusable.
type Probe func() (embedded.Module, error)

// DefaultProbe constructs the builtin rules evaluator.
func DefaultProbe() (embedded.Module, error) {
	return rules.New(), nil
}

// debugHook, when set, receives the embedded module handle after a
// successful embedded-backend selection. Diagnostic only.
var debugHook func(embedded.Module)

// SetDebugHook installs the diagnostic handle publisher.
func SetDebugHook(fn func(embedded.Module)) {
	debugHook = fn
}

// Config carries the one-time selection inputs.
type Config struct {
	// ForceRemote skips the probe and selects the remote backend.
	ForceRemote bool
	// Endpoint is the remote procedure endpoint URL.
	Endpoint string
	// HTTPClient overrides the remote backend's HTTP client; nil uses a
	// default.
	HTTPClient *http.Client
	// Probe constructs the embedded module. Ignored when ForceRemote is
	// set.
	Probe Probe
	// Logger receives selection diagnostics; nil uses slog.Default.
	Logger *slog.Logger
}

// Facade is the selected backend plus the selection metadata. The backend
// decision is made exactly once, in New.
type Facade struct {
	engine.Engine
	backend Backend
}

// New probes for embedded-engine availability (unless forced remote) and
// returns a façade bound to the usable backend. Probe failure is not an
// error: the façade falls back to remote mode and reports the failure to
// diagnostics only.
func New(cfg Config) (*Facade, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	if !cfg.ForceRemote && cfg.Probe != nil {
		mod, err := probeSafely(cfg.Probe)
		if err != nil {
			log.Warn("embedded engine unavailable, falling back to remote", "error", err)
		} else {
			log.Info("rules engine backend selected", "backend", BackendEmbedded)
			if debugHook != nil {
				debugHook(mod)
			}
			return &Facade{Engine: embedded.New(mod), backend: BackendEmbedded}, nil
		}
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("no usable rules backend: embedded unavailable and no remote endpoint configured")
	}
	log.Info("rules engine backend selected", "backend", BackendRemote, "endpoint", cfg.Endpoint)
	return &Facade{
		Engine:  remote.New(cfg.Endpoint, cfg.HTTPClient, log),
		backend: BackendRemote,
	}, nil
}

// probeSafely runs the availability probe, converting a panic during
// runtime construction into a reported probe failure.
func probeSafely(probe Probe) (mod embedded.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			mod, err = nil, fmt.Errorf("probe panic: %v", r)
		}
	}()
	mod, err = probe()
	if err == nil && mod == nil {
		err = fmt.Errorf("probe returned no module")
	}
	return mod, err
}

// Backend reports which backend is active.
func (f *Facade) Backend() Backend {
	return f.backend
}
