// rulesd serves the builtin rules evaluator over HTTP for clients without
// a usable embedded engine.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rbtying/shengji-sub001/internal/logging"
	"github.com/rbtying/shengji-sub001/internal/rules"
	"github.com/rbtying/shengji-sub001/internal/rulesserver"
)

func main() {
	addr := flag.String("addr", ":8211", "listen address")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Init(*logLevel)
	log := slog.Default()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/api/rules", rulesserver.Handler(rules.New(), log))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("rulesd listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("rulesd exited", "error", err)
		os.Exit(1)
	}
}
