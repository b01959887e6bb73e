package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mathlingo/mathlingo/internal/chat"
	"github.com/mathlingo/mathlingo/internal/config"
	"github.com/mathlingo/mathlingo/internal/grading"
	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/problems"
	"github.com/mathlingo/mathlingo/internal/problemstore"
	"github.com/mathlingo/mathlingo/internal/server"
	"github.com/mathlingo/mathlingo/internal/store"
	"github.com/mathlingo/mathlingo/internal/vision"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg := config.Load()
	log := cfg.NewLogger()
	ctx := cmd.Context()

	// The audit database is optional: without it the quiz still runs,
	// only the attempt log and stats endpoints go dark.
	var st *store.Store
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		st, err = store.Open(dbPath)
	}
	if err != nil {
		log.WithError(err).Warn("attempt log unavailable, continuing without it")
		st = nil
	} else {
		defer st.Close()
	}

	var eventRepo store.EventRepo
	if st != nil {
		eventRepo = st.EventRepo()
	}

	// Same story for the LLM: no key means every request degrades to the
	// fallback problem and grading fails closed, but the server starts.
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		log.WithError(err).Warn("no LLM provider configured, serving in degraded mode")
		provider = nil
	} else {
		log.WithField("model", provider.ModelID()).Info("LLM provider ready")
	}

	ps := problemstore.NewWithTTL(cfg.ProblemTTL)

	deps := server.Deps{
		Log:       log,
		Generator: problems.NewGenerator(provider, ps, problems.DefaultConfig()),
		Grader:    grading.NewGrader(provider, ps),
		Solver:    grading.NewSolver(provider),
		Extractor: vision.NewExtractor(provider),
		Topics:    chat.NewService(provider),
	}
	if st != nil {
		deps.Attempts = st.AttemptRepo()
		deps.Feedback = st.FeedbackRepo()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(deps).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SweepInterval > 0 {
		go sweepLoop(stopCtx, log, ps, cfg.SweepInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-stopCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func sweepLoop(ctx context.Context, log logrus.FieldLogger, ps *problemstore.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := ps.Sweep(); n > 0 {
				log.Debugf("swept %d expired problems", n)
			}
		}
	}
}
