// Package server exposes the assistant over a JSON HTTP API and wires the
// session store, orchestrator, safety policy, and event log together.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/assistant/eventlog"
	"github.com/tailored-agentic-units/assistant/knowledge"
	"github.com/tailored-agentic-units/assistant/observability"
	"github.com/tailored-agentic-units/assistant/orchestrator"
	"github.com/tailored-agentic-units/assistant/reasoning"
	"github.com/tailored-agentic-units/assistant/safety"
	"github.com/tailored-agentic-units/assistant/sandbox"
	"github.com/tailored-agentic-units/assistant/session"
)

const shutdownGrace = 10 * time.Second

// Option configures optional Server dependencies, mainly for tests.
type Option func(*Server)

// WithReasoner replaces the reasoning client built from the config.
func WithReasoner(r reasoning.Reasoner) Option {
	return func(s *Server) { s.reasoner = r }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.log = logger }
}

// WithObserver adds an extra observer alongside the event log recorder.
func WithObserver(obs observability.Observer) Option {
	return func(s *Server) { s.extraObserver = obs }
}

// Server is the composition root for the HTTP assistant.
type Server struct {
	cfg      *Config
	log      *slog.Logger
	sessions *session.Store
	orch     *orchestrator.Orchestrator
	recorder *eventlog.Recorder
	reasoner reasoning.Reasoner

	extraObserver observability.Observer
	httpServer    *http.Server
}

// New builds a Server from cfg. The reasoning client, safety policy,
// sandbox runner, and event log are all constructed here; options can
// override individual pieces.
func New(cfg *Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}

	s := &Server{
		cfg:      cfg,
		log:      slog.Default(),
		sessions: session.NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.reasoner == nil {
		client, err := reasoning.NewClient(&cfg.Reasoning,
			reasoning.WithGuidelines(knowledge.NewStore(&cfg.Knowledge)))
		if err != nil {
			return nil, fmt.Errorf("reasoning client: %w", err)
		}
		s.reasoner = client
	}

	policy := safety.DefaultPolicy()
	if cfg.PolicyFile != "" {
		loaded, err := safety.LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("safety policy: %w", err)
		}
		policy = loaded
	}

	recorder, err := eventlog.NewRecorderFromConfig(&cfg.EventLog)
	if err != nil {
		return nil, fmt.Errorf("event log: %w", err)
	}
	s.recorder = recorder

	observers := []observability.Observer{
		observability.NewSlogObserver(s.log),
		recorder,
	}
	if s.extraObserver != nil {
		observers = append(observers, s.extraObserver)
	}

	orch, err := orchestrator.New(s.sessions, s.reasoner,
		orchestrator.WithClassifier(safety.NewClassifier(policy)),
		orchestrator.WithRunner(sandbox.NewRunner(&cfg.Sandbox)),
		orchestrator.WithObserver(observability.NewMulti(observers...)),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	s.orch = orch

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.routes(),
	}
	return s, nil
}

// Orchestrator returns the underlying orchestrator.
func (s *Server) Orchestrator() *orchestrator.Orchestrator {
	return s.orch
}

// Handler returns the HTTP handler, for tests that drive the API directly.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully and
// closes the event log.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := s.recorder.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
