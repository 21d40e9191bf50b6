package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kmcrae/sociogram/pkg/analysis"
	"github.com/kmcrae/sociogram/pkg/api/middleware"
	"github.com/kmcrae/sociogram/pkg/auth"
	"github.com/kmcrae/sociogram/pkg/config"
	"github.com/kmcrae/sociogram/pkg/datastore"
	"github.com/kmcrae/sociogram/pkg/events"
	"github.com/kmcrae/sociogram/pkg/graphql"
	"github.com/kmcrae/sociogram/pkg/health"
	"github.com/kmcrae/sociogram/pkg/logging"
	"github.com/kmcrae/sociogram/pkg/metrics"
)

// Deps are the wired dependencies for a Server. Logger, Metrics and Publisher
// may be nil.
type Deps struct {
	Logger    logging.Logger
	Store     *datastore.Store
	Users     auth.UserStore
	Sessions  *auth.SessionManager
	Metrics   *metrics.Registry
	Publisher *events.Publisher
}

// Server serves the social network analysis API.
type Server struct {
	cfg       *config.Config
	logger    logging.Logger
	store     *datastore.Store
	analyzer  *analysis.Analyzer
	cache     *analysis.Cache
	auth      *auth.Handler
	metrics   *metrics.Registry
	publisher *events.Publisher
	checker   *health.Checker
	graphql   *graphql.GraphQLHandler
	httpSrv   *http.Server
	startTime time.Time
}

// NewServer wires the analysis pipeline, auth and query surfaces together.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	registry := deps.Metrics
	if registry == nil {
		registry = metrics.DefaultRegistry()
	}

	cache := analysis.NewCache()

	schema, err := graphql.GenerateSchema(cache)
	if err != nil {
		return nil, fmt.Errorf("failed to generate graphql schema: %w", err)
	}

	checker := health.NewChecker()
	checker.RegisterCheck("uploads_dir", health.DirWritableCheck(deps.Store.UploadsDir()))

	return &Server{
		cfg:       cfg,
		logger:    logger,
		store:     deps.Store,
		analyzer:  analysis.NewAnalyzer(logger, analysis.DefaultOptions()),
		cache:     cache,
		auth:      auth.NewHandler(deps.Users, deps.Sessions, logger),
		metrics:   registry,
		publisher: deps.Publisher,
		checker:   checker,
		graphql:   graphql.NewGraphQLHandler(schema),
		startTime: time.Now(),
	}, nil
}

// Routes builds the HTTP handler with the full middleware chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("/signup", post(s.auth.Signup))
	mux.HandleFunc("/login", post(s.auth.Login))
	mux.HandleFunc("/logout", post(s.auth.Logout))
	mux.HandleFunc("/forgot-password", post(s.auth.ForgotPassword))
	mux.HandleFunc("/reset-password", post(s.auth.ResetPassword))
	mux.HandleFunc("/check-auth", s.auth.CheckAuth)

	// Datasets and analysis
	mux.HandleFunc("/upload", post(s.requireAuth(s.handleUpload)))
	mux.HandleFunc("/sample/", s.handleSample)
	mux.HandleFunc("/datasets", s.handleDatasets)
	mux.HandleFunc("/analysis/", s.handleAnalysis)

	// Query and operational surfaces
	mux.Handle("/graphql", s.graphql)
	mux.HandleFunc("/health", s.checker.Handler())
	mux.Handle("/metrics", s.metrics.Handler())

	chain := middleware.RequestID()(
		middleware.Logging(s.logger)(
			middleware.Metrics(s.metrics)(
				middleware.CORS(middleware.DefaultCORSConfig(s.cfg.Server.CORSOrigins))(
					middleware.BodySizeLimit(s.cfg.Server.MaxUploadBytes)(
						middleware.PanicRecovery(s.logger)(mux),
					),
				),
			),
		),
	)
	return chain
}

// Start runs the HTTP server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:           fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:        s.Routes(),
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", logging.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(30 * time.Second)
	}
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	if s.httpSrv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down API server")
	return s.httpSrv.Shutdown(ctx)
}

// requireAuth rejects requests without a valid session token.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.SessionFromRequest(r); err != nil {
			s.metrics.RecordAuthFailure()
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// post restricts a handler to POST requests.
func post(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	}
}
