package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Simplici0/planquote/internal/catalog"
	"github.com/Simplici0/planquote/internal/config"
	"github.com/Simplici0/planquote/internal/db"
	"github.com/Simplici0/planquote/internal/logging"
	"github.com/Simplici0/planquote/internal/migrations"
	"github.com/Simplici0/planquote/internal/quotes"
	"github.com/Simplici0/planquote/internal/seed"
)

type server struct {
	auth             *authService
	catalog          *catalog.Store
	quotes           *quotes.Store
	log              zerolog.Logger
	batchConcurrency int
}

func main() {
	cfg := config.Load()
	log := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
		stats, err := seed.Run(ctx, database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
		log.Info().Int("inserts", stats.Inserts).Msg("seed complete")
	}

	auth := newAuthService(database, cfg.SessionSecret)
	if err := auth.ensureAdminUser(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure admin user")
	}

	srv := &server{
		auth:             auth,
		catalog:          catalog.New(database),
		quotes:           quotes.New(database),
		log:              log.With().Str("component", "server").Logger(),
		batchConcurrency: cfg.BatchConcurrency,
	}
	if err := srv.catalog.EnsureSettings(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure pricing settings")
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/storefront/plans/{id}/prices", s.handleStorefrontPlanPrices)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)
			r.Get("/devices", s.handleListDevices)
			r.Post("/devices", s.handleUpsertDevice)
			r.Get("/devices/{id}", s.handleGetDevice)
			r.Get("/plans", s.handleListPlans)
			r.Post("/plans", s.handleUpsertPlan)
			r.Get("/plans/{id}", s.handleGetPlan)
			r.Get("/plans/{id}/subsidies", s.handleListPlanSubsidies)
			r.Post("/subsidies", s.handleUpsertSubsidy)
		})

		r.Route("/api", func(r chi.Router) {
			r.Post("/calculate", s.handleCalculate)
			r.Post("/quotes", s.handleCreateQuote)
			r.Get("/quotes", s.handleListQuotes)
			r.Get("/quotes/{id}", s.handleGetQuote)
			r.Get("/quotes/{id}/text", s.handleQuoteText)
			r.Get("/quotes/{id}/verify", s.handleVerifyQuote)
		})
	})

	return r
}

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAuthenticated(r, s.auth) {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.verifySessionValue(cookie.Value)
	return ok
}
