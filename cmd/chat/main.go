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
	openai "github.com/sashabaranov/go-openai"

	"quotebot/internal/chat"
	"quotebot/internal/config"
	"quotebot/internal/db"
	"quotebot/internal/observability"
	"quotebot/internal/quote"
	"quotebot/internal/repository"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := config.LoadBot(cfg.BotConfigPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.BotConfigPath).Msg("failed to load bot config")
	}

	var client *quote.Client
	base := config.ResolveAPIBase(cfg.QuoteAPIBase, bot)
	if base != "" {
		client = quote.NewClient(base, cfg.QuoteTimeout)
	} else {
		log.Warn().Msg("no pricing service configured, quotes will be unavailable")
	}

	opts := []quote.Option{quote.WithLogger(log)}
	if cfg.Translator == "openai" {
		if cfg.OpenAIKey == "" {
			log.Fatal().Msg("TRANSLATOR=openai requires OPENAI_API_KEY")
		}
		opts = append(opts, quote.WithTranslator(quote.NewOpenAITranslator(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel)))
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()

		leads := &repository.LeadRepository{DB: pool}
		if err := leads.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare leads table")
		}
		opts = append(opts, quote.WithRecorder(leads))
	}

	var store chat.StateStore
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		store = &chat.RedisStore{Client: rdb, TTL: cfg.SessionTTL}
	} else {
		store = chat.NewMemoryStore(cfg.SessionTTL)
	}

	gateway := quote.NewGateway(bot, client, opts...)
	controller := chat.NewController(bot, gateway, log)
	server := chat.NewServer(bot, controller, store, log)

	observability.Start(cfg.MetricsPort)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	server.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("api_base", base).Msg("chat service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
