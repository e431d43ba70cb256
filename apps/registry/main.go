package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"profileupdater/lib/database/postgres"
	"profileupdater/lib/env"
	"profileupdater/lib/messaging/processing"
	"profileupdater/lib/messaging/publishing"
	qw "profileupdater/lib/messaging/queue-workers"
	"profileupdater/lib/messaging/rabbit"
	"profileupdater/lib/services/registration"
	"profileupdater/lib/utils/logging"
)

func main() {
	logger := logging.NewLogger("REGISTRY")
	flushSentry, recoverSentry := logger.InitSentry()
	defer flushSentry()
	defer recoverSentry()

	port := env.RegistryPort
	if port == "" {
		port = "8080"
	}

	postgres.Wait()
	rabbit.Wait()
	publishing.Wait()

	store := registration.NewStore(postgres.DB)
	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("SCHEMA_INIT_FAILED", err, nil)
	}

	ch, err := rabbit.Conn.Channel()
	if err != nil {
		logger.Fatal("CHANNEL_OPEN_FAILED", err, nil)
	}
	if err := processing.DeclareTopicQueues(ch, qw.ProfileUpdateTopicConfig()); err != nil {
		logger.Fatal("QUEUE_DECLARE_FAILED", err, nil)
	}
	ch.Close()

	handlers := &handlers{
		store:     store,
		publisher: publishing.Default,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/users", func(r chi.Router) {
		r.Put("/", handlers.upsertUser)
		r.Route("/{twitterID}", func(r chi.Router) {
			r.Get("/", handlers.getUser)
			r.Delete("/", handlers.deleteUser)
			r.Post("/refresh", handlers.refreshUser)
		})
	})

	logger.Info("REGISTRY_STARTED", map[string]any{
		logging.PORT: port,
	})
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("REGISTRY_SERVER_ERROR", err, nil)
	}
}
