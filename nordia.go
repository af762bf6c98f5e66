// Package nordia wires the WhatsApp assistant: conversation store, engine,
// draft persistence, WhatsApp client and HTTP server.
package nordia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/aws"
	"github.com/gonzacha/nordia-whatsapp-ia/config"
	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/dispatcher"
	"github.com/gonzacha/nordia-whatsapp-ia/drafts"
	"github.com/gonzacha/nordia-whatsapp-ia/engine"
	"github.com/gonzacha/nordia-whatsapp-ia/execution"
	"github.com/gonzacha/nordia-whatsapp-ia/metrics"
	"github.com/gonzacha/nordia-whatsapp-ia/processor"
	"github.com/gonzacha/nordia-whatsapp-ia/redis"
	"github.com/gonzacha/nordia-whatsapp-ia/server"
	"github.com/gonzacha/nordia-whatsapp-ia/whatsapp"
)

// App represents the running assistant
type App struct {
	config           *config.Config
	messageProcessor *processor.MessageProcessor
	server           *server.Server
	drafts           *drafts.Store
	redis            *redis.Client
}

// New builds every collaborator from cfg. The returned App owns the draft
// database and the Redis connection; call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{config: cfg}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(registry)

	store, history, err := app.newStateBackends(ctx)
	if err != nil {
		return nil, err
	}

	var draftOpts []drafts.Option
	if cfg.S3Bucket != "" {
		awsClient, err := aws.NewClient(cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			app.Close()
			return nil, err
		}
		draftOpts = append(draftOpts, drafts.WithArchiver(awsClient))
	}

	app.drafts, err = drafts.Open(cfg.DraftsDBPath, draftOpts...)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open drafts database: %w", err)
	}

	whatsappClient := whatsapp.NewClient(whatsapp.Config{
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.WhatsAppPhoneNumberID,
		APIVersion:    cfg.WhatsAppAPIVersion,
		APIURL:        cfg.WhatsAppAPIURL,
	}, &http.Client{Timeout: 10 * time.Second})

	if whatsappClient.IsStub() {
		log.Warn().Msg("WHATSAPP_TOKEN not set, outbound messages will only be logged")
	}

	d := dispatcher.New(cfg.AdminWhitelist, cfg.TestNumbers, dispatcher.DefaultAdminCommands)

	e := engine.New(store, d, app.drafts,
		engine.WithRecorder(recorder),
		engine.WithLogger(log.Logger.With().Str("component", "engine").Logger()),
	)

	var messenger processor.MessengerInterface = whatsappClient
	if cfg.LocalMode {
		messenger = &processor.MockMessenger{}
	}

	app.messageProcessor = processor.NewMessageProcessor(
		messenger,
		history,
		e,
		store,
		execution.NewManager(),
		recorder,
	)

	app.server = server.New(server.Config{
		AppName:     "Nordia",
		VerifyToken: cfg.WhatsAppVerifyToken,
		AppSecret:   cfg.WhatsAppAppSecret,
		LocalMode:   cfg.LocalMode,
	}, app.messageProcessor, app.drafts, whatsappClient, registry)

	log.Info().
		Str("state_backend", cfg.StateBackend).
		Int("admins", len(cfg.AdminWhitelist)).
		Bool("local_mode", cfg.LocalMode).
		Msg("Nordia initialized")

	return app, nil
}

func (a *App) newStateBackends(ctx context.Context) (conversation.Store, processor.HistoryInterface, error) {
	switch a.config.StateBackend {
	case config.StateBackendRedis:
		redisClient, err := redis.NewClient(ctx, a.config.RedisAddr, a.config.RedisPassword, a.config.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		a.redis = redisClient
		return redisClient, redisClient, nil
	case config.StateBackendMemory:
		return conversation.NewMemoryStore(), processor.NewMemoryHistory(), nil
	default:
		return conversation.NewFileStore(a.config.StateFile), processor.NewMemoryHistory(), nil
	}
}

// Start runs the HTTP server until it stops.
func (a *App) Start() error {
	port := a.config.Port
	if port == "" {
		port = "8000"
	}

	err := a.server.Start(port)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server and waits for in-flight messages.
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Close() {
	if a.drafts != nil {
		if err := a.drafts.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing drafts database")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing Redis connection")
		}
	}
}
