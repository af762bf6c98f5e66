package server

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/drafts"
	"github.com/gonzacha/nordia-whatsapp-ia/processor"
	"github.com/gonzacha/nordia-whatsapp-ia/whatsapp"
)

// DraftReader lists saved activation drafts for the CRM API.
type DraftReader interface {
	List(ctx context.Context, limit int) ([]drafts.Draft, error)
	Get(ctx context.Context, id int64) (drafts.Draft, error)
}

// TokenChecker validates the WhatsApp access token.
type TokenChecker interface {
	IsStub() bool
	CheckToken(ctx context.Context) (*whatsapp.PhoneNumberInfo, error)
}

type Config struct {
	AppName      string
	VerifyToken  string
	AppSecret    string
	LocalMode    bool
	AllowOrigins []string
}

type Server struct {
	app              *fiber.App
	config           Config
	messageProcessor *processor.MessageProcessor
	drafts           DraftReader
	tokenChecker     TokenChecker
	gatherer         prometheus.Gatherer
	inflight         sync.WaitGroup
}

func New(config Config, messageProcessor *processor.MessageProcessor, draftReader DraftReader, tokenChecker TokenChecker, gatherer prometheus.Gatherer) *Server {
	if config.AppName == "" {
		config.AppName = "Nordia"
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}

	server := &Server{
		app:              fiber.New(fiber.Config{AppName: config.AppName}),
		config:           config,
		messageProcessor: messageProcessor,
		drafts:           draftReader,
		tokenChecker:     tokenChecker,
		gatherer:         gatherer,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) error {
	log.Info().Str("port", port).Msg("Starting Nordia server")

	return s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

// Shutdown stops accepting requests and waits for in-flight webhook
// messages to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.Wait()
	return err
}

// Wait blocks until every webhook message handed to the processor is done.
func (s *Server) Wait() {
	s.inflight.Wait()
}

// dispatch processes one payload's messages in arrival order on a single
// goroutine, so a sender's batched messages reach the engine in sequence.
func (s *Server) dispatch(messages []processor.InboundMessage) {
	if len(messages) == 0 {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		for _, message := range messages {
			s.messageProcessor.ProcessMessage(context.Background(), message)
		}
	}()
}
