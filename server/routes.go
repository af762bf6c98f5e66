package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	s.app.Get("/", s.rootHandler)
	s.app.Get("/health", s.healthCheckHandler)
	s.app.Get("/health/whatsapp", s.whatsappHealthHandler)

	if s.gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	// Meta webhook
	s.app.Get("/webhook", s.webhookVerificationHandler)
	s.app.Post("/webhook", s.inboundMessageHandler)

	if s.config.LocalMode {
		s.app.Post("/test/chat", s.handleLocalTest)
		s.app.Delete("/test/chat/:user_id", s.handleResetConversation)
	}

	// CRM API endpoints
	s.app.Get("/crm/conversations", s.crmConversationsHandler)
	s.app.Get("/crm/conversations/:userId", s.crmConversationMessagesHandler)
	s.app.Get("/crm/drafts", s.crmDraftsHandler)
	s.app.Get("/crm/drafts/:id", s.crmDraftHandler)
}
