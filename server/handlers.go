package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/processor"
	"github.com/gonzacha/nordia-whatsapp-ia/whatsapp"
)

func (s *Server) rootHandler(c fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: "ok", App: s.config.AppName})
}

func (s *Server) healthCheckHandler(c fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		App:       s.config.AppName,
		LocalMode: s.config.LocalMode,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// whatsappHealthHandler handles GET /health/whatsapp
func (s *Server) whatsappHealthHandler(c fiber.Ctx) error {
	if s.tokenChecker == nil || s.tokenChecker.IsStub() {
		return c.JSON(WhatsAppHealthResponse{Status: "stub"})
	}

	info, err := s.tokenChecker.CheckToken(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("WhatsApp token check failed")
		status := fiber.StatusServiceUnavailable
		if errors.Is(err, whatsapp.ErrNoToken) {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(WhatsAppHealthResponse{
			Status: "error",
			Error:  err.Error(),
		})
	}

	return c.JSON(WhatsAppHealthResponse{
		Status:        "ok",
		PhoneNumberID: info.ID,
		DisplayNumber: info.DisplayPhoneNumber,
		VerifiedName:  info.VerifiedName,
	})
}

// webhookVerificationHandler answers Meta's subscription challenge.
func (s *Server) webhookVerificationHandler(c fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && s.config.VerifyToken != "" && token == s.config.VerifyToken {
		log.Info().Msg("Webhook verified")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	log.Warn().Str("mode", mode).Msg("Webhook verification rejected")
	return c.Status(fiber.StatusForbidden).SendString("Forbidden")
}

func (s *Server) inboundMessageHandler(c fiber.Ctx) error {
	log.Info().Msg("Received inbound message request")

	body := c.Body()

	if s.config.AppSecret != "" && !VerifySignature(s.config.AppSecret, body, c.Get("X-Hub-Signature-256")) {
		log.Warn().Msg("Invalid webhook signature")
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_SIGNATURE",
				Message: "Invalid webhook signature",
			},
		})
	}

	var payload processor.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error().Err(err).Msg("Error parsing JSON")
		return c.Status(fiber.StatusBadRequest).SendString("Error parsing JSON")
	}

	messages := payload.InboundMessages()
	for _, message := range messages {
		log.Info().
			Str("message_id", message.MessageID).
			Str("message_type", message.MessageType).
			Str("from", message.From).
			Msg("Processing inbound message")
	}
	s.dispatch(messages)

	// Meta retries anything that is not a quick 200.
	return c.JSON(StatusResponse{Status: "ok"})
}

// handleLocalTest procesa mensajes de prueba local
func (s *Server) handleLocalTest(c fiber.Ctx) error {
	var testMessage processor.LocalTestMessage

	if err := c.Bind().JSON(&testMessage); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(processor.LocalTestResponse{
			Error: "Invalid request body: " + err.Error(),
		})
	}

	if testMessage.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(processor.LocalTestResponse{
			Error: "Text field is required",
		})
	}

	inboundMessage := testMessage.ConvertToInboundMessage()

	response, err := s.messageProcessor.ProcessLocalTestMessage(c.Context(), inboundMessage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(processor.LocalTestResponse{
			Error: "Processing error: " + err.Error(),
		})
	}

	return c.JSON(processor.LocalTestResponse{
		Response: response,
	})
}

// handleResetConversation borra estado e historial de un usuario en modo de prueba
func (s *Server) handleResetConversation(c fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_PARAMETER",
				Message: "user_id is required",
			},
		})
	}

	if err := s.messageProcessor.ResetConversation(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to reset conversation: " + err.Error(),
			},
		})
	}

	return c.JSON(fiber.Map{
		"message": "Conversation reset successfully",
	})
}
