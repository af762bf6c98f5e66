package processor

import (
	"context"
	"time"

	"github.com/gonzacha/nordia-whatsapp-ia/redis"
	"github.com/gonzacha/nordia-whatsapp-ia/whatsapp"
)

// MessengerInterface define los métodos necesarios del cliente de WhatsApp
type MessengerInterface interface {
	SendTextMessage(ctx context.Context, to, text string) (*whatsapp.MessageResponse, error)
	MarkMessageAsRead(ctx context.Context, messageID string) error
}

// HistoryInterface define los métodos necesarios del historial de chat
type HistoryInterface interface {
	AddUserMessage(ctx context.Context, userID, message, messageID string) error
	AddBotMessage(ctx context.Context, userID, message string) error
	GetChatHistory(ctx context.Context, userID string) ([]redis.ChatMessage, error)
	ClearChatHistory(ctx context.Context, userID string) error
	GetAllActiveConversations(ctx context.Context) ([]string, error)
	GetChatHistoryWithPagination(ctx context.Context, userID string, page, pageSize int, startTime, endTime *time.Time) ([]redis.ChatMessage, int, error)
}

// EngineInterface es la máquina de estados que produce la respuesta
type EngineInterface interface {
	HandleMessage(ctx context.Context, sender, text string) string
}

// InboundRecorder cuenta los mensajes entrantes por tipo
type InboundRecorder interface {
	ObserveInbound(messageType string)
}
