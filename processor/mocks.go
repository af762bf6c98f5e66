package processor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/redis"
	"github.com/gonzacha/nordia-whatsapp-ia/whatsapp"
)

// SentMessage is an outbound message captured by MockMessenger.
type SentMessage struct {
	To   string
	Text string
}

// MockMessenger implementa MessengerInterface para pruebas locales
type MockMessenger struct {
	mu   sync.Mutex
	sent []SentMessage
	read []string
}

func (m *MockMessenger) SendTextMessage(_ context.Context, to, text string) (*whatsapp.MessageResponse, error) {
	log.Debug().Str("to", to).Str("text", text).Msg("🚀 MOCK: sending text message")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{To: to, Text: text})

	return &whatsapp.MessageResponse{
		MessagingProduct: "whatsapp",
		Messages:         []whatsapp.SentMessage{{ID: fmt.Sprintf("mock-message-%d", len(m.sent))}},
	}, nil
}

func (m *MockMessenger) MarkMessageAsRead(_ context.Context, messageID string) error {
	log.Debug().Str("message_id", messageID).Msg("✅ MOCK: marking message as read")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.read = append(m.read, messageID)
	return nil
}

func (m *MockMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

func (m *MockMessenger) Read() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.read...)
}

// MemoryHistory implementa HistoryInterface en memoria, para modo local sin Redis
type MemoryHistory struct {
	mu            sync.RWMutex
	conversations map[string][]redis.ChatMessage
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		conversations: make(map[string][]redis.ChatMessage),
	}
}

func (m *MemoryHistory) AddUserMessage(_ context.Context, userID, message, messageID string) error {
	m.add(userID, redis.ChatMessage{
		Role:      "user",
		Content:   message,
		Timestamp: time.Now(),
		MessageID: messageID,
	})
	return nil
}

func (m *MemoryHistory) AddBotMessage(_ context.Context, userID, message string) error {
	m.add(userID, redis.ChatMessage{
		Role:      "assistant",
		Content:   message,
		Timestamp: time.Now(),
	})
	return nil
}

func (m *MemoryHistory) add(userID string, msg redis.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[userID] = append(m.conversations[userID], msg)
}

func (m *MemoryHistory) GetChatHistory(_ context.Context, userID string) ([]redis.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]redis.ChatMessage{}, m.conversations[userID]...), nil
}

func (m *MemoryHistory) ClearChatHistory(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, userID)
	return nil
}

func (m *MemoryHistory) GetAllActiveConversations(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userIDs := make([]string, 0, len(m.conversations))
	for userID := range m.conversations {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

func (m *MemoryHistory) GetChatHistoryWithPagination(ctx context.Context, userID string, page, pageSize int, startTime, endTime *time.Time) ([]redis.ChatMessage, int, error) {
	history, _ := m.GetChatHistory(ctx, userID)

	filtered := []redis.ChatMessage{}
	for _, msg := range history {
		if startTime != nil && msg.Timestamp.Before(*startTime) {
			continue
		}
		if endTime != nil && msg.Timestamp.After(*endTime) {
			continue
		}
		filtered = append(filtered, msg)
	}

	result, total := redis.Paginate(filtered, page, pageSize)
	return result, total, nil
}
