package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
)

const (
	conversationPrefix = "conversation:"
	historyPrefix      = "chat_history:"
	historyTTL         = 7 * 24 * time.Hour
	scanCount          = 100
)

// Client stores conversation records and a per-sender chat log in Redis. It
// satisfies conversation.Store.
type Client struct {
	rdb *redis.Client
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	MessageID string    `json:"message_id,omitempty"`
}

func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := NewFromClient(rdb)

	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Info().
		Str("addr", addr).
		Int("db", db).
		Msg("Redis connected successfully")

	return client, nil
}

func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Get returns the stored record, or an empty one when the key is missing,
// unreadable or corrupt.
func (c *Client) Get(ctx context.Context, sender string) conversation.Conversation {
	raw, err := c.rdb.Get(ctx, conversationPrefix+sender).Bytes()
	if errors.Is(err, redis.Nil) {
		return conversation.Conversation{}
	}
	if err != nil {
		log.Error().Err(err).Str("sender", sender).Msg("Error reading conversation from Redis")
		return conversation.Conversation{}
	}

	var conv conversation.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		log.Error().Err(err).Str("sender", sender).Msg("Corrupt conversation in Redis, starting empty")
		return conversation.Conversation{}
	}

	return conv
}

func (c *Client) Update(ctx context.Context, sender string, conv conversation.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := c.rdb.Set(ctx, conversationPrefix+sender, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store conversation: %w", err)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, sender string) error {
	return c.rdb.Del(ctx, conversationPrefix+sender).Err()
}

// List returns every sender with a stored conversation record.
func (c *Client) List(ctx context.Context) ([]string, error) {
	return c.scanSuffixes(ctx, conversationPrefix)
}

func (c *Client) AddUserMessage(ctx context.Context, userID, message, messageID string) error {
	return c.addMessage(ctx, userID, ChatMessage{
		Role:      "user",
		Content:   message,
		Timestamp: time.Now(),
		MessageID: messageID,
	})
}

func (c *Client) AddBotMessage(ctx context.Context, userID, message string) error {
	return c.addMessage(ctx, userID, ChatMessage{
		Role:      "assistant",
		Content:   message,
		Timestamp: time.Now(),
	})
}

func (c *Client) addMessage(ctx context.Context, userID string, message ChatMessage) error {
	key := historyPrefix + userID

	messageJSON, err := json.Marshal(message)
	if err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.RPush(ctx, key, messageJSON)
	pipe.Expire(ctx, key, historyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Client) GetChatHistory(ctx context.Context, userID string) ([]ChatMessage, error) {
	return c.readHistory(ctx, userID, nil, nil)
}

func (c *Client) ClearChatHistory(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, historyPrefix+userID).Err()
}

// GetAllActiveConversations returns all user IDs that have a chat log.
func (c *Client) GetAllActiveConversations(ctx context.Context) ([]string, error) {
	return c.scanSuffixes(ctx, historyPrefix)
}

// GetChatHistoryWithPagination returns one page of the chat log, optionally
// filtered to [startTime, endTime], plus the filtered total.
func (c *Client) GetChatHistoryWithPagination(ctx context.Context, userID string, page, pageSize int, startTime, endTime *time.Time) ([]ChatMessage, int, error) {
	history, err := c.readHistory(ctx, userID, startTime, endTime)
	if err != nil {
		return nil, 0, err
	}

	result, total := Paginate(history, page, pageSize)
	return result, total, nil
}

func (c *Client) readHistory(ctx context.Context, userID string, startTime, endTime *time.Time) ([]ChatMessage, error) {
	messages, err := c.rdb.LRange(ctx, historyPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	chatHistory := []ChatMessage{}
	for _, message := range messages {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(message), &msg); err != nil {
			continue
		}

		if startTime != nil && msg.Timestamp.Before(*startTime) {
			continue
		}
		if endTime != nil && msg.Timestamp.After(*endTime) {
			continue
		}

		chatHistory = append(chatHistory, msg)
	}

	return chatHistory, nil
}

func (c *Client) scanSuffixes(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		if id := strings.TrimPrefix(iter.Val(), prefix); id != "" {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Paginate returns the 1-based page of messages and the total count. Pages
// past the end are empty.
func Paginate(messages []ChatMessage, page, pageSize int) ([]ChatMessage, int) {
	total := len(messages)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = total
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []ChatMessage{}, total
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return messages[start:end], total
}
