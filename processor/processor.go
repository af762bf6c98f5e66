package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/execution"
)

type MessageProcessor struct {
	messenger        MessengerInterface
	history          HistoryInterface
	engine           EngineInterface
	store            conversation.Store
	executionManager *execution.Manager
	recorder         InboundRecorder
}

func NewMessageProcessor(messenger MessengerInterface, history HistoryInterface, engine EngineInterface, store conversation.Store, execManager *execution.Manager, recorder InboundRecorder) *MessageProcessor {
	if recorder == nil {
		recorder = noopInboundRecorder{}
	}
	return &MessageProcessor{
		messenger:        messenger,
		history:          history,
		engine:           engine,
		store:            store,
		executionManager: execManager,
		recorder:         recorder,
	}
}

// ProcessMessage handles one inbound WhatsApp message end to end: the reply
// produced by the engine is sent back to the sender.
func (mp *MessageProcessor) ProcessMessage(ctx context.Context, message InboundMessage) {
	log.Info().Str("message_id", message.MessageID).Msg("Processing message")

	userID := message.From
	unlock := mp.executionManager.Lock(userID)
	defer unlock()

	mp.recorder.ObserveInbound(message.MessageType)

	if err := mp.markMessageAsRead(ctx, message.MessageID); err != nil {
		log.Error().
			Err(err).
			Str("message_id", message.MessageID).
			Msg("Error marking message as read")
	}

	processedMsg, err := mp.extractMessageContent(message)
	if err != nil {
		if errors.Is(err, ErrUnsupportedMessageType) {
			mp.sendReply(ctx, userID, UnsupportedMessageReply)
			return
		}
		log.Error().
			Err(err).
			Str("message_id", message.MessageID).
			Msg("Error processing message content")
		return
	}

	reply := mp.handle(ctx, userID, processedMsg)
	mp.sendReply(ctx, userID, reply)

	log.Info().Str("user_id", userID).Msg("Completed message processing")
}

// ProcessLocalTestMessage procesa un mensaje de prueba local y devuelve la
// respuesta sin enviarla por WhatsApp.
func (mp *MessageProcessor) ProcessLocalTestMessage(ctx context.Context, message InboundMessage) (string, error) {
	log.Info().Str("message_text", message.Text).Msg("Processing local test message")

	userID := message.From
	unlock := mp.executionManager.Lock(userID)
	defer unlock()

	mp.recorder.ObserveInbound(message.MessageType)

	processedMsg, err := mp.extractMessageContent(message)
	if errors.Is(err, ErrUnsupportedMessageType) {
		return UnsupportedMessageReply, nil
	}
	if err != nil {
		return "", fmt.Errorf("error processing message content: %w", err)
	}

	return mp.handle(ctx, userID, processedMsg), nil
}

// ResetConversation borra el estado y el historial de un usuario.
func (mp *MessageProcessor) ResetConversation(ctx context.Context, userID string) error {
	unlock := mp.executionManager.Lock(userID)
	defer unlock()

	if err := mp.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	if err := mp.history.ClearChatHistory(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}

	log.Info().Str("user_id", userID).Msg("Conversation reset")
	return nil
}

// GetHistory returns the chat history backend for external access.
func (mp *MessageProcessor) GetHistory() HistoryInterface {
	return mp.history
}

// GetStore returns the conversation store for external access.
func (mp *MessageProcessor) GetStore() conversation.Store {
	return mp.store
}

func (mp *MessageProcessor) handle(ctx context.Context, userID string, processedMsg *ProcessedMessage) string {
	if err := mp.storeUserMessage(ctx, userID, processedMsg); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Error storing user message")
	}

	reply := mp.engine.HandleMessage(ctx, userID, processedMsg.Text)

	if err := mp.storeBotMessage(ctx, userID, reply); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Error storing bot message")
	}

	return reply
}

type noopInboundRecorder struct{}

func (noopInboundRecorder) ObserveInbound(string) {}
