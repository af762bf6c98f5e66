package processor

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// UnsupportedMessageReply is sent for images, audio, stickers, locations and
// any other non-text message. The conversation state is not touched.
const UnsupportedMessageReply = "📝 Por ahora solo puedo procesar mensajes de texto."

var (
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	ErrEmptyMessage           = errors.New("no text content found in message")
)

func (mp *MessageProcessor) extractMessageContent(message InboundMessage) (*ProcessedMessage, error) {
	if message.MessageType != "text" {
		log.Warn().
			Str("message_type", message.MessageType).
			Str("message_id", message.MessageID).
			Msg("Unsupported message type")
		return nil, ErrUnsupportedMessageType
	}

	finalMessageText := strings.TrimSpace(message.Text)
	if finalMessageText == "" {
		log.Error().
			Str("message_id", message.MessageID).
			Msg("No text content found in message")
		return nil, ErrEmptyMessage
	}

	return &ProcessedMessage{
		Text: finalMessageText,
		ID:   message.MessageID,
	}, nil
}
