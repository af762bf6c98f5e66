package processor

import (
	"context"

	"github.com/rs/zerolog/log"
)

func (mp *MessageProcessor) markMessageAsRead(ctx context.Context, messageID string) error {
	return mp.messenger.MarkMessageAsRead(ctx, messageID)
}

// sendReply hands the reply to the messenger. Delivery failures are logged
// only; the conversation has already moved on.
func (mp *MessageProcessor) sendReply(ctx context.Context, userID, text string) {
	resp, err := mp.messenger.SendTextMessage(ctx, userID, text)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Error sending WhatsApp message")
		return
	}

	log.Debug().
		Str("user_id", userID).
		Str("message_id", resp.MessageID()).
		Msg("Reply sent")
}
