package processor

import (
	"context"
)

func (mp *MessageProcessor) storeUserMessage(ctx context.Context, userID string, processedMsg *ProcessedMessage) error {
	return mp.history.AddUserMessage(ctx, userID, processedMsg.Text, processedMsg.ID)
}

func (mp *MessageProcessor) storeBotMessage(ctx context.Context, userID, reply string) error {
	return mp.history.AddBotMessage(ctx, userID, reply)
}
