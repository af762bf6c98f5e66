package whatsapp

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SendTextMessage sends a plain text message. In stub mode it logs the
// message and returns a nil response.
func (c *Client) SendTextMessage(ctx context.Context, to, text string) (*MessageResponse, error) {
	return c.send(ctx, c.createTextMessage(to, text))
}

func (c *Client) send(ctx context.Context, message TextMessage) (*MessageResponse, error) {
	if c.IsStub() {
		log.Info().
			Str("to", message.To).
			Str("text", message.Text.Body).
			Msg("[WhatsApp STUB] Outbound message")
		return nil, nil
	}

	resp, err := c.sendMessageRequest(ctx, message)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("to", message.To).
		Str("message_id", resp.MessageID()).
		Msg("WhatsApp message sent")

	return resp, nil
}

func (c *Client) createTextMessage(to, text string) TextMessage {
	return TextMessage{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             TextBody{Body: text},
	}
}
