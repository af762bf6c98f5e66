package processor

import (
	"github.com/google/uuid"
)

// WebhookPayload is the body Meta posts to the webhook for the
// whatsapp_business_account object.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []WebhookMessage `json:"messages,omitempty"`
	Statuses         []Status         `json:"statuses,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type WebhookMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// InboundMessage is one user message flattened out of a webhook payload.
type InboundMessage struct {
	MessageID   string `json:"message_id"`
	From        string `json:"from"`
	ProfileName string `json:"profile_name,omitempty"`
	MessageType string `json:"message_type"`
	Text        string `json:"text,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type ProcessedMessage struct {
	Text string
	ID   string
}

// InboundMessages flattens every user message in the payload, in order.
// Status callbacks carry no messages and yield nothing.
func (p WebhookPayload) InboundMessages() []InboundMessage {
	var messages []InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}

			for _, m := range change.Value.Messages {
				in := InboundMessage{
					MessageID:   m.ID,
					From:        m.From,
					ProfileName: names[m.From],
					MessageType: m.Type,
					Timestamp:   m.Timestamp,
				}
				if m.Text != nil {
					in.Text = m.Text.Body
				}
				messages = append(messages, in)
			}
		}
	}
	return messages
}

// LocalTestMessage representa un mensaje simplificado para pruebas locales
type LocalTestMessage struct {
	Text   string `json:"text"`
	UserID string `json:"user_id,omitempty"`
}

// LocalTestResponse representa la respuesta de la prueba local
type LocalTestResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// ConvertToInboundMessage convierte un mensaje de prueba local en InboundMessage
func (ltm LocalTestMessage) ConvertToInboundMessage() InboundMessage {
	userID := ltm.UserID
	if userID == "" {
		userID = "test-user-123"
	}

	return InboundMessage{
		MessageID:   "test-message-" + uuid.NewString(),
		From:        userID,
		ProfileName: "Test User",
		MessageType: "text",
		Text:        ltm.Text,
	}
}
