package server

import (
	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/drafts"
)

type StatusResponse struct {
	Status string `json:"status"`
	App    string `json:"app,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	App       string `json:"app"`
	LocalMode bool   `json:"local_mode"`
	Timestamp string `json:"timestamp"`
}

type WhatsAppHealthResponse struct {
	Status        string `json:"status"`
	PhoneNumberID string `json:"phone_number_id,omitempty"`
	DisplayNumber string `json:"display_phone_number,omitempty"`
	VerifiedName  string `json:"verified_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ConversationSummary represents a conversation summary for the CRM API
type ConversationSummary struct {
	UserID             string `json:"user_id"`
	State              string `json:"state"`
	StateDescription   string `json:"state_description"`
	BusinessName       string `json:"business_name,omitempty"`
	AppointmentCount   int    `json:"appointment_count"`
	LastMessageTime    string `json:"last_message_time,omitempty"`
	LastMessagePreview string `json:"last_message_preview,omitempty"`
	MessageCount       int    `json:"message_count"`
}

// ConversationMessage represents a message in a conversation for the CRM API
type ConversationMessage struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
}

// ConversationResponse represents the paginated response for conversation messages
type ConversationResponse struct {
	UserID          string                    `json:"user_id"`
	Conversation    conversation.Conversation `json:"conversation"`
	Messages        []ConversationMessage     `json:"messages"`
	TotalMessages   int                       `json:"total_messages"`
	Page            int                       `json:"page"`
	TotalPages      int                       `json:"total_pages"`
	HasNextPage     bool                      `json:"has_next_page"`
	HasPreviousPage bool                      `json:"has_previous_page"`
}

type DraftsResponse struct {
	Drafts []drafts.Draft `json:"drafts"`
	Count  int            `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
