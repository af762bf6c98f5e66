package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/drafts"
)

const (
	crmTimeFormat      = "2006-01-02T15:04:05Z"
	defaultPageSize    = 10
	maxPageSize        = 100
	defaultDraftsLimit = 50
)

// crmConversationsHandler handles GET /crm/conversations
func (s *Server) crmConversationsHandler(c fiber.Ctx) error {
	log.Info().Msg("Received CRM conversations request")

	ctx := c.Context()
	store := s.messageProcessor.GetStore()
	history := s.messageProcessor.GetHistory()

	senders, err := store.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error listing conversations")
		return internalError(c, "Failed to retrieve conversations")
	}

	active, err := history.GetAllActiveConversations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error listing chat histories")
		return internalError(c, "Failed to retrieve conversation summaries")
	}

	userIDs := unique(append(senders, active...))
	summaries := make([]ConversationSummary, 0, len(userIDs))
	for _, userID := range userIDs {
		conv := store.Get(ctx, userID)
		state := conv.CurrentState()

		summary := ConversationSummary{
			UserID:           userID,
			State:            string(state),
			StateDescription: state.Description(),
			BusinessName:     conv.Name,
			AppointmentCount: len(conv.Appointments),
		}

		messages, err := history.GetChatHistory(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Error getting chat history")
		}
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			summary.MessageCount = len(messages)
			summary.LastMessageTime = last.Timestamp.UTC().Format(crmTimeFormat)
			summary.LastMessagePreview = preview(last.Content, 80)
		}

		summaries = append(summaries, summary)
	}

	// Newest first
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessageTime > summaries[j].LastMessageTime
	})

	return c.JSON(summaries)
}

// crmConversationMessagesHandler handles GET /crm/conversations/{userId}
func (s *Server) crmConversationMessagesHandler(c fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return badRequest(c, "userId parameter is required")
	}

	log.Info().Str("user_id", userID).Msg("Received CRM conversation messages request")

	page := 1
	pageSize := defaultPageSize

	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	if pageSizeParam := c.Query("page_size"); pageSizeParam != "" {
		if ps, err := strconv.Atoi(pageSizeParam); err == nil && ps > 0 && ps <= maxPageSize {
			pageSize = ps
		}
	}

	startTime, err := parseDateParam(c.Query("start_date"))
	if err != nil {
		return badRequest(c, "start_date must be RFC3339 or YYYY-MM-DD")
	}
	endTime, err := parseDateParam(c.Query("end_date"))
	if err != nil {
		return badRequest(c, "end_date must be RFC3339 or YYYY-MM-DD")
	}

	ctx := c.Context()
	messages, total, err := s.messageProcessor.GetHistory().GetChatHistoryWithPagination(ctx, userID, page, pageSize, startTime, endTime)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Error getting paginated chat history")
		return internalError(c, "Failed to retrieve conversation messages")
	}

	apiMessages := make([]ConversationMessage, 0, len(messages))
	for i, msg := range messages {
		messageID := fmt.Sprintf("msg_%d_%d", msg.Timestamp.Unix(), i)
		if msg.MessageID != "" {
			messageID = msg.MessageID
		}

		sender := "user"
		if msg.Role == "assistant" {
			sender = "system"
		}

		apiMessages = append(apiMessages, ConversationMessage{
			ID:        messageID,
			Timestamp: msg.Timestamp.UTC().Format(crmTimeFormat),
			Content:   msg.Content,
			Sender:    sender,
		})
	}

	totalPages := (total + pageSize - 1) / pageSize

	return c.JSON(ConversationResponse{
		UserID:          userID,
		Conversation:    s.messageProcessor.GetStore().Get(ctx, userID),
		Messages:        apiMessages,
		TotalMessages:   total,
		Page:            page,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	})
}

// crmDraftsHandler handles GET /crm/drafts
func (s *Server) crmDraftsHandler(c fiber.Ctx) error {
	if s.drafts == nil {
		return c.JSON(DraftsResponse{Drafts: []drafts.Draft{}})
	}

	limit := defaultDraftsLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= maxPageSize {
			limit = l
		}
	}

	list, err := s.drafts.List(c.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Error listing drafts")
		return internalError(c, "Failed to retrieve drafts")
	}

	return c.JSON(DraftsResponse{Drafts: list, Count: len(list)})
}

// crmDraftHandler handles GET /crm/drafts/{id}
func (s *Server) crmDraftHandler(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "id must be a positive integer")
	}

	if s.drafts == nil {
		return notFound(c, "Draft not found")
	}

	d, err := s.drafts.Get(c.Context(), id)
	if errors.Is(err, drafts.ErrNotFound) {
		return notFound(c, "Draft not found")
	}
	if err != nil {
		log.Error().Err(err).Int64("draft_id", id).Msg("Error getting draft")
		return internalError(c, "Failed to retrieve draft")
	}

	return c.JSON(d)
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: ErrorDetail{Code: "INVALID_PARAMETER", Message: message},
	})
}

func notFound(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error: ErrorDetail{Code: "NOT_FOUND", Message: message},
	})
}

func internalError(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: ErrorDetail{Code: "INTERNAL_ERROR", Message: message},
	})
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", value)
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
