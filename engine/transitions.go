package engine

import (
	"context"
	"strings"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/dispatcher"
	"github.com/gonzacha/nordia-whatsapp-ia/generator"
	"github.com/gonzacha/nordia-whatsapp-ia/keywords"
	"github.com/gonzacha/nordia-whatsapp-ia/validators"
)

const minIntentWords = 3

func (e *Engine) handleInitial(_ context.Context, plane dispatcher.Plane, conv conversation.Conversation, text string) result {
	if plane != dispatcher.PlaneAdmin {
		return stay(replyWelcome)
	}

	if keywords.IsActivationTrigger(text) {
		conv.State = conversation.StateActivationName
		conv.Activation = &conversation.ActivationContext{}
		return advance(conv, replyAskCustomer)
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "setup", "/setup":
		conv.State = conversation.StateAwaitingName
		return advance(conv, replySetupStarted)
	}

	return stay(replyWelcome)
}

func (e *Engine) handleAwaitingName(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	name := strings.TrimSpace(text)
	if ok, msg := validators.ValidateName(name); !ok {
		e.recorder.ObserveValidationFailure("nombre")
		return stay(replyValidationError(msg, promptBusinessName))
	}

	conv.Name = name
	conv.State = conversation.StateAwaitingHours
	return advance(conv, replyNameSaved(name))
}

func (e *Engine) handleAwaitingHours(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	hours := strings.TrimSpace(text)
	if ok, msg := validators.ValidateHours(hours); !ok {
		e.recorder.ObserveValidationFailure("horarios")
		return stay(replyValidationError(msg, promptHours))
	}

	conv.Hours = hours
	conv.State = conversation.StateAwaitingServices
	return advance(conv, replyHoursSaved)
}

func (e *Engine) handleAwaitingServices(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	services := strings.TrimSpace(text)
	if ok, msg := validators.ValidateServices(services); !ok {
		e.recorder.ObserveValidationFailure("servicios")
		return stay(replyValidationError(msg, promptServices))
	}

	conv.Services = services
	conv.State = conversation.StateCompleted
	return advance(conv, replySetupCompleted(conv))
}

func (e *Engine) handleCompleted(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	// Appointment requests win over service queries ("precio del turno").
	if keywords.IsAppointmentRequest(text) {
		conv.State = conversation.StateAwaitingDate
		return advance(conv, replyAskDate)
	}

	if keywords.IsServiceQuery(text) {
		if strings.TrimSpace(conv.Services) == "" {
			return stay(replyNoServices)
		}
		return stay(replyServices(conv.Services))
	}

	return stay(replyCompletedHelp)
}

func (e *Engine) handleAwaitingDate(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	date := strings.TrimSpace(text)
	conv.PendingAppointment = &conversation.PendingAppointment{Date: date}
	conv.State = conversation.StateAwaitingTime
	return advance(conv, replyAskTime(date))
}

func (e *Engine) handleAwaitingTime(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	if conv.PendingAppointment == nil {
		conv.State = conversation.StateAwaitingDate
		return advance(conv, replyMissingDate)
	}

	appointment := conversation.Appointment{
		Date: conv.PendingAppointment.Date,
		Time: strings.TrimSpace(text),
	}

	if isBooked(conv.Appointments, appointment) {
		return stay(replySlotTaken)
	}

	conv.Appointments = append(conv.Appointments, appointment)
	conv.PendingAppointment = nil
	conv.State = conversation.StateCompleted
	return advance(conv, replyAppointmentConfirmed(appointment))
}

func (e *Engine) handleActivationName(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	if keywords.MatchesWord(text, keywords.NameCancelWords) {
		return advance(endActivation(conv), replyActivationOff)
	}

	customer := strings.TrimSpace(text)
	if customer == "" {
		return stay(replyEmptyCustomer)
	}

	conv.Activation = &conversation.ActivationContext{CustomerName: customer}
	conv.State = conversation.StateActivationIntent
	return advance(conv, replyAskIntent(customer))
}

func (e *Engine) handleActivationIntent(_ context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	if keywords.MatchesWord(text, keywords.IntentCancelWords) {
		return advance(endActivation(conv), replyActivationOff)
	}

	customer := customerName(conv)
	intent := strings.TrimSpace(text)
	if intent == "" {
		return stay(replyEmptyIntent(customer))
	}

	if len(strings.Fields(intent)) < minIntentWords {
		return stay(replyIntentTooShort)
	}

	message := generator.Generate(customer, intent)
	conv.Activation = &conversation.ActivationContext{
		CustomerName:     customer,
		CommercialIntent: intent,
		GeneratedMessage: message,
	}
	conv.State = conversation.StateActivationShowing
	return advance(conv, replyDraft(message))
}

func (e *Engine) handleActivationShowing(ctx context.Context, _ dispatcher.Plane, conv conversation.Conversation, text string) result {
	if keywords.MatchesWord(text, keywords.DraftConfirmWords) {
		customer := customerName(conv)
		var intent, message string
		if conv.Activation != nil {
			intent = conv.Activation.CommercialIntent
			message = conv.Activation.GeneratedMessage
		}

		id := e.saveDraft(ctx, customer, intent, message)
		e.recorder.ObserveDraft(id > 0)
		if id <= 0 {
			e.logger.Error().
				Str("customer", customer).
				Msg("Draft could not be persisted")
		} else {
			e.logger.Info().
				Int64("draft_id", id).
				Str("customer", customer).
				Msg("Draft saved")
		}

		return advance(endActivation(conv), replyDraftSaved(customer))
	}

	if keywords.MatchesWord(text, keywords.DraftCancelWords) {
		return advance(endActivation(conv), replyActivationOff)
	}

	return stay(replyDraftUnknown)
}

func (e *Engine) saveDraft(ctx context.Context, customer, intent, message string) int64 {
	if e.drafts == nil {
		return -1
	}
	return e.drafts.SaveDraft(ctx, customer, intent, message)
}

// endActivation drops the activation scratch data and returns to the initial
// state. Setup data and appointments are kept.
func endActivation(conv conversation.Conversation) conversation.Conversation {
	conv.Activation = nil
	conv.State = conversation.StateInitial
	return conv
}

func customerName(conv conversation.Conversation) string {
	if conv.Activation == nil {
		return ""
	}
	return conv.Activation.CustomerName
}

func isBooked(appointments []conversation.Appointment, candidate conversation.Appointment) bool {
	date := keywords.Normalize(strings.TrimSpace(candidate.Date))
	at := keywords.Normalize(strings.TrimSpace(candidate.Time))
	for _, a := range appointments {
		if keywords.Normalize(strings.TrimSpace(a.Date)) == date &&
			keywords.Normalize(strings.TrimSpace(a.Time)) == at {
			return true
		}
	}
	return false
}
