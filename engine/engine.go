// Package engine runs the per-conversation state machine: it loads the
// sender's record, classifies the message plane, applies the transition for
// the current state and persists the resulting record.
package engine

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/dispatcher"
)

// DraftSaver persists an accepted activation draft. It must not fail loudly:
// a non-positive id signals that the draft could not be stored.
type DraftSaver interface {
	SaveDraft(ctx context.Context, customerName, intent, message string) int64
}

// Recorder receives engine events for metrics. All methods must be cheap.
type Recorder interface {
	ObservePlane(plane string)
	ObserveTransition(from, to string)
	ObserveValidationFailure(field string)
	ObserveDraft(saved bool)
}

// result is what a transition handler returns. A nil next leaves the stored
// record untouched.
type result struct {
	reply string
	next  *conversation.Conversation
}

type handler func(ctx context.Context, plane dispatcher.Plane, conv conversation.Conversation, text string) result

type Engine struct {
	store      conversation.Store
	dispatcher *dispatcher.Dispatcher
	drafts     DraftSaver
	recorder   Recorder
	logger     zerolog.Logger
	handlers   map[conversation.State]handler
}

type Option func(*Engine)

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func New(store conversation.Store, d *dispatcher.Dispatcher, drafts DraftSaver, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		dispatcher: d,
		drafts:     drafts,
		recorder:   noopRecorder{},
		logger:     log.Logger.With().Str("component", "engine").Logger(),
	}

	e.handlers = map[conversation.State]handler{
		conversation.StateInitial:           e.handleInitial,
		conversation.StateAwaitingName:      e.handleAwaitingName,
		conversation.StateAwaitingHours:     e.handleAwaitingHours,
		conversation.StateAwaitingServices:  e.handleAwaitingServices,
		conversation.StateCompleted:         e.handleCompleted,
		conversation.StateAwaitingDate:      e.handleAwaitingDate,
		conversation.StateAwaitingTime:      e.handleAwaitingTime,
		conversation.StateActivationName:    e.handleActivationName,
		conversation.StateActivationIntent:  e.handleActivationIntent,
		conversation.StateActivationShowing: e.handleActivationShowing,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// HandleMessage processes one inbound text from sender and returns the reply.
// It is total over its input: any text, including the empty string, yields a
// reply. Callers must serialize calls for the same sender.
func (e *Engine) HandleMessage(ctx context.Context, sender, text string) string {
	conv := e.store.Get(ctx, sender)
	current := conv.CurrentState()
	plane := e.dispatcher.Dispatch(sender, text, current)
	e.recorder.ObservePlane(string(plane))

	e.logger.Info().
		Str("sender", sender).
		Str("state", string(current)).
		Str("plane", string(plane)).
		Str("text", truncate(text, 50)).
		Msg("Handling message")

	if !current.Valid() {
		e.logger.Warn().
			Str("sender", sender).
			Str("state", string(current)).
			Msg("Unknown conversation state, answering with welcome")
		return replyWelcome
	}

	res := e.handlers[current](ctx, plane, conv, text)
	if res.next == nil {
		return res.reply
	}

	next := res.next.CurrentState()
	if next != current {
		e.recorder.ObserveTransition(string(current), string(next))
		e.logger.Info().
			Str("sender", sender).
			Str("from", string(current)).
			Str("to", string(next)).
			Msg("State transition")
	}

	if err := e.store.Update(ctx, sender, *res.next); err != nil {
		e.logger.Error().
			Err(err).
			Str("sender", sender).
			Msg("Error storing conversation")
	}

	return res.reply
}

func stay(reply string) result {
	return result{reply: reply}
}

func advance(conv conversation.Conversation, reply string) result {
	return result{reply: reply, next: &conv}
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

type noopRecorder struct{}

func (noopRecorder) ObservePlane(string)              {}
func (noopRecorder) ObserveTransition(string, string) {}
func (noopRecorder) ObserveValidationFailure(string)  {}
func (noopRecorder) ObserveDraft(bool)                {}
