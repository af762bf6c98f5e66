// Package keywords holds the accent-insensitive keyword predicates used to
// route free text: service queries, appointment requests, activation triggers
// and the short cancel/confirm replies of the activation flow.
package keywords

import "strings"

var serviceQueryKeywords = []string{
	"precio", "precios",
	"servicio", "servicios",
	"cuanto", "cuesta", "cuestan",
	"sale", "salen",
}

var appointmentKeywords = []string{
	"turno", "turnos",
	"reserva", "reservar",
	"cita",
}

var activationTriggers = []string{
	"activar cliente",
	"activar contacto",
	"contactar cliente",
	"enviar mensaje a cliente",
	"mensaje a cliente",
	"escribirle a",
}

// Cancel words accepted while the admin is typing the customer name.
var NameCancelWords = []string{"cancelar", "salir", "no"}

// Cancel words accepted while the admin is typing the commercial intent.
// "no" is left out because it is a plausible first word of an intent.
var IntentCancelWords = []string{"cancelar", "salir"}

// Cancel words accepted while a draft is on screen.
var DraftCancelWords = []string{"cancelar", "no", "salir"}

// Confirmation words accepted while a draft is on screen. Entries are compared
// after normalization, so "sí" and "si" are the same word.
var DraftConfirmWords = []string{"enviar", "si", "sí", "ok", "dale", "confirmar"}

// IsServiceQuery reports whether text asks about services or prices.
func IsServiceQuery(text string) bool {
	return containsAny(Normalize(text), serviceQueryKeywords)
}

// IsAppointmentRequest reports whether text asks for an appointment.
func IsAppointmentRequest(text string) bool {
	return containsAny(Normalize(text), appointmentKeywords)
}

// ActivationTriggers returns a copy of the phrases that start the customer
// activation flow.
func ActivationTriggers() []string {
	return append([]string(nil), activationTriggers...)
}

// IsActivationTrigger reports whether text asks to start the customer
// activation flow. Matching is by substring, so the trigger may be embedded
// in a longer sentence.
func IsActivationTrigger(text string) bool {
	return containsAny(Normalize(text), activationTriggers)
}

// MatchesWord reports whether the whole normalized, trimmed text equals one of
// words (also normalized).
func MatchesWord(text string, words []string) bool {
	normalized := strings.TrimSpace(Normalize(text))
	if normalized == "" {
		return false
	}
	for _, w := range words {
		if normalized == Normalize(w) {
			return true
		}
	}
	return false
}

func containsAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
