package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "accents", input: "Barbería Peñón", expected: "barberia penon"},
		{name: "uppercase accents", input: "PRECIÓ", expected: "precio"},
		{name: "digits and punctuation", input: "Corte $5000!", expected: "corte $5000!"},
		{name: "emoji", input: "Hola 👋", expected: "hola 👋"},
		{name: "empty", input: "", expected: ""},
		{name: "dotted capital i", input: "İstanbul", expected: "istanbul"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "hola", "¿Cuánto SALE el corte?", "Ñandú", "İİ", "ǅemal", "ﬁn", "Ωmega", "é",
		"Lun-Vie 9-18hs", "🙂👍🏽", "ÀÉÎÕÜ àéîõü", " \t\n",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestIsServiceQuery(t *testing.T) {
	assert.True(t, IsServiceQuery("¿Cuánto cuesta el corte?"))
	assert.True(t, IsServiceQuery("PRECIOS"))
	assert.True(t, IsServiceQuery("que servicios tienen"))
	assert.False(t, IsServiceQuery("hola"))
	assert.False(t, IsServiceQuery(""))
}

func TestIsAppointmentRequest(t *testing.T) {
	assert.True(t, IsAppointmentRequest("quiero un turno"))
	assert.True(t, IsAppointmentRequest("Quisiera RESERVAR"))
	assert.True(t, IsAppointmentRequest("una cita por favor"))
	assert.False(t, IsAppointmentRequest("precio"))
}

func TestActivationTriggersReturnsCopy(t *testing.T) {
	triggers := ActivationTriggers()
	for _, trigger := range triggers {
		assert.True(t, IsActivationTrigger(trigger), trigger)
	}

	triggers[0] = "otra cosa"
	assert.NotEqual(t, "otra cosa", ActivationTriggers()[0])
}

func TestIsActivationTrigger(t *testing.T) {
	assert.True(t, IsActivationTrigger("activar cliente"))
	assert.True(t, IsActivationTrigger("Quiero ACTIVAR CLIENTE ya"))
	assert.True(t, IsActivationTrigger("escribirle a Juan"))
	assert.True(t, IsActivationTrigger("enviar mensaje a cliente"))
	assert.False(t, IsActivationTrigger("activar"))
	assert.False(t, IsActivationTrigger("setup"))
}

func TestMatchesWord(t *testing.T) {
	assert.True(t, MatchesWord("Sí", DraftConfirmWords))
	assert.True(t, MatchesWord("  si  ", DraftConfirmWords))
	assert.True(t, MatchesWord("DALE", DraftConfirmWords))
	assert.False(t, MatchesWord("si claro", DraftConfirmWords))
	assert.False(t, MatchesWord("", DraftConfirmWords))
	assert.True(t, MatchesWord("No", NameCancelWords))
	assert.False(t, MatchesWord("no", IntentCancelWords))
}
