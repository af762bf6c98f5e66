package dispatcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/keywords"
)

const (
	adminNumber    = "5493794281273"
	testNumber     = "888111222"
	customerNumber = "5491155551234"
)

func newDispatcher() *Dispatcher {
	return New([]string{adminNumber}, []string{testNumber}, DefaultAdminCommands)
}

func TestDispatch(t *testing.T) {
	testCases := []struct {
		name     string
		sender   string
		text     string
		state    conversation.State
		expected Plane
	}{
		{name: "admin with slash command", sender: adminNumber, text: "/setup", state: conversation.StateInitial, expected: PlaneAdmin},
		{name: "admin with keyword", sender: adminNumber, text: "activar cliente", state: conversation.StateInitial, expected: PlaneAdmin},
		{name: "admin command case and spaces", sender: adminNumber, text: "  SETUP ", state: conversation.StateInitial, expected: PlaneAdmin},
		{name: "admin trigger inside sentence", sender: adminNumber, text: "quiero activar cliente nuevo", state: conversation.StateInitial, expected: PlaneAdmin},
		{name: "admin with normal text", sender: adminNumber, text: "hola", state: conversation.StateInitial, expected: PlaneCustomer},
		{name: "admin empty text", sender: adminNumber, text: "   ", state: conversation.StateInitial, expected: PlaneCustomer},
		{name: "test number with command", sender: testNumber, text: "setup", state: conversation.StateInitial, expected: PlaneAdmin},
		{name: "non admin with command", sender: customerNumber, text: "/setup", state: conversation.StateInitial, expected: PlaneCustomer},
		{name: "continuity in activation", sender: customerNumber, text: "Juan Pérez", state: conversation.StateActivationName, expected: PlaneAdmin},
		{name: "continuity in setup", sender: customerNumber, text: "Lun-Vie 9-18", state: conversation.StateAwaitingHours, expected: PlaneAdmin},
		{name: "continuity on draft", sender: customerNumber, text: "enviar", state: conversation.StateActivationShowing, expected: PlaneAdmin},
		{name: "customer state", sender: customerNumber, text: "hola", state: conversation.StateCompleted, expected: PlaneCustomer},
		{name: "appointment states are not admin", sender: customerNumber, text: "setup", state: conversation.StateAwaitingDate, expected: PlaneCustomer},
		{name: "admin in completed state with command", sender: adminNumber, text: "config", state: conversation.StateCompleted, expected: PlaneAdmin},
	}

	d := newDispatcher()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, d.Dispatch(tc.sender, tc.text, tc.state))
		})
	}
}

func TestDispatchPriority(t *testing.T) {
	d := newDispatcher()

	// Continuity outranks identity.
	assert.Equal(t, PlaneAdmin, d.Dispatch(customerNumber, "9-18", conversation.StateAwaitingHours))

	// Identity outranks command.
	assert.Equal(t, PlaneCustomer, d.Dispatch(customerNumber, "setup", conversation.StateInitial))
}

func TestActivationTriggersAreAdminCommands(t *testing.T) {
	d := newDispatcher()

	for _, trigger := range keywords.ActivationTriggers() {
		t.Run(trigger, func(t *testing.T) {
			assert.Equal(t, PlaneAdmin, d.Dispatch(adminNumber, trigger, conversation.StateInitial))
			assert.Equal(t, PlaneAdmin, d.Dispatch(adminNumber, "por favor "+strings.ToUpper(trigger)+" hoy", conversation.StateCompleted))
			assert.Equal(t, PlaneCustomer, d.Dispatch(customerNumber, trigger, conversation.StateInitial))
		})
	}
}

func TestDispatchIgnoresAccents(t *testing.T) {
	d := New([]string{adminNumber}, nil, []string{"configuración"})

	assert.Equal(t, PlaneAdmin, d.Dispatch(adminNumber, "CONFIGURACION", conversation.StateInitial))
}

func TestIsAdmin(t *testing.T) {
	d := New([]string{" 111 ", ""}, nil, nil)
	assert.True(t, d.IsAdmin("111"))
	assert.False(t, d.IsAdmin(""))
	assert.False(t, d.IsAdmin("222"))
}
