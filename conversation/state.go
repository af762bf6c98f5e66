package conversation

// State is the discriminant of a conversation record.
type State string

const (
	StateInitial           State = "inicial"
	StateAwaitingName      State = "esperando_nombre"
	StateAwaitingHours     State = "esperando_horarios"
	StateAwaitingServices  State = "esperando_servicios"
	StateCompleted         State = "completado"
	StateAwaitingDate      State = "esperando_fecha_turno"
	StateAwaitingTime      State = "esperando_hora_turno"
	StateActivationName    State = "activation_awaiting_name"
	StateActivationIntent  State = "activation_awaiting_intent"
	StateActivationShowing State = "activation_showing_draft"
)

var descriptions = map[State]string{
	StateInitial:           "Usuario nuevo o sin setup",
	StateAwaitingName:      "Esperando nombre del negocio",
	StateAwaitingHours:     "Esperando horarios de atención",
	StateAwaitingServices:  "Esperando lista de servicios",
	StateCompleted:         "Setup finalizado",
	StateAwaitingDate:      "Esperando fecha del turno",
	StateAwaitingTime:      "Esperando hora del turno",
	StateActivationName:    "Activación: esperando nombre del cliente",
	StateActivationIntent:  "Activación: esperando intención comercial",
	StateActivationShowing: "Activación: mostrando borrador",
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	_, ok := descriptions[s]
	return ok
}

// Description returns a human readable label, or "" for unknown states.
func (s State) Description() string {
	return descriptions[s]
}

// IsAdmin reports whether s belongs to a multi-step admin flow (setup or
// customer activation).
func (s State) IsAdmin() bool {
	switch s {
	case StateAwaitingName, StateAwaitingHours, StateAwaitingServices:
		return true
	}
	return s.IsActivation()
}

// IsActivation reports whether s is one of the customer activation states.
func (s State) IsActivation() bool {
	switch s {
	case StateActivationName, StateActivationIntent, StateActivationShowing:
		return true
	}
	return false
}
