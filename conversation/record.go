// Package conversation defines the per-sender conversation record and the
// State Store contract the engine is written against, plus the in-memory and
// JSON file implementations of that contract.
package conversation

// Conversation is the full persisted state for one sender phone number.
// The JSON field names match the on-disk state file.
type Conversation struct {
	State        State         `json:"estado,omitempty"`
	Name         string        `json:"nombre,omitempty"`
	Hours        string        `json:"horarios,omitempty"`
	Services     string        `json:"servicios,omitempty"`
	Appointments []Appointment `json:"turnos,omitempty"`

	// Only set between StateAwaitingDate and StateAwaitingTime.
	PendingAppointment *PendingAppointment `json:"turno_temp,omitempty"`

	// Only set while State is one of the activation states.
	Activation *ActivationContext `json:"activation_context,omitempty"`
}

// Appointment is an append-only booking entry. Date and time are free text.
type Appointment struct {
	Date string `json:"fecha"`
	Time string `json:"hora"`
}

// PendingAppointment is the appointment under construction.
type PendingAppointment struct {
	Date string `json:"fecha"`
}

// ActivationContext is the scratch data of the admin activation flow.
type ActivationContext struct {
	CustomerName     string `json:"customer_name,omitempty"`
	CommercialIntent string `json:"commercial_intent,omitempty"`
	GeneratedMessage string `json:"generated_message,omitempty"`
}

// CurrentState returns the record state, defaulting to StateInitial for an
// empty record.
func (c Conversation) CurrentState() State {
	if c.State == "" {
		return StateInitial
	}
	return c.State
}

// IsEmpty reports whether c carries no data at all.
func (c Conversation) IsEmpty() bool {
	return c.State == "" && c.Name == "" && c.Hours == "" && c.Services == "" &&
		len(c.Appointments) == 0 && c.PendingAppointment == nil && c.Activation == nil
}

// Clone returns a deep copy so callers can mutate the result without touching
// the original (stores hand out clones).
func (c Conversation) Clone() Conversation {
	out := c
	if c.Appointments != nil {
		out.Appointments = make([]Appointment, len(c.Appointments))
		copy(out.Appointments, c.Appointments)
	}
	if c.PendingAppointment != nil {
		p := *c.PendingAppointment
		out.PendingAppointment = &p
	}
	if c.Activation != nil {
		a := *c.Activation
		out.Activation = &a
	}
	return out
}
