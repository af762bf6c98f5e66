// Package dispatcher classifies every inbound message into the ADMIN or
// CUSTOMER plane before any state-specific logic runs.
package dispatcher

import (
	"strings"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/keywords"
)

type Plane string

const (
	PlaneAdmin    Plane = "ADMIN"
	PlaneCustomer Plane = "CUSTOMER"
)

var baseCommands = []string{
	"setup", "/setup",
	"reset", "/reset",
	"config", "/config",
	"/activar cliente",
	"cancelar", "/cancelar",
}

// DefaultAdminCommands are the command and trigger phrases that put a
// whitelisted sender in the admin plane. Every activation trigger is one.
var DefaultAdminCommands = append(append([]string(nil), baseCommands...), keywords.ActivationTriggers()...)

// Dispatcher is stateless after construction and safe for concurrent use.
type Dispatcher struct {
	admins   map[string]struct{}
	commands []string
}

// New builds a dispatcher. admins holds the allow-listed operator numbers;
// testNumbers are designated test identifiers treated the same way.
func New(admins, testNumbers, commands []string) *Dispatcher {
	d := &Dispatcher{
		admins:   make(map[string]struct{}, len(admins)+len(testNumbers)),
		commands: make([]string, 0, len(commands)),
	}

	for _, list := range [][]string{admins, testNumbers} {
		for _, number := range list {
			if number = strings.TrimSpace(number); number != "" {
				d.admins[number] = struct{}{}
			}
		}
	}

	for _, cmd := range commands {
		if cmd = keywords.Normalize(strings.TrimSpace(cmd)); cmd != "" {
			d.commands = append(d.commands, cmd)
		}
	}

	return d
}

// Dispatch applies three ordered checks, first match wins:
//  1. continuity: a sender already inside an admin flow stays ADMIN;
//  2. identity: senders outside the allow-list are CUSTOMER;
//  3. command: text equal to or containing an admin command is ADMIN.
//
// Anything else is CUSTOMER.
func (d *Dispatcher) Dispatch(sender, text string, state conversation.State) Plane {
	if state.IsAdmin() {
		return PlaneAdmin
	}

	if !d.IsAdmin(sender) {
		return PlaneCustomer
	}

	normalized := keywords.Normalize(strings.TrimSpace(text))
	if normalized == "" {
		return PlaneCustomer
	}

	for _, cmd := range d.commands {
		if normalized == cmd || strings.Contains(normalized, cmd) {
			return PlaneAdmin
		}
	}

	return PlaneCustomer
}

// IsAdmin reports whether sender is on the allow-list or a test identifier.
func (d *Dispatcher) IsAdmin(sender string) bool {
	_, ok := d.admins[strings.TrimSpace(sender)]
	return ok
}
