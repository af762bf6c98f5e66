// Package generator builds the outbound commercial message proposed to the
// admin during customer activation. Output is fully deterministic: the same
// customer name and intent always produce the same text.
package generator

import (
	"fmt"
	"strings"
)

type verbGroup struct {
	verbs    []string
	template string
}

// Groups and verbs are tried in declaration order; the first verb found in the
// intent wins.
var verbGroups = []verbGroup{
	{
		verbs:    []string{"ofrecer", "mostrar", "presentar", "tenemos"},
		template: "llegaron nuevos %s que te pueden interesar",
	},
	{
		verbs:    []string{"recordar", "avisar", "acordar"},
		template: "quería recordarte %s",
	},
	{
		verbs:    []string{"invitar", "agendar", "programar", "reservar"},
		template: "te queremos invitar a %s",
	},
	{
		verbs:    []string{"preguntar", "consultar", "saber"},
		template: "quería preguntarte sobre %s",
	},
}

var fillerPrefixes = []string{"le ", "te ", "los ", "las ", "un ", "una ", "el ", "la "}

// Generate returns "Hola {name}, {body}.\n¿Querés que te cuente más?" where
// body comes from the first verb template matching intent, or is intent itself
// when no verb matches.
func Generate(customerName, intent string) string {
	return fmt.Sprintf("Hola %s, %s.\n¿Querés que te cuente más?", customerName, body(intent))
}

func body(intent string) string {
	lowered := strings.TrimSpace(strings.ToLower(intent))

	for _, group := range verbGroups {
		for _, verb := range group.verbs {
			_, rest, found := strings.Cut(lowered, verb)
			if !found {
				continue
			}

			rest = stripFiller(strings.TrimSpace(rest))
			if rest == "" {
				rest = intent
			}
			return fmt.Sprintf(group.template, rest)
		}
	}

	return intent
}

func stripFiller(rest string) string {
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(rest, prefix) {
			return rest[len(prefix):]
		}
	}
	return rest
}
