package engine

import (
	"fmt"
	"strings"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
)

const (
	replyWelcome = "Hola 👋 Soy Nordia. Escribí 'setup' para comenzar."

	promptBusinessName = "¿Cómo se llama tu negocio?"
	promptHours        = "¿Cuáles son tus horarios de atención?"
	promptServices     = "¿Qué servicios ofrecés y a qué precio? (ej: corte $5000, barba $3000)"

	replySetupStarted   = "Perfecto 👍 " + promptBusinessName
	replyHoursSaved     = "Genial. " + promptServices
	replyAskDate        = "Perfecto 👍 ¿Para qué día te gustaría el turno?"
	replyNoServices     = "Todavía no tengo cargados los servicios."
	replyCompletedHelp  = "Podés escribir SERVICIOS para ver precios o TURNO para reservar."
	replyMissingDate    = "Se perdió la fecha del turno 😕 ¿Para qué día te gustaría el turno?"
	replySlotTaken      = "Ya tenés un turno para ese día y horario. ¿Qué otro horario preferís?"
	replyAskCustomer    = "Perfecto 👍 ¿Nombre del cliente?\n(Escribí 'cancelar' para salir)"
	replyEmptyCustomer  = "Necesito el nombre del cliente para seguir. ¿Nombre del cliente?"
	replyIntentTooShort = "¿Podrías ser un poco más específico? Usá al menos 3 palabras (ej: ofrecer lentes nuevos)."
	replyActivationOff  = "Activación cancelada. Escribí 'activar cliente' cuando quieras empezar de nuevo."
	draftInstructions   = "Respondé 'enviar' para guardarlo o 'cancelar' para descartarlo."
	replyDraftUnknown   = "No entendí 🤔 " + draftInstructions
)

func replyValidationError(message, prompt string) string {
	return "❌ " + message + "\n" + prompt
}

func replyNameSaved(name string) string {
	return fmt.Sprintf("Perfecto, %s. %s", name, promptHours)
}

func replySetupCompleted(conv conversation.Conversation) string {
	var b strings.Builder
	b.WriteString("✅ Listo! Guardé:\n")
	b.WriteString("- Negocio: " + conv.Name + "\n")
	b.WriteString("- Horarios: " + conv.Hours + "\n")
	b.WriteString("- Servicios: " + conv.Services)
	return b.String()
}

func replyServices(services string) string {
	return "Nuestros servicios son:\n" + services
}

func replyAskTime(date string) string {
	return fmt.Sprintf("Anotado: %s. ¿A qué hora?", date)
}

func replyAppointmentConfirmed(a conversation.Appointment) string {
	return fmt.Sprintf("✅ Turno confirmado para %s a las %s.", a.Date, a.Time)
}

func replyAskIntent(customer string) string {
	return fmt.Sprintf(
		"Perfecto 👍 ¿Qué te gustaría decirle a %s?\nDescribí el mensaje en pocas palabras (ej: ofrecer lentes nuevos).",
		customer,
	)
}

func replyEmptyIntent(customer string) string {
	return fmt.Sprintf("Contame qué mensaje te gustaría enviarle a %s.", customer)
}

func replyDraft(message string) string {
	return "📝 Borrador listo. Te sugiero este mensaje:\n\n" + message + "\n\n" + draftInstructions
}

func replyDraftSaved(customer string) string {
	return fmt.Sprintf("✅ Listo! Mensaje preparado para %s. Quedó guardado como borrador.", customer)
}
