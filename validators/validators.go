// Package validators checks the answers given during the business setup flow.
//
// Every validator is total: it accepts any string, including the empty string,
// and returns (true, "") when the input is acceptable or (false, reason) with a
// user-facing reason otherwise.
package validators

import (
	"unicode"
	"unicode/utf8"
)

const (
	minNameLength = 3
	maxNameLength = 50
	minTextLength = 3
)

// ValidateName checks a business name.
func ValidateName(text string) (bool, string) {
	length := utf8.RuneCountInString(text)

	if length < minNameLength {
		return false, "El nombre debe tener al menos 3 caracteres."
	}

	if length > maxNameLength {
		return false, "El nombre debe tener máximo 50 caracteres."
	}

	// More specific than the "no letters" rule, so it goes first.
	if onlyDigits(text) {
		return false, "El nombre no puede ser solo números."
	}

	if !hasLetter(text) {
		return false, "El nombre debe contener al menos una letra."
	}

	return true, ""
}

// ValidateHours checks a business hours description such as "Lun-Vie 9-18hs".
func ValidateHours(text string) (bool, string) {
	if utf8.RuneCountInString(text) < minTextLength {
		return false, "Los horarios deben tener al menos 3 caracteres."
	}

	if !hasDigit(text) {
		return false, "Los horarios deben incluir números (ej: 9-18hs)."
	}

	if !hasLetter(text) {
		return false, "Los horarios deben incluir letras (ej: Lun-Vie, hs)."
	}

	return true, ""
}

// ValidateServices checks a services list. A digit stands for a price and a
// letter for a service name.
func ValidateServices(text string) (bool, string) {
	if utf8.RuneCountInString(text) < minTextLength {
		return false, "Los servicios deben tener al menos 3 caracteres."
	}

	if !hasDigit(text) {
		return false, "Los servicios deben incluir precios (ej: corte $5000)."
	}

	if !hasLetter(text) {
		return false, "Los servicios deben incluir nombres (ej: corte, barba)."
	}

	return true, ""
}

func onlyDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
