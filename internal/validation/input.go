// Package validation contiene reglas de formato para input de registro.
package validation

import (
	"regexp"
	"strings"
)

// Email rules:
// - local@domain.tld, sin espacios.
// - Local: [a-z0-9._%+-], 1..64.
// - Dominio: labels [a-z0-9-] separados por ".", TLD de 2+ letras.
// - Se valida ya normalizado (lowercase).
//
// No pretende cubrir RFC 5322 completo; lo que no matchea se rechaza.
var emailRe = regexp.MustCompile(`^[a-z0-9._%+\-]{1,64}@[a-z0-9](?:[a-z0-9\-]*[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9\-]*[a-z0-9])?)*\.[a-z]{2,}$`)

// ValidEmail returns true if s (normalized) is an acceptable identifier.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// markupRe detecta tags o entidades HTML.
var markupRe = regexp.MustCompile(`[<>]|&[#a-zA-Z0-9]+;`)

// HasMarkup returns true if s contains HTML tags, angle brackets or entities.
func HasMarkup(s string) bool {
	return markupRe.MatchString(s)
}

// Name rules: 1..64 runas después de trim, sin markup ni caracteres de control.
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	n := len([]rune(s))
	if n == 0 || n > 64 || HasMarkup(s) {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
