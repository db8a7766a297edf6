package password

import (
	"strings"
	"unicode"
)

type Policy struct {
	MinLength     int
	MaxLength     int // 0 = sin tope (bcrypt trunca en 72 bytes)
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// DefaultPolicy largo mínimo 8, sin clases obligatorias.
var DefaultPolicy = Policy{MinLength: 8, MaxLength: 72}

func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	if p.MaxLength > 0 && len(s) > p.MaxLength {
		reasons = append(reasons, "too_long")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing_upper")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing_lower")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing_symbol")
	}
	return len(reasons) == 0, reasons
}

// Describe arma un mensaje legible a partir de los reasons de Validate.
func Describe(reasons []string) string {
	return "password " + strings.ReplaceAll(strings.Join(reasons, ", "), "_", " ")
}
