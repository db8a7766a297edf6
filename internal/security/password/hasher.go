// Package password hashea y verifica secretos, y aplica la política de
// contraseñas del registro.
package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("empty password")

// Hasher hashea y verifica contraseñas. Verify reconoce cualquier formato
// soportado (bcrypt o argon2id) sin importar con qué algoritmo se hashea hoy,
// así cambiar de algoritmo no invalida cuentas existentes.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// New devuelve el hasher para algo ("bcrypt" default, "argon2id").
func New(algo string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algo)) {
	case "", "bcrypt":
		return multiHasher{h: bcryptHasher{cost: bcrypt.DefaultCost}}, nil
	case "argon2id", "argon2":
		return multiHasher{h: argon2Hasher{p: DefaultArgon2}}, nil
	default:
		return nil, fmt.Errorf("unknown password hash algorithm %q", algo)
	}
}

// NewBcrypt con costo explícito (los tests usan bcrypt.MinCost).
func NewBcrypt(cost int) Hasher {
	return multiHasher{h: bcryptHasher{cost: cost}}
}

type hashFunc interface {
	Hash(plain string) (string, error)
}

type multiHasher struct{ h hashFunc }

func (m multiHasher) Hash(plain string) (string, error) { return m.h.Hash(plain) }

func (m multiHasher) Verify(plain, hash string) bool { return Verify(plain, hash) }

// Verify compara plain contra hash detectando el formato por prefijo.
func Verify(plain, hash string) bool {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return verifyArgon2(plain, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	default:
		return false
	}
}

type bcryptHasher struct{ cost int }

func (h bcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
