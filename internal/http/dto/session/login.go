package session

import "time"

// LoginRequest body de POST /api/auth/{user,captains}/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CookieConfig atributos de la cookie de sesión.
type CookieConfig struct {
	Name     string        // default "token"
	Domain   string        // opcional
	Secure   bool          // false por default
	SameSite string        // "Lax" (default), "Strict", "None"
	TTL      time.Duration // Max-Age; se toma del codec si es 0
}
