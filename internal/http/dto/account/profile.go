package account

import "time"

// Profile vista pública de una cuenta. Nunca lleva el hash.
type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResponse respuesta de GET /api/auth/user.
type ListResponse struct {
	Users  []Profile `json:"users"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// MessageResponse respuesta genérica con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
