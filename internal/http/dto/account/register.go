package account

// RegisterRiderRequest body de POST /api/auth/user/register.
type RegisterRiderRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	// Role se acepta por compatibilidad y se ignora: todo registro es ROLE_USER.
	Role string `json:"role,omitempty"`
}

// RegisterDriverRequest body de POST /api/auth/captains/register.
type RegisterDriverRequest struct {
	FullName FullName `json:"fullName"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
}

type FullName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RegisterResponse respuesta 201 del registro.
type RegisterResponse struct {
	Message string  `json:"message"`
	Profile Profile `json:"profile"`
}
