package session

// LogoutResponse body de POST /api/auth/{user,captains}/logout.
type LogoutResponse struct {
	Message string `json:"message"`
}
