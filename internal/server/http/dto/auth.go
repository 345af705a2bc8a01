package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse echoes the issued bearer token in the body; the same token
// also travels in the Authorization header and the auth cookie.
type TokenResponse struct {
	Token string `json:"token"`
}
