package dto

// SignupResponse is returned after a successful signup.
type SignupResponse struct {
	UserID      uint   `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// BearerTokenType is the token_type of every issued token.
const BearerTokenType = "bearer"

// VerifyEmailRequest carries a token issued at signup or resend.
type VerifyEmailRequest struct {
	VerificationToken string `json:"verification_token" validate:"required"`
}

// ResendVerificationRequest names the account to send a fresh token to.
type ResendVerificationRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
