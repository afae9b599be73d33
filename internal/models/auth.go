package models

// Token is the bearer token issued to the administrator
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenTypeBearer is the only token type issued
const TokenTypeBearer = "bearer"
