package core

import "github.com/golang-jwt/jwt/v4"

// Claims 使用者身分 JWT payload
type Claims struct {
	UserID      string `json:"user_id"`
	Tenant      string `json:"tenant"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}
