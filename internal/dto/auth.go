package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignupRequest registers a new user.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo is the public view of a user returned after signup/login.
type UserInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries the issued access token and the user it belongs to.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// AuthClaims are the validated contents of an access token. The core only
// ever consumes UserID; Role is for the transport layer's access checks.
type AuthClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
