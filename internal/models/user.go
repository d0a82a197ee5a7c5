// internal/models/user.go
package models

// User is the profile returned by GET /me.
type User struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress"`
}

// Credentials is the body of POST /login.
type Credentials struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// Signup is the body of POST /signup. The password is not required locally;
// the backend decides whether an empty password is acceptable.
type Signup struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	WalletAddress string `json:"walletAddress" validate:"required"`
	Password      string `json:"password"`
}

// AuthResult carries the bearer credential issued by login and signup.
type AuthResult struct {
	Token string `json:"token"`
}
