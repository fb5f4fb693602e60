package dto

// AuthResponse is the verified session payload: who is calling, with
// which role, until when.
type AuthResponse struct {
	UserID uint    `json:"user_id"`
	Role   string  `json:"role"`
	Name   string  `json:"name"`
	Expiry float64 `json:"expiry"`
}

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ResidentID    string `json:"resident_id"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
	// SecretCode grants ADMIN when it matches the configured enrollment code.
	SecretCode string `json:"secret_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type FindEmailRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ResetPasswordRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
