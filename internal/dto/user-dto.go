package dto

import "time"

type AddUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	ResidentID string `json:"resident_id"`
}

type DeleteUsersRequest struct {
	UserIDs []uint `json:"user_ids"`
}

// UserResponse is the listing shape. ResidentID is already masked; the
// full decrypted value only ever appears on tax exports and receipts.
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	ResidentID string    `json:"resident_id"`
	CreatedAt  time.Time `json:"created_at"`
}
