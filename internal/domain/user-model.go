package domain

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Password holds a bcrypt hash, or a legacy plaintext value that gets
	// upgraded transparently on the next successful verification.
	Password string  `json:"-"`
	Role     string  `gorm:"type:varchar(20);not null;default:MEMBER" json:"role"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	// ResidentID is stored as ciphertext. Decrypt only at authorized display.
	ResidentID   *string       `json:"-"`
	Transactions []Transaction `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
