package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the admin account. PasswordHash holds an encoded Argon2id hash.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username" validate:"required,max=64"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null" validate:"required"`
	ProfilePic   string    `json:"profilePic" db:"profile_pic" gorm:"type:text" validate:"omitempty,url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}

func (u *User) Validate() map[string]string {
	return validateStruct(u)
}
