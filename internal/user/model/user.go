package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
// Matches the users table schema.
type User struct {
	ID           int64     `gorm:"primaryKey;column:id;type:bigserial"                        json:"id"`
	Username     string    `gorm:"column:username;type:varchar(30);not null;uniqueIndex"      json:"username"`
	FirstName    string    `gorm:"column:first_name;type:varchar(50);not null"                json:"first_name"`
	LastName     string    `gorm:"column:last_name;type:varchar(50);not null"                 json:"last_name"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"        json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"            json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"  json:"-"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"  json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
