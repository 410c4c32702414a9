package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             string    `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	Name           string    `gorm:"not null" bson:"name" json:"name"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" bson:"email" json:"email"` // stored lowercased
	PasswordDigest string    `gorm:"not null" bson:"password_digest" json:"-"`
	Role           Role      `gorm:"type:VARCHAR(10);default:'user'" bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// UserSummary is what leaves the server for an identity. It has no digest field.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

func (s UserSummary) IsAdmin() bool { return s.Role == RoleAdmin }

// NormalizeEmail is the canonical form used for lookups and the unique index.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleFor grants admin to exactly one configured email, compared case-insensitively.
func RoleFor(email, adminEmail string) Role {
	if adminEmail != "" && NormalizeEmail(email) == NormalizeEmail(adminEmail) {
		return RoleAdmin
	}
	return RoleUser
}
