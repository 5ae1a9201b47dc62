// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member account. Gender is set at sign-up and is
// immutable afterwards (enforced in the user service).
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	FullName     string         `json:"full_name"`
	Bio          string         `json:"bio"`
	ProfileImage string         `json:"profile_image"`
	Gender       string         `gorm:"not null" json:"gender"`
	DateOfBirth  time.Time      `json:"date_of_birth"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
