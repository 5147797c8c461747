package models

import "time"

// Profile roles resolved from the identity provider.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// StudentProfile is the directory record for a platform user.
type StudentProfile struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	FullName      string    `gorm:"size:255;not null" json:"full_name"`
	StudentNumber string    `gorm:"size:64;index" json:"student_number"`
	Department    string    `gorm:"size:128;index" json:"department"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role          string    `gorm:"size:32;not null;default:student;index" json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
