package models

import "time"

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// GradeLevels are the values offered at signup. "Staff" maps to RoleStaff.
var GradeLevels = []string{"9th Grade", "10th Grade", "11th Grade", "12th Grade", "Staff"}

const GradeLevelStaff = "Staff"

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	Name       string    `json:"name"`
	GradeLevel string    `json:"gradeLevel"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserProfile is the shape of a user handed out over the API.
type UserProfile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	GradeLevel string    `json:"gradeLevel"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		GradeLevel: u.GradeLevel,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
