// Package models holds the server's persisted entities and their outward
// representations.
package models

import "time"

// User mirrors one row of the users table.
//
// HashedPassword never leaves the server: it has no JSON name and Profile
// drops it entirely.
type User struct {
	ID                int64
	PhoneNumber       string
	FullName          string
	Email             *string
	HashedPassword    string `json:"-"`
	AvatarURL         *string
	Bio               *string
	Points            int
	TotalPointsEarned int
	TotalDistanceKm   int
	TotalWorkouts     int
	CurrentStreakDays int
	LongestStreakDays int
	IsActive          bool
	IsVerified        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Profile is the public view of a User.
type Profile struct {
	ID                int64     `json:"id"`
	PhoneNumber       string    `json:"phone_number"`
	FullName          string    `json:"full_name"`
	Email             *string   `json:"email"`
	AvatarURL         *string   `json:"avatar_url"`
	Bio               *string   `json:"bio"`
	Points            int       `json:"points"`
	TotalPointsEarned int       `json:"total_points_earned"`
	TotalDistanceKm   int       `json:"total_distance_km"`
	TotalWorkouts     int       `json:"total_workouts"`
	CurrentStreakDays int       `json:"current_streak_days"`
	LongestStreakDays int       `json:"longest_streak_days"`
	IsActive          bool      `json:"is_active"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewUser returns a user with the registration defaults applied: zero points
// and counters, active, not verified.
func NewUser(phoneNumber, fullName string, email *string, hashedPassword string) *User {
	return &User{
		PhoneNumber:    phoneNumber,
		FullName:       fullName,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsVerified:     false,
	}
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:                u.ID,
		PhoneNumber:       u.PhoneNumber,
		FullName:          u.FullName,
		Email:             u.Email,
		AvatarURL:         u.AvatarURL,
		Bio:               u.Bio,
		Points:            u.Points,
		TotalPointsEarned: u.TotalPointsEarned,
		TotalDistanceKm:   u.TotalDistanceKm,
		TotalWorkouts:     u.TotalWorkouts,
		CurrentStreakDays: u.CurrentStreakDays,
		LongestStreakDays: u.LongestStreakDays,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// PointsConsistent reports whether the balance is within the lifetime total.
func (u *User) PointsConsistent() bool {
	return u.Points >= 0 && u.Points <= u.TotalPointsEarned
}
