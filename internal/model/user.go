package model

import (
	"time"

	"github.com/wishy-app/backend/internal/entity"
)

// AccessToken is the payload carried by bearer tokens next to the standard
// claims. The user id doubles as the token subject.
type AccessToken struct {
	ID string `json:"id"`
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	Username      string    `json:"username,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Locale        string    `json:"locale,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:            user.ID,
		Email:         user.Email.String,
		EmailVerified: user.EmailVerified,
		Username:      user.Username.String,
		DisplayName:   user.DisplayName.String,
		AvatarURL:     user.AvatarURL.String,
		Locale:        user.Locale.String,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
	}
}

// Get current user
type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
