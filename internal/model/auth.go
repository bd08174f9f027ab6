package model

import "net/http"

// Register
type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

func (RegisterResponse) StatusInfo() int {
	return http.StatusCreated
}

// Password login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// OAuth2 start
type OAuth2StartRequest struct {
	Provider string `json:"-"`
}

type OAuth2StartResponse struct {
	RedirectURL string `json:"-"`
}

func (r OAuth2StartResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.RedirectURL
}

// OAuth2 callback
type OAuth2CallbackRequest struct {
	Provider string `json:"-"`
	Code     string `json:"code"`
	State    string `json:"state"`
	Error    string `json:"error"`
}

type OAuth2CallbackResponse struct {
	RedirectURL string `json:"-"`
}

func (r OAuth2CallbackResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.RedirectURL
}
