package testutil

import (
	"context"

	"github.com/wishy-app/backend/pkg/authenticator"
	"golang.org/x/oauth2"
)

type MockOAuth2 struct {
	Name              string
	AuthCodeURLFunc   func(state, nonce, challenge string) string
	ExchangeFunc      func(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error)
	VerifyIDTokenFunc func(ctx context.Context, token *oauth2.Token, nonce string) error
	GetUserInfoFunc   func(ctx context.Context, token *oauth2.Token) (authenticator.OAuth2User, error)
}

func NewMockOAuth2(name string) *MockOAuth2 {
	return &MockOAuth2{Name: name}
}

func (m *MockOAuth2) Service() string {
	return m.Name
}

func (m *MockOAuth2) AuthCodeURL(state, nonce, challenge string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state, nonce, challenge)
	}

	return ""
}

func (m *MockOAuth2) Exchange(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code, codeVerifier)
	}

	return &oauth2.Token{AccessToken: "mock-access-token"}, nil
}

func (m *MockOAuth2) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) error {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, token, nonce)
	}

	return nil
}

func (m *MockOAuth2) GetUserInfo(ctx context.Context, token *oauth2.Token) (authenticator.OAuth2User, error) {
	if m.GetUserInfoFunc != nil {
		return m.GetUserInfoFunc(ctx, token)
	}

	return authenticator.OAuth2User{}, nil
}
