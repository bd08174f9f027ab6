package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/wishy-app/backend/config"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

type googleService struct {
	name     string
	provider *oidc.Provider
	config   oauth2.Config
	client   *http.Client

	userInfoURL string
}

// NewGoogleService discovers the Google OIDC endpoints and fails fast when
// the redirect URI is missing from configuration.
func NewGoogleService(ctx context.Context, cfg config.OAuth2Configs) (IOAuth2Service, error) {
	if cfg.RedirectURI == "" {
		return nil, errors.New("redirect uri is not configured for google")
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = googleIssuer
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("cannot discover google endpoints: %w", err)
	}

	var discovery struct {
		UserInfoEndpoint string `json:"userinfo_endpoint"`
	}
	if err := provider.Claims(&discovery); err != nil {
		return nil, fmt.Errorf("cannot read google discovery document: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "google"
	}

	return &googleService{
		name:     name,
		provider: provider,
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		client:      http.DefaultClient,
		userInfoURL: discovery.UserInfoEndpoint,
	}, nil
}

func (s *googleService) Service() string {
	return s.name
}

func (s *googleService) AuthCodeURL(state, nonce, challenge string) string {
	return s.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oidc.Nonce(nonce),
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (s *googleService) Exchange(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	return s.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
}

func (s *googleService) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) error {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return errors.New("no id_token field in oauth2 token")
	}

	idToken, err := s.provider.Verifier(&oidc.Config{ClientID: s.config.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return err
	}

	if idToken.Nonce != nonce {
		return errors.New("mismatched nonce in id token")
	}

	return nil
}

func (s *googleService) GetUserInfo(ctx context.Context, token *oauth2.Token) (OAuth2User, error) {
	var profile struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		Locale        string `json:"locale"`
	}
	if err := getJSON(ctx, s.client, s.userInfoURL, token.AccessToken, &profile); err != nil {
		return OAuth2User{}, err
	}

	return OAuth2User{
		ID:            profile.Sub,
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		Name:          profile.Name,
		AvatarURL:     profile.Picture,
		Locale:        profile.Locale,
	}, nil
}
