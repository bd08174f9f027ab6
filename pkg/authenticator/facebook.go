package authenticator

import (
	"context"
	"errors"
	"net/http"

	"github.com/wishy-app/backend/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const facebookUserURL = "https://graph.facebook.com/v16.0/me?fields=id,name,email,picture.width(256),locale"

type facebookService struct {
	name   string
	config oauth2.Config
	client *http.Client
}

func NewFacebookService(cfg config.OAuth2Configs) (IOAuth2Service, error) {
	if cfg.RedirectURI == "" {
		return nil, errors.New("redirect uri is not configured for facebook")
	}

	name := cfg.Name
	if name == "" {
		name = "facebook"
	}

	return &facebookService{
		name: name,
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     facebook.Endpoint,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"email", "public_profile"},
		},
		client: http.DefaultClient,
	}, nil
}

func (s *facebookService) Service() string {
	return s.name
}

func (s *facebookService) AuthCodeURL(state, nonce, challenge string) string {
	return s.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (s *facebookService) Exchange(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	return s.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
}

func (s *facebookService) VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) error {
	return nil
}

func (s *facebookService) GetUserInfo(ctx context.Context, token *oauth2.Token) (OAuth2User, error) {
	var profile struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Locale  string `json:"locale"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := getJSON(ctx, s.client, facebookUserURL, token.AccessToken, &profile); err != nil {
		return OAuth2User{}, err
	}

	return OAuth2User{
		ID:    profile.ID,
		Email: profile.Email,
		// Facebook only reports confirmed addresses through the graph API.
		EmailVerified: profile.Email != "",
		Name:          profile.Name,
		AvatarURL:     profile.Picture.Data.URL,
		Locale:        profile.Locale,
	}, nil
}
