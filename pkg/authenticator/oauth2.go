package authenticator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuth2User is the normalized profile shape every provider variant maps its
// userinfo response into. ID is the provider-assigned stable subject.
type OAuth2User struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
	Locale        string
}

type IOAuth2Service interface {
	Service() string

	// AuthCodeURL builds the provider consent URL carrying the CSRF state,
	// the OIDC nonce, and the S256 PKCE challenge.
	AuthCodeURL(state, nonce, challenge string) string

	// Exchange trades the authorization code plus the PKCE verifier for
	// provider tokens.
	Exchange(ctx context.Context, code, codeVerifier string) (*oauth2.Token, error)

	// VerifyIDToken checks the ID token and its nonce if the provider issues
	// one. Plain OAuth2 providers return nil.
	VerifyIDToken(ctx context.Context, token *oauth2.Token, nonce string) error

	// GetUserInfo fetches the provider profile with the access token.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (OAuth2User, error)
}

// UpstreamError marks a non-2xx response from the provider, so callers can
// map it to bad gateway instead of an internal failure.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider responded with status %d: %s", e.StatusCode, e.Body)
}

// AsUpstreamError unwraps both our own UpstreamError and the one x/oauth2
// produces on a failed token exchange.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		statusCode := http.StatusBadGateway
		if retrieveErr.Response != nil {
			statusCode = retrieveErr.Response.StatusCode
		}
		return &UpstreamError{StatusCode: statusCode, Body: string(retrieveErr.Body)}, true
	}

	return nil, false
}

func getJSON(ctx context.Context, client *http.Client, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.Unmarshal(body, out)
}
