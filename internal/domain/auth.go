package domain

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wishy-app/backend/internal/entity"
	"github.com/wishy-app/backend/internal/model"
	"github.com/wishy-app/backend/internal/repository"
	"github.com/wishy-app/backend/pkg/authenticator"
	"github.com/wishy-app/backend/pkg/crypto"
	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/xcontext"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	OAuth2Start(ctx context.Context, req *model.OAuth2StartRequest) (*model.OAuth2StartResponse, error)
	OAuth2Callback(ctx context.Context, req *model.OAuth2CallbackRequest) (*model.OAuth2CallbackResponse, error)
}

type authDomain struct {
	userRepo         repository.UserRepository
	authIdentityRepo repository.AuthIdentityRepository
	oauthStateRepo   repository.OAuthStateRepository
	oauth2Services   map[string]authenticator.IOAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	authIdentityRepo repository.AuthIdentityRepository,
	oauthStateRepo repository.OAuthStateRepository,
	oauth2Services []authenticator.IOAuth2Service,
) *authDomain {
	services := map[string]authenticator.IOAuth2Service{}
	for _, service := range oauth2Services {
		services[service.Service()] = service
	}

	return &authDomain{
		userRepo:         userRepo,
		authIdentityRepo: authIdentityRepo,
		oauthStateRepo:   oauthStateRepo,
		oauth2Services:   services,
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, errorx.NewWithDetails(errorx.Validation,
			map[string]any{"field": "email"}, "Invalid email address")
	}

	if username == "" {
		return nil, errorx.NewWithDetails(errorx.Validation,
			map[string]any{"field": "username"}, "Username is required")
	}

	if req.Password != req.ConfirmPassword {
		return nil, errorx.NewWithDetails(errorx.Validation,
			map[string]any{"field": "confirm_password"}, "Passwords do not match")
	}

	if !crypto.CheckPasswordStrength(req.Password) {
		return nil, errorx.NewWithDetails(errorx.Validation,
			map[string]any{"field": "password"},
			"Password must be 8-100 characters with uppercase, lowercase, digit, and special character")
	}

	if _, err := d.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errorx.NewWithDetails(errorx.AlreadyExists,
			map[string]any{"field": "email"}, "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check the email: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, errorx.NewWithDetails(errorx.AlreadyExists,
			map[string]any{"field": "username"}, "Username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check the username: %v", err)
		return nil, errorx.Unknown
	}

	hashedPassword, err := crypto.HashPassword(req.Password, xcontext.Configs(ctx).Auth.PasswordPepper)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash the password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:           entity.Base{ID: uuid.NewString()},
		Email:          sql.NullString{String: email, Valid: true},
		Username:       sql.NullString{String: username, Valid: true},
		HashedPassword: sql.NullString{String: hashedPassword, Valid: true},
		IsActive:       true,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user: %v", err)
		return nil, errorx.New(errorx.AlreadyExists, "Account already exists")
	}

	return &model.RegisterResponse{User: model.ConvertUser(user)}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	// Unknown user and wrong password are indistinguishable to the caller.
	failure := errorx.New(errorx.Unauthenticated, "Invalid username or password")

	user, err := d.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		}
		return nil, failure
	}

	if !user.HasPassword() {
		return nil, failure
	}

	pepper := xcontext.Configs(ctx).Auth.PasswordPepper
	if !crypto.VerifyPassword(req.Password, pepper, user.HashedPassword.String) {
		attempts := user.FailedLoginAttempts + 1
		err := d.userRepo.UpdateByID(ctx, user.ID, &repository.UpdateUser{
			FailedLoginAttempts: &attempts,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record the failed attempt: %v", err)
		}

		return nil, failure
	}

	if !user.IsActive {
		return nil, errorx.New(errorx.PermissionDenied, "Account is deactivated")
	}

	noAttempts := 0
	err = d.userRepo.UpdateByID(ctx, user.ID, &repository.UpdateUser{
		FailedLoginAttempts: &noAttempts,
		LastLoginAt:         sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record the login: %v", err)
	}

	token, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{ID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (d *authDomain) OAuth2Start(
	ctx context.Context, req *model.OAuth2StartRequest,
) (*model.OAuth2StartResponse, error) {
	service, ok := d.oauth2Services[req.Provider]
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Unsupported provider %s", req.Provider)
	}

	verifier, err := crypto.GenerateCodeVerifier()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the code verifier: %v", err)
		return nil, errorx.Unknown
	}

	state, err := crypto.GenerateState()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the state: %v", err)
		return nil, errorx.Unknown
	}

	nonce, err := crypto.GenerateNonce()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the nonce: %v", err)
		return nil, errorx.Unknown
	}

	err = d.oauthStateRepo.Put(ctx, state, repository.OAuthState{
		Provider:     req.Provider,
		CodeVerifier: verifier,
		Nonce:        nonce,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the state: %v", err)
		return nil, errorx.Unknown
	}

	return &model.OAuth2StartResponse{
		RedirectURL: service.AuthCodeURL(state, nonce, crypto.CodeChallenge(verifier)),
	}, nil
}

func (d *authDomain) OAuth2Callback(
	ctx context.Context, req *model.OAuth2CallbackRequest,
) (*model.OAuth2CallbackResponse, error) {
	if req.Error != "" {
		return nil, errorx.New(errorx.BadRequest, "Provider denied the authorization")
	}

	if req.Code == "" || req.State == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing code or state")
	}

	state, err := d.oauthStateRepo.Take(ctx, req.State)
	if err != nil {
		if !errors.Is(err, repository.ErrStateNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot take the state: %v", err)
			return nil, errorx.Unknown
		}
		return nil, errorx.New(errorx.BadRequest, "Invalid or expired state")
	}

	if state.Provider != req.Provider {
		return nil, errorx.New(errorx.BadRequest, "Invalid or expired state")
	}

	service, ok := d.oauth2Services[req.Provider]
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Unsupported provider %s", req.Provider)
	}

	token, err := service.Exchange(ctx, req.Code, state.CodeVerifier)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot exchange the authorization code: %v", err)
		if _, ok := authenticator.AsUpstreamError(err); ok {
			return nil, errorx.New(errorx.Unavailable, "Cannot exchange the authorization code")
		}
		return nil, errorx.Unknown
	}

	if err := service.VerifyIDToken(ctx, token, state.Nonce); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot verify the identity token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Cannot verify the identity token")
	}

	userInfo, err := service.GetUserInfo(ctx, token)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user info: %v", err)
		if _, ok := authenticator.AsUpstreamError(err); ok {
			return nil, errorx.New(errorx.Unavailable, "Cannot get the user info")
		}
		return nil, errorx.Unknown
	}

	user, _, err := d.reconcile(ctx, service.Service(), userInfo, token)
	if err != nil {
		return nil, err
	}

	accessToken, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{ID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the access token: %v", err)
		return nil, errorx.Unknown
	}

	redirectURL := strings.TrimSuffix(xcontext.Configs(ctx).Frontend.URL, "/") +
		"/oauth/callback?token=" + url.QueryEscape(accessToken)
	return &model.OAuth2CallbackResponse{RedirectURL: redirectURL}, nil
}

// reconcile maps a provider identity onto a local user: reuse the linked user
// if the identity is known, otherwise attach to the user owning the verified
// email, otherwise provision a new account. It reports whether a user was
// created.
func (d *authDomain) reconcile(
	ctx context.Context, provider string, info authenticator.OAuth2User, token *oauth2.Token,
) (*entity.User, bool, error) {
	if info.ID == "" {
		return nil, false, errorx.New(errorx.BadResponse, "Provider did not return a user id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	identity, err := d.authIdentityRepo.GetByProviderUserID(ctx, provider, info.ID)
	if err == nil {
		user, err := d.userRepo.GetByID(ctx, identity.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get the linked user: %v", err)
			return nil, false, errorx.Unknown
		}

		if err := d.refreshIdentity(ctx, identity.ID, info, token); err != nil {
			return nil, false, err
		}

		if err := d.fillEmptyProfile(ctx, user, info); err != nil {
			return nil, false, err
		}

		xcontext.WithCommitDBTransaction(ctx)
		return user, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get the identity: %v", err)
		return nil, false, errorx.Unknown
	}

	user, created, err := d.targetUser(ctx, info)
	if err != nil {
		return nil, false, err
	}

	newIdentity := &entity.AuthIdentity{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         user.ID,
		Provider:       provider,
		ProviderUserID: info.ID,
		ProviderEmail:  nullString(strings.ToLower(info.Email)),
		EmailVerified:  sql.NullBool{Bool: info.EmailVerified, Valid: info.Email != ""},
	}
	applyProviderToken(newIdentity, token, xcontext.Configs(ctx).Auth.TokenSecret)

	if err := d.authIdentityRepo.Create(ctx, newIdentity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the identity: %v", err)
		return nil, false, errorx.New(errorx.AlreadyExists, "Identity is already linked")
	}

	if !created {
		if err := d.fillEmptyProfile(ctx, user, info); err != nil {
			return nil, false, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return user, created, nil
}

// targetUser finds the user an unknown identity should attach to. Linking by
// email requires the provider to vouch for it; an unverified email never
// takes over an existing account and cannot claim an owned address.
func (d *authDomain) targetUser(
	ctx context.Context, info authenticator.OAuth2User,
) (*entity.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))
	emailOwned := false
	if email != "" {
		user, err := d.userRepo.GetByEmail(ctx, email)
		if err == nil {
			if info.EmailVerified {
				return user, false, nil
			}
			emailOwned = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get the user by email: %v", err)
			return nil, false, errorx.Unknown
		}
	}

	user := &entity.User{
		Base:        entity.Base{ID: uuid.NewString()},
		DisplayName: nullString(info.Name),
		AvatarURL:   nullString(info.AvatarURL),
		Locale:      nullString(info.Locale),
		IsActive:    true,
	}
	if email != "" && !emailOwned {
		user.Email = sql.NullString{String: email, Valid: true}
		user.EmailVerified = info.EmailVerified
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user: %v", err)
		return nil, false, errorx.Unknown
	}

	return user, true, nil
}

// fillEmptyProfile copies provider profile fields the local account does not
// have yet. Values the user already set are never overwritten.
func (d *authDomain) fillEmptyProfile(
	ctx context.Context, user *entity.User, info authenticator.OAuth2User,
) error {
	update := repository.UpdateUser{}
	changed := false

	if !user.DisplayName.Valid && info.Name != "" {
		update.DisplayName = sql.NullString{String: info.Name, Valid: true}
		changed = true
	}

	if !user.AvatarURL.Valid && info.AvatarURL != "" {
		update.AvatarURL = sql.NullString{String: info.AvatarURL, Valid: true}
		changed = true
	}

	if !user.Locale.Valid && info.Locale != "" {
		update.Locale = sql.NullString{String: info.Locale, Valid: true}
		changed = true
	}

	if !user.EmailVerified && info.EmailVerified &&
		user.Email.Valid && user.Email.String == strings.ToLower(info.Email) {
		update.EmailVerified = sql.NullBool{Bool: true, Valid: true}
		changed = true
	}

	if !changed {
		return nil
	}

	if err := d.userRepo.UpdateByID(ctx, user.ID, &update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the profile: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *authDomain) refreshIdentity(
	ctx context.Context, id string, info authenticator.OAuth2User, token *oauth2.Token,
) error {
	update := repository.UpdateAuthIdentity{}
	if info.Email != "" {
		update.ProviderEmail = sql.NullString{String: strings.ToLower(info.Email), Valid: true}
		update.EmailVerified = sql.NullBool{Bool: info.EmailVerified, Valid: true}
	}

	secret := xcontext.Configs(ctx).Auth.TokenSecret
	if token.AccessToken != "" {
		encrypted, err := crypto.Encrypt([]byte(token.AccessToken), secret)
		if err == nil {
			update.AccessTokenEncrypted = encrypted
		}
	}

	if token.RefreshToken != "" {
		encrypted, err := crypto.Encrypt([]byte(token.RefreshToken), secret)
		if err == nil {
			update.RefreshTokenEncrypted = encrypted
		}
	}

	if !token.Expiry.IsZero() {
		update.TokenExpiresAt = sql.NullTime{Time: token.Expiry, Valid: true}
	}

	if err := d.authIdentityRepo.UpdateByID(ctx, id, &update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the identity: %v", err)
		return errorx.Unknown
	}

	return nil
}

func applyProviderToken(identity *entity.AuthIdentity, token *oauth2.Token, secret string) {
	if token == nil {
		return
	}

	if token.AccessToken != "" {
		if encrypted, err := crypto.Encrypt([]byte(token.AccessToken), secret); err == nil {
			identity.AccessTokenEncrypted = encrypted
		}
	}

	if token.RefreshToken != "" {
		if encrypted, err := crypto.Encrypt([]byte(token.RefreshToken), secret); err == nil {
			identity.RefreshTokenEncrypted = encrypted
		}
	}

	if !token.Expiry.IsZero() {
		identity.TokenExpiresAt = sql.NullTime{Time: token.Expiry, Valid: true}
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
