package repository

import (
	"context"
	"database/sql"

	"github.com/wishy-app/backend/internal/entity"
	"github.com/wishy-app/backend/pkg/xcontext"
)

type UpdateAuthIdentity struct {
	ProviderEmail         sql.NullString
	EmailVerified         sql.NullBool
	AccessTokenEncrypted  []byte
	RefreshTokenEncrypted []byte
	TokenExpiresAt        sql.NullTime
}

type AuthIdentityRepository interface {
	Create(ctx context.Context, identity *entity.AuthIdentity) error
	GetByProviderUserID(ctx context.Context, provider, providerUserID string) (*entity.AuthIdentity, error)
	GetAllByUserID(ctx context.Context, userID string) ([]entity.AuthIdentity, error)
	UpdateByID(ctx context.Context, id string, data *UpdateAuthIdentity) error
}

type authIdentityRepository struct{}

func NewAuthIdentityRepository() *authIdentityRepository {
	return &authIdentityRepository{}
}

func (r *authIdentityRepository) Create(ctx context.Context, identity *entity.AuthIdentity) error {
	return xcontext.DB(ctx).Create(identity).Error
}

func (r *authIdentityRepository) GetByProviderUserID(
	ctx context.Context, provider, providerUserID string,
) (*entity.AuthIdentity, error) {
	var record entity.AuthIdentity
	err := xcontext.DB(ctx).
		Take(&record, "provider=? AND provider_user_id=?", provider, providerUserID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *authIdentityRepository) GetAllByUserID(
	ctx context.Context, userID string,
) ([]entity.AuthIdentity, error) {
	var records []entity.AuthIdentity
	if err := xcontext.DB(ctx).Find(&records, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *authIdentityRepository) UpdateByID(
	ctx context.Context, id string, data *UpdateAuthIdentity,
) error {
	updateMap := map[string]any{}
	if data.ProviderEmail.Valid {
		updateMap["provider_email"] = data.ProviderEmail.String
	}

	if data.EmailVerified.Valid {
		updateMap["email_verified"] = data.EmailVerified.Bool
	}

	if data.AccessTokenEncrypted != nil {
		updateMap["access_token_encrypted"] = data.AccessTokenEncrypted
	}

	if data.RefreshTokenEncrypted != nil {
		updateMap["refresh_token_encrypted"] = data.RefreshTokenEncrypted
	}

	if data.TokenExpiresAt.Valid {
		updateMap["token_expires_at"] = data.TokenExpiresAt.Time
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Model(&entity.AuthIdentity{}).
		Where("id=?", id).
		Updates(updateMap).Error
}
