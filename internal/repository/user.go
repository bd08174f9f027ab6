package repository

import (
	"context"
	"database/sql"

	"github.com/wishy-app/backend/internal/entity"
	"github.com/wishy-app/backend/pkg/xcontext"
)

// UpdateUser carries the fields of an update. Only set fields are written, a
// zero UpdateUser is a no-op.
type UpdateUser struct {
	Email               sql.NullString
	EmailVerified       sql.NullBool
	Username            sql.NullString
	HashedPassword      sql.NullString
	DisplayName         sql.NullString
	AvatarURL           sql.NullString
	Locale              sql.NullString
	IsActive            sql.NullBool
	FailedLoginAttempts *int
	LastLoginAt         sql.NullTime
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data *UpdateUser) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *UpdateUser) error {
	updateMap := map[string]any{}
	if data.Email.Valid {
		updateMap["email"] = data.Email.String
	}

	if data.EmailVerified.Valid {
		updateMap["email_verified"] = data.EmailVerified.Bool
	}

	if data.Username.Valid {
		updateMap["username"] = data.Username.String
	}

	if data.HashedPassword.Valid {
		updateMap["hashed_password"] = data.HashedPassword.String
	}

	if data.DisplayName.Valid {
		updateMap["display_name"] = data.DisplayName.String
	}

	if data.AvatarURL.Valid {
		updateMap["avatar_url"] = data.AvatarURL.String
	}

	if data.Locale.Valid {
		updateMap["locale"] = data.Locale.String
	}

	if data.IsActive.Valid {
		updateMap["is_active"] = data.IsActive.Bool
	}

	if data.FailedLoginAttempts != nil {
		updateMap["failed_login_attempts"] = *data.FailedLoginAttempts
	}

	if data.LastLoginAt.Valid {
		updateMap["last_login_at"] = data.LastLoginAt.Time
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(updateMap).Error
}
