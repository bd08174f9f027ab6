package entity

import "database/sql"

// Provider names form a closed set registered at startup. Password accounts
// have no AuthIdentity row at all.
const (
	GoogleProvider   = "google"
	GitHubProvider   = "github"
	FacebookProvider = "facebook"
)

// AuthIdentity links an external provider identity to exactly one user.
// (provider, provider_user_id) is the linking key and must be globally unique.
type AuthIdentity struct {
	Base

	UserID string `gorm:"index;not null"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Provider       string `gorm:"uniqueIndex:idx_provider_user_id;not null"`
	ProviderUserID string `gorm:"uniqueIndex:idx_provider_user_id;not null"`

	ProviderEmail sql.NullString
	EmailVerified sql.NullBool

	// Provider tokens are stored encrypted, only for calling provider APIs
	// on behalf of the user later.
	AccessTokenEncrypted  []byte
	RefreshTokenEncrypted []byte
	TokenExpiresAt        sql.NullTime
}

func (AuthIdentity) TableName() string {
	return "auth_identity"
}
