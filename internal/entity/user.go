package entity

import "database/sql"

// User is the canonical account. Email and Username are nullable because
// OAuth-provisioned accounts may have neither; emails are stored lowercased
// so the unique index behaves case-insensitively across drivers.
type User struct {
	Base

	Email         sql.NullString `gorm:"uniqueIndex"`
	EmailVerified bool

	Username       sql.NullString `gorm:"uniqueIndex"`
	HashedPassword sql.NullString

	DisplayName sql.NullString
	AvatarURL   sql.NullString
	Locale      sql.NullString

	IsActive            bool `gorm:"default:true"`
	FailedLoginAttempts int
	LastLoginAt         sql.NullTime
}

// HasPassword reports whether the account can use the password flow. OAuth
// only accounts have no hash at all.
func (u *User) HasPassword() bool {
	return u.HashedPassword.Valid && u.HashedPassword.String != ""
}
