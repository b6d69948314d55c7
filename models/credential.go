package models

import (
	"time"
)

// Credential represents the AWS credential set stored for a single chat user.
// There is at most one record per user: saving again replaces the record
// wholesale, it is never patched field by field.
type Credential struct {
	UserID          string    `json:"user_id" db:"user_id"`
	AccessKeyID     string    `json:"access_key_id" db:"access_key_id"`
	SecretAccessKey string    `json:"-" db:"secret_access_key"`
	SessionToken    string    `json:"-" db:"session_token"`
	Region          string    `json:"region,omitempty" db:"region"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Credential model
func (Credential) TableName() string {
	return "credentials"
}

// NewCredential creates a new Credential instance
func NewCredential(userID, accessKeyID, secretAccessKey string) *Credential {
	now := time.Now()
	return &Credential{
		UserID:          userID,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// RegionOrDefault returns the stored region, or fallback when no region was saved.
func (c *Credential) RegionOrDefault(fallback string) string {
	if c.Region != "" {
		return c.Region
	}
	return fallback
}

// MaskedAccessKeyID returns the access key id with all but the last four
// characters replaced, for display in settings views.
func (c *Credential) MaskedAccessKeyID() string {
	if len(c.AccessKeyID) <= 4 {
		return "****"
	}
	masked := make([]byte, len(c.AccessKeyID))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(masked)-4:], c.AccessKeyID[len(c.AccessKeyID)-4:])
	return string(masked)
}
