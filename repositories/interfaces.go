package repositories

import (
	"context"

	"github.com/sumeet-singh-parmar/aws-commander/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// CredentialRepository handles stored AWS credential sets
type CredentialRepository interface {
	// GetByUserID retrieves the credential set for a user.
	// Returns (nil, nil) when no record exists: absence is a normal state.
	GetByUserID(ctx context.Context, userID string) (*models.Credential, error)

	// Save stores a credential set, replacing any existing record wholesale
	Save(ctx context.Context, cred *models.Credential) error

	// Delete removes the credential set for a user
	Delete(ctx context.Context, userID string) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) CredentialRepository
}

// ConsentRepository handles persisted consent grants for metered categories
type ConsentRepository interface {
	// Get retrieves the grant for a (user, category) pair.
	// Returns (nil, nil) when no row exists.
	Get(ctx context.Context, userID string, categoryID models.CategoryID) (*models.ConsentGrant, error)

	// ListByUserID retrieves all grants for a user
	ListByUserID(ctx context.Context, userID string) ([]*models.ConsentGrant, error)

	// Upsert records a grant. Concurrent duplicate writes for the same pair
	// converge to the same row; the operation is idempotent.
	Upsert(ctx context.Context, grant *models.ConsentGrant) error

	// Revoke sets granted=false for a (user, category) pair
	Revoke(ctx context.Context, userID string, categoryID models.CategoryID) error

	// RevokeAll sets granted=false for every grant belonging to a user
	RevokeAll(ctx context.Context, userID string) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ConsentRepository
}

// PreferenceRepository handles dynamic per-type notification preferences
// and the legacy global preference record
type PreferenceRepository interface {
	// GetPreference retrieves the dynamic row for a (user, type) pair.
	// Returns (nil, nil) when no row exists.
	GetPreference(ctx context.Context, userID string, notificationType models.NotificationType) (*models.NotificationPreference, error)

	// ListPreferences retrieves all dynamic rows for a user
	ListPreferences(ctx context.Context, userID string) ([]*models.NotificationPreference, error)

	// SavePreference creates or replaces the dynamic row for its (user, type) pair
	SavePreference(ctx context.Context, pref *models.NotificationPreference) error

	// GetLegacy retrieves the legacy global record for a user.
	// Returns (nil, nil) when no record exists.
	GetLegacy(ctx context.Context, userID string) (*models.LegacyPreference, error)

	// SaveLegacy creates or replaces the legacy global record
	SaveLegacy(ctx context.Context, pref *models.LegacyPreference) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) PreferenceRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Credentials CredentialRepository
	Consents    ConsentRepository
	Preferences PreferenceRepository
}
