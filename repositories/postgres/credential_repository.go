package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"go.uber.org/zap"
)

// CredentialRepository implements the repositories.CredentialRepository interface
type CredentialRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *DB, logger *zap.Logger) repositories.CredentialRepository {
	return &CredentialRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID retrieves the credential set for a user.
// Returns (nil, nil) when no record exists.
func (r *CredentialRepository) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	query := `
		SELECT user_id, access_key_id, secret_access_key, session_token, region, created_at, updated_at
		FROM credentials
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	cred := &models.Credential{}
	var sessionToken, region sql.NullString

	err := executor.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID,
		&cred.AccessKeyID,
		&cred.SecretAccessKey,
		&sessionToken,
		&region,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	cred.SessionToken = sessionToken.String
	cred.Region = region.String
	return cred, nil
}

// Save stores a credential set. An existing row for the same user is
// replaced wholesale, never patched.
func (r *CredentialRepository) Save(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO credentials (user_id, access_key_id, secret_access_key, session_token, region, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			access_key_id = EXCLUDED.access_key_id,
			secret_access_key = EXCLUDED.secret_access_key,
			session_token = EXCLUDED.session_token,
			region = EXCLUDED.region,
			updated_at = EXCLUDED.updated_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		cred.UserID,
		cred.AccessKeyID,
		cred.SecretAccessKey,
		nullIfEmpty(cred.SessionToken),
		nullIfEmpty(cred.Region),
		cred.CreatedAt,
		cred.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	r.logger.Debug("credential saved", zap.String("user_id", cred.UserID))
	return nil
}

// Delete removes the credential set for a user
func (r *CredentialRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM credentials WHERE user_id = $1`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	r.logger.Debug("credential deleted", zap.String("user_id", userID))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *CredentialRepository) WithTx(tx repositories.Transaction) repositories.CredentialRepository {
	return &CredentialRepository{
		db:     r.db,
		logger: r.logger,
	}
}

// nullIfEmpty maps "" to SQL NULL for optional text columns
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
