package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"go.uber.org/zap"
)

// ConsentRepository implements the repositories.ConsentRepository interface
type ConsentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewConsentRepository creates a new consent repository
func NewConsentRepository(db *DB, logger *zap.Logger) repositories.ConsentRepository {
	return &ConsentRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the grant for a (user, category) pair.
// Returns (nil, nil) when no row exists.
func (r *ConsentRepository) Get(ctx context.Context, userID string, categoryID models.CategoryID) (*models.ConsentGrant, error) {
	query := `
		SELECT user_id, category_id, granted, granted_at
		FROM consent_grants
		WHERE user_id = $1 AND category_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	grant := &models.ConsentGrant{}

	err := executor.QueryRowContext(ctx, query, userID, categoryID).Scan(
		&grant.UserID,
		&grant.CategoryID,
		&grant.Granted,
		&grant.GrantedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get consent grant: %w", err)
	}

	return grant, nil
}

// ListByUserID retrieves all grants for a user
func (r *ConsentRepository) ListByUserID(ctx context.Context, userID string) ([]*models.ConsentGrant, error) {
	query := `
		SELECT user_id, category_id, granted, granted_at
		FROM consent_grants
		WHERE user_id = $1
		ORDER BY category_id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query consent grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.ConsentGrant
	for rows.Next() {
		grant := &models.ConsentGrant{}
		err := rows.Scan(
			&grant.UserID,
			&grant.CategoryID,
			&grant.Granted,
			&grant.GrantedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consent grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consent grant rows: %w", err)
	}

	return grants, nil
}

// Upsert records a grant. Duplicate concurrent writers for the same pair
// converge on the same final row, so no locking is needed.
func (r *ConsentRepository) Upsert(ctx context.Context, grant *models.ConsentGrant) error {
	query := `
		INSERT INTO consent_grants (user_id, category_id, granted, granted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category_id)
		DO UPDATE SET
			granted = EXCLUDED.granted,
			granted_at = EXCLUDED.granted_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		grant.UserID,
		grant.CategoryID,
		grant.Granted,
		grant.GrantedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert consent grant: %w", err)
	}

	r.logger.Debug("consent grant upserted",
		zap.String("user_id", grant.UserID),
		zap.String("category_id", string(grant.CategoryID)),
		zap.Bool("granted", grant.Granted))
	return nil
}

// Revoke sets granted=false for a (user, category) pair. Revoking a pair
// with no row is a no-op.
func (r *ConsentRepository) Revoke(ctx context.Context, userID string, categoryID models.CategoryID) error {
	query := `
		UPDATE consent_grants
		SET granted = false
		WHERE user_id = $1 AND category_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, userID, categoryID); err != nil {
		return fmt.Errorf("failed to revoke consent: %w", err)
	}

	r.logger.Debug("consent revoked",
		zap.String("user_id", userID),
		zap.String("category_id", string(categoryID)))
	return nil
}

// RevokeAll sets granted=false for every grant belonging to a user
func (r *ConsentRepository) RevokeAll(ctx context.Context, userID string) error {
	query := `
		UPDATE consent_grants
		SET granted = false
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke all consents: %w", err)
	}

	r.logger.Debug("all consents revoked", zap.String("user_id", userID))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ConsentRepository) WithTx(tx repositories.Transaction) repositories.ConsentRepository {
	return &ConsentRepository{
		db:     r.db,
		logger: r.logger,
	}
}
