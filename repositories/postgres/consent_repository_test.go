package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumeet-singh-parmar/aws-commander/models"
	"go.uber.org/zap"
)

func TestConsentRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the grant row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewConsentRepository(db, zap.NewNop())

		rows := sqlmock.NewRows([]string{"user_id", "category_id", "granted", "granted_at"}).
			AddRow("U123", "cost-query", true, time.Now())
		mock.ExpectQuery("SELECT (.+) FROM consent_grants").WithArgs("U123", models.CategoryCostQuery).WillReturnRows(rows)

		grant, err := repo.Get(ctx, "U123", models.CategoryCostQuery)

		require.NoError(t, err)
		assert.Equal(t, models.CategoryCostQuery, grant.CategoryID)
		assert.True(t, grant.Granted)
	})

	t.Run("absence is nil nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewConsentRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM consent_grants").WithArgs("U123", models.CategoryAIAssist).WillReturnError(sql.ErrNoRows)

		grant, err := repo.Get(ctx, "U123", models.CategoryAIAssist)

		assert.NoError(t, err)
		assert.Nil(t, grant)
	})
}

func TestConsentRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewConsentRepository(db, zap.NewNop())

	grant := models.NewConsentGrant("U123", models.CategoryCostQuery)

	// Re-running the same grant drives the same upsert; the ON CONFLICT
	// clause makes the write idempotent without locking.
	mock.ExpectExec("INSERT INTO consent_grants").
		WithArgs("U123", models.CategoryCostQuery, true, grant.GrantedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO consent_grants").
		WithArgs("U123", models.CategoryCostQuery, true, grant.GrantedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(ctx, grant))
	require.NoError(t, repo.Upsert(ctx, grant))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewConsentRepository(db, zap.NewNop())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id", "category_id", "granted", "granted_at"}).
		AddRow("U123", "ai-assist", false, now).
		AddRow("U123", "cost-query", true, now)
	mock.ExpectQuery("SELECT (.+) FROM consent_grants").WithArgs("U123").WillReturnRows(rows)

	grants, err := repo.ListByUserID(ctx, "U123")

	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, models.CategoryAIAssist, grants[0].CategoryID)
	assert.False(t, grants[0].Granted)
	assert.True(t, grants[1].Granted)
}

func TestConsentRepository_Revoke(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewConsentRepository(db, zap.NewNop())

	t.Run("sets granted false", func(t *testing.T) {
		mock.ExpectExec("UPDATE consent_grants").WithArgs("U123", models.CategoryCostQuery).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Revoke(ctx, "U123", models.CategoryCostQuery))
	})

	t.Run("revoking an absent row is a no-op", func(t *testing.T) {
		mock.ExpectExec("UPDATE consent_grants").WithArgs("U404", models.CategoryCostQuery).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Revoke(ctx, "U404", models.CategoryCostQuery))
	})
}

func TestConsentRepository_RevokeAll(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewConsentRepository(db, zap.NewNop())

	mock.ExpectExec("UPDATE consent_grants").WithArgs("U123").
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.RevokeAll(ctx, "U123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
