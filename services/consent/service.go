package consent

import (
	"context"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"go.uber.org/zap"
)

// Decision is the outcome of a consent check for one action
type Decision struct {
	Allowed bool `json:"allowed"`

	// Set when blocked, so the caller can render a consent prompt
	CategoryID      models.CategoryID `json:"category_id,omitempty"`
	CategoryLabel   string            `json:"category_label,omitempty"`
	CostDescription string            `json:"cost_description,omitempty"`
}

// Service gates metered action categories behind explicit per-user consent.
// The metered catalog is the static models.PaidCategoryCatalog; the gate is
// never configured at runtime.
type Service struct {
	consentRepo repositories.ConsentRepository
	logger      *zap.Logger
}

// NewService creates a new consent Service instance
func NewService(consentRepo repositories.ConsentRepository, logger *zap.Logger) *Service {
	return &Service{
		consentRepo: consentRepo,
		logger:      logger,
	}
}

// Check decides whether a metered action may proceed.
//
// Non-metered categories always pass. For metered categories an existing
// grant wins regardless of the explicitConsent flag on this call. Without a
// grant, explicitConsent=false blocks with no side effect, and
// explicitConsent=true persists the grant before the action is allowed to
// proceed, so a crash after the write leaves a retry needing no re-consent.
func (s *Service) Check(ctx context.Context, userID string, categoryID models.CategoryID, explicitConsent bool) (*Decision, error) {
	category, metered := models.LookupPaidCategory(categoryID)
	if !metered || !category.GateRequired {
		return &Decision{Allowed: true}, nil
	}

	grant, err := s.consentRepo.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, services.WrapInternal("failed to load consent grant", err)
	}
	if grant != nil && grant.Granted {
		return &Decision{Allowed: true}, nil
	}

	if !explicitConsent {
		s.logger.Info("metered action blocked pending consent",
			zap.String("user_id", userID),
			zap.String("category_id", string(categoryID)))
		return &Decision{
			Allowed:         false,
			CategoryID:      category.ID,
			CategoryLabel:   category.Label,
			CostDescription: category.CostDescription,
		}, nil
	}

	// Two simultaneous first-time writers converge to the same row; the
	// upsert is idempotent so no lock is taken.
	if err := s.consentRepo.Upsert(ctx, models.NewConsentGrant(userID, categoryID)); err != nil {
		return nil, services.WrapInternal("failed to record consent grant", err)
	}

	s.logger.Info("consent granted",
		zap.String("user_id", userID),
		zap.String("category_id", string(categoryID)))
	return &Decision{Allowed: true}, nil
}

// Grant records an explicit opt-in outside the action path (settings surface)
func (s *Service) Grant(ctx context.Context, userID string, categoryID models.CategoryID) error {
	if _, metered := models.LookupPaidCategory(categoryID); !metered {
		return services.ErrUnknownCategory
	}
	if err := s.consentRepo.Upsert(ctx, models.NewConsentGrant(userID, categoryID)); err != nil {
		return services.WrapInternal("failed to record consent grant", err)
	}
	s.logger.Info("consent granted",
		zap.String("user_id", userID),
		zap.String("category_id", string(categoryID)))
	return nil
}

// Revoke withdraws consent for one category. Revocation only ever happens
// through this explicit operation, never as a side effect of a failed check.
func (s *Service) Revoke(ctx context.Context, userID string, categoryID models.CategoryID) error {
	if _, metered := models.LookupPaidCategory(categoryID); !metered {
		return services.ErrUnknownCategory
	}
	if err := s.consentRepo.Revoke(ctx, userID, categoryID); err != nil {
		return services.WrapInternal("failed to revoke consent", err)
	}
	s.logger.Info("consent revoked",
		zap.String("user_id", userID),
		zap.String("category_id", string(categoryID)))
	return nil
}

// RevokeAll withdraws consent for every category the user has granted
func (s *Service) RevokeAll(ctx context.Context, userID string) error {
	if err := s.consentRepo.RevokeAll(ctx, userID); err != nil {
		return services.WrapInternal("failed to revoke consents", err)
	}
	s.logger.Info("all consents revoked", zap.String("user_id", userID))
	return nil
}

// GrantStatus pairs a catalog entry with the user's current grant state
type GrantStatus struct {
	Category models.PaidCategory `json:"category"`
	Granted  bool                `json:"granted"`
}

// List returns the grant state for every metered category in the catalog
func (s *Service) List(ctx context.Context, userID string) ([]GrantStatus, error) {
	grants, err := s.consentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, services.WrapInternal("failed to list consent grants", err)
	}

	granted := make(map[models.CategoryID]bool, len(grants))
	for _, g := range grants {
		granted[g.CategoryID] = g.Granted
	}

	statuses := make([]GrantStatus, 0, len(models.PaidCategoryCatalog))
	for _, id := range []models.CategoryID{models.CategoryCostQuery, models.CategoryAIAssist, models.CategoryFunctionInvoke} {
		statuses = append(statuses, GrantStatus{
			Category: models.PaidCategoryCatalog[id],
			Granted:  granted[id],
		})
	}
	return statuses, nil
}
