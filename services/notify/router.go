package notify

import (
	"context"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"go.uber.org/zap"
)

// resolver is one stage of the routing chain. It either decides the targets
// for the (user, type) pair or defers to the next stage.
type resolver interface {
	// Resolve returns the canonical targets and whether this stage decided.
	// A decided empty slice is a real answer ("no delivery"), not a deferral.
	Resolve(ctx context.Context, userID string, notificationType models.NotificationType) ([]string, bool, error)
}

// Router resolves the destination channels for completion notifications.
// Stages run in order: the dynamic per-type preference decides when a row
// exists, otherwise the legacy global record is consulted. Resolution is
// read-only; it never creates a default row on a miss.
type Router struct {
	chain  []resolver
	logger *zap.Logger
}

// NewRouter creates a Router over the standard dynamic-then-legacy chain
func NewRouter(prefRepo repositories.PreferenceRepository, logger *zap.Logger) *Router {
	return &Router{
		chain: []resolver{
			&dynamicResolver{prefRepo: prefRepo, logger: logger},
			&legacyResolver{prefRepo: prefRepo, logger: logger},
		},
		logger: logger,
	}
}

// ResolveTargets returns the canonical channel identifiers that should
// receive a notification of the given type, possibly none. Absence of any
// usable channel is a normal terminal state, not an error.
func (r *Router) ResolveTargets(ctx context.Context, userID string, notificationType models.NotificationType) ([]string, error) {
	if !models.IsValidNotificationType(notificationType) {
		return nil, services.ErrUnknownNotificationType
	}

	for _, stage := range r.chain {
		targets, decided, err := stage.Resolve(ctx, userID, notificationType)
		if err != nil {
			return nil, err
		}
		if decided {
			return targets, nil
		}
	}
	return nil, nil
}

// dynamicResolver answers from the per-type preference row. A present row
// fully overrides the legacy record: disabled, or an unusable channel,
// means no delivery with no fallback.
type dynamicResolver struct {
	prefRepo repositories.PreferenceRepository
	logger   *zap.Logger
}

func (d *dynamicResolver) Resolve(ctx context.Context, userID string, notificationType models.NotificationType) ([]string, bool, error) {
	pref, err := d.prefRepo.GetPreference(ctx, userID, notificationType)
	if err != nil {
		return nil, false, services.WrapInternal("failed to load notification preference", err)
	}
	if pref == nil {
		return nil, false, nil
	}

	if !pref.Enabled {
		return nil, true, nil
	}
	target := pref.Channel.Identifier()
	if target == "" {
		// Row present with enabled=true but no usable channel: treated as
		// misconfigured, no delivery. Deliberately not a legacy fallback.
		d.logger.Debug("dynamic preference has no usable channel",
			zap.String("user_id", userID),
			zap.String("notification_type", string(notificationType)))
		return nil, true, nil
	}
	return []string{target}, true, nil
}

// legacyResolver answers from the user's single global record, gated by the
// per-category legacy flags.
type legacyResolver struct {
	prefRepo repositories.PreferenceRepository
	logger   *zap.Logger
}

func (l *legacyResolver) Resolve(ctx context.Context, userID string, notificationType models.NotificationType) ([]string, bool, error) {
	legacy, err := l.prefRepo.GetLegacy(ctx, userID)
	if err != nil {
		return nil, false, services.WrapInternal("failed to load legacy preference", err)
	}
	if legacy == nil || !legacy.FlagFor(notificationType) {
		return nil, true, nil
	}

	target := legacy.Channel.Identifier()
	if target == "" {
		return nil, true, nil
	}
	return []string{target}, true, nil
}
