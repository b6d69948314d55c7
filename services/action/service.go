package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"github.com/sumeet-singh-parmar/aws-commander/services/consent"
	"github.com/sumeet-singh-parmar/aws-commander/services/credential"
	"github.com/sumeet-singh-parmar/aws-commander/services/notify"
	"github.com/sumeet-singh-parmar/aws-commander/services/providers"
	"go.uber.org/zap"
)

// Request is one inbound management action
type Request struct {
	UserID          string
	Action          string
	CategoryID      models.CategoryID
	NotifyType      models.NotificationType
	Params          json.RawMessage
	ExplicitConsent bool
	RequestID       string
}

// Result is the uniform outcome envelope for one action
type Result struct {
	// Blocked is set instead of Output when consent is still required
	Blocked *consent.Decision          `json:"blocked,omitempty"`
	Output  *providers.OperationResult `json:"output,omitempty"`
}

// Service orchestrates the gate pipeline for inbound actions: credentials
// gate everything, consent gates metered categories, and notification
// routing runs off the response path after a successful cloud call.
type Service struct {
	credentials *credential.Service
	consents    *consent.Service
	registry    *providers.Registry
	dispatcher  *notify.Dispatcher
	logger      *zap.Logger
}

// NewService creates a new action Service instance
func NewService(
	credentials *credential.Service,
	consents *consent.Service,
	registry *providers.Registry,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		credentials: credentials,
		consents:    consents,
		registry:    registry,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Execute runs one action through the full pipeline. The credential and
// consent gates both pass before any cloud call is made; a Blocked result
// carries the consent prompt payload and records nothing.
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	creds, err := s.credentials.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	decision, err := s.consents.Check(ctx, req.UserID, req.CategoryID, req.ExplicitConsent)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return &Result{Blocked: decision}, nil
	}

	provider, ok := s.registry.ForAction(req.Action)
	if !ok {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("no provider registered for action %q", req.Action), nil)
	}

	output, err := provider.Execute(ctx, creds, providers.OperationRequest{
		Action:    req.Action,
		Region:    creds.Region,
		Params:    req.Params,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, s.mapProviderError(req, err)
	}

	s.logger.Info("action completed",
		zap.String("user_id", req.UserID),
		zap.String("action", req.Action),
		zap.String("request_id", req.RequestID))

	// Routing and delivery run off the response path; their outcome never
	// changes the result already produced for this action.
	if req.NotifyType != "" {
		s.dispatcher.DispatchAsync(notify.Notification{
			UserID:    req.UserID,
			Type:      req.NotifyType,
			Message:   fmt.Sprintf("Action %s completed", req.Action),
			RequestID: req.RequestID,
		})
	}

	return &Result{Output: output}, nil
}

// mapProviderError funnels cloud API rejections into the shared credential
// failure taxonomy so every action wrapper surfaces UNCONFIGURED / INVALID /
// EXPIRED / FORBIDDEN uniformly.
func (s *Service) mapProviderError(req Request, err error) error {
	var provErr *providers.ProviderError
	if errors.As(err, &provErr) {
		mapped := credential.MapProviderError(provErr.Code, err)
		s.logger.Warn("cloud operation rejected",
			zap.String("user_id", req.UserID),
			zap.String("action", req.Action),
			zap.String("aws_error_code", provErr.Code),
			zap.String("request_id", req.RequestID))
		return mapped
	}
	s.logger.Error("cloud operation failed",
		zap.String("user_id", req.UserID),
		zap.String("action", req.Action),
		zap.String("request_id", req.RequestID),
		zap.Error(err))
	return services.WrapExternal("cloud operation failed", err)
}
