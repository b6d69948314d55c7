package credential

import (
	"context"
	"strings"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"go.uber.org/zap"
)

// Service resolves the AWS credential set an inbound action executes under.
// Resolution is read-only and uncached: a credential saved by the user is
// visible on the very next resolution.
type Service struct {
	credRepo      repositories.CredentialRepository
	txMgr         repositories.TransactionManager
	defaultRegion string
	logger        *zap.Logger
}

// NewService creates a new credential Service instance
func NewService(credRepo repositories.CredentialRepository, txMgr repositories.TransactionManager, defaultRegion string, logger *zap.Logger) *Service {
	return &Service{
		credRepo:      credRepo,
		txMgr:         txMgr,
		defaultRegion: defaultRegion,
		logger:        logger,
	}
}

// Resolve returns the credential set for a user. It does not call AWS to
// pre-validate the secret; provider rejections are mapped by the caller via
// MapProviderError so every consumer sees one failure taxonomy.
func (s *Service) Resolve(ctx context.Context, userID string) (*models.Credential, error) {
	if strings.TrimSpace(userID) == "" {
		// Treated identically to "no record found" by callers.
		return nil, services.ErrCredentialsUnconfigured
	}

	cred, err := s.credRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, services.WrapInternal("failed to load credentials", err)
	}
	if cred == nil {
		s.logger.Debug("no credentials configured", zap.String("user_id", userID))
		return nil, services.ErrCredentialsUnconfigured
	}

	if cred.Region == "" {
		cred.Region = s.defaultRegion
	}
	return cred, nil
}

// SaveRequest carries a full credential set submitted from the setup card
type SaveRequest struct {
	UserID          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}

// Save replaces the user's credential record wholesale. The delete and
// insert run in one transaction so re-submission behaves exactly like a
// fresh setup, never a partial patch.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*models.Credential, error) {
	if req.UserID == "" || req.AccessKeyID == "" || req.SecretAccessKey == "" {
		return nil, services.ErrInvalidInput
	}

	cred := models.NewCredential(req.UserID, req.AccessKeyID, req.SecretAccessKey)
	cred.SessionToken = req.SessionToken
	cred.Region = req.Region

	err := s.txMgr.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		repo := s.credRepo.WithTx(tx)
		if err := repo.Delete(txCtx, req.UserID); err != nil {
			return err
		}
		return repo.Save(txCtx, cred)
	})
	if err != nil {
		return nil, services.WrapInternal("failed to save credentials", err)
	}

	s.logger.Info("credentials saved",
		zap.String("user_id", req.UserID),
		zap.String("access_key_id", cred.MaskedAccessKeyID()))
	return cred, nil
}

// Delete removes the user's credential record. Deleting an absent record
// succeeds: the end state is the same.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return services.ErrInvalidInput
	}
	if err := s.credRepo.Delete(ctx, userID); err != nil {
		return services.WrapInternal("failed to delete credentials", err)
	}
	s.logger.Info("credentials deleted", zap.String("user_id", userID))
	return nil
}

// awsErrorKinds maps AWS error codes to the credential failure taxonomy.
// Every action wrapper funnels provider rejections through this table so
// UNCONFIGURED / INVALID / EXPIRED / FORBIDDEN behave uniformly regardless
// of which underlying AWS error produced them.
var awsErrorKinds = map[string]*services.DomainError{
	"InvalidClientTokenId":       services.ErrCredentialsInvalid,
	"SignatureDoesNotMatch":      services.ErrCredentialsInvalid,
	"AuthFailure":                services.ErrCredentialsInvalid,
	"InvalidAccessKeyId":         services.ErrCredentialsInvalid,
	"MissingAuthenticationToken": services.ErrCredentialsInvalid,
	"ExpiredToken":               services.ErrCredentialsExpired,
	"ExpiredTokenException":      services.ErrCredentialsExpired,
	"RequestExpired":             services.ErrCredentialsExpired,
	"AccessDenied":               services.ErrCredentialsForbidden,
	"AccessDeniedException":      services.ErrCredentialsForbidden,
	"UnauthorizedOperation":      services.ErrCredentialsForbidden,
	"UnauthorizedAccess":         services.ErrCredentialsForbidden,
	"OptInRequired":              services.ErrCredentialsForbidden,
	"NotAuthorizedException":     services.ErrCredentialsForbidden,
}

// MapProviderError converts an AWS error code from a failed cloud call into
// the shared credential failure taxonomy. Codes outside the taxonomy come
// back as external provider errors.
func MapProviderError(code string, err error) error {
	if kind, ok := awsErrorKinds[code]; ok {
		return services.NewDomainError(kind.Type, kind.Message, err).WithDetail("aws_error_code", code)
	}
	return services.WrapExternal("cloud provider call failed", err)
}
