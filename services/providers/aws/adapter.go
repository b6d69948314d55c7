package aws

import (
	"context"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/services/providers"
	"go.uber.org/zap"
)

// Adapter executes management operations against AWS service APIs.
// TODO: wire aws-sdk-go-v2 service clients per operation family (EC2, S3,
// Lambda, CloudWatch, SQS, RDS, Cost Explorer).
type Adapter struct {
	logger *zap.Logger
}

// NewAdapter creates a new AWS adapter
func NewAdapter(logger *zap.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return "aws"
}

// Execute runs one operation under the given credentials
func (a *Adapter) Execute(ctx context.Context, creds *models.Credential, req providers.OperationRequest) (*providers.OperationResult, error) {
	a.logger.Debug("executing cloud operation",
		zap.String("action", req.Action),
		zap.String("region", req.Region),
		zap.String("request_id", req.RequestID))

	return nil, &providers.ProviderError{
		Code:    "UnsupportedOperation",
		Message: "operation not implemented: " + req.Action,
	}
}
