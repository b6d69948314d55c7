package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sumeet-singh-parmar/aws-commander/models"
)

// OperationRequest describes one cloud management operation. The individual
// operations are plain request/response calls to the cloud API; the broker
// only cares about which credential set they run under.
type OperationRequest struct {
	// Action is the provider-side operation name, e.g. "ec2.list-instances"
	Action string
	// Region the operation executes in
	Region string
	// Params carries the operation's opaque parameters
	Params json.RawMessage
	// RequestID correlates logs across the pipeline
	RequestID string
}

// OperationResult is the uniform success envelope for a cloud operation
type OperationResult struct {
	Action string          `json:"action"`
	Output json.RawMessage `json:"output,omitempty"`
}

// ProviderError is a cloud API rejection carrying the provider's error code.
// The action pipeline maps codes into the credential failure taxonomy.
type ProviderError struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}

// CloudProvider executes management operations against one cloud backend
// using the credential set resolved for the calling user.
type CloudProvider interface {
	// Name returns the provider name
	Name() string

	// Execute runs one operation under the given credentials
	Execute(ctx context.Context, creds *models.Credential, req OperationRequest) (*OperationResult, error)
}
