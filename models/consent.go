package models

import (
	"time"
)

// CategoryID identifies a metered action category
type CategoryID string

const (
	CategoryCostQuery      CategoryID = "cost-query"
	CategoryAIAssist       CategoryID = "ai-assist"
	CategoryFunctionInvoke CategoryID = "function-invoke"
)

// PaidCategory describes a metered action category. The catalog is static
// reference data: the set of metered categories is fixed at compile time,
// never configured at runtime.
type PaidCategory struct {
	ID              CategoryID `json:"id"`
	Label           string     `json:"label"`
	CostDescription string     `json:"cost_description"`
	GateRequired    bool       `json:"gate_required"`
}

// PaidCategoryCatalog maps category id to its metadata for every metered category.
var PaidCategoryCatalog = map[CategoryID]PaidCategory{
	CategoryCostQuery: {
		ID:              CategoryCostQuery,
		Label:           "Cost Explorer query",
		CostDescription: "$0.01 per API request billed by AWS Cost Explorer",
		GateRequired:    true,
	},
	CategoryAIAssist: {
		ID:              CategoryAIAssist,
		Label:           "AI assistant",
		CostDescription: "Bedrock model invocation billed per input/output token",
		GateRequired:    true,
	},
	CategoryFunctionInvoke: {
		ID:              CategoryFunctionInvoke,
		Label:           "Lambda invocation",
		CostDescription: "Billed per request and per GB-second of execution",
		GateRequired:    true,
	},
}

// LookupPaidCategory returns the catalog entry for a category id.
// The second return value is false for non-metered categories.
func LookupPaidCategory(id CategoryID) (PaidCategory, bool) {
	cat, ok := PaidCategoryCatalog[id]
	return cat, ok
}

// ConsentGrant represents a user's recorded opt-in to a metered category.
// Granted is monotonic: once true it stays true until an explicit revoke.
type ConsentGrant struct {
	UserID     string     `json:"user_id" db:"user_id"`
	CategoryID CategoryID `json:"category_id" db:"category_id"`
	Granted    bool       `json:"granted" db:"granted"`
	GrantedAt  time.Time  `json:"granted_at" db:"granted_at"`
}

// TableName returns the table name for the ConsentGrant model
func (ConsentGrant) TableName() string {
	return "consent_grants"
}

// NewConsentGrant creates a granted ConsentGrant instance
func NewConsentGrant(userID string, categoryID CategoryID) *ConsentGrant {
	return &ConsentGrant{
		UserID:     userID,
		CategoryID: categoryID,
		Granted:    true,
		GrantedAt:  time.Now(),
	}
}
