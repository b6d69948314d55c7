package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `validate:"required,max=10"`
	Kind   string `validate:"oneof=alpha beta"`
	Region string `validate:"max=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(sampleRequest{Name: "ok", Kind: "alpha"})
	assert.NoError(t, err)
}

func TestValidateStruct_RequiredAndOneof(t *testing.T) {
	err := ValidateStruct(sampleRequest{Kind: "gamma"})
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	fields := GetValidationFields(err)
	assert.Equal(t, "Name is required", fields["Name"])
	assert.Equal(t, "Kind must be one of: alpha beta", fields["Kind"])
}

func TestValidateStruct_MaxLength(t *testing.T) {
	err := ValidateStruct(sampleRequest{Name: "far-too-long-a-name", Kind: "alpha"})
	require.Error(t, err)

	fields := GetValidationFields(err)
	assert.Equal(t, "Name must be at most 10 characters", fields["Name"])
}

func TestValidationError_FieldDetails(t *testing.T) {
	err := ValidateStruct(sampleRequest{Kind: "alpha", Region: "eu-west-1"})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	details := ve.FieldDetails()
	assert.Len(t, details, 2)
	assert.Contains(t, details, "Name")
	assert.Contains(t, details, "Region")
}

func TestIsValidationError_OtherErrors(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.Nil(t, GetValidationFields(errors.New("boom")))

	wrapped := fmt.Errorf("decoding: %w", &ValidationError{Message: "validation failed"})
	assert.True(t, IsValidationError(wrapped))
}
