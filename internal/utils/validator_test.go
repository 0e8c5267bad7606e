package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidCPF(t *testing.T) {
	assert.True(t, IsValidCPF("529.982.247-25"))
	assert.True(t, IsValidCPF("11144477735"))
	assert.False(t, IsValidCPF("52998224726"))
	assert.False(t, IsValidCPF("11111111111"))
	assert.False(t, IsValidCPF("1234"))
}

type sampleRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,branch_code"`
	CPF  string `json:"cpf" validate:"omitempty,cpf"`
	Role string `json:"role" validate:"omitempty,role"`
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(sampleRequest{Code: "a b", CPF: "123", Role: "owner"})
	require.Error(t, err)

	fields := map[string]string{}
	for _, e := range GetValidationErrors(err) {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, map[string]string{
		"name": "required",
		"code": "branch_code",
		"cpf":  "cpf",
		"role": "role",
	}, fields)

	assert.NoError(t, ValidateStruct(sampleRequest{Name: "Centro", Code: "FT001", Role: "User"}))
}
