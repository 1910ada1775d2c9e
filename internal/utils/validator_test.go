// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type percentFixture struct {
	Percent float64 `validate:"percent"`
}

type cnpjFixture struct {
	CNPJ string `validate:"cnpj"`
}

type passwordFixture struct {
	Password string `validate:"strong_password"`
}

func TestPercentValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&percentFixture{Percent: 0}))
	assert.NoError(t, ValidateStruct(&percentFixture{Percent: 30}))
	assert.NoError(t, ValidateStruct(&percentFixture{Percent: 100}))
	assert.Error(t, ValidateStruct(&percentFixture{Percent: -1}))
	assert.Error(t, ValidateStruct(&percentFixture{Percent: 100.5}))
}

func TestCNPJValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&cnpjFixture{CNPJ: "12345678000195"}))
	assert.NoError(t, ValidateStruct(&cnpjFixture{CNPJ: "12.345.678/0001-95"}))
	assert.Error(t, ValidateStruct(&cnpjFixture{CNPJ: "1234567800019"}))
	assert.Error(t, ValidateStruct(&cnpjFixture{CNPJ: "not-a-cnpj"}))
}

func TestStrongPasswordValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&passwordFixture{Password: "SecurePass123!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "short1!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "alllowercase123!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "NoNumbersHere!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "NoSpecials123"}))
}

func TestValidationErrorMessages(t *testing.T) {
	err := ValidateStruct(&percentFixture{Percent: 150})
	errs := GetValidationErrors(err)

	assert.Len(t, errs, 1)
	assert.Equal(t, "percent", errs[0].Field)
	assert.Equal(t, "Percent must be between 0 and 100", errs[0].Message)
}
