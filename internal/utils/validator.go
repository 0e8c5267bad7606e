// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/imob-backoffice/internal/models"
)

var validate *validator.Validate

var branchCodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{2,20}$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("cpf", validateCPF)
	validate.RegisterValidation("branch_code", validateBranchCode)
	validate.RegisterValidation("role", validateRole)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// NormalizeCPF strips the usual 000.000.000-00 punctuation.
func NormalizeCPF(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF checks length and both check digits. Sequences of one repeated
// digit pass the arithmetic but are not issued, so they are rejected.
func IsValidCPF(s string) bool {
	cpf := NormalizeCPF(s)
	if len(cpf) != 11 {
		return false
	}
	if strings.Count(cpf, cpf[:1]) == 11 {
		return false
	}

	digits := make([]int, 11)
	for i := range cpf {
		digits[i] = int(cpf[i] - '0')
	}

	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += digits[i] * (n + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != digits[n] {
			return false
		}
	}
	return true
}

func validateCPF(fl validator.FieldLevel) bool {
	return IsValidCPF(fl.Field().String())
}

func validateBranchCode(fl validator.FieldLevel) bool {
	return branchCodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := models.ParseRole(fl.Field().String())
	return ok
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gtfield":
		return e.Field() + " must be after " + e.Param()
	case "cpf":
		return "Invalid CPF"
	case "branch_code":
		return "Branch code must be 2-20 letters, digits or dashes"
	case "role":
		return "Role must be one of admin, manager, agent, assistant"
	default:
		return e.Field() + " is invalid"
	}
}
