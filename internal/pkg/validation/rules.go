package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// National ID (CPF) pattern - 000.000.000-00
	NationalIDPattern = `^\d{3}\.\d{3}\.\d{3}-\d{2}$`

	// Field length rules for card issuance
	FullNameMinLength         = 5
	EnrollmentNumberMinLength = 4
	CourseMinLength           = 3
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	NationalID *regexp.Regexp
}{
	NationalID: regexp.MustCompile(NationalIDPattern),
}

// IsValidNationalID reports whether the value matches the CPF format.
func IsValidNationalID(value string) bool {
	return CompiledPatterns.NationalID.MatchString(value)
}

// RegisterCustomValidators installs card-specific rules into gin's binding
// engine so request DTOs can use them in binding tags.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return IsValidNationalID(fl.Field().String())
	})
}
