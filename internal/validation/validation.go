// Package validation checks struct tags with go-playground/validator and
// reports failures as English sentences wrapped in models.ErrInvalidInput.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/mmynk/youome/internal/models"
)

// Validator validates structs and translates the errors.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a Validator with the default English translations.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	eng := en.New()
	uni := ut.New(eng, eng)

	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}
	return &Validator{validate: validate, translator: translator}, nil
}

// Struct validates v. Field errors are translated and joined in field
// order into one ErrInvalidInput.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	// translate all error at once
	translated := errs.Translate(v.translator)
	fields := make([]string, 0, len(translated))
	for field := range translated {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, translated[field])
	}
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, strings.Join(msgs, "; "))
}
