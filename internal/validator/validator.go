// Package validator is the final structural gate before a deal is
// persisted. The normalizer should only emit valid deals; this catches
// drift between the two.
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/brandsnobs/deals-backend/internal/models"
)

var validate = validator.New()

// ValidateDeal checks a deal against the struct tags on models.Deal
// (required title/brand/link, positive prices, valid link URL).
func ValidateDeal(deal models.Deal) error {
	if err := validate.Struct(deal); err != nil {
		return fmt.Errorf("deal %s failed validation: %w", deal.ID, err)
	}
	return nil
}
