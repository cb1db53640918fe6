// Package services contains stateless domain services for the product bounded context.
// They enforce business rules on domain types and depend only on the domain layer.
package services

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ghuser/productstore/services/product/domain/models"
)

// MaxNameLength is the longest product name accepted, in runes.
const MaxNameLength = 255

// ValidateName enforces the naming rules shared by create and update:
//   - 1 to 255 characters
//   - not only whitespace
//   - no control characters (Unicode category Cc)
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.New("name must be at most 255 characters")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.New("name must not contain control characters")
		}
	}
	return nil
}

// ValidatePrice requires a strictly positive price.
func ValidatePrice(price float64) error {
	if price <= 0 {
		return errors.New("price must be greater than zero")
	}
	return nil
}

// ValidateQuantity rejects negative stock.
func ValidateQuantity(quantity int) error {
	if quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	return nil
}

// ValidateAttributes checks a full attribute set before creation.
func ValidateAttributes(attrs models.ProductAttributes) error {
	if err := ValidateName(attrs.Name); err != nil {
		return err
	}
	if err := ValidatePrice(attrs.Price); err != nil {
		return err
	}
	return ValidateQuantity(attrs.Quantity)
}

// ValidatePatch checks only the fields a patch sets.
func ValidatePatch(patch models.ProductPatch) error {
	if patch.Name != nil {
		if err := ValidateName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Price != nil {
		if err := ValidatePrice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.Quantity != nil {
		if err := ValidateQuantity(*patch.Quantity); err != nil {
			return err
		}
	}
	return nil
}
