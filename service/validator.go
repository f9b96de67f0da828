package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"relocation-calculator/domain"
)

// Amounts outside these bounds are not meaningful money values. They are
// refused before any arithmetic since decimal scales without limit.
const (
	minAmountExponent = -20
	maxAmountExponent = 15
)

var maxAmount = decimal.New(1, maxAmountExponent)

// ValidateField checks a single raw value. Prices must be positive, discounts
// must be zero or more, and both must be present and numeric.
func ValidateField(field domain.Field, raw string) (decimal.Decimal, *domain.ValidationError) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, &domain.ValidationError{Field: field, Reason: domain.ReasonRequired}
	}

	d, err := decimal.NewFromString(value)
	if err != nil || !inAmountRange(d) {
		return decimal.Zero, &domain.ValidationError{Field: field, Reason: domain.ReasonNotANumber}
	}

	if field.IsPrice() && !d.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Field: field, Reason: domain.ReasonPositive}
	}
	if !field.IsPrice() && d.IsNegative() {
		return decimal.Zero, &domain.ValidationError{Field: field, Reason: domain.ReasonNonNegative}
	}
	return d, nil
}

func inAmountRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.Abs().LessThan(maxAmount)
}

// ValidateAll checks every field of the variant and returns the errors keyed
// by field. The map is empty when the input is valid.
func ValidateAll(variant domain.Variant, raw map[domain.Field]string) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	for _, f := range variant.Fields() {
		if _, verr := ValidateField(f, raw[f]); verr != nil {
			errs[f] = *verr
		}
	}
	return errs
}

// ValidateInput turns raw form values into a CalculationInput. In the single
// variant the BSB discount is applied to both accommodations.
func ValidateInput(
	variant domain.Variant,
	raw map[domain.Field]string,
) (domain.CalculationInput, error) {

	if errs := ValidateAll(variant, raw); len(errs) > 0 {
		return domain.CalculationInput{}, errs
	}

	value := func(f domain.Field) decimal.Decimal {
		d, _ := ValidateField(f, raw[f])
		return d
	}

	input := domain.CalculationInput{
		OriginalPrice:    value(domain.FieldOriginalPrice),
		AlternativePrice: value(domain.FieldAlternativePrice),
	}

	if variant == domain.VariantDual {
		input.DiscountOnOriginal = value(domain.FieldDiscountOnOriginal)
		input.DiscountOnAlternative = value(domain.FieldDiscountOnAlternative)
	} else {
		bsb := value(domain.FieldBSBDiscount)
		input.DiscountOnOriginal = bsb
		input.DiscountOnAlternative = bsb
	}

	return input, nil
}
