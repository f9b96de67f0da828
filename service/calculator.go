package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"relocation-calculator/domain"
)

var (
	ErrUnknownVariant = errors.New("unknown form variant")
	ErrUnknownPolicy  = errors.New("unknown invoice policy")
)

// ParseVariant accepts "single" or "dual". An empty string selects the default.
func ParseVariant(s string) (domain.Variant, error) {
	switch v := domain.Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return DefaultVariant, nil
	case domain.VariantSingle, domain.VariantDual:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// ParsePolicy accepts the policy names, plus "a" and "b" as shorthands.
// An empty string selects the default.
func ParsePolicy(s string) (domain.InvoicePolicy, error) {
	switch p := strings.ToLower(strings.TrimSpace(s)); p {
	case "":
		return DefaultPolicy, nil
	case "a", string(domain.PolicyAlternativePrice):
		return domain.PolicyAlternativePrice, nil
	case "b", string(domain.PolicyOutOfPocketExcess):
		return domain.PolicyOutOfPocketExcess, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Calculate derives the guest refund and property invoice. It has no side
// effects; the zero policy is treated as DefaultPolicy.
func Calculate(
	input domain.CalculationInput,
	policy domain.InvoicePolicy,
) domain.CalculationResult {

	if policy == "" {
		policy = DefaultPolicy
	}

	originalOutOfPocket := input.OriginalPrice.Sub(input.DiscountOnOriginal)
	alternativeOutOfPocket := input.AlternativePrice.Sub(input.DiscountOnAlternative)
	difference := alternativeOutOfPocket.Sub(originalOutOfPocket)

	var invoice decimal.Decimal
	switch policy {
	case domain.PolicyOutOfPocketExcess:
		invoice = decimal.Max(alternativeOutOfPocket.Sub(input.OriginalPrice), decimal.Zero)
	default:
		invoice = decimal.Zero
		if difference.IsPositive() {
			invoice = input.AlternativePrice
		}
	}

	return domain.CalculationResult{
		OriginalOutOfPocket:    originalOutOfPocket,
		AlternativeOutOfPocket: alternativeOutOfPocket,
		Difference:             difference,
		GuestRefund:            decimal.Max(difference, decimal.Zero),
		PropertyInvoice:        invoice,
		Policy:                 policy,
	}
}
