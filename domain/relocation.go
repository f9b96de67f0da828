package domain

import "github.com/shopspring/decimal"

// Field identifies a form input by its form name.
type Field string

const (
	FieldOriginalPrice         Field = "originalPrice"
	FieldAlternativePrice      Field = "alternativePrice"
	FieldBSBDiscount           Field = "bsbDiscount"
	FieldDiscountOnOriginal    Field = "discountOnOriginal"
	FieldDiscountOnAlternative Field = "discountOnAlternative"
)

// Label is the text shown next to the field's input.
func (f Field) Label() string {
	switch f {
	case FieldOriginalPrice:
		return "Original Accommodation Cost (Including Taxes & Fees)"
	case FieldAlternativePrice:
		return "Alternative Accommodation Cost (Including Taxes & Fees)"
	case FieldBSBDiscount:
		return "Booking Sponsored Benefit (BSB) Discount"
	case FieldDiscountOnOriginal:
		return "BSB Discount on Original Accommodation"
	case FieldDiscountOnAlternative:
		return "BSB Discount on Alternative Accommodation"
	}
	return string(f)
}

// IsPrice reports whether the field holds a price (as opposed to a discount).
func (f Field) IsPrice() bool {
	return f == FieldOriginalPrice || f == FieldAlternativePrice
}

// Variant selects the shape of the discount inputs.
type Variant string

const (
	// VariantSingle applies one BSB discount to both accommodations.
	VariantSingle Variant = "single"
	// VariantDual takes a separate discount for each accommodation.
	VariantDual Variant = "dual"
)

// Fields returns the form fields of the variant in display order.
func (v Variant) Fields() []Field {
	if v == VariantDual {
		return []Field{
			FieldOriginalPrice,
			FieldAlternativePrice,
			FieldDiscountOnOriginal,
			FieldDiscountOnAlternative,
		}
	}
	return []Field{
		FieldOriginalPrice,
		FieldAlternativePrice,
		FieldBSBDiscount,
	}
}

// InitialValues returns the values a fresh form starts with.
func (v Variant) InitialValues() map[Field]string {
	values := make(map[Field]string, 4)
	for _, f := range v.Fields() {
		values[f] = ""
	}
	if v == VariantDual {
		values[FieldDiscountOnOriginal] = "0"
	}
	return values
}

// InvoicePolicy selects how the property invoice is derived.
type InvoicePolicy string

const (
	// PolicyAlternativePrice bills the full alternative price whenever the
	// guest is owed a refund.
	PolicyAlternativePrice InvoicePolicy = "alternative-price"
	// PolicyOutOfPocketExcess bills what the alternative costs out of pocket
	// above the original price.
	PolicyOutOfPocketExcess InvoicePolicy = "out-of-pocket-excess"
)

// CalculationInput is a validated set of prices and discounts.
type CalculationInput struct {
	OriginalPrice         decimal.Decimal
	AlternativePrice      decimal.Decimal
	DiscountOnOriginal    decimal.Decimal
	DiscountOnAlternative decimal.Decimal
}

// CalculationResult is recomputed on every submission and never persisted.
type CalculationResult struct {
	OriginalOutOfPocket    decimal.Decimal
	AlternativeOutOfPocket decimal.Decimal
	Difference             decimal.Decimal
	GuestRefund            decimal.Decimal
	PropertyInvoice        decimal.Decimal
	Policy                 InvoicePolicy
}
