package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"relocation-calculator/domain"
)

// FormatAmount renders an amount as dollars with two decimals.
func FormatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ResultText is the plain-text form of a result handed to the clipboard.
func ResultText(r domain.CalculationResult) string {
	return fmt.Sprintf("Guest Refund: %s\nProperty Invoice: %s",
		FormatAmount(r.GuestRefund), FormatAmount(r.PropertyInvoice))
}

// Breakdown lists the intermediate amounts followed by the result text.
func Breakdown(r domain.CalculationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original out of pocket:    %s\n", FormatAmount(r.OriginalOutOfPocket))
	fmt.Fprintf(&b, "Alternative out of pocket: %s\n", FormatAmount(r.AlternativeOutOfPocket))
	fmt.Fprintf(&b, "Difference:                %s\n", FormatAmount(r.Difference))
	fmt.Fprintf(&b, "Invoice policy:            %s\n\n", r.Policy)
	b.WriteString(ResultText(r))
	return b.String()
}
