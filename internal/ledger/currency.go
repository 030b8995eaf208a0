package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// All amounts in this package are int64 paise (1 INR = 100 paise).
// Fixed-point arithmetic keeps the reconciliation properties exact; the
// only rounding happens in applyPercent, once per derived amount.

// ToPaise converts a decimal rupee string like "40.50" to 4050.
func ToPaise(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	negative := false
	if strings.HasPrefix(amount, "-") {
		negative = true
		amount = amount[1:]
	} else if strings.HasPrefix(amount, "+") {
		amount = amount[1:]
	}

	parts := strings.SplitN(amount, ".", 2)
	whole, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	result := whole * 100
	if len(parts) == 2 && parts[1] != "" {
		frac := parts[1]
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q: more than two decimal places", amount)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fractional amount %q: %w", amount, err)
		}
		result += f
	}

	if negative {
		result = -result
	}
	return result, nil
}

// FormatRupees converts paise to a display string. E.g. 4050 -> "40.50".
func FormatRupees(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// FormatSigned renders negative amounts in accounting parentheses.
func FormatSigned(amount int64) string {
	if amount < 0 {
		return "(" + FormatRupees(-amount) + ")"
	}
	return FormatRupees(amount)
}

// applyPercent applies a percentage to a paise amount, rounding half away
// from zero so the result is again an exact paise value.
func applyPercent(amount int64, percent float64) int64 {
	return int64(math.Round(float64(amount) * percent / 100))
}

// mulQty multiplies a paise rate by a possibly fractional quantity.
func mulQty(rate int64, qty float64) int64 {
	return int64(math.Round(float64(rate) * qty))
}
