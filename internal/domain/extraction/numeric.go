package extraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parsing errors. These never escape Parse as fatal errors; the
// parser converts them into WarnMalformedNumber warnings.
var (
	ErrEmptyNumber     = errors.New("empty numeric token")
	ErrMalformedNumber = errors.New("malformed numeric token")
	ErrNegativeAmount  = errors.New("negative amount")
)

// ParseAmount converts a locale-formatted numeric token into an exact
// fixed-point value with two fractional digits. The target locale uses `.`
// as the thousands separator and `,` as the decimal separator, so
// "2.000,00" parses to 2000.00.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyNumber
	}

	// Strip grouping separators first, then promote the decimal comma.
	s = strings.ReplaceAll(s, ".", "")
	if strings.Count(s, ",") > 1 {
		return decimal.Zero, fmt.Errorf("%w: multiple decimal separators", ErrMalformedNumber)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if s == "." || s == "" {
		return decimal.Zero, ErrEmptyNumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMalformedNumber, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	return d.Round(2), nil
}

// FormatAmount renders a fixed-point value back into the document locale:
// thousands grouped with `.`, decimal `,`, always two fractional digits.
// FormatAmount(ParseAmount(s)) reproduces s for canonical inputs.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
