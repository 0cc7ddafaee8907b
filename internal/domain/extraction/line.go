package extraction

import "strings"

// LineKind is the classification of a single input line. It is computed once
// per line and drives every later stage, so no stage re-tests string shape.
type LineKind int

const (
	// KindText is the catch-all: item-name words, unit words, stray
	// annotations.
	KindText LineKind = iota
	// KindCPVCode is a line that is exactly eight decimal digits.
	KindCPVCode
	// KindCPVSuffix is a hyphen followed by exactly one decimal digit. It
	// only carries meaning immediately after a KindCPVCode line.
	KindCPVSuffix
	// KindNumeric is a locale-formatted number: digits with optional `.`
	// grouping separators and at most one `,` decimal separator.
	KindNumeric
)

// String implements fmt.Stringer for log and warning messages.
func (k LineKind) String() string {
	switch k {
	case KindCPVCode:
		return "cpv_code"
	case KindCPVSuffix:
		return "cpv_suffix"
	case KindNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// ClassifyLine tags one raw line (already trimmed by the caller) with its
// LineKind. Pure function of the line's character content.
func ClassifyLine(line string) LineKind {
	switch {
	case isCPVCode(line):
		return KindCPVCode
	case isCPVSuffix(line):
		return KindCPVSuffix
	case isNumericToken(line):
		return KindNumeric
	default:
		return KindText
	}
}

func isCPVCode(s string) bool {
	if len(s) != 8 {
		return false
	}
	return allDigits(s)
}

func isCPVSuffix(s string) bool {
	return len(s) == 2 && s[0] == '-' && isDigit(s[1])
}

// isNumericToken reports whether the line is purely numeric under the target
// locale: only digits, `.` grouping separators and `,` decimal separators,
// with at least one digit and at most one comma.
func isNumericToken(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		switch {
		case isDigit(s[i]):
			digits++
		case s[i] == '.' || s[i] == ',':
		default:
			return false
		}
	}
	return digits > 0 && strings.Count(s, ",") <= 1
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
