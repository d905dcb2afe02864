package service

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	// Same email shape the stored records are validated against.
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	// Digits with optional leading + and space/dash separators.
	contactPattern = regexp.MustCompile(`^\+?[0-9][0-9 -]*[0-9]$|^\+?[0-9]$`)
	// Caller-supplied tracking codes: uppercase alphanumeric with dashes.
	trackingCodePattern = regexp.MustCompile(`^[A-Z0-9-]{6,32}$`)
)

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func validContact(s string) bool {
	return contactPattern.MatchString(s)
}

func validTrackingCode(s string) bool {
	return trackingCodePattern.MatchString(s)
}

var minWeight = decimal.RequireFromString("0.1")

// parseWeight rejects anything that is not a plain numeric string; "8kg"
// style input fails rather than being coerced.
func parseWeight(s string) (decimal.Decimal, bool) {
	w, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if w.LessThan(minWeight) {
		return decimal.Decimal{}, false
	}
	return w, true
}

func parseQuantity(s string) (int, bool) {
	q, err := strconv.Atoi(s)
	if err != nil || q < 1 {
		return 0, false
	}
	return q, true
}
