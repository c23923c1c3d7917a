package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// ID validates a simple resource identifier (listing/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// PositiveInt parses a base-10 positive integer. Total: anything that is not
// a well-formed integer >= 1 reports false; no coercion of partial input.
func PositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NonNegativeInt parses a base-10 integer >= 0.
func NonNegativeInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// DeliveryMethod validates the delivery enum.
func DeliveryMethod(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, s == "pickup" || s == "shipping"
}

// Label validates free-text variant labels with a reasonable max length.
func Label(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 100 {
		return "", false
	}
	return s, true
}
