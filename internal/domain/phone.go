package domain

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// FormatNumber renders a rented number in international format. The remote
// API returns bare digits, so a leading "+" is assumed. Unparseable input is
// returned unchanged.
func FormatNumber(raw string) string {
	parsed, ok := parseRentedNumber(raw)
	if !ok {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}

// E164 returns the number in E.164 form, or raw when it cannot be parsed.
func E164(raw string) string {
	parsed, ok := parseRentedNumber(raw)
	if !ok {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// NumberRegion returns the ISO region of a rented number, or "" when unknown.
func NumberRegion(raw string) string {
	parsed, ok := parseRentedNumber(raw)
	if !ok {
		return ""
	}
	region := phonenumbers.GetRegionCodeForNumber(parsed)
	if region == "ZZ" {
		return ""
	}
	return region
}

func parseRentedNumber(raw string) (*phonenumbers.PhoneNumber, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	if !strings.HasPrefix(trimmed, "+") {
		trimmed = "+" + trimmed
	}

	parsed, err := phonenumbers.Parse(trimmed, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return nil, false
	}
	return parsed, true
}
