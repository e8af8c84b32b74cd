// Package phone canonicalizes raw phone strings into E.164, the join key
// used throughout the notification log.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize parses raw as a phone number, assuming defaultRegion when the
// string carries no explicit country code, and returns the E.164 form.
// Numbers that are not structurally valid for their inferred region fail.
func Normalize(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("parsing phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number for region %s", defaultRegion)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
