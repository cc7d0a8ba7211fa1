package core

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ParseDecimal parses a venue decimal string. The venue uses "" for values
// that are not applicable; those parse to nil without error.
func ParseDecimal(s string) (*apd.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// FormatDecimal renders d without exponent notation, the form the venue
// expects in request bodies. A nil d renders as "".
func FormatDecimal(d *apd.Decimal) string {
	if d == nil {
		return ""
	}
	return d.Text('f')
}
