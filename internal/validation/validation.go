// Package validation provides per-field form validation collected into a
// Violations map, rendered back into the form templates.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/4ka0/simple-inventory/internal/tz"
)

// DateTimeFormat is the only accepted sale timestamp layout.
const DateTimeFormat = "2006-01-02 15:04"

// MaxAmount bounds prices, quantities and proceeds.
const MaxAmount int64 = 999_999_999_999

var (
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
	dateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "Required."
	}
}

func MaxLength(field, value string, limit int, v Violations) {
	if len([]rune(value)) > limit {
		v[field] = "Please use less than " + strconv.Itoa(limit) + " characters."
	}
}

// Amount parses a non-negative decimal integer of at most MaxAmount.
// Signs, decimals and grouping are all rejected.
func Amount(field, value string, v Violations) int64 {
	if !digitsRe.MatchString(value) {
		v[field] = "Please use digits."
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n > MaxAmount {
		v[field] = "Please enter a number between 0 and 999999999999."
		return 0
	}
	return n
}

// DateTime parses a "YYYY-MM-DD HH:MM" value as Japan local time.
func DateTime(field, value string, v Violations) time.Time {
	if !dateTimeRe.MatchString(value) {
		v[field] = "Please enter a valid date and time."
		return time.Time{}
	}
	t, err := time.ParseInLocation(DateTimeFormat, value, tz.JST)
	if err != nil {
		v[field] = "Please enter a valid date and time."
		return time.Time{}
	}
	return t
}

// NotFuture rejects timestamps later than now.
func NotFuture(field string, t, now time.Time, v Violations) {
	if t.After(now) {
		v[field] = "Future dates are not accepted."
	}
}
