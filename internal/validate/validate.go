// Package validate implements request field validation with stable
// machine-readable codes. Checks accumulate into a single error so a
// response can report every offending field at once.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/MKhiriev/bsdr/models"
)

// Stable validation codes carried in error envelopes. Clients dispatch on
// the code, never on the message text.
const (
	CodeRequired = "E0006"
	CodeEmail    = "E0009"
	CodeLength   = "E0016"
	CodeRange    = "E0017"
	CodePattern  = "E0018"
	CodeDatetime = "E0023"
)

// DatetimeLayout is the wire format for timestamps in requests and
// responses, second precision, no zone designator.
const DatetimeLayout = "2006-01-02T15:04:05"

// VaultKeyPattern is the only accepted shape for a vault lookup key:
// exactly 50 characters from the URL-safe alphabet. The fixed length keeps
// keys unguessable while staying path-segment safe.
var VaultKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]{50}$`)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Error is the aggregate of all failed checks for one request. It maps
// one-to-one onto the errors array of the API envelope.
type Error struct {
	Details []models.ErrorDetail
}

// Error implements the error interface.
func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}

	return "validation failed: " + strings.Join(fields, ", ")
}

// Checker accumulates field checks. Zero value is ready to use; all check
// methods return the receiver for chaining.
type Checker struct {
	details []models.ErrorDetail
}

// New returns an empty [Checker].
func New() *Checker {
	return &Checker{}
}

func (c *Checker) add(field, code, message string) {
	c.details = append(c.details, models.ErrorDetail{Field: field, Code: code, Message: message})
}

// Required records a violation when value is empty.
func (c *Checker) Required(field, value string) *Checker {
	if value == "" {
		c.add(field, CodeRequired, fmt.Sprintf("%s is required", field))
	}
	return c
}

// Email records a violation when a non-empty value is not a plausible
// address. Empty values pass; combine with [Checker.Required] when the
// field is mandatory.
func (c *Checker) Email(field, value string) *Checker {
	if value != "" && !emailPattern.MatchString(value) {
		c.add(field, CodeEmail, fmt.Sprintf("%s is not a valid email address", field))
	}
	return c
}

// Length records a violation when a non-empty value is outside [min, max]
// characters.
func (c *Checker) Length(field, value string, min, max int) *Checker {
	if value == "" {
		return c
	}
	if n := len([]rune(value)); n < min || n > max {
		c.add(field, CodeLength, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return c
}

// Range records a violation when a present numeric value is outside
// [min, max]. Nil values pass.
func (c *Checker) Range(field string, value *int64, min, max int64) *Checker {
	if value != nil && (*value < min || *value > max) {
		c.add(field, CodeRange, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
	return c
}

// Must records a violation with the given code when ok is false. It covers
// cross-field and domain rules the generic checks cannot express.
func (c *Checker) Must(field string, ok bool, code, message string) *Checker {
	if !ok {
		c.add(field, code, message)
	}
	return c
}

// Pattern records a violation when a non-empty value does not match re.
func (c *Checker) Pattern(field, value string, re *regexp.Regexp) *Checker {
	if value != "" && !re.MatchString(value) {
		c.add(field, CodePattern, fmt.Sprintf("%s has an invalid format", field))
	}
	return c
}

// Datetime parses a timestamp in [DatetimeLayout], recording a violation on
// failure. Empty values pass and yield the zero time.
func (c *Checker) Datetime(field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(DatetimeLayout, value)
	if err != nil {
		c.add(field, CodeDatetime, fmt.Sprintf("%s must match %s", field, DatetimeLayout))
		return time.Time{}
	}

	return parsed
}

// Err returns nil when every check passed, otherwise a [*Error] with all
// accumulated details in check order.
func (c *Checker) Err() error {
	if len(c.details) == 0 {
		return nil
	}

	return &Error{Details: c.details}
}
