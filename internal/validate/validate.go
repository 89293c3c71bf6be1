package validate

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors maps a form field to its first error message.
type Errors map[string]string

// Form wraps submitted key-value pairs and collects field errors. Only the
// first error per field is kept; callers check Valid() after running their
// field checks and re-render the form with the error map on failure.
type Form struct {
	values url.Values
	Errors Errors
}

func New(values url.Values) *Form {
	return &Form{values: values, Errors: make(Errors)}
}

func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

func (f *Form) fail(field, msg string) {
	if _, ok := f.Errors[field]; !ok {
		f.Errors[field] = msg
	}
}

// String returns a trimmed field value, recording an error if it is empty.
func (f *Form) String(field, errMsg string) string {
	v := strings.TrimSpace(f.values.Get(field))
	if v == "" {
		f.fail(field, errMsg)
	}
	return v
}

// Optional returns a trimmed field value without requiring it.
func (f *Form) Optional(field string) string {
	return strings.TrimSpace(f.values.Get(field))
}

// Length checks an already-extracted value against inclusive bounds,
// counting characters rather than bytes so accented names are not penalized.
func (f *Form) Length(field, value string, min, max int, errMsg string) {
	if value == "" {
		return // Required already reported
	}
	if n := utf8.RuneCountInString(value); n < min || n > max {
		f.fail(field, errMsg)
	}
}

// Email checks that the value parses as an address.
func (f *Form) Email(field, value string, errMsg string) {
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		f.fail(field, errMsg)
	}
}

// EqualTo checks cross-field equality, e.g. password confirmation.
func (f *Form) EqualTo(field, value, other, errMsg string) {
	if value != other {
		f.fail(field, errMsg)
	}
}

// Int parses a required integer field within inclusive bounds.
func (f *Form) Int(field string, min, max int, errMsg string) int {
	raw := strings.TrimSpace(f.values.Get(field))
	if raw == "" {
		f.fail(field, errMsg)
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		f.fail(field, errMsg)
		return 0
	}
	return n
}

// ID parses a required positive int64 field, typically a hidden id input.
func (f *Form) ID(field, errMsg string) int64 {
	raw := strings.TrimSpace(f.values.Get(field))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		f.fail(field, errMsg)
		return 0
	}
	return id
}
