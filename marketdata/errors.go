package marketdata

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind buckets every provider failure into the taxonomy the rest of the
// system works with. Only RateLimited is retried.
type Kind string

const (
	NotFound     Kind = "not_found"
	MissingField Kind = "missing_field"
	RateLimited  Kind = "rate_limited"
	NoData       Kind = "no_data"
	Exhausted    Kind = "exhausted"
	Transient    Kind = "transient"
)

// Error is a structured fetch failure: a short user-facing message plus the
// technical detail. HTTPStatus is best-effort and "Unknown" when the provider
// error text carries no status code.
type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	HTTPStatus string `json:"http_status,omitempty"`
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

var statusPattern = regexp.MustCompile(`status (\d{3})`)

// classify is the single place that inspects raw provider error text. The
// provider gives no structured error code, so rate limiting is sniffed from
// the text the same way the upstream reports it.
func classify(symbol string, err error) *Error {
	text := err.Error()
	if strings.Contains(text, "Too Many Requests") || strings.Contains(text, "429") {
		return &Error{
			Kind:       RateLimited,
			Message:    fmt.Sprintf("provider rate limit hit for %s", symbol),
			Details:    text,
			HTTPStatus: httpStatusCode(text),
		}
	}
	return &Error{
		Kind:    Transient,
		Message: fmt.Sprintf("failed to fetch data for %s", symbol),
		Details: text,
	}
}

// httpStatusCode extracts a numeric HTTP status from provider error text.
func httpStatusCode(text string) string {
	if m := statusPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if strings.Contains(text, "429") {
		return "429"
	}
	return "Unknown"
}
