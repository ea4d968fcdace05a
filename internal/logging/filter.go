// Package logging redacts credentials before they reach log files or the
// terminal. specify only ever handles one kind of secret, the GitHub token
// used for release downloads, but it can surface in several shapes: a raw
// token, an Authorization header, or a token=... pair in a URL or message.
package logging

import (
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue replaces sensitive data.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals // Package-level patterns for reuse
var sensitivePatterns = []*regexp.Regexp{
	// Classic GitHub tokens (ghp_, gho_, ghu_, ghs_, ghr_)
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// Fine-grained personal access tokens
	regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{20,}`),

	// Bearer and token auth schemes
	regexp.MustCompile(`(?i)(bearer|token)\s+[a-zA-Z0-9_.\-]{20,}`),

	// Authorization header values
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[^\s"',}]{8,}["']?`),

	// access_token / token query parameters and key=value pairs
	regexp.MustCompile(`(?i)(access_token|gh_token|github_token|token)=[^\s&"']{8,}`),
}

//nolint:gochecknoglobals // Package-level lookup
var sensitiveHeaders = map[string]struct{}{
	"Authorization":       {},
	"Proxy-Authorization": {},
	"Set-Cookie":          {},
	"Cookie":              {},
}

// SensitiveDataHook marks log events whose message carries a credential.
// zerolog hooks cannot rewrite the message, so the file writer does the
// actual redaction.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every credential in value with RedactedValue.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// RedactHeaders renders h one "Key: value" line per header, sorted by key,
// with credential-bearing headers replaced wholesale. Used by --debug output.
func RedactHeaders(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		value := strings.Join(h.Values(k), ", ")
		if _, ok := sensitiveHeaders[http.CanonicalHeaderKey(k)]; ok {
			value = RedactedValue
		} else {
			value = FilterSensitiveValue(value)
		}
		lines = append(lines, k+": "+value)
	}
	return lines
}

// FilteringWriter redacts credentials from everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success even when the
// redacted output is shorter.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
