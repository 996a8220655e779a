// Package guard sanitizes and screens free-text input before it reaches the
// retrieval pipeline. Pattern matching here is a heuristic filter, not a
// security boundary on its own: RBAC and parameterized queries remain the
// real controls.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinQueryLength = 3
	MaxQueryLength = 1000
)

// blockedPatterns covers destructive SQL, code execution keywords, prompt
// injection phrasing, and raw HTML injection. Case-insensitive substring
// matching.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(drop\s+table|delete\s+from|insert\s+into)`),
	regexp.MustCompile(`(?i)(exec|execute|script|javascript)`),
	regexp.MustCompile(`(?i)(ignore\s+previous|forget\s+instructions)`),
	regexp.MustCompile(`(?i)(you\s+are\s+now|pretend\s+to\s+be)`),
	regexp.MustCompile(`(?i)(<script|<iframe|onerror=|onclick=)`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Result is a structured validation outcome. Guard functions never return an
// error value; callers branch on Valid.
type Result struct {
	Valid     bool   `json:"valid"`
	Err       string `json:"error,omitempty"`
	Sanitized string `json:"sanitized"`
}

// Sanitize strips null bytes and non-printable control characters (newline
// and tab excepted), collapses whitespace runs, and trims.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(b.String(), " "))
}

// ValidateQuery checks a user question against length limits and the blocked
// pattern set.
func ValidateQuery(query string) Result {
	sanitized := Sanitize(query)

	// Length limits count characters, not bytes; truncation must not split
	// a multi-byte rune.
	runes := []rune(sanitized)
	if len(runes) < MinQueryLength {
		return Result{
			Err:       fmt.Sprintf("query too short (min %d chars)", MinQueryLength),
			Sanitized: sanitized,
		}
	}
	if len(runes) > MaxQueryLength {
		return Result{
			Err:       fmt.Sprintf("query too long (max %d chars)", MaxQueryLength),
			Sanitized: string(runes[:MaxQueryLength]),
		}
	}

	for _, pattern := range blockedPatterns {
		if pattern.MatchString(sanitized) {
			return Result{
				Err:       "query contains prohibited content",
				Sanitized: sanitized,
			}
		}
	}

	return Result{Valid: true, Sanitized: sanitized}
}

// ValidateFilename checks an uploaded filename for path traversal and the
// accepted document extension. On traversal the stripped name is reported as
// the suggested sanitized value, but the result stays invalid.
func ValidateFilename(name string) Result {
	sanitized := Sanitize(name)

	if strings.Contains(sanitized, "..") || strings.ContainsAny(sanitized, `/\`) {
		stripped := strings.NewReplacer("..", "", "/", "", `\`, "").Replace(sanitized)
		return Result{
			Err:       "invalid filename characters",
			Sanitized: stripped,
		}
	}

	if !strings.HasSuffix(strings.ToLower(sanitized), ".pdf") {
		return Result{
			Err:       "only PDF files allowed",
			Sanitized: sanitized,
		}
	}

	return Result{Valid: true, Sanitized: sanitized}
}
