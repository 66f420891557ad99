package privacy

import (
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Matches: 555-123-4567, (555) 123-4567, 555.123.4567, +1-555-123-4567, 555-1234
	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}|\b\d{3}[-.\s]\d{4}\b`)
)

// Redact removes emails and phone numbers from text before it is logged.
// Message content sent to the LLM is left intact; the conversation is the
// product, the logs are not.
func Redact(text string) string {
	text = emailRegex.ReplaceAllString(text, "[EMAIL]")
	text = phoneRegex.ReplaceAllString(text, "[PHONE]")
	return text
}

// ContainsPII reports whether text carries an email or phone number
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) || phoneRegex.MatchString(text)
}
