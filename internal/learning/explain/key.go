package explain

import "strings"

const DefaultContext = "general"

// Key derives the cache key for one concept lookup. Fields are trimmed, a blank context
// becomes "general", and the result is lower-cased so lookups are case-insensitive.
func Key(subject, topic, subtopic, context string) string {
	ctx := strings.TrimSpace(context)
	if ctx == "" {
		ctx = DefaultContext
	}
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(subject),
		strings.TrimSpace(topic),
		strings.TrimSpace(subtopic),
		ctx,
	}, "|"))
}
