package search

import "strings"

// Qualifier suffixes appended to a query to form suggestions.
var suggestionQualifiers = []string{"hd", "compilation", "amateur", "pov"}

const maxSuggestions = 5

// Suggest derives query-expansion strings from a raw query. It is pure and
// deterministic: qualifier suffixes plus a "best <query>" variant, capped at
// five, and never empty for a non-empty query.
func Suggest(query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	suggestions := make([]string, 0, len(suggestionQualifiers)+1)
	for _, qualifier := range suggestionQualifiers {
		suggestions = append(suggestions, q+" "+qualifier)
	}
	suggestions = append(suggestions, "best "+q)

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
