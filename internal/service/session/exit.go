package session

import "strings"

// DefaultExitWords end a session when contained anywhere in an utterance.
var DefaultExitWords = []string{"exit", "quit", "bye"}

// IsExit is a case-insensitive containment check. It deliberately matches
// inside longer words too ("exiting the highway").
func IsExit(utterance string, words []string) bool {
	lower := strings.ToLower(utterance)
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// isWholeWordExit is used only to flag containment-only matches in logs.
func isWholeWordExit(utterance string, words []string) bool {
	fields := strings.FieldsFunc(strings.ToLower(utterance), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == strings.ToLower(w) {
				return true
			}
		}
	}
	return false
}
