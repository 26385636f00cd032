package core

import "strings"

// Intents recognized by the router. Every chat message currently runs the
// log path regardless of classification; the intent is recorded on the
// state for callers and future branching.
const (
	IntentLog  = "log"
	IntentEdit = "edit"
)

var editKeywords = []string{"edit", "change", "update"}

// ClassifyIntent routes a user message by lightweight keyword inspection:
// anything mentioning an edit-like verb is "edit", everything else "log".
func ClassifyIntent(message string) string {
	text := strings.ToLower(message)
	for _, kw := range editKeywords {
		if strings.Contains(text, kw) {
			return IntentEdit
		}
	}
	return IntentLog
}
