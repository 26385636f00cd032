package core

import (
	"context"
	"encoding/json"
)

// complianceNotesLen bounds the raw model text kept in Notes when the reply
// cannot be parsed, preserving diagnosability without unbounded payloads.
const complianceNotesLen = 400

// ParseErrorFlag is the sentinel flag recorded when the compliance model
// reply is not valid JSON. It is never shown to end users as a finding.
const ParseErrorFlag = "parse_error"

// ComplianceResult is the structured output of the compliance stage.
type ComplianceResult struct {
	Flags    []string `json:"flags"`
	Severity string   `json:"severity"`
	Notes    string   `json:"notes"`
}

// CheckCompliance classifies interaction text into risk flags and a
// severity. Like extraction, only a failed model call is an error; an
// unparsable reply degrades to the parse_error sentinel with severity low.
func (s *Service) CheckCompliance(ctx context.Context, text string) (ComplianceResult, error) {
	out, err := s.llm.Complete(ctx, compliancePrompt, "Text:\n"+text+"\nReturn JSON only.")
	if err != nil {
		return ComplianceResult{}, err
	}
	var res ComplianceResult
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &res); err != nil {
		return ComplianceResult{
			Flags:    []string{ParseErrorFlag},
			Severity: "low",
			Notes:    truncate(out, complianceNotesLen),
		}, nil
	}
	if res.Flags == nil {
		res.Flags = []string{}
	}
	if res.Severity == "" {
		res.Severity = "low"
	}
	return res, nil
}

// isParseErrorOnly reports whether flags is exactly the parse_error
// sentinel, which must not surface as a real compliance finding.
func isParseErrorOnly(flags []string) bool {
	return len(flags) == 1 && flags[0] == ParseErrorFlag
}
