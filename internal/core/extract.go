package core

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"hcpcrm/pkg"
)

// summaryFallbackLen bounds the excerpt used as the summary when the model
// reply cannot be parsed.
const summaryFallbackLen = 180

// ExtractionResult is the structured output of the extraction stage. When
// the model reply fails to parse, Summary degrades to a truncated excerpt
// of the input and Entities is empty; the stage itself never fails.
type ExtractionResult struct {
	Summary  string            `json:"summary"`
	Entities map[string]string `json:"entities"`
}

// SummarizeAndExtract asks the model for a summary plus named entities for
// one block of interaction text. It returns an error only when the model
// call itself fails (missing credential, transport); a malformed reply is
// absorbed into a degraded result.
func (s *Service) SummarizeAndExtract(ctx context.Context, text string) (ExtractionResult, error) {
	out, err := s.llm.Complete(ctx, extractionPrompt, "Interaction text:\n"+text+"\nReturn JSON only.")
	if err != nil {
		return ExtractionResult{}, err
	}
	var res ExtractionResult
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &res); err != nil {
		return ExtractionResult{Summary: truncate(text, summaryFallbackLen), Entities: map[string]string{}}, nil
	}
	if res.Entities == nil {
		res.Entities = map[string]string{}
	}
	return res, nil
}

// BuildDraft turns an extraction result into an interaction draft. Missing
// entity fields stay empty strings, the channel defaults to in_person, the
// interaction time defaults to now, and the original text is preserved
// verbatim in raw_notes.
func BuildDraft(res ExtractionResult, rawText string, now time.Time) pkg.InteractionDraft {
	entities, _ := json.Marshal(res.Entities)
	channel := res.Entities["channel"]
	if channel == "" {
		channel = pkg.ChannelInPerson
	}
	return pkg.InteractionDraft{
		HCPName:             res.Entities["hcp_name"],
		Specialty:           res.Entities["specialty"],
		Organization:        res.Entities["organization"],
		InteractionDatetime: now.UTC().Format(time.RFC3339),
		Channel:             channel,
		Purpose:             res.Entities["purpose"],
		ProductsDiscussed:   res.Entities["products_discussed"],
		KeyPoints:           res.Entities["key_points"],
		Outcome:             res.Entities["outcome"],
		NextSteps:           res.Entities["next_steps"],
		FollowUpDate:        res.Entities["follow_up_date"],
		RawNotes:            rawText,
		AISummary:           res.Summary,
		AIEntitiesJSON:      string(entities),
	}
}

// stripCodeFence removes a surrounding markdown code block, which models
// often wrap around JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
