package core

import (
	"context"
	"fmt"
	"strings"
)

// DraftFollowUp asks the model for a short, balanced follow-up message to
// an HCP about the discussed products. Empty inputs fall back to neutral
// placeholders so the prompt always reads sensibly.
func (s *Service) DraftFollowUp(ctx context.Context, hcpName, products string) (string, error) {
	if hcpName == "" {
		hcpName = "Doctor"
	}
	if products == "" {
		products = "the discussed product"
	}
	msg, err := s.llm.Complete(ctx, followUpPrompt,
		fmt.Sprintf("Draft a follow-up message to %s about %s.", hcpName, products))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(msg), nil
}
