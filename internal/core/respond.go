package core

import (
	"fmt"
	"strings"

	"hcpcrm/pkg"
)

// ComposeResponse assembles the assistant reply from the extracted draft
// and the compliance result. A compliance warning line is included only for
// real findings; the parse_error sentinel is suppressed so an internal
// parsing hiccup never reads like a regulatory flag.
func ComposeResponse(draft pkg.InteractionDraft, compliance ComplianceResult) string {
	var b strings.Builder
	b.WriteString("✅ I extracted a draft interaction and filled the form fields.\n")
	fmt.Fprintf(&b, "• Next best action: %s\n", NextBestAction(draft.Channel))
	if len(compliance.Flags) > 0 && !isParseErrorOnly(compliance.Flags) {
		severity := compliance.Severity
		if severity == "" {
			severity = "low"
		}
		fmt.Fprintf(&b, "⚠️ Compliance flags (%s): %s\n", severity, strings.Join(compliance.Flags, ", "))
	}
	b.WriteString("If this looks correct, click **Save Interaction** in the UI. If not, edit the fields and save.")
	return b.String()
}
