package db

import (
	"time"

	"hcpcrm/pkg"
)

// allowedPatchFields are the only keys the edit operation honors. Anything
// else in a patch is silently ignored; this permissiveness is a documented
// contract, not an oversight.
var allowedPatchFields = map[string]struct{}{
	"hcp_name": {}, "specialty": {}, "organization": {},
	"interaction_datetime": {}, "channel": {}, "purpose": {},
	"products_discussed": {}, "key_points": {}, "outcome": {},
	"next_steps": {}, "follow_up_date": {}, "raw_notes": {},
	"ai_summary": {}, "ai_entities_json": {}, "compliance_flags_json": {},
}

// applyPatch mutates row in place with the recognized string values from
// patch. interaction_datetime must parse as an ISO timestamp or it is left
// unchanged. Non-string values are ignored like unknown keys.
func applyPatch(row *pkg.Interaction, patch map[string]any) {
	for k, v := range patch {
		if _, ok := allowedPatchFields[k]; !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch k {
		case "hcp_name":
			row.HCPName = s
		case "specialty":
			row.Specialty = s
		case "organization":
			row.Organization = s
		case "interaction_datetime":
			if t, ok := parseISOTime(s); ok {
				row.InteractionDatetime = t
			}
		case "channel":
			row.Channel = s
		case "purpose":
			row.Purpose = s
		case "products_discussed":
			row.ProductsDiscussed = s
		case "key_points":
			row.KeyPoints = s
		case "outcome":
			row.Outcome = s
		case "next_steps":
			row.NextSteps = s
		case "follow_up_date":
			row.FollowUpDate = s
		case "raw_notes":
			row.RawNotes = s
		case "ai_summary":
			row.AISummary = s
		case "ai_entities_json":
			row.AIEntitiesJSON = s
		case "compliance_flags_json":
			row.ComplianceFlagsJSON = s
		}
	}
}

// parseISOTime accepts RFC3339 timestamps as well as zone-less ISO strings
// like "2024-05-01T10:30:00".
func parseISOTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
