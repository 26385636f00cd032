package pkg

import "time"

// Channel values for an HCP interaction. Stored rows use these exact
// strings; keep them stable.
const (
	ChannelInPerson = "in_person"
	ChannelCall     = "call"
	ChannelVideo    = "video"
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelOther    = "other"
)

// InteractionDraft is an in-flight interaction a rep is about to log. All
// fields are free text; InteractionDatetime is an ISO-8601 string so that
// drafts round-trip through JSON untouched. The ai_* fields are derived by
// the extraction and compliance stages.
type InteractionDraft struct {
	HCPName             string `json:"hcp_name"`
	Specialty           string `json:"specialty"`
	Organization        string `json:"organization"`
	InteractionDatetime string `json:"interaction_datetime,omitempty"`
	Channel             string `json:"channel"`
	Purpose             string `json:"purpose"`
	ProductsDiscussed   string `json:"products_discussed"`
	KeyPoints           string `json:"key_points"`
	Outcome             string `json:"outcome"`
	NextSteps           string `json:"next_steps"`
	FollowUpDate        string `json:"follow_up_date"`
	RawNotes            string `json:"raw_notes"`
	AISummary           string `json:"ai_summary"`
	AIEntitiesJSON      string `json:"ai_entities_json"`
	ComplianceFlagsJSON string `json:"compliance_flags_json"`
}

// Interaction is a persisted interaction row. Field names match the
// hcp_interactions table and are the durable contract with stored data.
type Interaction struct {
	ID                  string    `json:"id"`
	HCPName             string    `json:"hcp_name"`
	Specialty           string    `json:"specialty"`
	Organization        string    `json:"organization"`
	InteractionDatetime time.Time `json:"interaction_datetime"`
	Channel             string    `json:"channel"`
	Purpose             string    `json:"purpose"`
	ProductsDiscussed   string    `json:"products_discussed"`
	KeyPoints           string    `json:"key_points"`
	Outcome             string    `json:"outcome"`
	NextSteps           string    `json:"next_steps"`
	FollowUpDate        string    `json:"follow_up_date"`
	RawNotes            string    `json:"raw_notes"`
	AISummary           string    `json:"ai_summary"`
	AIEntitiesJSON      string    `json:"ai_entities_json"`
	ComplianceFlagsJSON string    `json:"compliance_flags_json"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProfileEntry is a compact view of a past interaction returned by the HCP
// profile lookup. Summary is truncated for quick scanning.
type ProfileEntry struct {
	ID      string    `json:"id"`
	When    time.Time `json:"when"`
	Summary string    `json:"summary"`
}

// ChatRequest is the body of POST /api/agent/chat.
type ChatRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message"`
}

// ChatResponse carries the assistant reply plus the draft the pipeline
// extracted. Nothing is persisted by the chat endpoint.
type ChatResponse struct {
	AssistantMessage string           `json:"assistant_message"`
	DraftInteraction InteractionDraft `json:"draft_interaction"`
}

// LogRequest is the body of POST /api/interactions/log.
type LogRequest struct {
	Interaction InteractionDraft `json:"interaction"`
}

// EditRequest is the body of PUT /api/interactions/{id}. Unknown patch
// keys are ignored by the store.
type EditRequest struct {
	Patch map[string]any `json:"patch"`
}

// FollowUpRequest asks the agent to draft a balanced follow-up message.
type FollowUpRequest struct {
	HCPName           string `json:"hcp_name,omitempty"`
	ProductsDiscussed string `json:"products_discussed,omitempty"`
}
