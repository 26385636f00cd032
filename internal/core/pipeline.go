package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hcpcrm/internal/llm"
	"hcpcrm/pkg"
)

// State is the working state threaded through one chat invocation. Each
// stage reads fields written by earlier stages and writes its own; the
// state is created fresh per call and discarded after the final stage.
type State struct {
	ThreadID         string
	UserMessage      string
	Intent           string
	Draft            pkg.InteractionDraft
	Compliance       ComplianceResult
	AssistantMessage string
}

// stage is one named step of the pipeline.
type stage struct {
	name string
	run  func(ctx context.Context, st *State) error
}

// Service runs the conversational logging pipeline and exposes its
// extraction and compliance stages for direct use by the log endpoint.
type Service struct {
	llm    llm.Client
	stages []stage
	now    func() time.Time
}

// NewService constructs the pipeline with its fixed stage order:
// route -> extract -> compliance -> respond. The order is set here once;
// Run never branches or reorders.
func NewService(client llm.Client) *Service {
	s := &Service{llm: client, now: time.Now}
	s.stages = []stage{
		{name: "route_intent", run: s.routeIntent},
		{name: "extract", run: s.extract},
		{name: "compliance", run: s.compliance},
		{name: "respond", run: s.respond},
	}
	return s
}

// Run executes the pipeline for one user message and returns the final
// state. The only errors that escape are model-call failures (missing
// credential or transport); stage-local parse failures become degraded
// data, never errors.
func (s *Service) Run(ctx context.Context, threadID, message string) (*State, error) {
	if threadID == "" {
		threadID = "default"
	}
	st := &State{ThreadID: threadID, UserMessage: message}
	for _, stg := range s.stages {
		if err := stg.run(ctx, st); err != nil {
			return nil, fmt.Errorf("%s stage: %w", stg.name, err)
		}
	}
	return st, nil
}

// routeIntent records the classified intent. The pipeline always proceeds
// down the log path; see ClassifyIntent.
func (s *Service) routeIntent(_ context.Context, st *State) error {
	st.Intent = ClassifyIntent(st.UserMessage)
	return nil
}

// extract builds the draft interaction from the user message.
func (s *Service) extract(ctx context.Context, st *State) error {
	res, err := s.SummarizeAndExtract(ctx, st.UserMessage)
	if err != nil {
		return err
	}
	st.Draft = BuildDraft(res, st.UserMessage, s.now())
	return nil
}

// compliance recomputes the compliance result for the draft and overwrites
// any prior compliance_flags_json, stale or not.
func (s *Service) compliance(ctx context.Context, st *State) error {
	combined := st.Draft.RawNotes + "\nSummary: " + st.Draft.AISummary
	res, err := s.CheckCompliance(ctx, combined)
	if err != nil {
		return err
	}
	st.Compliance = res
	encoded, _ := json.Marshal(res)
	st.Draft.ComplianceFlagsJSON = string(encoded)
	return nil
}

// respond composes the assistant message from the draft and compliance
// result.
func (s *Service) respond(_ context.Context, st *State) error {
	st.AssistantMessage = ComposeResponse(st.Draft, st.Compliance)
	return nil
}
