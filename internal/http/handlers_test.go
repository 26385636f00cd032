package http

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hcpcrm/internal/core"
	"hcpcrm/internal/db"
	"hcpcrm/internal/llm"
	"hcpcrm/pkg"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	respond func(system, user string) (string, error)
}

func (s *stubLLM) Complete(_ context.Context, system, user string) (string, error) {
	return s.respond(system, user)
}

// agentStub answers extraction and compliance prompts with fixed JSON.
func agentStub(system, _ string) (string, error) {
	if strings.Contains(system, "compliance checker") {
		return `{"flags":[],"severity":"low","notes":"no issues"}`, nil
	}
	return `{"summary":"Met Dr. Smith to discuss Drug X.","entities":{"hcp_name":"Dr. Smith","channel":"in_person"}}`, nil
}

func newTestServer(t *testing.T, respond func(system, user string) (string, error)) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	dbConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	agent := core.NewService(&stubLLM{respond: respond})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(db.NewRepository(dbConn), agent, "gemma2-9b-it", logger), mock
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var interactionCols = []string{
	"id", "hcp_name", "specialty", "organization", "interaction_datetime",
	"channel", "purpose", "products_discussed", "key_points", "outcome",
	"next_steps", "follow_up_date", "raw_notes", "ai_summary",
	"ai_entities_json", "compliance_flags_json", "created_at", "updated_at",
}

const testID = "11111111-1111-1111-1111-111111111111"

func interactionRow() *sqlmock.Rows {
	when := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(interactionCols).AddRow(
		testID, "Dr. Smith", "", "", when, "in_person", "", "", "", "",
		"", "", "Met Dr. Smith, discussed Drug X, good reception",
		"Met Dr. Smith to discuss Drug X.", `{"hcp_name":"Dr. Smith"}`,
		`{"flags":[],"severity":"low","notes":"no issues"}`, when, when,
	)
}

// nonEmptyArg matches any non-empty string argument.
type nonEmptyArg struct{}

func (nonEmptyArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// anyTime matches any time.Time argument.
type anyTime struct{}

func (anyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, agentStub)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "gemma2-9b-it", body["model"])
}

func TestAgentChat(t *testing.T) {
	srv, _ := newTestServer(t, agentStub)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/agent/chat",
		pkg.ChatRequest{Message: "Met Dr. Smith, discussed Drug X, good reception"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp pkg.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.AssistantMessage, "I extracted a draft interaction")
	assert.Equal(t, "Dr. Smith", resp.DraftInteraction.HCPName)
	assert.Equal(t, "Met Dr. Smith, discussed Drug X, good reception", resp.DraftInteraction.RawNotes)
	assert.NotEmpty(t, resp.DraftInteraction.ComplianceFlagsJSON)
}

func TestAgentChat_MissingMessage(t *testing.T) {
	srv, _ := newTestServer(t, agentStub)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/agent/chat", pkg.ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAgentChat_MissingCredential(t *testing.T) {
	srv, _ := newTestServer(t, func(_, _ string) (string, error) {
		return "", llm.ErrNotConfigured
	})
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/agent/chat",
		pkg.ChatRequest{Message: "hello"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "GROQ_API_KEY not set on backend")
}

func TestLogInteraction_FillsDerivedFieldsBeforeSaving(t *testing.T) {
	srv, mock := newTestServer(t, agentStub)
	mock.ExpectQuery("INSERT INTO hcp_interactions").
		WithArgs(sqlmock.AnyArg(), "", "", "", anyTime{}, "in_person",
			"", "", "", "", "", "",
			"Met Dr. Smith, discussed Drug X, good reception",
			nonEmptyArg{}, nonEmptyArg{}, nonEmptyArg{}).
		WillReturnRows(interactionRow())

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/interactions/log", pkg.LogRequest{
		Interaction: pkg.InteractionDraft{
			RawNotes: "Met Dr. Smith, discussed Drug X, good reception",
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Item pkg.Interaction `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testID, resp.Item.ID)
	assert.NotEmpty(t, resp.Item.AISummary)
	assert.NotEmpty(t, resp.Item.AIEntitiesJSON)
	assert.NotEmpty(t, resp.Item.ComplianceFlagsJSON)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogInteraction_SkipsModelWhenFieldsProvided(t *testing.T) {
	srv, mock := newTestServer(t, func(_, _ string) (string, error) {
		t.Fatal("model should not be called when derived fields are present")
		return "", nil
	})
	mock.ExpectQuery("INSERT INTO hcp_interactions").WillReturnRows(interactionRow())

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/interactions/log", pkg.LogRequest{
		Interaction: pkg.InteractionDraft{
			RawNotes:            "notes",
			AISummary:           "already summarized",
			AIEntitiesJSON:      `{}`,
			ComplianceFlagsJSON: `{"flags":[],"severity":"low","notes":""}`,
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditInteraction_NotFound(t *testing.T) {
	srv, mock := newTestServer(t, agentStub)
	mock.ExpectQuery("FROM hcp_interactions WHERE id").
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(t, srv.Handler(), http.MethodPut, "/api/interactions/no-such-id",
		pkg.EditRequest{Patch: map[string]any{"outcome": "x"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "interaction not found")
}

func TestEditInteraction(t *testing.T) {
	srv, mock := newTestServer(t, agentStub)
	mock.ExpectQuery("FROM hcp_interactions WHERE id").
		WithArgs(testID).
		WillReturnRows(interactionRow())
	mock.ExpectQuery("UPDATE hcp_interactions SET").WillReturnRows(interactionRow())

	rec := doJSON(t, srv.Handler(), http.MethodPut, "/api/interactions/"+testID,
		pkg.EditRequest{Patch: map[string]any{"outcome": "positive"}})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Item pkg.Interaction `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testID, resp.Item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListInteractions(t *testing.T) {
	srv, mock := newTestServer(t, agentStub)
	mock.ExpectQuery("FROM hcp_interactions ORDER BY created_at DESC").
		WithArgs(100).
		WillReturnRows(interactionRow())

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/interactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []pkg.Interaction `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Dr. Smith", resp.Items[0].HCPName)
}

func TestHCPProfile(t *testing.T) {
	srv, mock := newTestServer(t, agentStub)
	rows := sqlmock.NewRows([]string{"id", "interaction_datetime", "ai_summary", "raw_notes"}).
		AddRow(testID, time.Now(), "Visit summary.", "raw")
	mock.ExpectQuery("WHERE hcp_name ILIKE").WithArgs("smith").WillReturnRows(rows)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/hcp/profile?name=smith", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		HCPName string             `json:"hcp_name"`
		Recent  []pkg.ProfileEntry `json:"recent_interactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "smith", resp.HCPName)
	require.Len(t, resp.Recent, 1)
	assert.Equal(t, "Visit summary.", resp.Recent[0].Summary)
}

func TestHCPProfile_MissingName(t *testing.T) {
	srv, _ := newTestServer(t, agentStub)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/hcp/profile", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAgentFollowUp(t *testing.T) {
	srv, _ := newTestServer(t, func(_, _ string) (string, error) {
		return "Dear Dr. Smith, thank you for your time.", nil
	})
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/agent/followup",
		pkg.FollowUpRequest{HCPName: "Dr. Smith", ProductsDiscussed: "Drug X"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dear Dr. Smith")
}
