package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hcpcrm/pkg"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation targets a row that does not
// exist.
var ErrNotFound = errors.New("db: interaction not found")

// maxListLimit caps how many rows ListRecent returns.
const maxListLimit = 100

// profileSummaryLen bounds the summary excerpt in profile lookups.
const profileSummaryLen = 180

const interactionColumns = `id, hcp_name, specialty, organization, interaction_datetime,
       channel, purpose, products_discussed, key_points, outcome, next_steps,
       follow_up_date, raw_notes, ai_summary, ai_entities_json,
       compliance_flags_json, created_at, updated_at`

// Repository wraps database operations on persisted interactions. The
// caller owns the *sql.DB lifecycle; each method acquires a connection from
// the pool for the duration of the call only.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// Create persists a draft as a new interaction row. The draft's
// interaction_datetime is parsed as ISO; absent or unparsable values fall
// back to now. Creation and update timestamps are stamped by the database.
func (r *Repository) Create(ctx context.Context, draft pkg.InteractionDraft) (*pkg.Interaction, error) {
	when := time.Now().UTC()
	if t, ok := parseISOTime(draft.InteractionDatetime); ok {
		when = t
	}
	channel := draft.Channel
	if channel == "" {
		channel = pkg.ChannelInPerson
	}
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO hcp_interactions (
            id, hcp_name, specialty, organization, interaction_datetime,
            channel, purpose, products_discussed, key_points, outcome,
            next_steps, follow_up_date, raw_notes, ai_summary,
            ai_entities_json, compliance_flags_json
         ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
         RETURNING `+interactionColumns,
		uuid.New(), draft.HCPName, draft.Specialty, draft.Organization, when,
		channel, draft.Purpose, draft.ProductsDiscussed, draft.KeyPoints, draft.Outcome,
		draft.NextSteps, draft.FollowUpDate, draft.RawNotes, draft.AISummary,
		draft.AIEntitiesJSON, draft.ComplianceFlagsJSON,
	)
	return scanInteraction(row)
}

// Get retrieves a single interaction by id.
func (r *Repository) Get(ctx context.Context, id string) (*pkg.Interaction, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+interactionColumns+` FROM hcp_interactions WHERE id = $1`, id)
	item, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// Update applies a patch to an existing interaction. Only recognized field
// names are written; unknown keys and unparsable timestamps are silently
// skipped. The updated_at stamp is bumped on every successful match. The
// write is last-write-wins with no concurrency check.
func (r *Repository) Update(ctx context.Context, id string, patch map[string]any) (*pkg.Interaction, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPatch(item, patch)
	row := r.DB.QueryRowContext(ctx,
		`UPDATE hcp_interactions SET
            hcp_name = $2, specialty = $3, organization = $4,
            interaction_datetime = $5, channel = $6, purpose = $7,
            products_discussed = $8, key_points = $9, outcome = $10,
            next_steps = $11, follow_up_date = $12, raw_notes = $13,
            ai_summary = $14, ai_entities_json = $15,
            compliance_flags_json = $16, updated_at = NOW()
         WHERE id = $1
         RETURNING `+interactionColumns,
		item.ID, item.HCPName, item.Specialty, item.Organization,
		item.InteractionDatetime, item.Channel, item.Purpose,
		item.ProductsDiscussed, item.KeyPoints, item.Outcome,
		item.NextSteps, item.FollowUpDate, item.RawNotes,
		item.AISummary, item.AIEntitiesJSON, item.ComplianceFlagsJSON,
	)
	updated, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return updated, err
}

// ListRecent returns up to limit interactions, most recent first. Limits
// outside (0, maxListLimit] are clamped to the cap.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]pkg.Interaction, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+interactionColumns+`
         FROM hcp_interactions
         ORDER BY created_at DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]pkg.Interaction, 0, limit)
	for rows.Next() {
		item, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// FindByName returns compact previews of the five most recent interactions
// whose HCP name contains the given substring, case-insensitively. Used for
// contextual lookup only.
func (r *Repository) FindByName(ctx context.Context, name string) ([]pkg.ProfileEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, interaction_datetime, ai_summary, raw_notes
         FROM hcp_interactions
         WHERE hcp_name ILIKE '%' || $1 || '%'
         ORDER BY created_at DESC
         LIMIT 5`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []pkg.ProfileEntry
	for rows.Next() {
		var e pkg.ProfileEntry
		var summary, rawNotes string
		if err := rows.Scan(&e.ID, &e.When, &summary, &rawNotes); err != nil {
			return nil, err
		}
		if summary == "" {
			summary = rawNotes
		}
		e.Summary = truncate(summary, profileSummaryLen)
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []pkg.ProfileEntry{}
	}
	return entries, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInteraction(s scanner) (*pkg.Interaction, error) {
	var item pkg.Interaction
	err := s.Scan(
		&item.ID, &item.HCPName, &item.Specialty, &item.Organization,
		&item.InteractionDatetime, &item.Channel, &item.Purpose,
		&item.ProductsDiscussed, &item.KeyPoints, &item.Outcome,
		&item.NextSteps, &item.FollowUpDate, &item.RawNotes,
		&item.AISummary, &item.AIEntitiesJSON, &item.ComplianceFlagsJSON,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
