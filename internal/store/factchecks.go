package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"verity/internal/citations"
	"verity/internal/services"
)

const factCheckColumns = "id, user_id, media_kind, source_path, extracted_text, verdict_text, citations_json, created_at"

// CreateFactCheckParams holds the fields of a new fact-check record.
type CreateFactCheckParams struct {
	UserID        int64
	MediaKind     MediaKind
	SourcePath    string
	ExtractedText string
	VerdictText   string
	Citations     []citations.Citation
}

// CreateFactCheck persists a completed verification. The record identifier
// is assigned by the database.
func (s *Store) CreateFactCheck(ctx context.Context, params CreateFactCheckParams) (*FactCheck, error) {
	if strings.TrimSpace(params.SourcePath) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create fact check", "source path required", nil)
	}
	owner, err := s.GetUserByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, services.Wrap(services.ErrNotFound, "store", "create fact check", fmt.Sprintf("user %d", params.UserID), nil)
	}

	if params.Citations == nil {
		params.Citations = []citations.Citation{}
	}
	citationsJSON, err := json.Marshal(params.Citations)
	if err != nil {
		return nil, fmt.Errorf("marshal citations: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO fact_checks (
            user_id, media_kind, source_path, extracted_text, verdict_text, citations_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		params.UserID,
		string(params.MediaKind),
		params.SourcePath,
		params.ExtractedText,
		params.VerdictText,
		string(citationsJSON),
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert fact check: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetFactCheckByID(ctx, id)
}

// GetFactCheckByID fetches a record by identifier. Absence is (nil, nil).
func (s *Store) GetFactCheckByID(ctx context.Context, id int64) (*FactCheck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+factCheckColumns+` FROM fact_checks WHERE id = ?`, id)
	record, err := scanFactCheck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fact check: %w", err)
	}
	return record, nil
}

// ListFactChecksForUser returns one user's records, newest first.
func (s *Store) ListFactChecksForUser(ctx context.Context, userID int64) ([]*FactCheck, error) {
	return s.listFactChecks(ctx, `SELECT `+factCheckColumns+` FROM fact_checks WHERE user_id = ? ORDER BY id DESC`, userID)
}

// ListFactChecks returns every record, newest first.
func (s *Store) ListFactChecks(ctx context.Context) ([]*FactCheck, error) {
	return s.listFactChecks(ctx, `SELECT `+factCheckColumns+` FROM fact_checks ORDER BY id DESC`)
}

func (s *Store) listFactChecks(ctx context.Context, query string, args ...any) ([]*FactCheck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fact checks: %w", err)
	}
	defer rows.Close()

	var records []*FactCheck
	for rows.Next() {
		record, err := scanFactCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fact check: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fact checks: %w", err)
	}
	return records, nil
}

func scanFactCheck(scanner interface{ Scan(dest ...any) error }) (*FactCheck, error) {
	var (
		id            int64
		userID        int64
		mediaKind     string
		sourcePath    string
		extractedText string
		verdictText   string
		citationsRaw  sql.NullString
		createdRaw    sql.NullString
	)
	if err := scanner.Scan(&id, &userID, &mediaKind, &sourcePath, &extractedText, &verdictText, &citationsRaw, &createdRaw); err != nil {
		return nil, err
	}

	record := &FactCheck{
		ID:            id,
		UserID:        userID,
		MediaKind:     MediaKind(mediaKind),
		SourcePath:    sourcePath,
		ExtractedText: extractedText,
		VerdictText:   verdictText,
		Citations:     []citations.Citation{},
	}
	// A corrupt citation blob degrades to an empty list rather than losing
	// the whole record.
	if citationsRaw.Valid && citationsRaw.String != "" {
		var parsed []citations.Citation
		if err := json.Unmarshal([]byte(citationsRaw.String), &parsed); err == nil && parsed != nil {
			record.Citations = parsed
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	return record, nil
}
