package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"verity/internal/services"
)

// CreateComment attaches an annotation to a fact-check record. Only admin
// accounts may comment.
func (s *Store) CreateComment(ctx context.Context, factCheckID, authorID int64, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create comment", "body required", nil)
	}

	record, err := s.GetFactCheckByID(ctx, factCheckID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, services.Wrap(services.ErrNotFound, "store", "create comment", fmt.Sprintf("fact check %d", factCheckID), nil)
	}

	author, err := s.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, services.Wrap(services.ErrNotFound, "store", "create comment", fmt.Sprintf("user %d", authorID), nil)
	}
	if author.Role != RoleAdmin {
		return nil, services.Wrap(services.ErrValidation, "store", "create comment", "only admin accounts may comment", nil)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO comments (fact_check_id, author_id, body, created_at) VALUES (?, ?, ?, ?)`,
		factCheckID,
		authorID,
		body,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getCommentByID(ctx, id)
}

// ListCommentsForFactCheck returns a record's annotations, oldest first.
func (s *Store) ListCommentsForFactCheck(ctx context.Context, factCheckID int64) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentQuery+` WHERE c.fact_check_id = ? ORDER BY c.id`, factCheckID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

const commentQuery = `SELECT c.id, c.fact_check_id, c.author_id, u.email, c.body, c.created_at
FROM comments c JOIN users u ON u.id = c.author_id`

func (s *Store) getCommentByID(ctx context.Context, id int64) (*Comment, error) {
	row := s.db.QueryRowContext(ctx, commentQuery+` WHERE c.id = ?`, id)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func scanComment(scanner interface{ Scan(dest ...any) error }) (*Comment, error) {
	var (
		id          int64
		factCheckID int64
		authorID    int64
		authorEmail string
		body        string
		createdRaw  sql.NullString
	)
	if err := scanner.Scan(&id, &factCheckID, &authorID, &authorEmail, &body, &createdRaw); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:          id,
		FactCheckID: factCheckID,
		AuthorID:    authorID,
		AuthorEmail: authorEmail,
		Body:        body,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		comment.CreatedAt = created
	}
	return comment, nil
}
