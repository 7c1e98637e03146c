package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage"
)

// CreateBrief persists a new brief submission. The questionnaire is stored
// as a JSON document; only the metadata gets columns.
func (s *SQLiteStore) CreateBrief(ctx context.Context, brief *models.Brief) error {
	// Generate ID if not set
	if brief.ID == "" {
		brief.ID = uuid.New().String()
	}
	if brief.CreatedAt == 0 {
		brief.CreatedAt = time.Now().Unix()
	}
	if brief.CompletedAt == 0 {
		brief.CompletedAt = brief.CreatedAt
	}

	data, err := json.Marshal(brief.Data)
	if err != nil {
		return fmt.Errorf("failed to encode brief: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO briefs (id, user_id, user_name, user_email, data, version, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		brief.ID, brief.UserID, brief.UserName, brief.UserEmail, string(data),
		brief.Version, brief.CreatedAt, brief.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert brief: %w", err)
	}

	return nil
}

const briefColumns = "id, user_id, user_name, user_email, data, version, created_at, completed_at"

func scanBrief(row interface{ Scan(...any) error }) (*models.Brief, error) {
	brief := &models.Brief{}
	var data string
	if err := row.Scan(&brief.ID, &brief.UserID, &brief.UserName, &brief.UserEmail,
		&data, &brief.Version, &brief.CreatedAt, &brief.CompletedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &brief.Data); err != nil {
		return nil, fmt.Errorf("failed to decode brief %s: %w", brief.ID, err)
	}
	return brief, nil
}

// GetBrief retrieves a brief by ID.
func (s *SQLiteStore) GetBrief(ctx context.Context, briefID string) (*models.Brief, error) {
	brief, err := scanBrief(s.db.QueryRowContext(ctx,
		"SELECT "+briefColumns+" FROM briefs WHERE id = ?", briefID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("brief %s: %w", briefID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brief: %w", err)
	}
	return brief, nil
}

// ListBriefs retrieves all briefs, newest first.
func (s *SQLiteStore) ListBriefs(ctx context.Context) ([]*models.Brief, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+briefColumns+" FROM briefs ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}
	defer rows.Close()

	var briefs []*models.Brief
	for rows.Next() {
		brief, err := scanBrief(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brief: %w", err)
		}
		briefs = append(briefs, brief)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate briefs: %w", err)
	}

	return briefs, nil
}

// DeleteBrief removes a brief by ID.
func (s *SQLiteStore) DeleteBrief(ctx context.Context, briefID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM briefs WHERE id = ?", briefID)
	if err != nil {
		return fmt.Errorf("failed to delete brief: %w", err)
	}
	return affectedOrNotFound(res, "brief", briefID)
}

// ClearBriefs deletes every brief.
func (s *SQLiteStore) ClearBriefs(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM briefs")
	if err != nil {
		return 0, fmt.Errorf("failed to clear briefs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
