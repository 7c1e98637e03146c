package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage"
)

// CreateSession persists a new session with its roster, rates and transactions.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	// Generate IDs if not set
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}
	if session.LastUpdatedAt == 0 {
		session.LastUpdatedAt = time.Now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, name, description, main_currency, created_at, last_updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Name, session.Description, session.MainCurrency,
		session.CreatedAt, session.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertSessionChildren(ctx, tx, session); err != nil {
		return err
	}
	if err := touchUserData(ctx, tx, session.UserID, session.LastUpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateSession overwrites an existing session owned by session.UserID.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *models.Session) error {
	if session.LastUpdatedAt == 0 {
		session.LastUpdatedAt = time.Now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET name = ?, description = ?, main_currency = ?, last_updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		session.Name, session.Description, session.MainCurrency, session.LastUpdatedAt,
		session.ID, session.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if err := affectedOrNotFound(res, "session", session.ID); err != nil {
		return err
	}

	// Read back the creation time so the caller sees the stored value.
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM sessions WHERE id = ?", session.ID,
	).Scan(&session.CreatedAt); err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	if err := deleteSessionChildren(ctx, tx, session.ID); err != nil {
		return err
	}
	if err := insertSessionChildren(ctx, tx, session); err != nil {
		return err
	}
	if err := touchUserData(ctx, tx, session.UserID, session.LastUpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSession removes a session and everything in it.
func (s *SQLiteStore) DeleteSession(ctx context.Context, userID, sessionID string, updatedAt int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSessionChildren(ctx, tx, sessionID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ? AND user_id = ?", sessionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := affectedOrNotFound(res, "session", sessionID); err != nil {
		return err
	}
	if err := touchUserData(ctx, tx, userID, updatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSession retrieves a session owned by userID, including all transactions.
func (s *SQLiteStore) GetSession(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, main_currency, created_at, last_updated_at
		 FROM sessions WHERE id = ? AND user_id = ?`,
		sessionID, userID,
	).Scan(&session.ID, &session.UserID, &session.Name, &session.Description,
		&session.MainCurrency, &session.CreatedAt, &session.LastUpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := s.loadSessionChildren(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns every session of the user, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, main_currency, created_at, last_updated_at
		 FROM sessions WHERE user_id = ? ORDER BY created_at DESC, last_updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		if err := rows.Scan(&session.ID, &session.UserID, &session.Name, &session.Description,
			&session.MainCurrency, &session.CreatedAt, &session.LastUpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	for _, session := range sessions {
		if err := s.loadSessionChildren(ctx, session); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func insertSessionChildren(ctx context.Context, tx *sql.Tx, session *models.Session) error {
	for i, name := range session.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO session_participants (session_id, name, position) VALUES (?, ?, ?)",
			session.ID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for code, rate := range session.Currencies {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO session_currencies (session_id, code, rate) VALUES (?, ?, ?)",
			session.ID, code, rate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert currency: %w", err)
		}
	}

	for i := range session.Transactions {
		t := &session.Transactions[i]
		if t.ID == "" {
			t.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, session_id, position, description, amount, payer, currency, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, session.ID, i, t.Description, t.Amount, t.Payer, t.Currency, t.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		for j, participant := range t.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO transaction_assignments (session_id, transaction_id, participant, position) VALUES (?, ?, ?, ?)",
				session.ID, t.ID, participant, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction assignment: %w", err)
			}
		}
	}
	return nil
}

func deleteSessionChildren(ctx context.Context, tx *sql.Tx, sessionID string) error {
	statements := []string{
		"DELETE FROM transaction_assignments WHERE session_id = ?",
		"DELETE FROM transactions WHERE session_id = ?",
		"DELETE FROM session_currencies WHERE session_id = ?",
		"DELETE FROM session_participants WHERE session_id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, sessionID); err != nil {
			return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
		}
	}
	return nil
}

// loadSessionChildren fills the roster, rates and transactions of a session.
func (s *SQLiteStore) loadSessionChildren(ctx context.Context, session *models.Session) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM session_participants WHERE session_id = ? ORDER BY position",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	session.Participants, err = scanNames(rows)
	if err != nil {
		return err
	}

	rateRows, err := s.db.QueryContext(ctx,
		"SELECT code, rate FROM session_currencies WHERE session_id = ?",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get currencies: %w", err)
	}
	session.Currencies = make(map[string]float64)
	for rateRows.Next() {
		var code string
		var rate float64
		if err := rateRows.Scan(&code, &rate); err != nil {
			rateRows.Close()
			return fmt.Errorf("failed to scan currency: %w", err)
		}
		session.Currencies[code] = rate
	}
	rateRows.Close()
	if err := rateRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate currencies: %w", err)
	}

	// All assignments of the session in one pass, grouped by transaction.
	assignRows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, participant FROM transaction_assignments
		 WHERE session_id = ? ORDER BY transaction_id, position`,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get transaction assignments: %w", err)
	}
	assignments := make(map[string][]string)
	for assignRows.Next() {
		var txID, participant string
		if err := assignRows.Scan(&txID, &participant); err != nil {
			assignRows.Close()
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments[txID] = append(assignments[txID], participant)
	}
	assignRows.Close()
	if err := assignRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate assignments: %w", err)
	}

	txRows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, payer, currency, date
		 FROM transactions WHERE session_id = ? ORDER BY position`,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}
	defer txRows.Close()

	session.Transactions = nil
	for txRows.Next() {
		var t models.Transaction
		if err := txRows.Scan(&t.ID, &t.Description, &t.Amount, &t.Payer, &t.Currency, &t.Date); err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.AssignedTo = assignments[t.ID]
		session.Transactions = append(session.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return nil
}
