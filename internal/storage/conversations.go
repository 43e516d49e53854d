package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/coachwire/internal/coach"
)

// TurnRetentionCap is the maximum number of conversation turns kept per
// subscriber. Older turns are pruned on append.
const TurnRetentionCap = 50

// AppendTurn logs a conversation turn for a subscriber and prunes the log
// to the retention cap.
func (s *Store) AppendTurn(subscriberID string, turn coach.Turn) error {
	ts := turn.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning append transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO conversation_turns (id, subscriber_id, role, text_content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), subscriberID, turn.Role, turn.Text, ts.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM conversation_turns WHERE subscriber_id = ? AND id NOT IN (
			SELECT id FROM conversation_turns WHERE subscriber_id = ?
			ORDER BY created_at DESC LIMIT ?
		)`, subscriberID, subscriberID, TurnRetentionCap,
	); err != nil {
		return fmt.Errorf("pruning turns: %w", err)
	}

	return tx.Commit()
}

// GetRecentTurns returns up to n most recent turns for a subscriber in
// chronological order (oldest first).
func (s *Store) GetRecentTurns(subscriberID string, n int) ([]coach.Turn, error) {
	rows, err := s.db.Query(`
		SELECT role, text_content, created_at FROM conversation_turns
		WHERE subscriber_id = ?
		ORDER BY created_at DESC LIMIT ?`, subscriberID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []coach.Turn
	for rows.Next() {
		var t coach.Turn
		var createdAt string
		if err := rows.Scan(&t.Role, &t.Text, &createdAt); err != nil {
			return nil, err
		}
		if t.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing turn timestamp: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
