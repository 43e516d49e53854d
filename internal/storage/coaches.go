package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kalambet/coachwire/internal/coach"
)

const coachColumns = `id, name, handle, description, primary_style, secondary_style,
	energy, directness, formality, emotion_focus, voice_profile, catchphrases,
	active, public, content_pieces, conversations, created_at, updated_at`

// CreateCoach inserts a new coach record.
func (s *Store) CreateCoach(c coach.Coach) error {
	voiceJSON, err := json.Marshal(c.Voice)
	if err != nil {
		return fmt.Errorf("marshalling voice profile: %w", err)
	}
	phrasesJSON, err := marshalStrings(c.Catchphrases)
	if err != nil {
		return fmt.Errorf("marshalling catchphrases: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO coaches (`+coachColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Handle, c.Description, string(c.PrimaryStyle), string(c.SecondaryStyle),
		c.Traits.Energy, c.Traits.Directness, c.Traits.Formality, c.Traits.EmotionFocus,
		string(voiceJSON), phrasesJSON,
		boolToInt(c.Active), boolToInt(c.Public), c.ContentPieces, c.Conversations,
		c.CreatedAt.UTC().Format(time.RFC3339), c.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetCoach returns a coach by ID.
func (s *Store) GetCoach(id string) (coach.Coach, error) {
	row := s.db.QueryRow(`SELECT `+coachColumns+` FROM coaches WHERE id = ?`, id)
	return scanCoach(row)
}

// GetCoachByHandle returns a coach by its unique handle.
func (s *Store) GetCoachByHandle(handle string) (coach.Coach, error) {
	row := s.db.QueryRow(`SELECT `+coachColumns+` FROM coaches WHERE handle = ?`, handle)
	return scanCoach(row)
}

// ListCoaches returns all active coaches, newest first.
func (s *Store) ListCoaches() ([]coach.Coach, error) {
	rows, err := s.db.Query(`SELECT ` + coachColumns + ` FROM coaches WHERE active = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coaches []coach.Coach
	for rows.Next() {
		c, err := scanCoach(rows)
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, c)
	}
	return coaches, rows.Err()
}

// UpdateCoach overwrites the mutable fields of a coach record.
func (s *Store) UpdateCoach(c coach.Coach) error {
	voiceJSON, err := json.Marshal(c.Voice)
	if err != nil {
		return fmt.Errorf("marshalling voice profile: %w", err)
	}
	phrasesJSON, err := marshalStrings(c.Catchphrases)
	if err != nil {
		return fmt.Errorf("marshalling catchphrases: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE coaches SET
			name = ?, description = ?, primary_style = ?, secondary_style = ?,
			energy = ?, directness = ?, formality = ?, emotion_focus = ?,
			voice_profile = ?, catchphrases = ?, active = ?, public = ?,
			content_pieces = ?, conversations = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Description, string(c.PrimaryStyle), string(c.SecondaryStyle),
		c.Traits.Energy, c.Traits.Directness, c.Traits.Formality, c.Traits.EmotionFocus,
		string(voiceJSON), phrasesJSON, boolToInt(c.Active), boolToInt(c.Public),
		c.ContentPieces, c.Conversations, time.Now().UTC().Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeactivateCoach soft-deletes a coach.
func (s *Store) DeactivateCoach(id string) error {
	res, err := s.db.Exec(`UPDATE coaches SET active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// IncrementCoachConversations bumps the conversation counter.
func (s *Store) IncrementCoachConversations(id string) error {
	res, err := s.db.Exec(`UPDATE coaches SET conversations = conversations + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCoach(row rowScanner) (coach.Coach, error) {
	var c coach.Coach
	var primary, secondary, voiceJSON, phrasesJSON, createdAt, updatedAt string
	var active, public int

	err := row.Scan(
		&c.ID, &c.Name, &c.Handle, &c.Description, &primary, &secondary,
		&c.Traits.Energy, &c.Traits.Directness, &c.Traits.Formality, &c.Traits.EmotionFocus,
		&voiceJSON, &phrasesJSON, &active, &public, &c.ContentPieces, &c.Conversations,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return coach.Coach{}, ErrNotFound
	}
	if err != nil {
		return coach.Coach{}, err
	}

	c.PrimaryStyle = coach.ResponseStyle(primary)
	c.SecondaryStyle = coach.ResponseStyle(secondary)
	c.Active = active == 1
	c.Public = public == 1

	if err := json.Unmarshal([]byte(voiceJSON), &c.Voice); err != nil {
		return coach.Coach{}, fmt.Errorf("parsing voice profile for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(phrasesJSON), &c.Catchphrases); err != nil {
		return coach.Coach{}, fmt.Errorf("parsing catchphrases for %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return coach.Coach{}, fmt.Errorf("parsing created_at for %s: %w", c.ID, err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return coach.Coach{}, fmt.Errorf("parsing updated_at for %s: %w", c.ID, err)
	}
	return c, nil
}

func marshalStrings(list []string) (string, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
