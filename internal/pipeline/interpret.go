package pipeline

import (
	"context"
	"fmt"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/prefs"
)

// InterpretPreferences runs the preference interpreter against the named
// coach's persona. A requested style change is applied to the coach record
// immediately; the other updates (spice, frequency, focus) are subscriber
// settings owned by the messaging surface and are returned for it to apply.
func (s *Service) InterpretPreferences(ctx context.Context, coachID, userMessage string) (prefs.Decision, error) {
	c, err := s.coaches.Get(coachID)
	if err != nil {
		return prefs.Decision{}, fmt.Errorf("loading coach %s: %w", coachID, err)
	}

	d := s.interpreter.Interpret(ctx, c, userMessage)

	if d.ShouldUpdateStyle {
		c.PrimaryStyle = coach.ResponseStyle(d.NewStyle)
		if err := s.coaches.Update(c); err != nil {
			s.logger.Warn("failed to persist style change", "coach_id", c.ID, "error", err)
		}
	}

	return d, nil
}
