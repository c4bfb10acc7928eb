package models

import (
	"fmt"
	"strings"
	"time"

	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
)

// Handicap index bounds.
const (
	MinValue = -5.0
	MaxValue = 54.0
)

// Default reasons recorded when the caller does not supply one.
const (
	ReasonManualEntry = "Manual entry"
	ReasonInitial     = "Initial handicap"
)

// Record is one validity interval of a player's handicap index.
//
// Invariants:
//   - Value is within [MinValue, MaxValue]
//   - Start is a real calendar date
//   - End is nil for the open (current) interval, otherwise strictly after Start
//
// End is changed only by Timeline splicing; ApplyEdit never touches the
// temporal shape.
type Record struct {
	ID        id.HandicapRecordID `json:"id"`
	PlayerID  id.PlayerID         `json:"player_id"`
	AuthorID  id.PlayerID         `json:"author_id"`
	Value     float64             `json:"value"`
	Start     id.Date             `json:"start"`
	End       *id.Date            `json:"end,omitempty"`
	Reason    string              `json:"reason"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewRecord validates inputs and returns an open record.
func NewRecord(recordID id.HandicapRecordID, playerID, authorID id.PlayerID, value float64, start id.Date, reason string, now time.Time) (*Record, error) {
	if err := ValidateValue(value); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "start date is required")
	}
	if playerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "player is required")
	}
	return &Record{
		ID:        recordID,
		PlayerID:  playerID,
		AuthorID:  authorID,
		Value:     value,
		Start:     start,
		Reason:    normalizeReason(reason),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateValue rejects handicap indexes outside [MinValue, MaxValue].
func ValidateValue(value float64) error {
	if value < MinValue || value > MaxValue {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("handicap value must be between %g and %g", MinValue, MaxValue))
	}
	return nil
}

// IsCurrent reports whether the interval is still open.
func (r *Record) IsCurrent() bool {
	return r.End == nil
}

// ValidOn reports whether d falls in [Start, End).
func (r *Record) ValidOn(d id.Date) bool {
	if d.Before(r.Start) {
		return false
	}
	return r.End == nil || d.Before(*r.End)
}

// DaysActive counts the days the interval covered, up to today when open.
func (r *Record) DaysActive(today id.Date) int {
	end := today
	if r.End != nil {
		end = *r.End
	}
	return r.Start.DaysUntil(end)
}

// ApplyEdit changes value and/or reason. Nil arguments are left untouched; a
// blank reason falls back to ReasonManualEntry like a new record.
func (r *Record) ApplyEdit(value *float64, reason *string, now time.Time) error {
	if value != nil {
		if err := ValidateValue(*value); err != nil {
			return err
		}
	}
	if value != nil {
		r.Value = *value
	}
	if reason != nil {
		r.Reason = normalizeReason(*reason)
	}
	r.UpdatedAt = now
	return nil
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ReasonManualEntry
	}
	return reason
}

// Clone returns a deep copy so callers can stage mutations.
func (r *Record) Clone() *Record {
	c := *r
	if r.End != nil {
		end := *r.End
		c.End = &end
	}
	return &c
}
