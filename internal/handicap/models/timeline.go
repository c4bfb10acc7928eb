package models

import (
	"fmt"
	"sort"
	"time"

	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
)

// Timeline is a player's handicap history: records ordered by Start that
// partition time without gaps or overlaps.
//
// Invariants (checked by Validate):
//   - records are sorted by Start and Starts are unique
//   - r[i].End == r[i+1].Start for consecutive records
//   - at most one record is open (End == nil) and it is the last one
type Timeline struct {
	playerID id.PlayerID
	records  []*Record
}

// Splice describes the records touched by an insertion.
type Splice struct {
	Inserted *Record
	// Truncated is the interval the new record was inserted into, with its
	// End already moved to the new Start. Nil when nothing was truncated.
	Truncated *Record
	// Superseded is an existing record that shared the new record's Start and
	// was replaced by it ("last write wins").
	Superseded *Record
}

// Changed returns the records that must be written.
func (s Splice) Changed() []*Record {
	out := []*Record{s.Inserted}
	if s.Truncated != nil {
		out = append(out, s.Truncated)
	}
	return out
}

// Removal describes the records touched by a deletion.
type Removal struct {
	Removed *Record
	// Stitched is the predecessor whose End was extended over the removed
	// interval. Nil when the removed record was the earliest.
	Stitched *Record
}

// NewTimeline takes ownership of copies of records and sorts them by Start.
func NewTimeline(playerID id.PlayerID, records []*Record) *Timeline {
	owned := make([]*Record, 0, len(records))
	for _, r := range records {
		owned = append(owned, r.Clone())
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Start.Before(owned[j].Start)
	})
	return &Timeline{playerID: playerID, records: owned}
}

func (t *Timeline) PlayerID() id.PlayerID { return t.playerID }
func (t *Timeline) Len() int { return len(t.records) }

// Records returns the history in ascending Start order.
func (t *Timeline) Records() []*Record {
	return append([]*Record(nil), t.records...)
}

// Current returns the open record, or nil when the player has no open interval.
func (t *Timeline) Current() *Record {
	if len(t.records) == 0 {
		return nil
	}
	last := t.records[len(t.records)-1]
	if last.IsCurrent() {
		return last
	}
	return nil
}

// OnDate returns the record covering d, or nil.
func (t *Timeline) OnDate(d id.Date) *Record {
	i := t.firstAfter(d) - 1
	if i < 0 {
		return nil
	}
	if r := t.records[i]; r.ValidOn(d) {
		return r
	}
	return nil
}

// Find returns the record with the given ID.
func (t *Timeline) Find(recordID id.HandicapRecordID) *Record {
	if i := t.indexOf(recordID); i >= 0 {
		return t.records[i]
	}
	return nil
}

// Insert splices rec into the timeline. rec.End is overwritten with the Start
// of the next later record (nil when none). The interval containing rec.Start
// is truncated forward to rec.Start; intervals are never extended backward.
func (t *Timeline) Insert(rec *Record) (Splice, error) {
	if rec.PlayerID != t.playerID {
		return Splice{}, dErrors.New(dErrors.CodeInvariantViolation, "record belongs to another player")
	}
	if t.Find(rec.ID) != nil {
		return Splice{}, dErrors.New(dErrors.CodeInvariantViolation, "record is already part of the timeline")
	}

	splice := Splice{Inserted: rec}

	succ := t.firstAfter(rec.Start)
	if succ < len(t.records) {
		end := t.records[succ].Start
		rec.End = &end
	} else {
		rec.End = nil
	}

	pred := succ - 1
	if pred >= 0 && t.records[pred].Start.Equal(rec.Start) {
		splice.Superseded = t.records[pred]
		t.records = append(t.records[:pred], t.records[pred+1:]...)
		pred--
	}

	if pred >= 0 {
		p := t.records[pred]
		if p.ValidOn(rec.Start) && (p.End == nil || rec.Start.Before(*p.End)) {
			start := rec.Start
			p.End = &start
			p.UpdatedAt = rec.CreatedAt
			splice.Truncated = p
		}
	}

	t.records = append(t.records, nil)
	copy(t.records[pred+2:], t.records[pred+1:])
	t.records[pred+1] = rec

	return splice, nil
}

// Remove deletes a record and re-stitches the history: the predecessor takes
// over the removed interval so no gap is left behind. A player with history
// must keep at least one record.
func (t *Timeline) Remove(recordID id.HandicapRecordID, now time.Time) (Removal, error) {
	i := t.indexOf(recordID)
	if i < 0 {
		return Removal{}, dErrors.New(dErrors.CodeNotFound, "handicap record not found")
	}
	if len(t.records) == 1 {
		return Removal{}, dErrors.New(dErrors.CodeInvariantViolation, "cannot delete the player's only handicap record")
	}

	removed := t.records[i]
	removal := Removal{Removed: removed}
	if i > 0 {
		p := t.records[i-1]
		if p.End != nil && p.End.Equal(removed.Start) {
			if removed.End == nil {
				p.End = nil
			} else {
				end := *removed.End
				p.End = &end
			}
			p.UpdatedAt = now
			removal.Stitched = p
		}
	}
	t.records = append(t.records[:i], t.records[i+1:]...)
	return removal, nil
}

// Validate checks the partition invariants.
func (t *Timeline) Validate() error {
	for i, r := range t.records {
		if r.End != nil && !r.End.After(r.Start) {
			return invariantf("record starting %s ends on or before its start", r.Start)
		}
		if i == len(t.records)-1 {
			break
		}
		next := t.records[i+1]
		if !next.Start.After(r.Start) {
			return invariantf("records starting %s and %s are out of order", r.Start, next.Start)
		}
		if r.End == nil {
			return invariantf("open record starting %s is not the latest", r.Start)
		}
		if !r.End.Equal(next.Start) {
			return invariantf("record ending %s does not meet next start %s", *r.End, next.Start)
		}
	}
	return nil
}

// firstAfter returns the index of the first record whose Start is after d.
func (t *Timeline) firstAfter(d id.Date) int {
	return sort.Search(len(t.records), func(i int) bool {
		return t.records[i].Start.After(d)
	})
}

func (t *Timeline) indexOf(recordID id.HandicapRecordID) int {
	for i, r := range t.records {
		if r.ID == recordID {
			return i
		}
	}
	return -1
}

func invariantf(format string, args ...any) error {
	return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf(format, args...))
}
