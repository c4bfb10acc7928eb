package models

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
)

type TimelineSuite struct {
	suite.Suite
	player id.PlayerID
	author id.PlayerID
	now    time.Time
}

func TestTimelineSuite(t *testing.T) {
	suite.Run(t, new(TimelineSuite))
}

func (s *TimelineSuite) SetupTest() {
	s.player = id.NewPlayerID()
	s.author = id.NewPlayerID()
	s.now = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func (s *TimelineSuite) record(value float64, start string) *Record {
	d, err := id.ParseDate(start)
	s.Require().NoError(err)
	r, err := NewRecord(id.NewHandicapRecordID(), s.player, s.author, value, d, "", s.now)
	s.Require().NoError(err)
	return r
}

func (s *TimelineSuite) date(v string) id.Date {
	d, err := id.ParseDate(v)
	s.Require().NoError(err)
	return d
}

func (s *TimelineSuite) assertInterval(r *Record, value float64, start, end string) {
	s.Equal(value, r.Value)
	s.Equal(start, r.Start.String())
	if end == "" {
		s.Nil(r.End, "record starting %s should be open", start)
		return
	}
	s.Require().NotNil(r.End, "record starting %s should be closed", start)
	s.Equal(end, r.End.String())
}

// TestSpliceScenario walks the three-step insertion from the handicap committee example.
func (s *TimelineSuite) TestSpliceScenario() {
	tl := NewTimeline(s.player, nil)

	_, err := tl.Insert(s.record(10, "2024-01-01"))
	s.Require().NoError(err)
	s.Require().Equal(1, tl.Len())
	s.assertInterval(tl.Records()[0], 10, "2024-01-01", "")

	splice, err := tl.Insert(s.record(12, "2024-06-01"))
	s.Require().NoError(err)
	s.Require().NotNil(splice.Truncated)
	s.Equal(10.0, splice.Truncated.Value)
	recs := tl.Records()
	s.assertInterval(recs[0], 10, "2024-01-01", "2024-06-01")
	s.assertInterval(recs[1], 12, "2024-06-01", "")

	_, err = tl.Insert(s.record(11, "2025-01-01"))
	s.Require().NoError(err)
	recs = tl.Records()
	s.Require().Len(recs, 3)
	s.assertInterval(recs[0], 10, "2024-01-01", "2024-06-01")
	s.assertInterval(recs[1], 12, "2024-06-01", "2025-01-01")
	s.assertInterval(recs[2], 11, "2025-01-01", "")
	s.Equal(11.0, tl.Current().Value)
	s.NoError(tl.Validate())
}

func (s *TimelineSuite) TestBackdatedInsertIsBoundedBySuccessor() {
	tl := NewTimeline(s.player, nil)
	_, err := tl.Insert(s.record(10, "2024-01-01"))
	s.Require().NoError(err)
	_, err = tl.Insert(s.record(11, "2025-01-01"))
	s.Require().NoError(err)

	splice, err := tl.Insert(s.record(12, "2024-06-01"))
	s.Require().NoError(err)

	s.assertInterval(splice.Inserted, 12, "2024-06-01", "2025-01-01")
	s.Require().NotNil(splice.Truncated)
	s.assertInterval(splice.Truncated, 10, "2024-01-01", "2024-06-01")
	s.Equal(11.0, tl.Current().Value, "current stays with the later-dated record")
	s.NoError(tl.Validate())
}

func (s *TimelineSuite) TestInsertBeforeEarliest() {
	tl := NewTimeline(s.player, nil)
	_, err := tl.Insert(s.record(10, "2024-01-01"))
	s.Require().NoError(err)

	splice, err := tl.Insert(s.record(15, "2023-01-01"))
	s.Require().NoError(err)

	s.Nil(splice.Truncated)
	s.assertInterval(splice.Inserted, 15, "2023-01-01", "2024-01-01")
	s.NoError(tl.Validate())
}

func (s *TimelineSuite) TestEqualStartSupersedes() {
	tl := NewTimeline(s.player, nil)
	_, err := tl.Insert(s.record(10, "2024-01-01"))
	s.Require().NoError(err)
	original, err := tl.Insert(s.record(12, "2024-06-01"))
	s.Require().NoError(err)
	_, err = tl.Insert(s.record(11, "2025-01-01"))
	s.Require().NoError(err)

	splice, err := tl.Insert(s.record(13, "2024-06-01"))
	s.Require().NoError(err)

	s.Require().NotNil(splice.Superseded)
	s.Equal(original.Inserted.ID, splice.Superseded.ID)
	s.Nil(splice.Truncated)
	recs := tl.Records()
	s.Require().Len(recs, 3)
	s.assertInterval(recs[1], 13, "2024-06-01", "2025-01-01")
	s.Nil(tl.Find(original.Inserted.ID))
	s.NoError(tl.Validate())
}

func (s *TimelineSuite) TestOnDate() {
	tl := NewTimeline(s.player, nil)
	for _, r := range []*Record{s.record(10, "2024-01-01"), s.record(12, "2024-06-01"), s.record(11, "2025-01-01")} {
		_, err := tl.Insert(r)
		s.Require().NoError(err)
	}

	s.Nil(tl.OnDate(s.date("2023-12-31")))
	s.Equal(10.0, tl.OnDate(s.date("2024-01-01")).Value)
	s.Equal(10.0, tl.OnDate(s.date("2024-05-31")).Value)
	s.Equal(12.0, tl.OnDate(s.date("2024-06-01")).Value, "end is exclusive")
	s.Equal(11.0, tl.OnDate(s.date("2030-01-01")).Value)
}

func (s *TimelineSuite) TestRemove() {
	s.Run("rejects the only record", func() {
		tl := NewTimeline(s.player, nil)
		r := s.record(10, "2024-01-01")
		_, err := tl.Insert(r)
		s.Require().NoError(err)

		_, err = tl.Remove(r.ID, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(1, tl.Len())
	})

	s.Run("removing one of two leaves one", func() {
		tl := NewTimeline(s.player, nil)
		first := s.record(10, "2024-01-01")
		second := s.record(12, "2024-06-01")
		_, _ = tl.Insert(first)
		_, _ = tl.Insert(second)

		removal, err := tl.Remove(second.ID, s.now)
		s.Require().NoError(err)
		s.Equal(1, tl.Len())
		s.Require().NotNil(removal.Stitched)
		s.Nil(removal.Stitched.End, "predecessor reopens when the open record is deleted")
		s.NoError(tl.Validate())
	})

	s.Run("removing a middle record re-stitches the gap", func() {
		tl := NewTimeline(s.player, nil)
		middle := s.record(12, "2024-06-01")
		for _, r := range []*Record{s.record(10, "2024-01-01"), middle, s.record(11, "2025-01-01")} {
			_, _ = tl.Insert(r)
		}

		removal, err := tl.Remove(middle.ID, s.now)
		s.Require().NoError(err)
		s.Require().NotNil(removal.Stitched)
		s.assertInterval(removal.Stitched, 10, "2024-01-01", "2025-01-01")
		s.NoError(tl.Validate())
	})

	s.Run("removing the earliest record needs no stitching", func() {
		tl := NewTimeline(s.player, nil)
		first := s.record(10, "2024-01-01")
		_, _ = tl.Insert(first)
		_, _ = tl.Insert(s.record(12, "2024-06-01"))

		removal, err := tl.Remove(first.ID, s.now)
		s.Require().NoError(err)
		s.Nil(removal.Stitched)
		s.NoError(tl.Validate())
	})

	s.Run("unknown record is not found", func() {
		tl := NewTimeline(s.player, []*Record{s.record(10, "2024-01-01")})
		_, err := tl.Remove(id.NewHandicapRecordID(), s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *TimelineSuite) TestValidateDetectsBrokenHistory() {
	a := s.record(10, "2024-01-01")
	b := s.record(12, "2024-06-01")

	s.Run("gap", func() {
		end := s.date("2024-03-01")
		a.End = &end
		tl := NewTimeline(s.player, []*Record{a, b})
		s.True(dErrors.HasCode(tl.Validate(), dErrors.CodeInvariantViolation))
	})

	s.Run("two open records", func() {
		a.End = nil
		tl := NewTimeline(s.player, []*Record{a, b})
		s.True(dErrors.HasCode(tl.Validate(), dErrors.CodeInvariantViolation))
	})
}

func (s *TimelineSuite) TestInsertRejectsForeignRecord() {
	tl := NewTimeline(s.player, nil)
	other, err := NewRecord(id.NewHandicapRecordID(), id.NewPlayerID(), s.author, 10, s.date("2024-01-01"), "", s.now)
	s.Require().NoError(err)
	_, err = tl.Insert(other)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

// TestRandomInsertionsKeepPartition applies random insertions and deletions and
// checks the invariant set after every step.
func (s *TimelineSuite) TestRandomInsertionsKeepPartition() {
	rng := rand.New(rand.NewSource(42))
	base := s.date("2020-01-01")
	tl := NewTimeline(s.player, nil)

	for step := 0; step < 500; step++ {
		if tl.Len() > 1 && rng.Intn(4) == 0 {
			recs := tl.Records()
			_, err := tl.Remove(recs[rng.Intn(len(recs))].ID, s.now)
			s.Require().NoError(err)
		} else {
			start := base.AddDays(rng.Intn(2000))
			r, err := NewRecord(id.NewHandicapRecordID(), s.player, s.author, float64(rng.Intn(60)-5), start, "", s.now)
			s.Require().NoError(err)
			_, err = tl.Insert(r)
			s.Require().NoError(err)
		}
		s.Require().NoError(tl.Validate(), "step %d", step)

		open := 0
		for _, r := range tl.Records() {
			if r.IsCurrent() {
				open++
			}
		}
		s.Require().LessOrEqual(open, 1)
	}
}
