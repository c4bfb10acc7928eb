package models

import (
	"fmt"
	"sort"
	"time"

	coursemodels "stableford/internal/course/models"
	playermodels "stableford/internal/player/models"
	"stableford/internal/scoring"
	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
)

// Status is derived from a round's scores and finalization stamp; it is never
// stored.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusComplete  Status = "complete"
	StatusFinalized Status = "finalized"
)

// RatingSnapshot is the tee rating copied onto a round when it is created.
// Later edits to the tee set never reach it.
type RatingSnapshot struct {
	CourseRating float64             `json:"course_rating"`
	SlopeRating  float64             `json:"slope_rating"`
	Variant      playermodels.Gender `json:"variant"`
}

func (r RatingSnapshot) stamped() bool {
	return r.SlopeRating > 0
}

// Score is the result on one hole. Points is nil until the round has a
// course handicap.
type Score struct {
	HoleNumber int  `json:"hole_number"`
	Strokes    int  `json:"strokes"`
	Points     *int `json:"points,omitempty"`
}

// Round aggregates one player's scores on one course.
type Round struct {
	ID             id.RoundID     `json:"id"`
	PlayerID       id.PlayerID    `json:"player_id"`
	CourseID       id.CourseID    `json:"course_id"`
	TeeSetID       id.TeeSetID    `json:"tee_set_id"`
	DatePlayed     id.Date        `json:"date_played"`
	Ratings        RatingSnapshot `json:"ratings"`
	HandicapUsed   *float64       `json:"handicap_used,omitempty"`
	CourseHandicap *int           `json:"course_handicap,omitempty"`
	ExpectedHoles  int            `json:"expected_holes"`
	Scores         []Score        `json:"scores"`
	TotalStrokes   *int           `json:"total_strokes,omitempty"`
	TotalPoints    *int           `json:"total_points,omitempty"`
	Differential   *float64       `json:"differential,omitempty"`
	FinalizedAt    *time.Time     `json:"finalized_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewRound starts a draft round. The tee set must belong to the course; its
// rating for gender is stamped onto the round.
func NewRound(roundID id.RoundID, playerID id.PlayerID, course coursemodels.Course, tee coursemodels.TeeSet, gender playermodels.Gender, played id.Date, now time.Time) (*Round, error) {
	if played.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "date played is required")
	}
	if tee.CourseID != course.ID {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tee set must belong to the selected course")
	}
	if course.HolesCount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "course has no holes")
	}
	r := &Round{
		ID:            roundID,
		PlayerID:      playerID,
		CourseID:      course.ID,
		TeeSetID:      tee.ID,
		DatePlayed:    played,
		ExpectedHoles: course.HolesCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.StampRatings(tee, gender); err != nil {
		return nil, err
	}
	return r, nil
}

// StampRatings copies the tee rating for gender onto the round. It may only
// happen once.
func (r *Round) StampRatings(tee coursemodels.TeeSet, gender playermodels.Gender) error {
	if r.Ratings.stamped() {
		return dErrors.New(dErrors.CodeInvariantViolation, "round ratings are already stamped")
	}
	if tee.ID != r.TeeSetID {
		return dErrors.New(dErrors.CodeInvariantViolation, "ratings must come from the round's tee set")
	}
	rating, variant := tee.RatingFor(gender)
	if !rating.Complete() {
		return dErrors.New(dErrors.CodeValidation, "tee set has no usable rating")
	}
	r.Ratings = RatingSnapshot{
		CourseRating: rating.CourseRating,
		SlopeRating:  rating.SlopeRating,
		Variant:      variant,
	}
	return nil
}

// ApplyHandicap stamps the handicap index and the course handicap derived
// from it and the stamped slope.
func (r *Round) ApplyHandicap(index float64) error {
	ch, err := scoring.CourseHandicap(index, r.Ratings.SlopeRating)
	if err != nil {
		return err
	}
	r.HandicapUsed = &index
	r.CourseHandicap = &ch
	return nil
}

// IsComplete reports whether every expected hole has a score.
func (r *Round) IsComplete() bool {
	return len(r.Scores) == r.ExpectedHoles
}

func (r *Round) Status() Status {
	switch {
	case r.FinalizedAt != nil:
		return StatusFinalized
	case r.IsComplete():
		return StatusComplete
	default:
		return StatusDraft
	}
}

// NetScore is total strokes less the course handicap, or nil if either is
// unknown.
func (r *Round) NetScore() *int {
	if r.TotalStrokes == nil || r.CourseHandicap == nil {
		return nil
	}
	net := *r.TotalStrokes - *r.CourseHandicap
	return &net
}

// ScoreFor returns the score on a hole, or nil.
func (r *Round) ScoreFor(holeNumber int) *Score {
	i := r.scoreIndex(holeNumber)
	if i < 0 {
		return nil
	}
	return &r.Scores[i]
}

// RecordScore upserts the score for hole and refreshes totals. Any edit
// reopens a finalized round.
func (r *Round) RecordScore(hole coursemodels.Hole, strokes int, now time.Time) error {
	if err := scoring.ValidateStrokes(strokes); err != nil {
		return err
	}
	if err := r.checkHole(hole); err != nil {
		return err
	}
	points, err := r.pointsFor(hole, strokes)
	if err != nil {
		return err
	}

	score := Score{HoleNumber: hole.Number, Strokes: strokes, Points: points}
	if i := r.scoreIndex(hole.Number); i >= 0 {
		r.Scores[i] = score
	} else {
		r.Scores = append(r.Scores, score)
		sort.Slice(r.Scores, func(i, j int) bool { return r.Scores[i].HoleNumber < r.Scores[j].HoleNumber })
	}
	r.touch(now)
	return nil
}

// RemoveScore deletes the score for a hole and refreshes totals.
func (r *Round) RemoveScore(holeNumber int, now time.Time) error {
	i := r.scoreIndex(holeNumber)
	if i < 0 {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no score recorded for hole %d", holeNumber))
	}
	r.Scores = append(r.Scores[:i], r.Scores[i+1:]...)
	r.touch(now)
	return nil
}

// RecalculateTotals sums strokes and points and derives the differential.
// Calling it repeatedly has no further effect.
func (r *Round) RecalculateTotals() {
	if len(r.Scores) == 0 {
		r.TotalStrokes = nil
		r.TotalPoints = nil
		r.Differential = nil
		return
	}
	strokes, points, scored := 0, 0, false
	for _, s := range r.Scores {
		strokes += s.Strokes
		if s.Points != nil {
			points += *s.Points
			scored = true
		}
	}
	r.TotalStrokes = &strokes
	r.TotalPoints = nil
	if scored {
		r.TotalPoints = &points
	}
	r.Differential = nil
	if diff, err := scoring.Differential(strokes, r.Ratings.CourseRating, r.Ratings.SlopeRating); err == nil {
		r.Differential = &diff
	}
}

// Finalize recomputes every hole's points from holes and the stamped course
// handicap, then the totals. A round that is already finalized keeps its
// original stamp.
func (r *Round) Finalize(holes []coursemodels.Hole, now time.Time) error {
	if err := r.rescore(holes); err != nil {
		return err
	}
	r.RecalculateTotals()
	if r.FinalizedAt == nil {
		stamp := now
		r.FinalizedAt = &stamp
		r.UpdatedAt = now
	}
	return nil
}

// Reschedule moves the round to another day. It does not touch the handicap
// snapshot.
func (r *Round) Reschedule(played id.Date) error {
	if played.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "date played is required")
	}
	r.DatePlayed = played
	return nil
}

// ClearHandicap drops the handicap snapshot; points go back to nil on the
// next rescore.
func (r *Round) ClearHandicap() {
	r.HandicapUsed = nil
	r.CourseHandicap = nil
}

// Rescore recomputes every hole's points from holes and the current course
// handicap and refreshes totals. Like any edit it reopens a finalized round.
func (r *Round) Rescore(holes []coursemodels.Hole, now time.Time) error {
	if err := r.rescore(holes); err != nil {
		return err
	}
	r.touch(now)
	return nil
}

func (r *Round) rescore(holes []coursemodels.Hole) error {
	byNumber := make(map[int]coursemodels.Hole, len(holes))
	for _, h := range holes {
		if h.CourseID != r.CourseID {
			return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("hole %d belongs to another course", h.Number))
		}
		byNumber[h.Number] = h
	}
	for i := range r.Scores {
		hole, ok := byNumber[r.Scores[i].HoleNumber]
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("hole %d not found on course", r.Scores[i].HoleNumber))
		}
		points, err := r.pointsFor(hole, r.Scores[i].Strokes)
		if err != nil {
			return err
		}
		r.Scores[i].Points = points
	}
	return nil
}

func (r *Round) checkHole(hole coursemodels.Hole) error {
	if hole.CourseID != r.CourseID {
		return dErrors.New(dErrors.CodeInvariantViolation, "hole does not belong to the round's course")
	}
	if hole.Number < 1 || hole.Number > r.ExpectedHoles {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("hole number must be between 1 and %d", r.ExpectedHoles))
	}
	return nil
}

func (r *Round) pointsFor(hole coursemodels.Hole, strokes int) (*int, error) {
	if r.CourseHandicap == nil {
		return nil, nil
	}
	p, err := scoring.StablefordPoints(strokes, hole.Par, hole.StrokeIndex, *r.CourseHandicap)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Round) touch(now time.Time) {
	r.FinalizedAt = nil
	r.UpdatedAt = now
	r.RecalculateTotals()
}

func (r *Round) scoreIndex(holeNumber int) int {
	i := sort.Search(len(r.Scores), func(i int) bool { return r.Scores[i].HoleNumber >= holeNumber })
	if i < len(r.Scores) && r.Scores[i].HoleNumber == holeNumber {
		return i
	}
	return -1
}

// Clone returns a deep copy.
func (r *Round) Clone() *Round {
	c := *r
	c.Scores = make([]Score, len(r.Scores))
	for i, s := range r.Scores {
		c.Scores[i] = s
		if s.Points != nil {
			p := *s.Points
			c.Scores[i].Points = &p
		}
	}
	c.HandicapUsed = cloneFloat(r.HandicapUsed)
	c.Differential = cloneFloat(r.Differential)
	c.CourseHandicap = cloneInt(r.CourseHandicap)
	c.TotalStrokes = cloneInt(r.TotalStrokes)
	c.TotalPoints = cloneInt(r.TotalPoints)
	if r.FinalizedAt != nil {
		t := *r.FinalizedAt
		c.FinalizedAt = &t
	}
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
