package models

import (
	"fmt"
	"sort"

	playermodels "stableford/internal/player/models"
	"stableford/internal/scoring"
	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
)

// Course is the reference data a round is played against.
type Course struct {
	ID         id.CourseID `json:"id"`
	Name       string      `json:"name"`
	HolesCount int         `json:"holes_count"`
}

// Hole is one hole of a course's layout.
type Hole struct {
	CourseID    id.CourseID `json:"course_id"`
	Number      int         `json:"number"`
	Par         int         `json:"par"`
	StrokeIndex int         `json:"stroke_index"`
}

// Rating is the scratch expectation and relative difficulty of a tee.
type Rating struct {
	CourseRating float64 `json:"course_rating"`
	SlopeRating  float64 `json:"slope_rating"`
}

// Complete reports whether both values are usable.
func (r Rating) Complete() bool {
	return r.CourseRating > 0 && r.SlopeRating > 0
}

// TeeSet carries the men's rating, which every tee set has, and an optional
// women's override.
type TeeSet struct {
	ID       id.TeeSetID `json:"id"`
	CourseID id.CourseID `json:"course_id"`
	Name     string      `json:"name"`
	Men      Rating      `json:"men"`
	Women    *Rating     `json:"women,omitempty"`
}

// RatingFor returns the rating that applies to gender and the variant it came
// from. Female players fall back to the men's rating when the override is
// absent or incomplete.
func (t TeeSet) RatingFor(gender playermodels.Gender) (Rating, playermodels.Gender) {
	if gender == playermodels.GenderFemale && t.Women != nil && t.Women.Complete() {
		return *t.Women, playermodels.GenderFemale
	}
	return t.Men, playermodels.GenderMale
}

// Validate checks the mandatory men's rating.
func (t TeeSet) Validate() error {
	if t.CourseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tee set must belong to a course")
	}
	if !t.Men.Complete() {
		return dErrors.New(dErrors.CodeValidation, "tee set requires a course and slope rating")
	}
	return nil
}

// ValidateLayout checks a course's holes: numbers 1..HolesCount each present
// once, valid par and stroke index, and stroke indexes unique.
func ValidateLayout(course Course, holes []Hole) error {
	if len(holes) != course.HolesCount {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("course has %d holes, got %d", course.HolesCount, len(holes)))
	}
	sorted := append([]Hole(nil), holes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	seenIndex := make(map[int]int, len(sorted))
	for i, h := range sorted {
		if h.CourseID != course.ID {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("hole %d belongs to another course", h.Number))
		}
		if h.Number != i+1 {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("hole numbers must run 1..%d", course.HolesCount))
		}
		if err := scoring.ValidateHole(h.Par, h.StrokeIndex); err != nil {
			return err
		}
		if other, ok := seenIndex[h.StrokeIndex]; ok {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("stroke index %d used by holes %d and %d", h.StrokeIndex, other, h.Number))
		}
		seenIndex[h.StrokeIndex] = h.Number
	}
	return nil
}
