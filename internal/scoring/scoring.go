// Package scoring holds the pure handicap and Stableford arithmetic. Every
// function is deterministic and side-effect free, so callers may invoke them
// concurrently without coordination.
package scoring

import (
	"fmt"
	"math"
	"strconv"

	dErrors "stableford/pkg/domain-errors"
)

// StandardSlope is the slope rating of a course of average difficulty.
const StandardSlope = 113.0

// Bounds enforced on hole and score inputs.
const (
	MinStrokes     = 1
	MaxStrokes     = 20
	MinPar         = 3
	MaxPar         = 6
	MinStrokeIndex = 1
	MaxStrokeIndex = 18
	holesPerCycle  = 18
)

// CourseHandicap converts a handicap index to whole strokes for a tee's slope.
// Halves round away from zero.
func CourseHandicap(handicapIndex, slopeRating float64) (int, error) {
	if slopeRating <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "slope rating must be positive")
	}
	return int(math.Round(handicapIndex * slopeRating / StandardSlope)), nil
}

// Differential normalises a gross score against the tee's ratings, rounded to
// one decimal place.
func Differential(grossScore int, courseRating, slopeRating float64) (float64, error) {
	if slopeRating <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "slope rating must be positive")
	}
	raw := (float64(grossScore) - courseRating) * StandardSlope / slopeRating
	return math.Round(raw*10) / 10, nil
}

// StrokesReceived is the number of handicap strokes granted on a hole. A
// course handicap of 18 + strokeIndex or more grants a second stroke.
func StrokesReceived(courseHandicap, strokeIndex int) int {
	received := 0
	if courseHandicap >= strokeIndex {
		received = 1
	}
	if courseHandicap >= strokeIndex+holesPerCycle {
		received = 2
	}
	return received
}

// StablefordPoints scores one hole from its net result against par.
func StablefordPoints(strokes, par, strokeIndex, courseHandicap int) (int, error) {
	if err := ValidateStrokes(strokes); err != nil {
		return 0, err
	}
	if err := ValidateHole(par, strokeIndex); err != nil {
		return 0, err
	}
	net := strokes - StrokesReceived(courseHandicap, strokeIndex)
	return pointsForNetToPar(net - par), nil
}

func pointsForNetToPar(diff int) int {
	switch {
	case diff <= -3:
		return 5
	case diff == -2:
		return 4
	case diff == -1:
		return 3
	case diff == 0:
		return 2
	case diff == 1:
		return 1
	default:
		return 0
	}
}

// ScoreToPar renders the gross result relative to par: "E", "+1", "-2".
func ScoreToPar(strokes, par int) string {
	diff := strokes - par
	switch {
	case diff == 0:
		return "E"
	case diff > 0:
		return "+" + strconv.Itoa(diff)
	default:
		return strconv.Itoa(diff)
	}
}

var scoreNames = map[int]string{
	-4: "Condor",
	-3: "Albatross",
	-2: "Eagle",
	-1: "Birdie",
	0:  "Par",
	1:  "Bogey",
	2:  "Double Bogey",
	3:  "Triple Bogey",
}

// ScoreName returns the traditional name for a hole result.
func ScoreName(strokes, par int) string {
	diff := strokes - par
	if name, ok := scoreNames[diff]; ok {
		return name
	}
	if diff > 0 {
		return fmt.Sprintf("%d-over par", diff)
	}
	return fmt.Sprintf("%d-under par", -diff)
}

// ValidateStrokes rejects stroke counts outside [1, 20].
func ValidateStrokes(strokes int) error {
	if strokes < MinStrokes || strokes > MaxStrokes {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("strokes must be between %d and %d", MinStrokes, MaxStrokes))
	}
	return nil
}

// ValidateHole rejects par outside [3, 6] and stroke index outside [1, 18].
func ValidateHole(par, strokeIndex int) error {
	if par < MinPar || par > MaxPar {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("par must be between %d and %d", MinPar, MaxPar))
	}
	if strokeIndex < MinStrokeIndex || strokeIndex > MaxStrokeIndex {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("stroke index must be between %d and %d", MinStrokeIndex, MaxStrokeIndex))
	}
	return nil
}
