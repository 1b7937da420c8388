// Package calc holds the pure derived-value computations: estimated 1RM,
// volume, body composition, percent change and goal progress.
package calc

import (
	"errors"
	"math"
)

var ErrInvalidReps = errors.New("reps must be a positive integer")

// Round2 rounds to 2 decimal places, the precision used for stored derived
// values. In-memory comparisons may use full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EstimatedOneRepMax projects a maximal single-rep lift from a multi-rep set
// using the Epley formula. At exactly 1 rep the weight is returned as is, no
// extrapolation.
func EstimatedOneRepMax(weight float64, reps int) (float64, error) {
	if reps < 1 {
		return 0, ErrInvalidReps
	}
	if reps == 1 {
		return weight, nil
	}
	return Round2(weight * (1 + float64(reps)/30)), nil
}

func Volume(weight float64, reps int) float64 {
	return Round2(weight * float64(reps))
}

type BodyComposition struct {
	FatMass  float64
	LeanMass float64
}

// BodyComp splits a body weight into fat and lean mass. bodyFatPercent is
// expected in [0,100] but values outside are passed through, not clamped.
func BodyComp(weight, bodyFatPercent float64) BodyComposition {
	fatMass := Round2(weight * bodyFatPercent / 100)
	return BodyComposition{
		FatMass:  fatMass,
		LeanMass: Round2(weight - fatMass),
	}
}

// Change describes the difference between two samples. When the old value is
// zero a percentage cannot be computed: Infinite marks a change from zero to
// something, NotApplicable marks zero to zero.
type Change struct {
	Absolute      float64
	Percent       float64
	Infinite      bool
	NotApplicable bool
}

func PercentChange(oldValue, newValue float64) Change {
	absolute := newValue - oldValue
	if oldValue == 0 {
		if absolute == 0 {
			return Change{NotApplicable: true}
		}
		return Change{Absolute: absolute, Infinite: true}
	}
	return Change{
		Absolute: absolute,
		Percent:  absolute / oldValue * 100,
	}
}

// GoalProgress reports how close the best achieved e1RM is to the goal,
// clamped at 100. The second return is false when no goal is set
// (goalWeight <= 0) or the goal reps are invalid.
func GoalProgress(bestE1RM, goalWeight float64, goalReps int) (int, bool) {
	if goalWeight <= 0 {
		return 0, false
	}
	goalE1RM, err := EstimatedOneRepMax(goalWeight, goalReps)
	if err != nil {
		return 0, false
	}
	progress := int(math.Round(bestE1RM / goalE1RM * 100))
	if progress > 100 {
		progress = 100
	}
	return progress, true
}
