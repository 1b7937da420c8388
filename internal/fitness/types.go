// Package fitness holds the entity types shared by the catalog, records,
// routines, session and body packages, plus the codecs between those types
// and raw store documents.
package fitness

import "math"

// MuscleGroup is the coarse level of the two-level exercise taxonomy.
type MuscleGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Subcategory is the finer taxonomy level, scoped to one muscle group. Its
// lifecycle is independent of the exercises that reference it.
type Subcategory struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MuscleGroupID string `json:"muscleGroupId"`
}

type Exercise struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MuscleGroupID string `json:"muscleGroupId"`
	// SubcategoryIDs should all belong to MuscleGroupID, enforced by the
	// editor surface only, never by storage.
	SubcategoryIDs []string `json:"subcategoryIds"`
	// Goal is the target weight, 0 means no goal set.
	Goal     float64 `json:"goal"`
	GoalReps int     `json:"goalReps"`
	Notes    string  `json:"notes"`
}

// Routine is a reusable multi-day workout template. At most one routine per
// user has IsActive set, maintained by an atomic all-routines batch on
// activation, not by storage.
type Routine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Notes    string `json:"notes"`
	IsActive bool   `json:"isActive"`
}

type RoutineDay struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Order is 1-based and dense within the routine, re-derived by a
	// renumbering pass after every structural change.
	Order     int               `json:"order"`
	Exercises []RoutineExercise `json:"exercises"`
	// Progress is a write-through cached completion percentage (0-100),
	// recomputed on every series mutation.
	Progress int `json:"progress"`
}

// ComputeProgress derives the completion percentage from the series in the
// day. The stored Progress field is a write-through cache of this value,
// writers recompute it from the day they are about to write.
func (d RoutineDay) ComputeProgress() int {
	total := 0
	completed := 0
	for _, ex := range d.Exercises {
		for _, s := range ex.Series {
			total++
			if s.Completed {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// RoutineExercise is embedded in a day, its ID is locally generated and NOT
// the master Exercise id. ExerciseID references the master exercise, used
// when a logged series turns into a personal record. Muscle is the muscle
// group name denormalized at the time of adding, it does not follow later
// renames.
type RoutineExercise struct {
	ID         string `json:"id"`
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	Muscle     string `json:"muscle"`
	// Sets always equals len(Series).
	Sets   int      `json:"sets"`
	Series []Series `json:"series"`
}

// Series with no weight, reps, note and Completed false is pending. The slice
// index is the set number (1-based for display).
type Series struct {
	Completed bool     `json:"completed"`
	Weight    *float64 `json:"weight"`
	Reps      *int     `json:"reps"`
	Note      *string  `json:"note"`
}

func (s Series) IsPending() bool {
	return !s.Completed && s.Weight == nil && s.Reps == nil && s.Note == nil
}

// PersonalRecord is a logged historical lift. E1RM and Volume are stored
// denormalized and overwritten whenever weight or reps change.
type PersonalRecord struct {
	ID         string  `json:"id"`
	ExerciseID string  `json:"exerciseId"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	E1RM       float64 `json:"e1rm"`
	Volume     float64 `json:"volume"`
	// Date is a calendar date, YYYY-MM-DD, no time component.
	Date string `json:"date"`
	Note string `json:"note"`
}

type BodyMeasurement struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	// Weight in kg, BodyFat as a percentage, expected in [0,100] but not
	// clamped.
	Weight         float64  `json:"weight"`
	BodyFat        float64  `json:"bodyFat"`
	SkeletalMuscle *float64 `json:"skeletalMuscle"`
	// FatMass and LeanMass are stored denormalized, derived from Weight
	// and BodyFat on every write.
	FatMass  float64 `json:"fatMass"`
	LeanMass float64 `json:"leanMass"`
}

// Profile is the per-user singleton document profile/main.
type Profile struct {
	HeightCm *float64 `json:"height"`
}

// Favorites is the per-user singleton appState/prFavorites, pinning up to
// five PR cards.
type Favorites struct {
	ExerciseIDs []string `json:"exerciseIds"`
}

const MaxFavorites = 5
