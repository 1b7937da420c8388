// Package catalog manages the exercise taxonomy: muscle groups,
// subcategories and exercises.
package catalog

import (
	"context"
	"errors"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

// UnknownReferent is rendered when a referenced muscle group is absent from
// the mirror. Deleting a muscle group never cascades, orphaned references
// simply display as unknown.
const UnknownReferent = "Desconocido"

var (
	ErrNameEmpty        = errors.New("name is empty")
	ErrMuscleGroupEmpty = errors.New("muscle group is empty")
	ErrGoalNegative     = errors.New("goal must not be negative")
)

// ExerciseView is an exercise with its muscle group name resolved for
// display.
type ExerciseView struct {
	fitness.Exercise
	MuscleGroupName string `json:"muscleGroupName"`
}

type mirror interface {
	MuscleGroups() []fitness.MuscleGroup
	Subcategories() []fitness.Subcategory
	Exercises() []fitness.Exercise
}

type Service struct {
	store  docstore.Store
	mirror mirror
	userID string
}

func NewService(store docstore.Store, mirror mirror, userID string) *Service {
	return &Service{
		store:  store,
		mirror: mirror,
		userID: userID,
	}
}

func (s *Service) MuscleGroups() []fitness.MuscleGroup {
	return s.mirror.MuscleGroups()
}

func (s *Service) Subcategories() []fitness.Subcategory {
	return s.mirror.Subcategories()
}

func (s *Service) ExercisesDetailed() []ExerciseView {
	muscleGroups := s.mirror.MuscleGroups()
	names := make(map[string]string, len(muscleGroups))
	for _, mg := range muscleGroups {
		names[mg.ID] = mg.Name
	}

	exercises := s.mirror.Exercises()
	views := make([]ExerciseView, 0, len(exercises))
	for _, ex := range exercises {
		name, known := names[ex.MuscleGroupID]
		if !known {
			name = UnknownReferent
		}
		views = append(views, ExerciseView{
			Exercise:        ex,
			MuscleGroupName: name,
		})
	}
	return views
}

func (s *Service) AddMuscleGroup(ctx context.Context, mg fitness.MuscleGroup) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.addMuscleGroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if mg.Name == "" {
		return "", ErrNameEmpty
	}

	fields, err := fitness.Fields(mg)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, docstore.UserCollection(s.userID, docstore.CollMuscleGroups), fields)
}

func (s *Service) UpdateMuscleGroup(ctx context.Context, mg fitness.MuscleGroup) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.updateMuscleGroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if mg.Name == "" {
		return ErrNameEmpty
	}

	fields, err := fitness.Fields(mg)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.UserCollection(s.userID, docstore.CollMuscleGroups), mg.ID, fields)
}

func (s *Service) DeleteMuscleGroup(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.deleteMuscleGroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// no cascade, dependents keep their reference and render as unknown
	return s.store.Delete(ctx, docstore.UserCollection(s.userID, docstore.CollMuscleGroups), id)
}

func (s *Service) AddSubcategory(ctx context.Context, sc fitness.Subcategory) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.addSubcategory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sc.Name == "" {
		return "", ErrNameEmpty
	}
	if sc.MuscleGroupID == "" {
		return "", ErrMuscleGroupEmpty
	}

	fields, err := fitness.Fields(sc)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, docstore.UserCollection(s.userID, docstore.CollSubcategories), fields)
}

func (s *Service) UpdateSubcategory(ctx context.Context, sc fitness.Subcategory) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.updateSubcategory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sc.Name == "" {
		return ErrNameEmpty
	}
	if sc.MuscleGroupID == "" {
		return ErrMuscleGroupEmpty
	}

	fields, err := fitness.Fields(sc)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.UserCollection(s.userID, docstore.CollSubcategories), sc.ID, fields)
}

func (s *Service) DeleteSubcategory(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.deleteSubcategory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.store.Delete(ctx, docstore.UserCollection(s.userID, docstore.CollSubcategories), id)
}

// AddExercise normalizes before writing: goal reps fall back to 1, the
// subcategory set to empty.
func (s *Service) AddExercise(ctx context.Context, ex fitness.Exercise) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateExercise(&ex); err != nil {
		return "", err
	}

	fields, err := fitness.Fields(ex)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, docstore.UserCollection(s.userID, docstore.CollExercises), fields)
}

func (s *Service) UpdateExercise(ctx context.Context, ex fitness.Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.updateExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateExercise(&ex); err != nil {
		return err
	}

	fields, err := fitness.Fields(ex)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.UserCollection(s.userID, docstore.CollExercises), ex.ID, fields)
}

func (s *Service) DeleteExercise(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.deleteExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.store.Delete(ctx, docstore.UserCollection(s.userID, docstore.CollExercises), id)
}

func validateExercise(ex *fitness.Exercise) error {
	if ex.Name == "" {
		return ErrNameEmpty
	}
	if ex.MuscleGroupID == "" {
		return ErrMuscleGroupEmpty
	}
	if ex.Goal < 0 {
		return ErrGoalNegative
	}
	if ex.GoalReps < 1 {
		ex.GoalReps = 1
	}
	if ex.SubcategoryIDs == nil {
		ex.SubcategoryIDs = []string{}
	}
	return nil
}
