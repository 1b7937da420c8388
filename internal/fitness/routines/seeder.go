package routines

import (
	"context"
	"fmt"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Seeder writes the starter catalog and example routine for a brand new
// user. The emptiness check on the routines collection makes it idempotent,
// a user with any routine at all is never reseeded.
type Seeder struct {
	store  docstore.Store
	userID string
}

func NewSeeder(store docstore.Store, userID string) *Seeder {
	return &Seeder{
		store:  store,
		userID: userID,
	}
}

func (s *Seeder) EnsureDefaults(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	existing, err := s.store.GetOnce(ctx, docstore.UserCollection(s.userID, docstore.CollRoutines))
	if err != nil {
		return fmt.Errorf("get routines: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Debugf("seeding default data for user %s", s.userID)

	pechoID := uuid.NewString()
	espaldaID := uuid.NewString()
	piernasID := uuid.NewString()
	muscleGroups := map[string]fitness.MuscleGroup{
		pechoID:   {Name: "Pecho", Color: "#ef4444"},
		espaldaID: {Name: "Espalda", Color: "#3b82f6"},
		piernasID: {Name: "Piernas", Color: "#22c55e"},
	}

	pressBancaID := uuid.NewString()
	pressBanca := fitness.Exercise{
		Name:           "Press Banca",
		MuscleGroupID:  pechoID,
		SubcategoryIDs: []string{},
		Goal:           100,
		GoalReps:       1,
	}
	sentadillaID := uuid.NewString()
	sentadilla := fitness.Exercise{
		Name:           "Sentadilla",
		MuscleGroupID:  piernasID,
		SubcategoryIDs: []string{},
		Goal:           120,
		GoalReps:       1,
	}

	routineID := uuid.NewString()
	routine := fitness.Routine{
		Name:     "Rutina de Ejemplo",
		IsActive: true,
	}

	days := []fitness.RoutineDay{
		{
			Name:  "Día 1",
			Order: 1,
			Exercises: []fitness.RoutineExercise{{
				ID:         uuid.NewString(),
				ExerciseID: pressBancaID,
				Name:       pressBanca.Name,
				Muscle:     "Pecho",
				Sets:       4,
				Series:     make([]fitness.Series, 4),
			}},
		},
		{
			Name:  "Día 2",
			Order: 2,
			Exercises: []fitness.RoutineExercise{{
				ID:         uuid.NewString(),
				ExerciseID: sentadillaID,
				Name:       sentadilla.Name,
				Muscle:     "Piernas",
				Sets:       4,
				Series:     make([]fitness.Series, 4),
			}},
		},
	}

	type seedDoc struct {
		path   string
		id     string
		entity any
	}
	seedDocs := []seedDoc{
		{docstore.UserCollection(s.userID, docstore.CollExercises), pressBancaID, pressBanca},
		{docstore.UserCollection(s.userID, docstore.CollExercises), sentadillaID, sentadilla},
		{docstore.UserCollection(s.userID, docstore.CollRoutines), routineID, routine},
	}
	for id, mg := range muscleGroups {
		seedDocs = append(seedDocs, seedDoc{docstore.UserCollection(s.userID, docstore.CollMuscleGroups), id, mg})
	}
	for _, day := range days {
		seedDocs = append(seedDocs, seedDoc{docstore.RoutineDaysPath(s.userID, routineID), uuid.NewString(), day})
	}

	ops := make([]docstore.Op, 0, len(seedDocs))
	for _, doc := range seedDocs {
		fields, fieldsErr := fitness.Fields(doc.entity)
		if fieldsErr != nil {
			return fieldsErr
		}
		ops = append(ops, docstore.Op{
			Kind:   docstore.OpCreate,
			Path:   doc.path,
			ID:     doc.id,
			Fields: fields,
		})
	}

	return s.store.Batch(ctx, ops)
}
