// Package routines manages workout routine templates and their days: the
// single-active-routine invariant, dense day ordering, duplication and the
// embedded exercise editor semantics.
package routines

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/fitness/query"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/google/uuid"
)

const (
	// CopySuffix is appended to the name of a duplicated routine.
	CopySuffix = " (Copia)"

	// UnknownReferent is denormalized into an embedded exercise when its
	// muscle group is absent from the mirror at add time.
	UnknownReferent = "Desconocido"

	MinSeriesPerExercise = 1
	MaxSeriesPerExercise = 15

	// duplicated days are appended past any existing order, the renumber
	// pass in the same batch brings them back into the dense 1..N range
	duplicatedDayOrder = 999
)

var (
	ErrNameEmpty       = errors.New("name is empty")
	ErrSeriesCount     = errors.New("series count must be between 1 and 15")
	ErrExerciseUnknown = errors.New("exercise not found")
)

type mirror interface {
	Routines() []fitness.Routine
	Exercises() []fitness.Exercise
	MuscleGroups() []fitness.MuscleGroup
	SelectRoutine(ctx context.Context, routineID string) error
	SelectedRoutineID() string
	RoutineDays() []fitness.RoutineDay
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

func (s *Service) routinesPath() string {
	return docstore.UserCollection(s.userID, docstore.CollRoutines)
}

func (s *Service) daysPath(routineID string) string {
	return docstore.RoutineDaysPath(s.userID, routineID)
}

func (s *Service) Routines() []fitness.Routine {
	return s.mirror.Routines()
}

// Add creates a routine. The first routine a user creates becomes active
// right away, later ones start inactive.
func (s *Service) Add(ctx context.Context, routine fitness.Routine) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if routine.Name == "" {
		return "", ErrNameEmpty
	}

	// emptiness decided on an authoritative read, the mirror may lag
	existing, err := s.store.GetOnce(ctx, s.routinesPath())
	if err != nil {
		return "", fmt.Errorf("get routines: %w", err)
	}
	routine.IsActive = len(existing) == 0

	fields, err := fitness.Fields(routine)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, s.routinesPath(), fields)
}

// Update renames a routine and its notes. The active flag is owned by
// Activate, a plain update never touches it.
func (s *Service) Update(ctx context.Context, routine fitness.Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if routine.Name == "" {
		return ErrNameEmpty
	}

	return s.store.Update(ctx, s.routinesPath(), routine.ID, map[string]any{
		"name":  routine.Name,
		"notes": routine.Notes,
	})
}

// Delete removes a routine and all of its days in one atomic batch.
func (s *Service) Delete(ctx context.Context, routineID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	daysSnapshot, err := s.store.GetOnce(ctx, s.daysPath(routineID))
	if err != nil {
		return fmt.Errorf("get routine days: %w", err)
	}

	ops := make([]docstore.Op, 0, len(daysSnapshot)+1)
	for _, doc := range daysSnapshot {
		ops = append(ops, docstore.Op{
			Kind: docstore.OpDelete,
			Path: s.daysPath(routineID),
			ID:   doc.ID,
		})
	}
	ops = append(ops, docstore.Op{
		Kind: docstore.OpDelete,
		Path: s.routinesPath(),
		ID:   routineID,
	})
	return s.store.Batch(ctx, ops)
}

// Activate flips the active flag across all routines in a single atomic
// batch, so at no point do zero or two routines end up active.
func (s *Service) Activate(ctx context.Context, routineID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.activate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	snapshot, err := s.store.GetOnce(ctx, s.routinesPath())
	if err != nil {
		return fmt.Errorf("get routines: %w", err)
	}

	found := false
	ops := make([]docstore.Op, 0, len(snapshot))
	for _, doc := range snapshot {
		if doc.ID == routineID {
			found = true
		}
		ops = append(ops, docstore.Op{
			Kind:   docstore.OpUpdate,
			Path:   s.routinesPath(),
			ID:     doc.ID,
			Fields: map[string]any{"isActive": doc.ID == routineID},
		})
	}
	if !found {
		return docstore.ErrNotFound
	}
	if err := s.store.Batch(ctx, ops); err != nil {
		return err
	}

	// re-point the day mirror at the newly active routine
	if err := s.mirror.SelectRoutine(ctx, routineID); err != nil {
		return fmt.Errorf("select routine days: %w", err)
	}
	return nil
}

// Duplicate copies a routine and its days under a new name with the copy
// suffix. The copy is created inactive and embedded exercises get fresh
// local ids.
func (s *Service) Duplicate(ctx context.Context, routineID string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.duplicate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	routinesSnapshot, err := s.store.GetOnce(ctx, s.routinesPath())
	if err != nil {
		return "", fmt.Errorf("get routines: %w", err)
	}
	routines, err := fitness.RoutinesFromSnapshot(routinesSnapshot)
	if err != nil {
		return "", err
	}

	var source *fitness.Routine
	for i := range routines {
		if routines[i].ID == routineID {
			source = &routines[i]
			break
		}
	}
	if source == nil {
		return "", docstore.ErrNotFound
	}

	days, err := s.daysFromStore(ctx, routineID)
	if err != nil {
		return "", err
	}

	copyID := uuid.NewString()
	copyFields, err := fitness.Fields(fitness.Routine{
		Name:     source.Name + CopySuffix,
		Notes:    source.Notes,
		IsActive: false,
	})
	if err != nil {
		return "", err
	}

	ops := []docstore.Op{{
		Kind:   docstore.OpCreate,
		Path:   s.routinesPath(),
		ID:     copyID,
		Fields: copyFields,
	}}
	for _, day := range days {
		dayCopy := copyDay(day)
		dayFields, err := fitness.Fields(dayCopy)
		if err != nil {
			return "", err
		}
		ops = append(ops, docstore.Op{
			Kind:   docstore.OpCreate,
			Path:   s.daysPath(copyID),
			ID:     uuid.NewString(),
			Fields: dayFields,
		})
	}

	if err := s.store.Batch(ctx, ops); err != nil {
		return "", err
	}
	return copyID, nil
}

// Days returns the days of a routine, ordered. The selected routine is
// served from the day mirror, any other routine falls back to a store read.
func (s *Service) Days(ctx context.Context, routineID string) (_ []fitness.RoutineDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.days")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if routineID != "" && routineID == s.mirror.SelectedRoutineID() {
		days := s.mirror.RoutineDays()
		sort.SliceStable(days, func(i, j int) bool { return days[i].Order < days[j].Order })
		return days, nil
	}
	return s.daysFromStore(ctx, routineID)
}

// daysFromStore reads the days authoritatively. Mutations go through this
// read, the mirror may lag behind an acknowledged write.
func (s *Service) daysFromStore(ctx context.Context, routineID string) ([]fitness.RoutineDay, error) {
	snapshot, err := s.store.GetOnce(ctx, s.daysPath(routineID))
	if err != nil {
		return nil, fmt.Errorf("get routine days: %w", err)
	}
	days, err := fitness.RoutineDaysFromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Order < days[j].Order })
	return days, nil
}

// AddDay appends a day at the end of the routine.
func (s *Service) AddDay(ctx context.Context, routineID string, day fitness.RoutineDay) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.addDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if day.Name == "" {
		return "", ErrNameEmpty
	}
	if err := normalizeDay(&day); err != nil {
		return "", err
	}

	existing, err := s.store.GetOnce(ctx, s.daysPath(routineID))
	if err != nil {
		return "", fmt.Errorf("get routine days: %w", err)
	}
	day.Order = len(existing) + 1

	fields, err := fitness.Fields(day)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, s.daysPath(routineID), fields)
}

// UpdateDay overwrites the day's content. Sets counts and the cached
// progress are re-derived from the series being written.
func (s *Service) UpdateDay(ctx context.Context, routineID string, day fitness.RoutineDay) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.updateDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if day.Name == "" {
		return ErrNameEmpty
	}
	if err := normalizeDay(&day); err != nil {
		return err
	}

	fields, err := fitness.Fields(day)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, s.daysPath(routineID), day.ID, fields)
}

// DeleteDay removes a day and renumbers the remaining ones to a dense 1..N
// in the same batch.
func (s *Service) DeleteDay(ctx context.Context, routineID, dayID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.deleteDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days, err := s.daysFromStore(ctx, routineID)
	if err != nil {
		return err
	}

	found := false
	remaining := make([]fitness.RoutineDay, 0, len(days))
	for _, day := range days {
		if day.ID == dayID {
			found = true
			continue
		}
		remaining = append(remaining, day)
	}
	if !found {
		return docstore.ErrNotFound
	}

	ops := []docstore.Op{{
		Kind: docstore.OpDelete,
		Path: s.daysPath(routineID),
		ID:   dayID,
	}}
	ops = append(ops, s.renumberOps(routineID, remaining)...)
	return s.store.Batch(ctx, ops)
}

// DuplicateDay copies a day to the end of the routine. The copy gets fresh
// embedded exercise ids and starts with every series pending.
func (s *Service) DuplicateDay(ctx context.Context, routineID, dayID string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.duplicateDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days, err := s.daysFromStore(ctx, routineID)
	if err != nil {
		return "", err
	}

	var source *fitness.RoutineDay
	for i := range days {
		if days[i].ID == dayID {
			source = &days[i]
			break
		}
	}
	if source == nil {
		return "", docstore.ErrNotFound
	}

	// the copy goes past every existing order, the renumber pass below
	// settles the whole routine back into a dense 1..N
	dayCopy := copyDay(*source)
	dayCopy.Order = duplicatedDayOrder
	copyID := uuid.NewString()

	withCopy := append(append([]fitness.RoutineDay{}, days...), dayCopy)
	sort.SliceStable(withCopy, func(i, j int) bool { return withCopy[i].Order < withCopy[j].Order })
	withCopy[len(withCopy)-1].ID = copyID

	dayCopy.Order = len(withCopy)
	copyFields, err := fitness.Fields(dayCopy)
	if err != nil {
		return "", err
	}

	ops := []docstore.Op{{
		Kind:   docstore.OpCreate,
		Path:   s.daysPath(routineID),
		ID:     copyID,
		Fields: copyFields,
	}}
	// the copy already carries its final order, renumber the rest
	ops = append(ops, s.renumberOps(routineID, withCopy[:len(withCopy)-1])...)

	if err := s.store.Batch(ctx, ops); err != nil {
		return "", err
	}
	return copyID, nil
}

// ReorderDays moves the day at position from to position to, both 0-based
// over the order-sorted day list, and renumbers in one batch.
func (s *Service) ReorderDays(ctx context.Context, routineID string, from, to int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.reorderDays")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days, err := s.daysFromStore(ctx, routineID)
	if err != nil {
		return err
	}

	reordered := query.Reorder(days, from, to)
	ops := s.renumberOps(routineID, reordered)
	if len(ops) == 0 {
		return nil
	}
	return s.store.Batch(ctx, ops)
}

// AddExerciseToDay embeds a catalog exercise into a day: a fresh local id,
// the exercise name and muscle group name denormalized at add time, and the
// requested number of pending series.
func (s *Service) AddExerciseToDay(
	ctx context.Context,
	routineID, dayID, exerciseID string,
	seriesCount int,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.addExerciseToDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if seriesCount < MinSeriesPerExercise || seriesCount > MaxSeriesPerExercise {
		return ErrSeriesCount
	}

	embedded, err := s.buildEmbedded(exerciseID, seriesCount)
	if err != nil {
		return err
	}

	day, err := s.getDay(ctx, routineID, dayID)
	if err != nil {
		return err
	}
	day.Exercises = append(day.Exercises, embedded)
	return s.UpdateDay(ctx, routineID, day)
}

// RemoveExerciseFromDay drops an embedded exercise by its local id.
func (s *Service) RemoveExerciseFromDay(ctx context.Context, routineID, dayID, embeddedID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "routines.removeExerciseFromDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	day, err := s.getDay(ctx, routineID, dayID)
	if err != nil {
		return err
	}

	kept := make([]fitness.RoutineExercise, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		if ex.ID != embeddedID {
			kept = append(kept, ex)
		}
	}
	if len(kept) == len(day.Exercises) {
		return docstore.ErrNotFound
	}
	day.Exercises = kept
	return s.UpdateDay(ctx, routineID, day)
}

func (s *Service) getDay(ctx context.Context, routineID, dayID string) (fitness.RoutineDay, error) {
	days, err := s.daysFromStore(ctx, routineID)
	if err != nil {
		return fitness.RoutineDay{}, err
	}
	for _, day := range days {
		if day.ID == dayID {
			return day, nil
		}
	}
	return fitness.RoutineDay{}, docstore.ErrNotFound
}

func (s *Service) buildEmbedded(exerciseID string, seriesCount int) (fitness.RoutineExercise, error) {
	var master *fitness.Exercise
	for _, ex := range s.mirror.Exercises() {
		if ex.ID == exerciseID {
			master = &ex
			break
		}
	}
	if master == nil {
		return fitness.RoutineExercise{}, ErrExerciseUnknown
	}

	muscleName := UnknownReferent
	for _, mg := range s.mirror.MuscleGroups() {
		if mg.ID == master.MuscleGroupID {
			muscleName = mg.Name
			break
		}
	}

	series := make([]fitness.Series, seriesCount)
	return fitness.RoutineExercise{
		ID:         uuid.NewString(),
		ExerciseID: master.ID,
		Name:       master.Name,
		Muscle:     muscleName,
		Sets:       seriesCount,
		Series:     series,
	}, nil
}

// renumberOps writes order = position+1 for the days whose stored order
// differs, positions taken from the given slice order.
func (s *Service) renumberOps(routineID string, days []fitness.RoutineDay) []docstore.Op {
	var ops []docstore.Op
	for i, day := range days {
		wantOrder := i + 1
		if day.Order == wantOrder {
			continue
		}
		ops = append(ops, docstore.Op{
			Kind:   docstore.OpUpdate,
			Path:   s.daysPath(routineID),
			ID:     day.ID,
			Fields: map[string]any{"order": wantOrder},
		})
	}
	return ops
}

func copyDay(day fitness.RoutineDay) fitness.RoutineDay {
	dayCopy := day
	dayCopy.ID = ""
	dayCopy.Exercises = make([]fitness.RoutineExercise, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		exCopy := ex
		exCopy.ID = uuid.NewString()
		exCopy.Series = make([]fitness.Series, len(ex.Series))
		exCopy.Sets = len(exCopy.Series)
		dayCopy.Exercises = append(dayCopy.Exercises, exCopy)
	}
	dayCopy.Progress = dayCopy.ComputeProgress()
	return dayCopy
}

func normalizeDay(day *fitness.RoutineDay) error {
	if day.Exercises == nil {
		day.Exercises = []fitness.RoutineExercise{}
	}
	for i := range day.Exercises {
		ex := &day.Exercises[i]
		if len(ex.Series) < MinSeriesPerExercise || len(ex.Series) > MaxSeriesPerExercise {
			return ErrSeriesCount
		}
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		ex.Sets = len(ex.Series)
	}
	day.Progress = day.ComputeProgress()
	return nil
}
