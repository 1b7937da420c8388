// Package session is the workout session state machine: per-series
// completion within a routine day, synchronous day and routine progress
// recomputation, personal records logged from completed series, and the
// whole-routine reset.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

var (
	ErrWeightRepsRequired = errors.New("both weight and reps are required to log a record")
	ErrWeightNotANumber   = errors.New("weight is not a number")
	ErrRepsNotANumber     = errors.New("reps is not a number")
	ErrSeriesOutOfRange   = errors.New("series index out of range")
)

// recorder turns a logged series into a personal record. Satisfied by the
// records service, which owns the derived e1rm/volume computation.
type recorder interface {
	Add(ctx context.Context, pr fitness.PersonalRecord) (string, error)
}

// SeriesState is the outcome of a series mutation, reported back so the
// caller sees the fresh completion state without waiting for the snapshot.
type SeriesState struct {
	Completed   bool   `json:"completed"`
	DayProgress int    `json:"dayProgress"`
	RecordID    string `json:"recordId,omitempty"`
}

type Service struct {
	store   docstore.Store
	records recorder
	userID  string
	nowFunc func() time.Time
}

func NewService(store docstore.Store, records recorder, userID string) *Service {
	return &Service{
		store:   store,
		records: records,
		userID:  userID,
		nowFunc: time.Now,
	}
}

func (s *Service) daysPath(routineID string) string {
	return docstore.RoutineDaysPath(s.userID, routineID)
}

// QuickComplete toggles only the completed flag of one series. Toggling back
// to pending keeps any previously logged weight, reps and note.
func (s *Service) QuickComplete(
	ctx context.Context,
	routineID, dayID string,
	exerciseIdx, seriesIdx int,
) (_ SeriesState, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.quickComplete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	day, err := s.getDay(ctx, routineID, dayID)
	if err != nil {
		return SeriesState{}, err
	}
	series, err := seriesAt(&day, exerciseIdx, seriesIdx)
	if err != nil {
		return SeriesState{}, err
	}

	series.Completed = !series.Completed
	day.Progress = day.ComputeProgress()

	if err := s.writeDay(ctx, routineID, day); err != nil {
		return SeriesState{}, err
	}
	return SeriesState{Completed: series.Completed, DayProgress: day.Progress}, nil
}

// LogAndComplete marks a series done with optional logged data. With both
// weight and reps present a personal record is created for the exercise's
// master id, dated today. With all inputs empty it degrades to a plain
// completion. Any other combination (one of weight/reps missing, or a note
// without them) is rejected and nothing is written.
func (s *Service) LogAndComplete(
	ctx context.Context,
	routineID, dayID string,
	exerciseIdx, seriesIdx int,
	weight, reps, note string,
) (_ SeriesState, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.logAndComplete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// validate before reading or writing anything, a rejected log is a
	// pure no-op
	if weight == "" && reps == "" {
		if note == "" {
			return s.completeOnly(ctx, routineID, dayID, exerciseIdx, seriesIdx)
		}
		// a note alone is not a loggable record
		return SeriesState{}, ErrWeightRepsRequired
	}
	if weight == "" || reps == "" {
		return SeriesState{}, ErrWeightRepsRequired
	}

	weightVal, err := strconv.ParseFloat(weight, 64)
	if err != nil {
		return SeriesState{}, ErrWeightNotANumber
	}
	repsVal, err := strconv.Atoi(reps)
	if err != nil {
		return SeriesState{}, ErrRepsNotANumber
	}

	day, err := s.getDay(ctx, routineID, dayID)
	if err != nil {
		return SeriesState{}, err
	}
	series, err := seriesAt(&day, exerciseIdx, seriesIdx)
	if err != nil {
		return SeriesState{}, err
	}

	recordID, err := s.records.Add(ctx, fitness.PersonalRecord{
		ExerciseID: day.Exercises[exerciseIdx].ExerciseID,
		Weight:     weightVal,
		Reps:       repsVal,
		Date:       s.nowFunc().Format("2006-01-02"),
		Note:       note,
	})
	if err != nil {
		return SeriesState{}, fmt.Errorf("create personal record: %w", err)
	}
	series.Weight = &weightVal
	series.Reps = &repsVal
	if note != "" {
		series.Note = &note
	}
	series.Completed = true
	day.Progress = day.ComputeProgress()

	if err := s.writeDay(ctx, routineID, day); err != nil {
		return SeriesState{}, err
	}
	return SeriesState{Completed: true, DayProgress: day.Progress, RecordID: recordID}, nil
}

func (s *Service) completeOnly(
	ctx context.Context,
	routineID, dayID string,
	exerciseIdx, seriesIdx int,
) (SeriesState, error) {
	day, err := s.getDay(ctx, routineID, dayID)
	if err != nil {
		return SeriesState{}, err
	}
	series, err := seriesAt(&day, exerciseIdx, seriesIdx)
	if err != nil {
		return SeriesState{}, err
	}

	series.Completed = true
	day.Progress = day.ComputeProgress()

	if err := s.writeDay(ctx, routineID, day); err != nil {
		return SeriesState{}, err
	}
	return SeriesState{Completed: true, DayProgress: day.Progress}, nil
}

// Reset puts every series of every day in the routine back to pending and
// zeroes the cached day progress, in a single atomic batch. Personal records
// created from logged series are historical data and stay.
func (s *Service) Reset(ctx context.Context, routineID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	snapshot, err := s.store.GetOnce(ctx, s.daysPath(routineID))
	if err != nil {
		return fmt.Errorf("get routine days: %w", err)
	}
	days, err := fitness.RoutineDaysFromSnapshot(snapshot)
	if err != nil {
		return err
	}

	ops := make([]docstore.Op, 0, len(days))
	for _, day := range days {
		for i := range day.Exercises {
			clearedSeries := make([]fitness.Series, len(day.Exercises[i].Series))
			day.Exercises[i].Series = clearedSeries
			day.Exercises[i].Sets = len(clearedSeries)
		}
		day.Progress = 0

		fields, fieldsErr := fitness.Fields(day)
		if fieldsErr != nil {
			return fieldsErr
		}
		ops = append(ops, docstore.Op{
			Kind:   docstore.OpUpdate,
			Path:   s.daysPath(routineID),
			ID:     day.ID,
			Fields: fields,
		})
	}
	if len(ops) == 0 {
		return nil
	}
	return s.store.Batch(ctx, ops)
}

// RoutineProgress computes the completion percentage across every series in
// every day of the routine.
func (s *Service) RoutineProgress(ctx context.Context, routineID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.routineProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	snapshot, err := s.store.GetOnce(ctx, s.daysPath(routineID))
	if err != nil {
		return 0, fmt.Errorf("get routine days: %w", err)
	}
	days, err := fitness.RoutineDaysFromSnapshot(snapshot)
	if err != nil {
		return 0, err
	}

	merged := fitness.RoutineDay{}
	for _, day := range days {
		merged.Exercises = append(merged.Exercises, day.Exercises...)
	}
	return merged.ComputeProgress(), nil
}

// getDay reads the day fresh from the store. Progress must be derived from
// the day about to be written, not from a cached mirror, to avoid lost
// updates between two near-simultaneous completions.
func (s *Service) getDay(ctx context.Context, routineID, dayID string) (fitness.RoutineDay, error) {
	snapshot, err := s.store.GetOnce(ctx, s.daysPath(routineID))
	if err != nil {
		return fitness.RoutineDay{}, fmt.Errorf("get routine days: %w", err)
	}
	days, err := fitness.RoutineDaysFromSnapshot(snapshot)
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

func (s *Service) writeDay(ctx context.Context, routineID string, day fitness.RoutineDay) error {
	fields, err := fitness.Fields(day)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, s.daysPath(routineID), day.ID, fields)
}

func seriesAt(day *fitness.RoutineDay, exerciseIdx, seriesIdx int) (*fitness.Series, error) {
	if exerciseIdx < 0 || exerciseIdx >= len(day.Exercises) {
		return nil, ErrSeriesOutOfRange
	}
	ex := &day.Exercises[exerciseIdx]
	if seriesIdx < 0 || seriesIdx >= len(ex.Series) {
		return nil, ErrSeriesOutOfRange
	}
	return &ex.Series[seriesIdx], nil
}
