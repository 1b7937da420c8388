// Package records manages personal records: CRUD with derived values kept
// fresh, pipeline-backed listing, pinned favorites and per-exercise insights.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/fitness/calc"
	"github.com/2beens/liftlog/internal/fitness/query"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	// UnknownReferent is rendered for records whose exercise or muscle
	// group no longer exists.
	UnknownReferent = "Desconocido"

	insightsCacheSizeBytes = 1024 * 1024
	insightsCacheTTL       = 5 * time.Minute
)

var (
	ErrFavoritesFull   = errors.New("favorites limit reached")
	ErrExerciseIDEmpty = errors.New("exercise id is empty")
	ErrInvalidWeight   = errors.New("weight must be a positive number")
)

type mirror interface {
	PersonalRecords() []fitness.PersonalRecord
	Exercises() []fitness.Exercise
	MuscleGroups() []fitness.MuscleGroup
	Favorites() fitness.Favorites
}

// RecordView is a personal record with display names resolved from the
// catalog mirrors.
type RecordView struct {
	fitness.PersonalRecord
	ExerciseName    string `json:"exerciseName"`
	MuscleGroupName string `json:"muscleGroupName"`

	muscleGroupID  string
	subcategoryIDs []string
}

type ListParams struct {
	Search         string
	MuscleGroupIDs []string
	SubcategoryIDs []string
	DateFrom       string
	DateTo         string
	MinE1RM        *float64
	MaxE1RM        *float64
	MinWeight      *float64
	MaxWeight      *float64
	SortBy         string
	SortDesc       bool
	Page           int
	Size           int
}

type ChartPoint struct {
	Date string  `json:"date"`
	E1RM float64 `json:"e1rm"`
}

type ChangeView struct {
	Absolute      float64 `json:"absolute"`
	Percent       float64 `json:"percent"`
	Infinite      bool    `json:"infinite"`
	NotApplicable bool    `json:"notApplicable"`
}

// Insights is the per-exercise chart and progress summary.
type Insights struct {
	ExerciseID   string       `json:"exerciseId"`
	BestE1RM     float64      `json:"bestE1rm"`
	GoalProgress *int         `json:"goalProgress"`
	RecentChange *ChangeView  `json:"recentChange"`
	PerDay       []ChartPoint `json:"perDay"`
}

type Service struct {
	store   docstore.Store
	mirror  mirror
	userID  string
	metrics *metrics.Manager
	cache   *freecache.Cache
	nowFunc func() time.Time
}

func NewService(
	store docstore.Store,
	mirror mirror,
	userID string,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		store:   store,
		mirror:  mirror,
		userID:  userID,
		metrics: metricsManager,
		cache:   freecache.NewCache(insightsCacheSizeBytes),
		nowFunc: time.Now,
	}
}

// InvalidateInsightsCache drops all cached insights. Hooked to the personal
// records snapshot delivery.
func (s *Service) InvalidateInsightsCache() {
	s.cache.Clear()
}

// List runs the filter/sort/paginate pipeline over the records mirror.
func (s *Service) List(params ListParams) ([]RecordView, int) {
	views := s.recordViews()

	pipeline := query.Pipeline[RecordView]{
		Search:     params.Search,
		SearchText: func(rv RecordView) string { return rv.ExerciseName },
		SetFilters: []query.SetFilter[RecordView]{
			{
				Accepted: toSet(params.MuscleGroupIDs),
				Values:   func(rv RecordView) []string { return []string{rv.muscleGroupID} },
			},
			{
				Accepted: toSet(params.SubcategoryIDs),
				Values:   func(rv RecordView) []string { return rv.subcategoryIDs },
			},
		},
		DateRanges: []query.DateRange[RecordView]{
			{
				Start: params.DateFrom,
				End:   params.DateTo,
				Value: func(rv RecordView) string { return rv.Date },
			},
		},
		NumberRanges: []query.NumberRange[RecordView]{
			{
				Min:   params.MinE1RM,
				Max:   params.MaxE1RM,
				Value: func(rv RecordView) float64 { return rv.E1RM },
			},
			{
				Min:   params.MinWeight,
				Max:   params.MaxWeight,
				Value: func(rv RecordView) float64 { return rv.Weight },
			},
		},
		Less:       lessFor(params.SortBy),
		Descending: params.SortDesc,
	}

	filtered := query.Apply(views, pipeline)
	return query.Paginate(filtered, params.Page, params.Size)
}

func lessFor(sortBy string) func(a, b RecordView) bool {
	switch sortBy {
	case "exercise":
		return func(a, b RecordView) bool { return query.CompareStrings(a.ExerciseName, b.ExerciseName) }
	case "weight":
		return func(a, b RecordView) bool { return a.Weight < b.Weight }
	case "reps":
		return func(a, b RecordView) bool { return a.Reps < b.Reps }
	case "e1rm":
		return func(a, b RecordView) bool { return a.E1RM < b.E1RM }
	case "volume":
		return func(a, b RecordView) bool { return a.Volume < b.Volume }
	case "date":
		return func(a, b RecordView) bool { return a.Date < b.Date }
	default:
		return nil
	}
}

func (s *Service) recordViews() []RecordView {
	exercises := s.mirror.Exercises()
	exerciseByID := make(map[string]fitness.Exercise, len(exercises))
	for _, ex := range exercises {
		exerciseByID[ex.ID] = ex
	}

	muscleGroups := s.mirror.MuscleGroups()
	muscleNameByID := make(map[string]string, len(muscleGroups))
	for _, mg := range muscleGroups {
		muscleNameByID[mg.ID] = mg.Name
	}

	personalRecords := s.mirror.PersonalRecords()
	views := make([]RecordView, 0, len(personalRecords))
	for _, pr := range personalRecords {
		view := RecordView{
			PersonalRecord:  pr,
			ExerciseName:    UnknownReferent,
			MuscleGroupName: UnknownReferent,
		}
		if ex, found := exerciseByID[pr.ExerciseID]; found {
			view.ExerciseName = ex.Name
			view.muscleGroupID = ex.MuscleGroupID
			view.subcategoryIDs = ex.SubcategoryIDs
			if muscleName, mgFound := muscleNameByID[ex.MuscleGroupID]; mgFound {
				view.MuscleGroupName = muscleName
			}
		}
		views = append(views, view)
	}
	return views
}

// Add validates and computes the derived values before writing. An empty
// date falls back to today's local calendar date.
func (s *Service) Add(ctx context.Context, pr fitness.PersonalRecord) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.computeDerived(&pr); err != nil {
		return "", err
	}
	if pr.Date == "" {
		pr.Date = s.nowFunc().Format("2006-01-02")
	}

	fields, err := fitness.Fields(pr)
	if err != nil {
		return "", err
	}
	id, err := s.store.Create(ctx, docstore.UserCollection(s.userID, docstore.CollPersonalRecords), fields)
	if err != nil {
		return "", err
	}

	s.metrics.CounterPersonalRecords.Inc()
	return id, nil
}

// Update re-parses weight and reps and overwrites e1rm and volume, they are
// never left stale.
func (s *Service) Update(ctx context.Context, pr fitness.PersonalRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.computeDerived(&pr); err != nil {
		return err
	}

	fields, err := fitness.Fields(pr)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.UserCollection(s.userID, docstore.CollPersonalRecords), pr.ID, fields)
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.store.Delete(ctx, docstore.UserCollection(s.userID, docstore.CollPersonalRecords), id)
}

func (s *Service) computeDerived(pr *fitness.PersonalRecord) error {
	if pr.ExerciseID == "" {
		return ErrExerciseIDEmpty
	}
	if pr.Weight <= 0 {
		return ErrInvalidWeight
	}

	e1rm, err := calc.EstimatedOneRepMax(pr.Weight, pr.Reps)
	if err != nil {
		return err
	}
	pr.E1RM = e1rm
	pr.Volume = calc.Volume(pr.Weight, pr.Reps)
	return nil
}

func (s *Service) Favorites() fitness.Favorites {
	return s.mirror.Favorites()
}

// ToggleFavorite removes a favorited exercise or appends a new one. The
// capacity check happens before any mutation, a full list rejects the sixth
// entry instead of evicting the oldest.
func (s *Service) ToggleFavorite(ctx context.Context, exerciseID string) (_ *fitness.Favorites, added bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.toggleFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if exerciseID == "" {
		return nil, false, ErrExerciseIDEmpty
	}

	// read-before-write on the singleton, the mirror may lag
	appStatePath := docstore.UserCollection(s.userID, docstore.CollAppState)
	snapshot, err := s.store.GetOnce(ctx, appStatePath)
	if err != nil {
		return nil, false, fmt.Errorf("get app state: %w", err)
	}
	favorites, err := fitness.FavoritesFromSnapshot(snapshot)
	if err != nil {
		return nil, false, err
	}

	exists := false
	for _, id := range favorites.ExerciseIDs {
		if id == exerciseID {
			exists = true
			break
		}
	}

	if exists {
		kept := make([]string, 0, len(favorites.ExerciseIDs))
		for _, id := range favorites.ExerciseIDs {
			if id != exerciseID {
				kept = append(kept, id)
			}
		}
		favorites.ExerciseIDs = kept
		added = false
	} else {
		if len(favorites.ExerciseIDs) >= fitness.MaxFavorites {
			return nil, false, ErrFavoritesFull
		}
		favorites.ExerciseIDs = append(favorites.ExerciseIDs, exerciseID)
		added = true
	}

	fields, err := fitness.Fields(favorites)
	if err != nil {
		return nil, false, err
	}

	docExists := false
	for _, doc := range snapshot {
		if doc.ID == docstore.DocPRFavorites {
			docExists = true
			break
		}
	}

	op := docstore.Op{
		Kind:   docstore.OpCreate,
		Path:   appStatePath,
		ID:     docstore.DocPRFavorites,
		Fields: fields,
	}
	if docExists {
		op.Kind = docstore.OpUpdate
	}
	if err := s.store.Batch(ctx, []docstore.Op{op}); err != nil {
		return nil, false, err
	}

	return &favorites, added, nil
}

// Insights computes the per-day best series, all-time best e1RM, goal
// progress and the change between the two most recent per-day bests. Results
// are cached until the next records snapshot.
func (s *Service) Insights(ctx context.Context, exerciseID string) (_ *Insights, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "records.insights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if exerciseID == "" {
		return nil, ErrExerciseIDEmpty
	}

	cacheKey := []byte("insights::" + exerciseID)
	if cached, cacheErr := s.cache.Get(cacheKey); cacheErr == nil {
		var insights Insights
		if err := json.Unmarshal(cached, &insights); err == nil {
			return &insights, nil
		}
		log.Errorf("unmarshal cached insights for %s, will recompute", exerciseID)
	}

	insights := s.computeInsights(exerciseID)

	if insightsJSON, marshalErr := json.Marshal(insights); marshalErr == nil {
		if err := s.cache.Set(cacheKey, insightsJSON, int(insightsCacheTTL.Seconds())); err != nil {
			log.Errorf("cache insights for %s: %s", exerciseID, err)
		}
	}

	return insights, nil
}

func (s *Service) computeInsights(exerciseID string) *Insights {
	ofExercise := query.Apply(s.mirror.PersonalRecords(), query.Pipeline[fitness.PersonalRecord]{
		SetFilters: []query.SetFilter[fitness.PersonalRecord]{
			{
				Accepted: toSet([]string{exerciseID}),
				Values:   func(pr fitness.PersonalRecord) []string { return []string{pr.ExerciseID} },
			},
		},
		Less: func(a, b fitness.PersonalRecord) bool { return a.Date < b.Date },
	})

	insights := &Insights{
		ExerciseID: exerciseID,
		PerDay:     []ChartPoint{},
	}

	bestPerDay := query.BestPerKey(ofExercise,
		func(pr fitness.PersonalRecord) string { return pr.Date },
		func(pr fitness.PersonalRecord) float64 { return pr.E1RM },
	)
	for _, pr := range bestPerDay {
		insights.PerDay = append(insights.PerDay, ChartPoint{Date: pr.Date, E1RM: pr.E1RM})
	}

	// the whole-history maximum is a distinct, unscoped reduction
	if best, found := query.MaxBy(ofExercise, func(pr fitness.PersonalRecord) float64 { return pr.E1RM }); found {
		insights.BestE1RM = best.E1RM
	}

	for _, ex := range s.mirror.Exercises() {
		if ex.ID != exerciseID {
			continue
		}
		if progress, hasGoal := calc.GoalProgress(insights.BestE1RM, ex.Goal, ex.GoalReps); hasGoal {
			insights.GoalProgress = &progress
		}
		break
	}

	if len(insights.PerDay) >= 2 {
		previous := insights.PerDay[len(insights.PerDay)-2]
		latest := insights.PerDay[len(insights.PerDay)-1]
		change := calc.PercentChange(previous.E1RM, latest.E1RM)
		insights.RecentChange = &ChangeView{
			Absolute:      change.Absolute,
			Percent:       change.Percent,
			Infinite:      change.Infinite,
			NotApplicable: change.NotApplicable,
		}
	}

	return insights
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
