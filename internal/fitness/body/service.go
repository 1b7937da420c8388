// Package body manages body measurements and the profile height singleton:
// CRUD with fatMass/leanMass kept fresh, a per-day weight chart, BMI and a
// weight trend summary.
package body

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
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	summaryCacheSizeBytes = 256 * 1024
	summaryCacheTTL       = 5 * time.Minute
)

var summaryCacheKey = []byte("body::summary")

var (
	ErrInvalidWeight = errors.New("weight must be a positive number")
	ErrInvalidHeight = errors.New("height must be a positive number")
)

type mirror interface {
	BodyMeasurements() []fitness.BodyMeasurement
	Profile() fitness.Profile
}

type ListParams struct {
	DateFrom string
	DateTo   string
	SortDesc bool
	Page     int
	Size     int
}

// ChartPoint is the heaviest measurement of one calendar day.
type ChartPoint struct {
	Date     string  `json:"date"`
	Weight   float64 `json:"weight"`
	FatMass  float64 `json:"fatMass"`
	LeanMass float64 `json:"leanMass"`
}

type ChangeView struct {
	Absolute      float64 `json:"absolute"`
	Percent       float64 `json:"percent"`
	Infinite      bool    `json:"infinite"`
	NotApplicable bool    `json:"notApplicable"`
}

// Summary is the body dashboard payload: the latest measurement, BMI when
// the profile height is known, and the change between the two most recent
// per-day samples.
type Summary struct {
	Latest       *fitness.BodyMeasurement `json:"latest"`
	BMI          *float64                 `json:"bmi"`
	WeightChange *ChangeView              `json:"weightChange"`
	PerDay       []ChartPoint             `json:"perDay"`
}

type Service struct {
	store   docstore.Store
	mirror  mirror
	userID  string
	cache   *freecache.Cache
	nowFunc func() time.Time
}

func NewService(store docstore.Store, mirror mirror, userID string) *Service {
	return &Service{
		store:   store,
		mirror:  mirror,
		userID:  userID,
		cache:   freecache.NewCache(summaryCacheSizeBytes),
		nowFunc: time.Now,
	}
}

// InvalidateSummaryCache drops the cached summary. Hooked to the body
// measurements snapshot delivery.
func (s *Service) InvalidateSummaryCache() {
	s.cache.Clear()
}

func (s *Service) measurementsPath() string {
	return docstore.UserCollection(s.userID, docstore.CollBodyMeasurements)
}

// Measurements runs the filter/sort/paginate pipeline over the mirror.
func (s *Service) Measurements(params ListParams) ([]fitness.BodyMeasurement, int) {
	pipeline := query.Pipeline[fitness.BodyMeasurement]{
		DateRanges: []query.DateRange[fitness.BodyMeasurement]{
			{
				Start: params.DateFrom,
				End:   params.DateTo,
				Value: func(bm fitness.BodyMeasurement) string { return bm.Date },
			},
		},
		Less:       func(a, b fitness.BodyMeasurement) bool { return a.Date < b.Date },
		Descending: params.SortDesc,
	}

	filtered := query.Apply(s.mirror.BodyMeasurements(), pipeline)
	return query.Paginate(filtered, params.Page, params.Size)
}

// Add validates and derives fatMass/leanMass before writing. An empty date
// falls back to today's local calendar date.
func (s *Service) Add(ctx context.Context, bm fitness.BodyMeasurement) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "body.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := computeDerived(&bm); err != nil {
		return "", err
	}
	if bm.Date == "" {
		bm.Date = s.nowFunc().Format("2006-01-02")
	}

	fields, err := fitness.Fields(bm)
	if err != nil {
		return "", err
	}
	id, err := s.store.Create(ctx, s.measurementsPath(), fields)
	if err != nil {
		return "", err
	}

	s.InvalidateSummaryCache()
	return id, nil
}

// Update rederives fatMass and leanMass, they are never left stale.
func (s *Service) Update(ctx context.Context, bm fitness.BodyMeasurement) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "body.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := computeDerived(&bm); err != nil {
		return err
	}

	fields, err := fitness.Fields(bm)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, s.measurementsPath(), bm.ID, fields); err != nil {
		return err
	}

	s.InvalidateSummaryCache()
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "body.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.store.Delete(ctx, s.measurementsPath(), id); err != nil {
		return err
	}

	s.InvalidateSummaryCache()
	return nil
}

// computeDerived overwrites fatMass and leanMass from weight and bodyFat.
// bodyFat outside [0,100] passes through unclamped.
func computeDerived(bm *fitness.BodyMeasurement) error {
	if bm.Weight <= 0 {
		return ErrInvalidWeight
	}
	comp := calc.BodyComp(bm.Weight, bm.BodyFat)
	bm.FatMass = comp.FatMass
	bm.LeanMass = comp.LeanMass
	return nil
}

// UpdateHeight upserts the profile/main singleton.
func (s *Service) UpdateHeight(ctx context.Context, heightCm float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "body.updateHeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if heightCm <= 0 {
		return ErrInvalidHeight
	}

	// read-before-write on the singleton, the mirror may lag
	profilePath := docstore.UserCollection(s.userID, docstore.CollProfile)
	snapshot, err := s.store.GetOnce(ctx, profilePath)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	fields, err := fitness.Fields(fitness.Profile{HeightCm: &heightCm})
	if err != nil {
		return err
	}

	docExists := false
	for _, doc := range snapshot {
		if doc.ID == docstore.DocProfileMain {
			docExists = true
			break
		}
	}

	op := docstore.Op{
		Kind:   docstore.OpCreate,
		Path:   profilePath,
		ID:     docstore.DocProfileMain,
		Fields: fields,
	}
	if docExists {
		op.Kind = docstore.OpUpdate
	}
	if err := s.store.Batch(ctx, []docstore.Op{op}); err != nil {
		return err
	}

	s.InvalidateSummaryCache()
	return nil
}

// Summary computes the dashboard payload from the measurements mirror.
// Results are cached until the next measurements snapshot or local write.
func (s *Service) Summary(ctx context.Context) (_ *Summary, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "body.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if cached, cacheErr := s.cache.Get(summaryCacheKey); cacheErr == nil {
		var summary Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
		log.Error("unmarshal cached body summary, will recompute")
	}

	summary := s.computeSummary()

	if summaryJSON, marshalErr := json.Marshal(summary); marshalErr == nil {
		if err := s.cache.Set(summaryCacheKey, summaryJSON, int(summaryCacheTTL.Seconds())); err != nil {
			log.Errorf("cache body summary: %s", err)
		}
	}

	return summary, nil
}

func (s *Service) computeSummary() *Summary {
	measurements := query.Apply(s.mirror.BodyMeasurements(), query.Pipeline[fitness.BodyMeasurement]{
		Less: func(a, b fitness.BodyMeasurement) bool { return a.Date < b.Date },
	})

	summary := &Summary{PerDay: []ChartPoint{}}

	bestPerDay := query.BestPerKey(measurements,
		func(bm fitness.BodyMeasurement) string { return bm.Date },
		func(bm fitness.BodyMeasurement) float64 { return bm.Weight },
	)
	for _, bm := range bestPerDay {
		summary.PerDay = append(summary.PerDay, ChartPoint{
			Date:     bm.Date,
			Weight:   bm.Weight,
			FatMass:  bm.FatMass,
			LeanMass: bm.LeanMass,
		})
	}

	if len(measurements) > 0 {
		latest := measurements[len(measurements)-1]
		summary.Latest = &latest

		if height := s.mirror.Profile().HeightCm; height != nil && *height > 0 {
			heightM := *height / 100
			bmi := calc.Round2(latest.Weight / (heightM * heightM))
			summary.BMI = &bmi
		}
	}

	if len(summary.PerDay) >= 2 {
		previous := summary.PerDay[len(summary.PerDay)-2]
		latest := summary.PerDay[len(summary.PerDay)-1]
		change := calc.PercentChange(previous.Weight, latest.Weight)
		summary.WeightChange = &ChangeView{
			Absolute:      change.Absolute,
			Percent:       change.Percent,
			Infinite:      change.Infinite,
			NotApplicable: change.NotApplicable,
		}
	}

	return summary
}
