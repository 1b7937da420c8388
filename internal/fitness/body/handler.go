package body

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=body_mocks_test.go -package=body_test

type bodyRepo interface {
	Measurements(params ListParams) ([]fitness.BodyMeasurement, int)
	Add(ctx context.Context, bm fitness.BodyMeasurement) (string, error)
	Update(ctx context.Context, bm fitness.BodyMeasurement) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*Summary, error)
	UpdateHeight(ctx context.Context, heightCm float64) error
}

type MeasurementsResponse struct {
	Measurements []fitness.BodyMeasurement `json:"measurements"`
	Total        int                       `json:"total"`
}

type AddedResponse struct {
	ID string `json:"id"`
}

type UpdatedResponse struct {
	UpdatedID string `json:"updatedId"`
}

type DeletedResponse struct {
	DeletedID string `json:"deletedId"`
}

type ProfileResponse struct {
	HeightCm float64 `json:"height"`
}

// measurementRequest carries the numbers as strings, the way the
// measurement form sends them. SkeletalMuscle stays optional.
type measurementRequest struct {
	Date           string `json:"date"`
	Weight         string `json:"weight"`
	BodyFat        string `json:"bodyFat"`
	SkeletalMuscle string `json:"skeletalMuscle"`
}

func (req measurementRequest) toMeasurement(id string) (fitness.BodyMeasurement, error) {
	weight, err := strconv.ParseFloat(req.Weight, 64)
	if err != nil {
		return fitness.BodyMeasurement{}, errors.New("weight is not a number")
	}
	bodyFat, err := strconv.ParseFloat(req.BodyFat, 64)
	if err != nil {
		return fitness.BodyMeasurement{}, errors.New("body fat is not a number")
	}

	bm := fitness.BodyMeasurement{
		ID:      id,
		Date:    req.Date,
		Weight:  weight,
		BodyFat: bodyFat,
	}
	if req.SkeletalMuscle != "" {
		skeletalMuscle, err := strconv.ParseFloat(req.SkeletalMuscle, 64)
		if err != nil {
			return fitness.BodyMeasurement{}, errors.New("skeletal muscle is not a number")
		}
		bm.SkeletalMuscle = &skeletalMuscle
	}
	return bm, nil
}

type profileRequest struct {
	Height string `json:"height"`
}

type Handler struct {
	repo bodyRepo
}

func NewHandler(repo bodyRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/measurements", handler.handleList).Methods("GET", "OPTIONS").Name("body-measurements-list")
	router.HandleFunc("/measurements", handler.handleAdd).Methods("POST", "OPTIONS").Name("body-measurements-new")
	router.HandleFunc("/measurements/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("body-measurements-update")
	router.HandleFunc("/measurements/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("body-measurements-delete")

	router.HandleFunc("/summary", handler.handleSummary).Methods("GET", "OPTIONS").Name("body-summary")
	router.HandleFunc("/profile", handler.handleUpdateProfile).Methods("PUT", "OPTIONS").Name("body-profile-update")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.body.list")
	defer span.End()

	params, err := listParamsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	measurements, total := handler.repo.Measurements(params)
	respJson, err := json.Marshal(MeasurementsResponse{Measurements: measurements, Total: total})
	if err != nil {
		log.Errorf("marshal measurements list: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func listParamsFromQuery(r *http.Request) (ListParams, error) {
	query := r.URL.Query()
	params := ListParams{
		DateFrom: query.Get("from"),
		DateTo:   query.Get("to"),
		SortDesc: query.Get("dir") == "desc",
	}

	for name, target := range map[string]*int{
		"page": &params.Page,
		"size": &params.Size,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return ListParams{}, errors.New(name + " is not a number")
		}
		*target = parsed
	}

	return params, nil
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.body.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new measurement, unmarshal json params: %s", err)
		http.Error(w, "add measurement failed", http.StatusBadRequest)
		return
	}

	bm, err := req.toMeasurement("")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := handler.repo.Add(ctx, bm)
	if err != nil {
		writeBodyError(w, "add measurement", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add measurement response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.body.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update measurement, unmarshal json params: %s", err)
		http.Error(w, "update measurement failed", http.StatusBadRequest)
		return
	}

	bm, err := req.toMeasurement(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, bm); err != nil {
		writeBodyError(w, "update measurement", err)
		return
	}

	respJson, err := json.Marshal(UpdatedResponse{UpdatedID: id})
	if err != nil {
		log.Errorf("marshal update measurement response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.body.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		writeBodyError(w, "delete measurement", err)
		return
	}

	respJson, err := json.Marshal(DeletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("marshal delete measurement response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.body.summary")
	defer span.End()

	summary, err := handler.repo.Summary(ctx)
	if err != nil {
		writeBodyError(w, "get summary", err)
		return
	}

	respJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("marshal summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.body.profile.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	height, err := strconv.ParseFloat(req.Height, 64)
	if err != nil {
		http.Error(w, "height is not a number", http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateHeight(ctx, height); err != nil {
		writeBodyError(w, "update profile", err)
		return
	}

	respJson, err := json.Marshal(ProfileResponse{HeightCm: height})
	if err != nil {
		log.Errorf("marshal profile response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func writeBodyError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidWeight),
		errors.Is(err, ErrInvalidHeight):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, docstore.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
