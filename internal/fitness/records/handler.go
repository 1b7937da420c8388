package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/fitness/calc"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=records_mocks_test.go -package=records_test

type recordsRepo interface {
	List(params ListParams) ([]RecordView, int)
	Add(ctx context.Context, pr fitness.PersonalRecord) (string, error)
	Update(ctx context.Context, pr fitness.PersonalRecord) error
	Delete(ctx context.Context, id string) error
	Insights(ctx context.Context, exerciseID string) (*Insights, error)
	Favorites() fitness.Favorites
	ToggleFavorite(ctx context.Context, exerciseID string) (*fitness.Favorites, bool, error)
}

type ListResponse struct {
	Records []RecordView `json:"records"`
	Total   int          `json:"total"`
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

type FavoritesResponse struct {
	ExerciseIDs []string `json:"exerciseIds"`
}

type ToggleFavoriteResponse struct {
	ExerciseIDs []string `json:"exerciseIds"`
	Added       bool     `json:"added"`
}

// recordRequest carries weight and reps as strings, the way the record form
// sends them. Unlike the exercise goal they are mandatory here.
type recordRequest struct {
	ExerciseID string `json:"exerciseId"`
	Weight     string `json:"weight"`
	Reps       string `json:"reps"`
	Date       string `json:"date"`
	Note       string `json:"note"`
}

func (req recordRequest) toRecord(id string) (fitness.PersonalRecord, error) {
	weight, err := strconv.ParseFloat(req.Weight, 64)
	if err != nil {
		return fitness.PersonalRecord{}, errors.New("weight is not a number")
	}
	reps, err := strconv.Atoi(req.Reps)
	if err != nil {
		return fitness.PersonalRecord{}, errors.New("reps is not a number")
	}

	return fitness.PersonalRecord{
		ID:         id,
		ExerciseID: req.ExerciseID,
		Weight:     weight,
		Reps:       reps,
		Date:       req.Date,
		Note:       req.Note,
	}, nil
}

type Handler struct {
	repo recordsRepo
}

func NewHandler(repo recordsRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/list", handler.handleList).Methods("GET", "OPTIONS").Name("records-list")
	router.HandleFunc("/", handler.handleAdd).Methods("POST", "OPTIONS").Name("records-new")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("records-update")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("records-delete")

	router.HandleFunc("/insights/{exerciseId}", handler.handleInsights).Methods("GET", "OPTIONS").Name("records-insights")
	router.HandleFunc("/favorites", handler.handleFavorites).Methods("GET", "OPTIONS").Name("records-favorites")
	router.HandleFunc("/favorites/{exerciseId}/toggle", handler.handleToggleFavorite).Methods("POST", "OPTIONS").Name("records-favorites-toggle")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.list")
	defer span.End()

	params, err := listParamsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, total := handler.repo.List(params)
	respJson, err := json.Marshal(ListResponse{Records: views, Total: total})
	if err != nil {
		log.Errorf("marshal records list: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func listParamsFromQuery(r *http.Request) (ListParams, error) {
	query := r.URL.Query()
	params := ListParams{
		Search:         query.Get("search"),
		MuscleGroupIDs: splitCSV(query.Get("muscles")),
		SubcategoryIDs: splitCSV(query.Get("subcategories")),
		DateFrom:       query.Get("from"),
		DateTo:         query.Get("to"),
		SortBy:         query.Get("sort"),
		SortDesc:       query.Get("dir") == "desc",
	}

	for name, target := range map[string]**float64{
		"minE1rm":   &params.MinE1RM,
		"maxE1rm":   &params.MaxE1RM,
		"minWeight": &params.MinWeight,
		"maxWeight": &params.MaxWeight,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ListParams{}, errors.New(name + " is not a number")
		}
		*target = &parsed
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

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new record, unmarshal json params: %s", err)
		http.Error(w, "add record failed", http.StatusBadRequest)
		return
	}

	pr, err := req.toRecord("")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := handler.repo.Add(ctx, pr)
	if err != nil {
		writeRecordsError(w, "add record", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add record response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.update")
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

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update record, unmarshal json params: %s", err)
		http.Error(w, "update record failed", http.StatusBadRequest)
		return
	}

	pr, err := req.toRecord(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, pr); err != nil {
		writeRecordsError(w, "update record", err)
		return
	}

	respJson, err := json.Marshal(UpdatedResponse{UpdatedID: id})
	if err != nil {
		log.Errorf("marshal update record response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		writeRecordsError(w, "delete record", err)
		return
	}

	respJson, err := json.Marshal(DeletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("marshal delete record response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.insights")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	insights, err := handler.repo.Insights(ctx, exerciseID)
	if err != nil {
		writeRecordsError(w, "get insights", err)
		return
	}

	respJson, err := json.Marshal(insights)
	if err != nil {
		log.Errorf("marshal insights: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.favorites")
	defer span.End()

	favorites := handler.repo.Favorites()
	respJson, err := json.Marshal(FavoritesResponse{ExerciseIDs: favorites.ExerciseIDs})
	if err != nil {
		log.Errorf("marshal favorites: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.favorites.toggle")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	favorites, added, err := handler.repo.ToggleFavorite(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, ErrFavoritesFull) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeRecordsError(w, "toggle favorite", err)
		return
	}

	respJson, err := json.Marshal(ToggleFavoriteResponse{
		ExerciseIDs: favorites.ExerciseIDs,
		Added:       added,
	})
	if err != nil {
		log.Errorf("marshal toggle favorite response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func writeRecordsError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrExerciseIDEmpty),
		errors.Is(err, ErrInvalidWeight),
		errors.Is(err, calc.ErrInvalidReps):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, docstore.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
