package routines

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

//go:generate mockgen -source=$GOFILE -destination=routines_mocks_test.go -package=routines_test

type routinesRepo interface {
	Routines() []fitness.Routine
	Add(ctx context.Context, routine fitness.Routine) (string, error)
	Update(ctx context.Context, routine fitness.Routine) error
	Delete(ctx context.Context, routineID string) error
	Activate(ctx context.Context, routineID string) error
	Duplicate(ctx context.Context, routineID string) (string, error)
	Days(ctx context.Context, routineID string) ([]fitness.RoutineDay, error)
	AddDay(ctx context.Context, routineID string, day fitness.RoutineDay) (string, error)
	UpdateDay(ctx context.Context, routineID string, day fitness.RoutineDay) error
	DeleteDay(ctx context.Context, routineID, dayID string) error
	DuplicateDay(ctx context.Context, routineID, dayID string) (string, error)
	ReorderDays(ctx context.Context, routineID string, from, to int) error
	AddExerciseToDay(ctx context.Context, routineID, dayID, exerciseID string, seriesCount int) error
	RemoveExerciseFromDay(ctx context.Context, routineID, dayID, embeddedID string) error
}

type RoutinesResponse struct {
	Routines []fitness.Routine `json:"routines"`
}

type DaysResponse struct {
	Days []fitness.RoutineDay `json:"days"`
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

type routineRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// addExerciseRequest carries the series count as a string, the way the day
// editor sends it. Empty falls back to 4 sets.
type addExerciseRequest struct {
	ExerciseID string `json:"exerciseId"`
	Series     string `json:"series"`
}

func (req addExerciseRequest) seriesCount() (int, error) {
	if req.Series == "" {
		return 4, nil
	}
	count, err := strconv.Atoi(req.Series)
	if err != nil {
		return 0, errors.New("series is not a number")
	}
	return count, nil
}

type Handler struct {
	repo routinesRepo
}

func NewHandler(repo routinesRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/", handler.handleList).Methods("GET", "OPTIONS").Name("routines-list")
	router.HandleFunc("/", handler.handleAdd).Methods("POST", "OPTIONS").Name("routines-new")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("routines-update")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("routines-delete")
	router.HandleFunc("/{id}/activate", handler.handleActivate).Methods("POST", "OPTIONS").Name("routines-activate")
	router.HandleFunc("/{id}/duplicate", handler.handleDuplicate).Methods("POST", "OPTIONS").Name("routines-duplicate")

	router.HandleFunc("/{id}/days", handler.handleListDays).Methods("GET", "OPTIONS").Name("routines-days")
	router.HandleFunc("/{id}/days", handler.handleAddDay).Methods("POST", "OPTIONS").Name("routines-days-new")
	router.HandleFunc("/{id}/days/reorder", handler.handleReorderDays).Methods("POST", "OPTIONS").Name("routines-days-reorder")
	router.HandleFunc("/{id}/days/{dayId}", handler.handleUpdateDay).Methods("PUT", "OPTIONS").Name("routines-days-update")
	router.HandleFunc("/{id}/days/{dayId}", handler.handleDeleteDay).Methods("DELETE", "OPTIONS").Name("routines-days-delete")
	router.HandleFunc("/{id}/days/{dayId}/duplicate", handler.handleDuplicateDay).Methods("POST", "OPTIONS").Name("routines-days-duplicate")
	router.HandleFunc("/{id}/days/{dayId}/exercises", handler.handleAddExercise).Methods("POST", "OPTIONS").Name("routines-days-exercises-new")
	router.HandleFunc("/{id}/days/{dayId}/exercises/{exerciseId}", handler.handleRemoveExercise).Methods("DELETE", "OPTIONS").Name("routines-days-exercises-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	respJson, err := json.Marshal(RoutinesResponse{Routines: handler.repo.Routines()})
	if err != nil {
		log.Errorf("marshal routines: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req routineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new routine, unmarshal json params: %s", err)
		http.Error(w, "add routine failed", http.StatusBadRequest)
		return
	}

	id, err := handler.repo.Add(ctx, fitness.Routine{Name: req.Name, Notes: req.Notes})
	if err != nil {
		writeRoutinesError(w, "add routine", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add routine response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	var req routineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update routine, unmarshal json params: %s", err)
		http.Error(w, "update routine failed", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, fitness.Routine{ID: id, Name: req.Name, Notes: req.Notes}); err != nil {
		writeRoutinesError(w, "update routine", err)
		return
	}
	writeUpdatedResponse(w, id)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, id); err != nil {
		writeRoutinesError(w, "delete routine", err)
		return
	}
	writeDeletedResponse(w, id)
}

func (handler *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.activate")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.repo.Activate(ctx, id); err != nil {
		writeRoutinesError(w, "activate routine", err)
		return
	}
	writeUpdatedResponse(w, id)
}

func (handler *Handler) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.duplicate")
	defer span.End()

	id := mux.Vars(r)["id"]
	copyID, err := handler.repo.Duplicate(ctx, id)
	if err != nil {
		writeRoutinesError(w, "duplicate routine", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: copyID})
	if err != nil {
		log.Errorf("marshal duplicate routine response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleListDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days")
	defer span.End()

	days, err := handler.repo.Days(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeRoutinesError(w, "list routine days", err)
		return
	}

	respJson, err := json.Marshal(DaysResponse{Days: days})
	if err != nil {
		log.Errorf("marshal routine days: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleAddDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var day fitness.RoutineDay
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		log.Tracef("new routine day, unmarshal json params: %s", err)
		http.Error(w, "add routine day failed", http.StatusBadRequest)
		return
	}

	id, err := handler.repo.AddDay(ctx, mux.Vars(r)["id"], day)
	if err != nil {
		writeRoutinesError(w, "add routine day", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add routine day response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	var day fitness.RoutineDay
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		log.Tracef("update routine day, unmarshal json params: %s", err)
		http.Error(w, "update routine day failed", http.StatusBadRequest)
		return
	}
	day.ID = vars["dayId"]

	if err := handler.repo.UpdateDay(ctx, vars["id"], day); err != nil {
		writeRoutinesError(w, "update routine day", err)
		return
	}
	writeUpdatedResponse(w, day.ID)
}

func (handler *Handler) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.delete")
	defer span.End()

	vars := mux.Vars(r)
	if err := handler.repo.DeleteDay(ctx, vars["id"], vars["dayId"]); err != nil {
		writeRoutinesError(w, "delete routine day", err)
		return
	}
	writeDeletedResponse(w, vars["dayId"])
}

func (handler *Handler) handleDuplicateDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.duplicate")
	defer span.End()

	vars := mux.Vars(r)
	copyID, err := handler.repo.DuplicateDay(ctx, vars["id"], vars["dayId"])
	if err != nil {
		writeRoutinesError(w, "duplicate routine day", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: copyID})
	if err != nil {
		log.Errorf("marshal duplicate routine day response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleReorderDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.reorder")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("reorder routine days, unmarshal json params: %s", err)
		http.Error(w, "reorder routine days failed", http.StatusBadRequest)
		return
	}

	if err := handler.repo.ReorderDays(ctx, id, req.From, req.To); err != nil {
		writeRoutinesError(w, "reorder routine days", err)
		return
	}
	writeUpdatedResponse(w, id)
}

func (handler *Handler) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.exercises.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	var req addExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add day exercise, unmarshal json params: %s", err)
		http.Error(w, "add day exercise failed", http.StatusBadRequest)
		return
	}

	seriesCount, err := req.seriesCount()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.AddExerciseToDay(ctx, vars["id"], vars["dayId"], req.ExerciseID, seriesCount); err != nil {
		writeRoutinesError(w, "add day exercise", err)
		return
	}
	writeUpdatedResponse(w, vars["dayId"])
}

func (handler *Handler) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.days.exercises.delete")
	defer span.End()

	vars := mux.Vars(r)
	if err := handler.repo.RemoveExerciseFromDay(ctx, vars["id"], vars["dayId"], vars["exerciseId"]); err != nil {
		writeRoutinesError(w, "remove day exercise", err)
		return
	}
	writeDeletedResponse(w, vars["exerciseId"])
}

func writeRoutinesError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNameEmpty),
		errors.Is(err, ErrSeriesCount),
		errors.Is(err, ErrExerciseUnknown):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, docstore.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeUpdatedResponse(w http.ResponseWriter, id string) {
	respJson, err := json.Marshal(UpdatedResponse{UpdatedID: id})
	if err != nil {
		log.Errorf("marshal updated response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func writeDeletedResponse(w http.ResponseWriter, id string) {
	respJson, err := json.Marshal(DeletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("marshal deleted response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}
