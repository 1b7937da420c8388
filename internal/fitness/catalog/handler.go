package catalog

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

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=catalog_test

type catalogRepo interface {
	MuscleGroups() []fitness.MuscleGroup
	Subcategories() []fitness.Subcategory
	ExercisesDetailed() []ExerciseView
	AddMuscleGroup(ctx context.Context, mg fitness.MuscleGroup) (string, error)
	UpdateMuscleGroup(ctx context.Context, mg fitness.MuscleGroup) error
	DeleteMuscleGroup(ctx context.Context, id string) error
	AddSubcategory(ctx context.Context, sc fitness.Subcategory) (string, error)
	UpdateSubcategory(ctx context.Context, sc fitness.Subcategory) error
	DeleteSubcategory(ctx context.Context, id string) error
	AddExercise(ctx context.Context, ex fitness.Exercise) (string, error)
	UpdateExercise(ctx context.Context, ex fitness.Exercise) error
	DeleteExercise(ctx context.Context, id string) error
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

type MuscleGroupsResponse struct {
	MuscleGroups []fitness.MuscleGroup `json:"muscleGroups"`
}

type SubcategoriesResponse struct {
	Subcategories []fitness.Subcategory `json:"subcategories"`
}

type ExercisesResponse struct {
	Exercises []ExerciseView `json:"exercises"`
}

// exerciseRequest carries goal values as strings, the way the editor sends
// them. Empty goal falls back to 0, empty goal reps to 1.
type exerciseRequest struct {
	Name           string   `json:"name"`
	MuscleGroupID  string   `json:"muscleGroupId"`
	SubcategoryIDs []string `json:"subcategoryIds"`
	Goal           string   `json:"goal"`
	GoalReps       string   `json:"goalReps"`
	Notes          string   `json:"notes"`
}

func (req exerciseRequest) toExercise(id string) (fitness.Exercise, error) {
	goal := 0.0
	if req.Goal != "" {
		parsed, err := strconv.ParseFloat(req.Goal, 64)
		if err != nil {
			return fitness.Exercise{}, errors.New("goal is not a number")
		}
		goal = parsed
	}

	goalReps := 1
	if req.GoalReps != "" {
		parsed, err := strconv.Atoi(req.GoalReps)
		if err != nil {
			return fitness.Exercise{}, errors.New("goal reps is not a number")
		}
		goalReps = parsed
	}

	return fitness.Exercise{
		ID:             id,
		Name:           req.Name,
		MuscleGroupID:  req.MuscleGroupID,
		SubcategoryIDs: req.SubcategoryIDs,
		Goal:           goal,
		GoalReps:       goalReps,
		Notes:          req.Notes,
	}, nil
}

type Handler struct {
	repo catalogRepo
}

func NewHandler(repo catalogRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/muscles", handler.handleListMuscleGroups).Methods("GET", "OPTIONS").Name("catalog-muscles")
	router.HandleFunc("/muscles", handler.handleAddMuscleGroup).Methods("POST", "OPTIONS").Name("catalog-muscles-new")
	router.HandleFunc("/muscles/{id}", handler.handleUpdateMuscleGroup).Methods("PUT", "OPTIONS").Name("catalog-muscles-update")
	router.HandleFunc("/muscles/{id}", handler.handleDeleteMuscleGroup).Methods("DELETE", "OPTIONS").Name("catalog-muscles-delete")

	router.HandleFunc("/subcategories", handler.handleListSubcategories).Methods("GET", "OPTIONS").Name("catalog-subcategories")
	router.HandleFunc("/subcategories", handler.handleAddSubcategory).Methods("POST", "OPTIONS").Name("catalog-subcategories-new")
	router.HandleFunc("/subcategories/{id}", handler.handleUpdateSubcategory).Methods("PUT", "OPTIONS").Name("catalog-subcategories-update")
	router.HandleFunc("/subcategories/{id}", handler.handleDeleteSubcategory).Methods("DELETE", "OPTIONS").Name("catalog-subcategories-delete")

	router.HandleFunc("/exercises", handler.handleListExercises).Methods("GET", "OPTIONS").Name("catalog-exercises")
	router.HandleFunc("/exercises", handler.handleAddExercise).Methods("POST", "OPTIONS").Name("catalog-exercises-new")
	router.HandleFunc("/exercises/{id}", handler.handleUpdateExercise).Methods("PUT", "OPTIONS").Name("catalog-exercises-update")
	router.HandleFunc("/exercises/{id}", handler.handleDeleteExercise).Methods("DELETE", "OPTIONS").Name("catalog-exercises-delete")
}

func (handler *Handler) handleListMuscleGroups(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.muscles")
	defer span.End()

	respJson, err := json.Marshal(MuscleGroupsResponse{MuscleGroups: handler.repo.MuscleGroups()})
	if err != nil {
		log.Errorf("marshal muscle groups: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleAddMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.muscles.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var mg fitness.MuscleGroup
	if err := json.NewDecoder(r.Body).Decode(&mg); err != nil {
		log.Tracef("new muscle group, unmarshal json params: %s", err)
		http.Error(w, "add muscle group failed", http.StatusBadRequest)
		return
	}

	id, err := handler.repo.AddMuscleGroup(ctx, mg)
	if err != nil {
		writeCatalogError(w, "add muscle group", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add muscle group response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.muscles.update")
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

	var mg fitness.MuscleGroup
	if err := json.NewDecoder(r.Body).Decode(&mg); err != nil {
		log.Tracef("update muscle group, unmarshal json params: %s", err)
		http.Error(w, "update muscle group failed", http.StatusBadRequest)
		return
	}
	mg.ID = id

	if err := handler.repo.UpdateMuscleGroup(ctx, mg); err != nil {
		writeCatalogError(w, "update muscle group", err)
		return
	}

	writeUpdatedResponse(w, id)
}

func (handler *Handler) handleDeleteMuscleGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.muscles.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteMuscleGroup(ctx, id); err != nil {
		writeCatalogError(w, "delete muscle group", err)
		return
	}

	writeDeletedResponse(w, id)
}

func (handler *Handler) handleListSubcategories(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.subcategories")
	defer span.End()

	respJson, err := json.Marshal(SubcategoriesResponse{Subcategories: handler.repo.Subcategories()})
	if err != nil {
		log.Errorf("marshal subcategories: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleAddSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.subcategories.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var sc fitness.Subcategory
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		log.Tracef("new subcategory, unmarshal json params: %s", err)
		http.Error(w, "add subcategory failed", http.StatusBadRequest)
		return
	}

	id, err := handler.repo.AddSubcategory(ctx, sc)
	if err != nil {
		writeCatalogError(w, "add subcategory", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add subcategory response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.subcategories.update")
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

	var sc fitness.Subcategory
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		log.Tracef("update subcategory, unmarshal json params: %s", err)
		http.Error(w, "update subcategory failed", http.StatusBadRequest)
		return
	}
	sc.ID = id

	if err := handler.repo.UpdateSubcategory(ctx, sc); err != nil {
		writeCatalogError(w, "update subcategory", err)
		return
	}

	writeUpdatedResponse(w, id)
}

func (handler *Handler) handleDeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.subcategories.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteSubcategory(ctx, id); err != nil {
		writeCatalogError(w, "delete subcategory", err)
		return
	}

	writeDeletedResponse(w, id)
}

func (handler *Handler) handleListExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises")
	defer span.End()

	respJson, err := json.Marshal(ExercisesResponse{Exercises: handler.repo.ExercisesDetailed()})
	if err != nil {
		log.Errorf("marshal exercises: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	ex, err := req.toExercise("")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := handler.repo.AddExercise(ctx, ex)
	if err != nil {
		writeCatalogError(w, "add exercise", err)
		return
	}

	respJson, err := json.Marshal(AddedResponse{ID: id})
	if err != nil {
		log.Errorf("marshal add exercise response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.update")
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

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}

	ex, err := req.toExercise(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateExercise(ctx, ex); err != nil {
		writeCatalogError(w, "update exercise", err)
		return
	}

	writeUpdatedResponse(w, id)
}

func (handler *Handler) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteExercise(ctx, id); err != nil {
		writeCatalogError(w, "delete exercise", err)
		return
	}

	writeDeletedResponse(w, id)
}

func writeCatalogError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNameEmpty), errors.Is(err, ErrMuscleGroupEmpty), errors.Is(err, ErrGoalNegative):
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
