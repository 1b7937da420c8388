package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness/calc"
	"github.com/2beens/liftlog/internal/fitness/records"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=session_mocks_test.go -package=session_test

type sessionRepo interface {
	QuickComplete(ctx context.Context, routineID, dayID string, exerciseIdx, seriesIdx int) (SeriesState, error)
	LogAndComplete(ctx context.Context, routineID, dayID string, exerciseIdx, seriesIdx int, weight, reps, note string) (SeriesState, error)
	Reset(ctx context.Context, routineID string) error
	RoutineProgress(ctx context.Context, routineID string) (int, error)
}

type ProgressResponse struct {
	Progress int `json:"progress"`
}

type ResetResponse struct {
	ResetID string `json:"resetId"`
}

type logRequest struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
	Note   string `json:"note"`
}

type Handler struct {
	repo sessionRepo
}

func NewHandler(repo sessionRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc(
		"/{id}/days/{dayId}/series/{exIdx}/{seriesIdx}/complete",
		handler.handleQuickComplete,
	).Methods("POST", "OPTIONS").Name("session-series-complete")
	router.HandleFunc(
		"/{id}/days/{dayId}/series/{exIdx}/{seriesIdx}/log",
		handler.handleLog,
	).Methods("POST", "OPTIONS").Name("session-series-log")
	router.HandleFunc("/{id}/reset", handler.handleReset).Methods("POST", "OPTIONS").Name("session-reset")
	router.HandleFunc("/{id}/progress", handler.handleProgress).Methods("GET", "OPTIONS").Name("session-progress")
}

func seriesVars(r *http.Request) (routineID, dayID string, exerciseIdx, seriesIdx int, err error) {
	vars := mux.Vars(r)
	routineID = vars["id"]
	dayID = vars["dayId"]
	exerciseIdx, err = strconv.Atoi(vars["exIdx"])
	if err != nil {
		return "", "", 0, 0, errors.New("exercise index is not a number")
	}
	seriesIdx, err = strconv.Atoi(vars["seriesIdx"])
	if err != nil {
		return "", "", 0, 0, errors.New("series index is not a number")
	}
	return routineID, dayID, exerciseIdx, seriesIdx, nil
}

func (handler *Handler) handleQuickComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.complete")
	defer span.End()

	routineID, dayID, exerciseIdx, seriesIdx, err := seriesVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := handler.repo.QuickComplete(ctx, routineID, dayID, exerciseIdx, seriesIdx)
	if err != nil {
		writeSessionError(w, "quick complete", err)
		return
	}
	writeSeriesState(w, state)
}

func (handler *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.log")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	routineID, dayID, exerciseIdx, seriesIdx, err := seriesVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("log series, unmarshal json params: %s", err)
		http.Error(w, "log series failed", http.StatusBadRequest)
		return
	}

	state, err := handler.repo.LogAndComplete(
		ctx, routineID, dayID, exerciseIdx, seriesIdx,
		req.Weight, req.Reps, req.Note,
	)
	if err != nil {
		writeSessionError(w, "log series", err)
		return
	}
	writeSeriesState(w, state)
}

func (handler *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.reset")
	defer span.End()

	routineID := mux.Vars(r)["id"]
	if err := handler.repo.Reset(ctx, routineID); err != nil {
		writeSessionError(w, "reset routine", err)
		return
	}

	respJson, err := json.Marshal(ResetResponse{ResetID: routineID})
	if err != nil {
		log.Errorf("marshal reset response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.progress")
	defer span.End()

	progress, err := handler.repo.RoutineProgress(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, "routine progress", err)
		return
	}

	respJson, err := json.Marshal(ProgressResponse{Progress: progress})
	if err != nil {
		log.Errorf("marshal progress response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func writeSeriesState(w http.ResponseWriter, state SeriesState) {
	respJson, err := json.Marshal(state)
	if err != nil {
		log.Errorf("marshal series state: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func writeSessionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrWeightRepsRequired),
		errors.Is(err, ErrWeightNotANumber),
		errors.Is(err, ErrRepsNotANumber),
		errors.Is(err, ErrSeriesOutOfRange),
		errors.Is(err, records.ErrInvalidWeight),
		errors.Is(err, calc.ErrInvalidReps):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, docstore.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
