package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ignatij/vineyard/internal/log"
	"github.com/ignatij/vineyard/pkg/advisor"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/ignatij/vineyard/pkg/service"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/pkg/errors"
)

// UserHeader carries the id of the calling user.
const UserHeader = "X-User-ID"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// shutdownTimeout bounds the wait for in-flight requests after ctx is done.
const shutdownTimeout = 10 * time.Second

// StartServer serves the API on port until ctx is done, then shuts down
// gracefully. A clean shutdown returns nil.
func StartServer(ctx context.Context, port string, svc *service.FarmService) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(svc, time.Now),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, srv.ListenAndServe)
}

// serve runs listen and calls Shutdown on srv once ctx is done.
func serve(ctx context.Context, srv *http.Server, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		log.GetLogger().Infof("Starting Vineyard server on %s", srv.Addr)
		errCh <- listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.GetLogger().Infof("Shutting down Vineyard server: %v", ctx.Err())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewRouter registers every API route. now supplies "today" for the
// seasonal lookups.
func NewRouter(svc *service.FarmService, now func() time.Time) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HealthHandler)

	mux.HandleFunc("GET /api/timeline", timelineHandler)
	mux.HandleFunc("POST /api/farm/layout", layoutHandler(now))
	mux.HandleFunc("GET /api/seasonal-activities", seasonalHandler(now))
	mux.HandleFunc("GET /api/varieties", varietiesHandler)
	mux.HandleFunc("GET /api/varieties/{name}", varietyHandler)
	mux.HandleFunc("POST /api/advice/weather", weatherAdviceHandler)
	mux.HandleFunc("GET /api/advice/disease", diseasesHandler)
	mux.HandleFunc("GET /api/advice/disease/{name}", diseaseAdviceHandler)
	mux.HandleFunc("GET /api/advice/variety/{name}", varietyAdviceHandler)
	mux.HandleFunc("POST /api/recommendations", withUser(recommendationHandler))

	mux.HandleFunc("POST /api/farms", withUser(createFarmHandler(svc)))
	mux.HandleFunc("GET /api/farms", withUser(listFarmsHandler(svc)))
	mux.HandleFunc("GET /api/farms/{id}", withUser(farmDetailsHandler(svc)))
	mux.HandleFunc("DELETE /api/farms/{id}", withUser(deleteFarmHandler(svc)))
	mux.HandleFunc("POST /api/farms/{id}/schedule", withUser(generateScheduleHandler(svc)))
	mux.HandleFunc("GET /api/farms/{id}/schedule", withUser(getScheduleHandler(svc)))
	mux.HandleFunc("GET /api/farms/{id}/schedule.ics", withUser(scheduleICSHandler(svc)))
	mux.HandleFunc("PUT /api/task/{schedule_id}/{task_id}", withUser(updateTaskHandler(svc)))
	mux.HandleFunc("GET /api/pending-tasks", withUser(pendingTasksHandler(svc)))

	mux.HandleFunc("GET /api/plant-notes/{farm_id}", withUser(listNotesHandler(svc)))
	mux.HandleFunc("POST /api/plant-notes/{farm_id}", withUser(createNoteHandler(svc)))
	mux.HandleFunc("PUT /api/plant-notes/{farm_id}/{note_id}", withUser(updateNoteHandler(svc)))
	mux.HandleFunc("DELETE /api/plant-notes/{farm_id}/{note_id}", withUser(deleteNoteHandler(svc)))

	mux.HandleFunc("POST /api/consultants", withUser(registerConsultantHandler(svc)))
	mux.HandleFunc("GET /api/consultants", listConsultantsHandler(svc))
	mux.HandleFunc("GET /api/consultants/{id}", getConsultantHandler(svc))
	mux.HandleFunc("POST /api/consultants/{id}/assign", withUser(assignConsultantHandler(svc)))
	mux.HandleFunc("GET /api/my-consultant", withUser(myConsultantHandler(svc)))
	mux.HandleFunc("GET /api/consultant/farms", withUser(consultantFarmsHandler(svc)))
	mux.HandleFunc("GET /api/consultant/farms/{id}", withUser(consultantFarmHandler(svc)))
	mux.HandleFunc("POST /api/farms/{id}/comments", withUser(addCommentHandler(svc)))
	mux.HandleFunc("GET /api/farms/{id}/comments", withUser(listCommentsHandler(svc)))

	mux.HandleFunc("GET /api/alerts", withUser(listAlertsHandler(svc)))
	mux.HandleFunc("PUT /api/alerts/{id}/read", withUser(markAlertReadHandler(svc)))
	mux.HandleFunc("DELETE /api/alerts/{id}", withUser(deleteAlertHandler(svc)))
	return mux
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Vineyard server is running")
}

type userHandlerFunc func(w http.ResponseWriter, r *http.Request, userID string)

func withUser(h userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing " + UserHeader + " header"})
			return
		}
		h(w, r, userID)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.GetLogger().Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps service and storage errors to HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, planner.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.GetLogger().Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeJSON(w, status, errorBody{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeJSON(r *http.Request, w http.ResponseWriter, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(service.ErrInvalidInput, "invalid JSON body: %v", err)
	}
	return nil
}

type timelineResponse struct {
	Variety      string        `json:"variety"`
	PlantingDate civil.Date    `json:"planting_date"`
	EndDate      civil.Date    `json:"end_date"`
	Tasks        []models.Task `json:"tasks"`
}

func timelineHandler(w http.ResponseWriter, r *http.Request) {
	variety := strings.TrimSpace(r.URL.Query().Get("variety"))
	raw := r.URL.Query().Get("planting_date")
	if variety == "" || raw == "" {
		writeError(w, r, errors.Wrap(service.ErrInvalidInput, "variety and planting_date are required"))
		return
	}
	plantingDate, err := planner.ParseDate(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tasks, err := planner.GenerateTimeline(variety, plantingDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{
		Variety:      variety,
		PlantingDate: plantingDate,
		EndDate:      planner.EndDate(plantingDate),
		Tasks:        tasks,
	})
}

type layoutResponse struct {
	Layout     models.LayoutResult     `json:"layout"`
	Activities models.SeasonalActivity `json:"activities"`
}

func layoutHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.LayoutRequest
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
		req = req.WithDefaults()
		if err := service.Validate(req); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, layoutResponse{
			Layout:     planner.CalculateLayout(req.FarmLength, req.FarmWidth, req.PlantLengthSpacing, req.PlantWidthSpacing),
			Activities: planner.SeasonalActivities(civil.DateOf(now())),
		})
	}
}

func seasonalHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := civil.DateOf(now())
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := planner.ParseDate(raw)
			if err != nil {
				writeError(w, r, err)
				return
			}
			day = parsed
		}
		writeJSON(w, http.StatusOK, planner.SeasonalActivities(day))
	}
}

func varietiesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, planner.Varieties())
}

func varietyHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	v, ok := planner.LookupVariety(name)
	if !ok {
		writeError(w, r, errors.Wrapf(storage.ErrNotFound, "variety %q", name))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func weatherAdviceHandler(w http.ResponseWriter, r *http.Request) {
	var weather advisor.Weather
	if err := decodeJSON(r, w, &weather); err != nil {
		writeError(w, r, err)
		return
	}
	if err := service.Validate(weather); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"weather":         weather,
		"recommendations": advisor.FarmingRecommendations(weather),
	})
}

func diseaseAdviceHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"disease":         name,
		"recommendations": advisor.DiseaseRecommendations(name),
	})
}

func diseasesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, advisor.Diseases())
}

func varietyAdviceHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	writeJSON(w, http.StatusOK, map[string]string{
		"variety":                 name,
		"description":             advisor.VarietyDescription(name),
		"growing_recommendations": advisor.GrowingRecommendations(name),
	})
}

type recommendationRequest struct {
	GrapeVariety string `json:"grape_variety" validate:"required,max=100"`
	Location     string `json:"location" validate:"required,max=100"`
	Query        string `json:"query" validate:"max=1000"`
}

func recommendationHandler(w http.ResponseWriter, r *http.Request, _ string) {
	var req recommendationRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := service.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"recommendation": advisor.VarietyRecommendation(req.GrapeVariety, req.Location, req.Query),
	})
}
