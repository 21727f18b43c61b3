package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/goaltracker/internal/ctxkeys"
	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/progress"
	"github.com/templui/goaltracker/internal/repository"
	"github.com/templui/goaltracker/internal/service"
)

type goalPayload struct {
	Name        string     `json:"name"`
	Description string     `json:"description" validate:"max=2000"`
	StartDate   *time.Time `json:"start_date" validate:"required"`
	TargetDate  *time.Time `json:"target_date" validate:"required"`
}

func (p goalPayload) input() service.GoalInput {
	return service.GoalInput{
		Name:        p.Name,
		Description: p.Description,
		StartDate:   *p.StartDate,
		TargetDate:  *p.TargetDate,
	}
}

type progressPayload struct {
	Percentage *int   `json:"percentage" validate:"required"`
	Note       string `json:"note" validate:"max=500"`
}

type goalDetail struct {
	Goal     *model.Goal           `json:"goal"`
	State    string                `json:"state"`
	Progress *model.ProgressRecord `json:"progress,omitempty"`
}

type GoalHandler struct {
	goalService   *service.GoalService
	exportService *service.ExportService
}

func NewGoalHandler(goalService *service.GoalService, exportService *service.ExportService) *GoalHandler {
	return &GoalHandler{
		goalService:   goalService,
		exportService: exportService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = repository.GoalSortRecent
	}

	goals, err := h.goalService.Goals(userID, sortBy)
	if err != nil {
		slog.Error("failed to get goals", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to load goals")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.ByID(userID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to get goal", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to load goal")
		return
	}

	record, err := h.goalService.Progress(userID, goalID)
	if err != nil && !errors.Is(err, progress.ErrProgressNotFound) {
		slog.Error("failed to get progress", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to load goal")
		return
	}

	writeJSON(w, http.StatusOK, goalDetail{Goal: goal, State: goal.State(), Progress: record})
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var payload goalPayload
	if !decode(w, r, &payload) {
		return
	}

	goal, result, err := h.goalService.Create(userID, payload.input())
	if err != nil {
		slog.Error("failed to create goal", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}
	if !result.Success {
		writeResult(w, result)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	var payload goalPayload
	if !decode(w, r, &payload) {
		return
	}

	goal, result, err := h.goalService.Update(userID, goalID, payload.input())
	if err != nil {
		slog.Error("failed to update goal", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to update goal")
		return
	}
	if !result.Success {
		writeResult(w, result)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	result, err := h.goalService.Delete(userID, goalID)
	if err != nil {
		slog.Error("failed to delete goal", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to delete goal")
		return
	}
	if !result.Success {
		writeResult(w, result)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	record, err := h.goalService.Progress(userID, goalID)
	if errors.Is(err, progress.ErrProgressNotFound) {
		writeError(w, http.StatusNotFound, "progress not found")
		return
	}
	if err != nil {
		slog.Error("failed to get progress", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	records, err := h.goalService.History(userID, goalID)
	if err != nil {
		slog.Error("failed to get progress history", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to load progress history")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	var payload progressPayload
	if !decode(w, r, &payload) {
		return
	}

	record, err := h.goalService.UpdateProgress(userID, goalID, *payload.Percentage, payload.Note)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, record)
	case errors.Is(err, progress.ErrPercentageOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, progress.ErrProgressNotFound):
		writeError(w, http.StatusConflict, "progress has not been initialized for this goal")
	case errors.Is(err, service.ErrNotGoalOwner):
		writeError(w, http.StatusForbidden, "You are not authorized to modify this goal")
	case errors.Is(err, repository.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "goal not found")
	default:
		slog.Error("failed to update progress", "error", err, "user_id", userID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "failed to update progress")
	}
}

func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	export, err := h.exportService.Export(userID)
	if err != nil {
		slog.Error("failed to export goals", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to export goals")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=goals-export.json")

	err = json.NewEncoder(w).Encode(export)
	if err != nil {
		slog.Error("failed to encode goals", "error", err, "user_id", userID)
	}
}

// Archive stores the export in object storage and returns a download link.
func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	archived, err := h.exportService.Archive(r.Context(), userID)
	if errors.Is(err, service.ErrArchiveDisabled) {
		writeError(w, http.StatusServiceUnavailable, "export archive is not available")
		return
	}
	if err != nil {
		slog.Error("failed to archive export", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to archive export")
		return
	}

	writeJSON(w, http.StatusCreated, archived)
}
