package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"getFitAPI/internal/store"
	"getFitAPI/internal/streak"
	"getFitAPI/internal/types/activity"
	"getFitAPI/middleware"
	"getFitAPI/services"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

func (h *ActivityHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req activity.RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.activityService.RecordActivity(ctx, userID, &req)
	if err != nil {
		respondWithError(w, activityStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

func (h *ActivityHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	activities, err := h.activityService.GetActivities(ctx, userID, limit)
	if err != nil {
		respondWithError(w, activityStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	activityID, err := uuid.Parse(mux.Vars(r)["activityID"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	if err := h.activityService.DeleteActivity(ctx, userID, activityID); err != nil {
		respondWithError(w, activityStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted successfully"})
}

func (h *ActivityHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streakData, err := h.activityService.GetStreak(ctx, userID)
	if err != nil {
		respondWithError(w, activityStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, streakData)
}

func (h *ActivityHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	if raw := r.URL.Query().Get("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			year = parsed
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			respondWithError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		month = parsed
	}

	cal, err := h.activityService.GetCalendar(ctx, userID, year, month)
	if err != nil {
		respondWithError(w, activityStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

func (h *ActivityHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userStats, err := h.activityService.GetStats(ctx, userID)
	if err != nil {
		respondWithError(w, activityStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, userStats)
}

// activityStatus maps engine and store errors onto HTTP statuses. Invalid
// input rejects the call; store trouble surfaces as 503 so the caller can
// retry on its own policy.
func activityStatus(err error) int {
	switch {
	case errors.Is(err, streak.ErrInvalidTimestamp), errors.Is(err, streak.ErrInvalidTimezone):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
