package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/middleware"
	"github.com/opentrails/data-relay/internal/model"
	"github.com/opentrails/data-relay/internal/repository"
	"github.com/opentrails/data-relay/internal/stats"
)

// timeLayout is the wire format for timestamps, what the mobile clients
// have always sent.
const timeLayout = "2006-01-02T15:04:05"

// ActivityStore is the persistence surface the activity endpoints need.
// *repository.ActivityRepo satisfies it.
type ActivityStore interface {
	Create(ctx context.Context, a model.Activity, path string) error
	ListByAccount(ctx context.Context, accountID string) ([]model.Activity, error)
	ListAll(ctx context.Context) ([]model.Activity, error)
	ListPaths(ctx context.Context) ([]string, error)
}

// ActivityHandler serves activity submission, history and path listing.
type ActivityHandler struct {
	Activities ActivityStore
}

func NewActivityHandler(activities ActivityStore) *ActivityHandler {
	return &ActivityHandler{Activities: activities}
}

type createActivityReq struct {
	TimeStarted    string  `json:"time_started"`
	Duration       string  `json:"duration"`
	Mileage        float64 `json:"mileage"`
	CaloriesBurned int     `json:"calories_burned"`
	ExerciseType   string  `json:"exercise_type"`
	Path           string  `json:"path"`
}

type activityResp struct {
	TimeStarted    string  `json:"time_started"`
	Duration       string  `json:"duration"`
	Mileage        float64 `json:"mileage"`
	CaloriesBurned int     `json:"calories_burned"`
	ExerciseType   string  `json:"exercise_type"`
}

type pathResp struct {
	Path string `json:"path"`
}

// Create stores a finished activity together with its GPS path. Both rows
// are written in one transaction.
func (h *ActivityHandler) Create(c echo.Context) error {
	var req createActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	started, err := time.Parse(timeLayout, req.TimeStarted)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time_started must be yyyy-MM-ddTHH:mm:ss"})
	}
	seconds, err := parseHMS(req.Duration)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be HH:mm:ss"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := model.Activity{
		AccountID:      middleware.AccountID(c),
		ExerciseType:   req.ExerciseType,
		StartTime:      started,
		DurationSecs:   seconds,
		Distance:       req.Mileage,
		CaloriesBurned: req.CaloriesBurned,
	}
	if err := h.Activities.Create(ctx, a, req.Path); err != nil {
		if errors.Is(err, repository.ErrUnknownExerciseType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown exercise type"})
		}
		c.Logger().Errorf("activity create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activity could not be created"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"exercise_type": req.ExerciseType})
}

// ListForUser returns the caller's activity history, newest first.
func (h *ActivityHandler) ListForUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	activities, err := h.Activities.ListByAccount(ctx, middleware.AccountID(c))
	if err != nil {
		c.Logger().Errorf("activity list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activities could not be retrieved"})
	}
	out := make([]activityResp, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityResp{
			TimeStarted:    a.StartTime.Format(timeLayout),
			Duration:       stats.FormatDuration(a.DurationSecs),
			Mileage:        a.Distance,
			CaloriesBurned: a.CaloriesBurned,
			ExerciseType:   a.ExerciseType,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ListAllPaths returns every stored path segment across all accounts.
func (h *ActivityHandler) ListAllPaths(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	paths, err := h.Activities.ListPaths(ctx)
	if err != nil {
		c.Logger().Errorf("path list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get all paths"})
	}
	out := make([]pathResp, 0, len(paths))
	for _, p := range paths {
		out = append(out, pathResp{Path: p})
	}
	return c.JSON(http.StatusOK, out)
}

// parseHMS converts an "HH:mm:ss" duration into whole seconds.
func parseHMS(s string) (int, error) {
	var hh, mm, ss int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hh, &mm, &ss); err != nil {
		return 0, err
	}
	if hh < 0 || mm < 0 || mm > 59 || ss < 0 || ss > 59 {
		return 0, fmt.Errorf("duration out of range: %q", s)
	}
	return hh*3600 + mm*60 + ss, nil
}
