package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/middleware"
	"github.com/opentrails/data-relay/internal/stats"
)

// StatsHandler serves the aggregate-statistics endpoints. The folds
// themselves live in the stats package; this layer only fetches rows and
// shapes JSON.
type StatsHandler struct {
	Accounts   AccountStore
	Activities ActivityStore
}

func NewStatsHandler(accounts AccountStore, activities ActivityStore) *StatsHandler {
	return &StatsHandler{Accounts: accounts, Activities: activities}
}

// UserTotals returns the caller's Overall/Bike/Run/Walk totals.
func (h *StatsHandler) UserTotals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	activities, err := h.Activities.ListByAccount(ctx, middleware.AccountID(c))
	if err != nil {
		c.Logger().Errorf("user totals: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get total stats"})
	}
	return c.JSON(http.StatusOK, stats.TotalsByCategory(activities))
}

// AllTotals returns the totals across every activity of every account.
func (h *StatsHandler) AllTotals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	activities, err := h.Activities.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("all totals: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get total stats"})
	}
	return c.JSON(http.StatusOK, stats.TotalsByCategory(activities))
}

// Ages returns the male/female age-band histogram over all accounts.
func (h *StatsHandler) Ages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.ListDemographics(ctx)
	if err != nil {
		c.Logger().Errorf("age stats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get age stats"})
	}
	return c.JSON(http.StatusOK, stats.AgeCounts(accounts, time.Now()))
}

// TimeOfDay returns a 24-bin histogram of activity start hours.
func (h *StatsHandler) TimeOfDay(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	activities, err := h.Activities.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("time-of-day stats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get time-of-day stats"})
	}
	starts := make([]time.Time, 0, len(activities))
	for _, a := range activities {
		starts = append(starts, a.StartTime)
	}
	bins := stats.HourHistogram(starts)
	return c.JSON(http.StatusOK, echo.Map{"hours": bins[:]})
}

// Months returns a 12-bin histogram of account creation months.
func (h *StatsHandler) Months(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.ListDemographics(ctx)
	if err != nil {
		c.Logger().Errorf("month stats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "couldn't get month stats"})
	}
	created := make([]time.Time, 0, len(accounts))
	for _, a := range accounts {
		created = append(created, a.CreatedAt)
	}
	bins := stats.MonthHistogram(created)
	return c.JSON(http.StatusOK, echo.Map{"months": bins[:]})
}
