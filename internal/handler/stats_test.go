package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrails/data-relay/internal/model"
)

func getJSON(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserTotalsOnlyCountCallerActivities(t *testing.T) {
	t.Parallel()

	activities := newFakeActivities()
	activities.created = []model.Activity{
		{AccountID: "acct-1", ExerciseType: "bike", DurationSecs: 600, Distance: 5, CaloriesBurned: 300},
		{AccountID: "acct-2", ExerciseType: "bike", DurationSecs: 9999, Distance: 99, CaloriesBurned: 999},
	}
	h := NewStatsHandler(newFakeAccounts(), activities)
	e := echo.New()

	c, rec := getJSON(e, "/trails/api/1/Statistics")
	c.Set("account_id", "acct-1")
	require.NoError(t, h.UserTotals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 4)
	assert.Equal(t, "Overall", resp[0]["type"])
	assert.Equal(t, "00:10:00", resp[0]["total_duration"])
	assert.Equal(t, 5.0, resp[0]["total_distance"])
}

func TestAllTotalsSpanAccounts(t *testing.T) {
	t.Parallel()

	activities := newFakeActivities()
	activities.created = []model.Activity{
		{AccountID: "acct-1", ExerciseType: "run", DurationSecs: 1200, Distance: 3, CaloriesBurned: 400},
		{AccountID: "acct-2", ExerciseType: "walk", DurationSecs: 300, Distance: 1, CaloriesBurned: 50},
	}
	h := NewStatsHandler(newFakeAccounts(), activities)
	e := echo.New()

	c, rec := getJSON(e, "/trails/api/1/Statistics/All")
	require.NoError(t, h.AllTotals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "00:25:00", resp[0]["total_duration"])
}

func TestAgesEndpoint(t *testing.T) {
	t.Parallel()

	accounts := newFakeAccounts()
	sex := "male"
	year := time.Now().Year() - 35
	accounts.byUsername["ren"] = model.Account{AccountID: "acct-1", Username: "ren", Sex: &sex, BirthYear: &year}

	h := NewStatsHandler(accounts, newFakeActivities())
	e := echo.New()

	c, rec := getJSON(e, "/trails/api/1/Statistics/Ages")
	require.NoError(t, h.Ages(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "male", resp[0]["sex"])
	assert.Equal(t, 1.0, resp[0]["age_30_39"])
	assert.Equal(t, "female", resp[1]["sex"])
	assert.Equal(t, 0.0, resp[1]["age_30_39"])
}

func TestTimeOfDayEndpoint(t *testing.T) {
	t.Parallel()

	activities := newFakeActivities()
	activities.created = []model.Activity{
		{StartTime: time.Date(2026, time.March, 2, 6, 30, 0, 0, time.UTC)},
		{StartTime: time.Date(2026, time.March, 3, 6, 5, 0, 0, time.UTC)},
	}
	h := NewStatsHandler(newFakeAccounts(), activities)
	e := echo.New()

	c, rec := getJSON(e, "/trails/api/1/Statistics/TimeOfDay")
	require.NoError(t, h.TimeOfDay(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Hours []int `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Hours, 24)
	assert.Equal(t, 2, resp.Hours[6])
}
