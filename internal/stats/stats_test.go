package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrails/data-relay/internal/model"
)

func act(typ string, seconds int, miles float64, calories int) model.Activity {
	return model.Activity{ExerciseType: typ, DurationSecs: seconds, Distance: miles, CaloriesBurned: calories}
}

func TestTotalsByCategory(t *testing.T) {
	t.Parallel()

	activities := []model.Activity{
		act("bike", 600, 5.0, 300),
		act("run", 1200, 3.0, 400),
	}
	got := TotalsByCategory(activities)
	require.Len(t, got, 4)

	assert.Equal(t, TotalStat{Type: "Overall", TotalDuration: "00:30:00", TotalDistance: 8.0, TotalCalories: 700}, got[0])
	assert.Equal(t, TotalStat{Type: "Bike", TotalDuration: "00:10:00", TotalDistance: 5.0, TotalCalories: 300}, got[1])
	assert.Equal(t, TotalStat{Type: "Run", TotalDuration: "00:20:00", TotalDistance: 3.0, TotalCalories: 400}, got[2])
	assert.Equal(t, TotalStat{Type: "Walk", TotalDuration: "00:00:00", TotalDistance: 0.0, TotalCalories: 0}, got[3])
}

func TestTotalsByCategoryEmptyInput(t *testing.T) {
	t.Parallel()

	got := TotalsByCategory(nil)
	require.Len(t, got, 4)
	for i, name := range []string{"Overall", "Bike", "Run", "Walk"} {
		assert.Equal(t, name, got[i].Type)
		assert.Equal(t, "00:00:00", got[i].TotalDuration)
		assert.Zero(t, got[i].TotalDistance)
		assert.Zero(t, got[i].TotalCalories)
	}
}

func TestTotalsByCategoryOrderIndependent(t *testing.T) {
	t.Parallel()

	activities := []model.Activity{
		act("bike", 600, 5.0, 300),
		act("run", 1200, 3.0, 400),
		act("walk", 300, 1.0, 50),
		act("bike", 90, 0.5, 40),
		act("yoga", 3600, 0, 120),
	}
	want := TotalsByCategory(activities)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.Activity(nil), activities...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, TotalsByCategory(shuffled))
	}
}

func TestTotalsByCategoryUnknownAndCasedTypes(t *testing.T) {
	t.Parallel()

	got := TotalsByCategory([]model.Activity{
		act("BIKE", 60, 1.0, 10), // case-insensitive match
		act("swim", 60, 1.0, 10), // overall only
	})
	assert.Equal(t, "00:02:00", got[0].TotalDuration)
	assert.Equal(t, "00:01:00", got[1].TotalDuration) // bike
	assert.Equal(t, "00:00:00", got[2].TotalDuration) // run
	assert.Equal(t, "00:00:00", got[3].TotalDuration) // walk
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00:00:00", FormatDuration(0))
	assert.Equal(t, "00:30:00", FormatDuration(1800))
	assert.Equal(t, "01:01:01", FormatDuration(3661))
	assert.Equal(t, "27:46:40", FormatDuration(100000)) // hours not capped at 24
	assert.Equal(t, "00:00:00", FormatDuration(-5))
}

func ptr[T any](v T) *T { return &v }

func TestAgeCounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	year := now.Year()
	accounts := []model.Account{
		{Sex: ptr("male"), BirthYear: ptr(year - 21)},
		{Sex: ptr("male"), BirthYear: ptr(year - 35)},
		{Sex: ptr("male"), BirthYear: ptr(year - 47)},
		{Sex: ptr("male"), BirthYear: ptr(year - 61)},
	}
	got := AgeCounts(accounts, now)
	require.Len(t, got, 2)

	assert.Equal(t, AgeCount{Sex: "male", Age20To29: 1, Age30To39: 1, Age40To49: 1, Age50Plus: 1}, got[0])
	assert.Equal(t, AgeCount{Sex: "female"}, got[1])
}

func TestAgeCountsExclusions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	year := now.Year()
	accounts := []model.Account{
		{Sex: ptr("female"), BirthYear: ptr(year - 30)},
		{Sex: ptr("female"), BirthYear: nil},          // no birth year
		{Sex: nil, BirthYear: ptr(year - 40)},         // no sex
		{Sex: ptr("other"), BirthYear: ptr(year - 40)}, // unrecognized sex
		{Sex: ptr("female"), BirthYear: ptr(year - 15)}, // under 20, outside every band
	}
	got := AgeCounts(accounts, now)

	assert.Equal(t, AgeCount{Sex: "male"}, got[0])
	assert.Equal(t, AgeCount{Sex: "female", Age30To39: 1}, got[1])
}

func TestHourHistogram(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	starts := []time.Time{
		day.Add(6 * time.Hour),
		day.Add(6*time.Hour + 30*time.Minute),
		day.Add(23 * time.Hour),
	}
	bins := HourHistogram(starts)
	assert.Equal(t, 2, bins[6])
	assert.Equal(t, 1, bins[23])

	total := 0
	for _, n := range bins {
		total += n
	}
	assert.Equal(t, len(starts), total)
}

func TestMonthHistogram(t *testing.T) {
	t.Parallel()

	created := []time.Time{
		time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
	}
	bins := MonthHistogram(created)
	assert.Equal(t, 2, bins[0])
	assert.Equal(t, 1, bins[11])
}
