// Package stats contains the pure aggregate computations behind the
// statistics endpoints: per-category activity totals and the demographic and
// time-bucket histograms. Every function here is deterministic, never fails
// on well-formed input, and is insensitive to input ordering.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/opentrails/data-relay/internal/model"
)

// TotalStat is one totals bucket as served to clients. The field names
// match the wire contract consumed by the mobile apps.
type TotalStat struct {
	Type          string  `json:"type"`
	TotalDuration string  `json:"total_duration"`
	TotalDistance float64 `json:"total_distance"`
	TotalCalories int     `json:"total_calories"`
}

// totals is a running sum for one bucket.
type totals struct {
	seconds  int
	distance float64
	calories int
}

func (t *totals) add(a model.Activity) {
	t.seconds += a.DurationSecs
	t.distance += a.Distance
	t.calories += a.CaloriesBurned
}

// TotalsByCategory folds activities into the four fixed buckets: Overall,
// Bike, Run and Walk. Exercise types are matched case-insensitively against
// "bike", "run" and "walk"; anything else contributes to Overall only. All
// four buckets are always present, zero-valued when nothing matched.
func TotalsByCategory(activities []model.Activity) []TotalStat {
	var overall, bike, run, walk totals
	for _, a := range activities {
		overall.add(a)
		switch strings.ToLower(a.ExerciseType) {
		case "bike":
			bike.add(a)
		case "run":
			run.add(a)
		case "walk":
			walk.add(a)
		}
	}
	return []TotalStat{
		asStat("Overall", overall),
		asStat("Bike", bike),
		asStat("Run", run),
		asStat("Walk", walk),
	}
}

func asStat(name string, t totals) TotalStat {
	return TotalStat{
		Type:          name,
		TotalDuration: FormatDuration(t.seconds),
		TotalDistance: t.distance,
		TotalCalories: t.calories,
	}
}

// FormatDuration renders elapsed seconds as HH:MM:SS, the format the
// original clients expect. Hours are not capped at 24.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// AgeCount holds the per-sex age-band histogram. Bands are [20,29],
// [30,39], [40,49] and [50,∞); accounts younger than 20 fall outside every
// band and are not counted.
type AgeCount struct {
	Sex       string `json:"sex"`
	Age20To29 int    `json:"age_20_29"`
	Age30To39 int    `json:"age_30_39"`
	Age40To49 int    `json:"age_40_49"`
	Age50Plus int    `json:"age_50_plus"`
}

// AgeCounts buckets accounts by sex and age (current year minus birth
// year). Accounts without a recognized sex or without a birth year are
// excluded. The result always contains exactly a male and a female row, in
// that order.
func AgeCounts(accounts []model.Account, now time.Time) []AgeCount {
	male := AgeCount{Sex: "male"}
	female := AgeCount{Sex: "female"}
	year := now.Year()

	for _, a := range accounts {
		if a.Sex == nil || a.BirthYear == nil {
			continue
		}
		var row *AgeCount
		switch strings.ToLower(*a.Sex) {
		case "male":
			row = &male
		case "female":
			row = &female
		default:
			continue
		}
		switch age := year - *a.BirthYear; {
		case age >= 50:
			row.Age50Plus++
		case age >= 40:
			row.Age40To49++
		case age >= 30:
			row.Age30To39++
		case age >= 20:
			row.Age20To29++
		}
	}
	return []AgeCount{male, female}
}

// HourHistogram buckets activity start times by hour of day into 24 bins.
func HourHistogram(starts []time.Time) [24]int {
	var bins [24]int
	for _, t := range starts {
		bins[t.Hour()]++
	}
	return bins
}

// MonthHistogram buckets account creation times by calendar month into 12
// bins, January first.
func MonthHistogram(created []time.Time) [12]int {
	var bins [12]int
	for _, t := range created {
		bins[int(t.Month())-1]++
	}
	return bins
}
