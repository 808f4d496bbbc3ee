package model

import "time"

// Activity is one recorded exercise session. Rows are immutable once
// inserted. Duration is stored as whole elapsed seconds; the exercise type
// is kept as the lookup description ("bike", "run", "walk", ...).
type Activity struct {
	ActivityID     int64     // Activity.activityID
	AccountID      string    // Activity.accountUserID
	ExerciseType   string    // exerciseType.exerciseDescription (joined)
	StartTime      time.Time // Activity.startTime
	DurationSecs   int       // Activity.duration (seconds)
	Distance       float64   // Activity.distance (miles)
	CaloriesBurned int       // Activity.caloriesBurned
}

// PathSegment is the free-text GPS trace belonging to exactly one activity:
// a space-separated list of comma-separated lat,long pairs.
type PathSegment struct {
	ActivityID int64  // PathSegment.activityID
	Path       string // PathSegment.path
}
