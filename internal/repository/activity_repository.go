package repository

import (
	"context"
	"database/sql"

	"github.com/opentrails/data-relay/internal/model"
)

// ActivityRepo persists activities and their path segments.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

const selectActivity = "SELECT E.exerciseDescription, A.startTime, A.duration, A.distance, A.caloriesBurned " +
	"FROM Activity A JOIN exerciseType E ON A.exerciseType = E.lookupCode"

// Create inserts the activity and its path segment in one transaction, so a
// failure partway leaves no dangling Activity row. The exercise type is
// resolved against the exerciseType lookup table first.
func (r *ActivityRepo) Create(ctx context.Context, a model.Activity, path string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var lookupCode int
	err = tx.QueryRowContext(ctx,
		"SELECT lookupCode FROM exerciseType WHERE exerciseDescription=? LIMIT 1",
		a.ExerciseType).Scan(&lookupCode)
	if err == sql.ErrNoRows {
		return ErrUnknownExerciseType
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO Activity (accountUserID, exerciseType, startTime, duration, distance, caloriesBurned) VALUES (?,?,?,?,?,?)",
		a.AccountID, lookupCode, a.StartTime, a.DurationSecs, a.Distance, a.CaloriesBurned)
	if err != nil {
		return err
	}
	activityID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO PathSegment (activityID, path) VALUES (?,?)",
		activityID, path); err != nil {
		return err
	}
	return tx.Commit()
}

// ListByAccount returns the account's activities, newest first.
func (r *ActivityRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		selectActivity+" WHERE A.accountUserID = ? ORDER BY A.startTime DESC", accountID)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

// ListAll returns every activity across every account, for the global
// statistics endpoints.
func (r *ActivityRepo) ListAll(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, selectActivity)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

func scanActivities(rows *sql.Rows) ([]model.Activity, error) {
	defer rows.Close()
	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ExerciseType, &a.StartTime, &a.DurationSecs, &a.Distance, &a.CaloriesBurned); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListPaths returns the raw path text of every path segment.
func (r *ActivityRepo) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT path FROM PathSegment")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
