package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltracker/internal/model"
)

const (
	GoalSortRecent = "recent"
	GoalSortTarget = "target"
	GoalSortName   = "name"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	ByOwner(userID, goalID string) (*model.Goal, error)
	Goals(userID, sortBy string) ([]*model.Goal, error)
	CountOpenGoals(userID string) (int, error)
	Update(goal *model.Goal) error
	MarkCompleted(goalID string, at time.Time) (bool, error)
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, name, description, start_date, target_date, completed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.StartDate.UTC(),
		goal.TargetDate.UTC(),
		utcPtr(goal.CompletedAt),
		goal.CreatedAt.UTC(),
		goal.UpdatedAt.UTC(),
	)

	return err
}

// ByID looks a goal up regardless of owner. Callers that act on behalf of a
// user compare the owner themselves or use ByOwner.
func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) ByOwner(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(userID, sortBy string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	var orderBy string
	switch sortBy {
	case GoalSortTarget:
		orderBy = "ORDER BY target_date ASC, updated_at DESC"
	case GoalSortName:
		orderBy = "ORDER BY LOWER(name) ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY updated_at DESC"
	}

	query := `SELECT * FROM goals WHERE user_id = $1 ` + orderBy

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// CountOpenGoals counts the user's goals that have no completion date.
func (r *goalRepository) CountOpenGoals(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND completed_at IS NULL`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// Update writes the editable fields. completed_at and user_id are never touched here.
func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET name = $1, description = $2, start_date = $3, target_date = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.Exec(query,
		goal.Name,
		goal.Description,
		goal.StartDate.UTC(),
		goal.TargetDate.UTC(),
		goal.UpdatedAt.UTC(),
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return requireRow(result, ErrGoalNotFound)
}

// MarkCompleted sets completed_at only while it is still NULL. It reports
// whether this call performed the transition.
func (r *goalRepository) MarkCompleted(goalID string, at time.Time) (bool, error) {
	return markCompleted(r.db, goalID, at)
}

func markCompleted(exec sqlx.Execer, goalID string, at time.Time) (bool, error) {
	query := `UPDATE goals
	          SET completed_at = $1, updated_at = $1
	          WHERE id = $2 AND completed_at IS NULL`

	result, err := exec.Exec(query, at.UTC(), goalID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)
	if err != nil {
		return err
	}

	return requireRow(result, ErrGoalNotFound)
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
