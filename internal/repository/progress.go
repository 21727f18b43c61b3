package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltracker/internal/model"
)

var (
	ErrProgressRecordNotFound = errors.New("progress record not found")
)

// ProgressRepository stores the append-only progress history. Records are
// never updated in place.
type ProgressRepository interface {
	Create(record *model.ProgressRecord) error
	CreateCompleting(record *model.ProgressRecord) (bool, error)
	Latest(goalID, userID string) (*model.ProgressRecord, error)
	History(goalID, userID string) ([]*model.ProgressRecord, error)
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(record *model.ProgressRecord) error {
	return insertRecord(r.db, record)
}

// CreateCompleting appends the record and completes its goal at RecordedAt in
// one transaction. Neither write survives if the other fails. It reports
// whether the goal moved to completed.
func (r *progressRepository) CreateCompleting(record *model.ProgressRecord) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = insertRecord(tx, record)
	if err != nil {
		return false, err
	}

	completed, err := markCompleted(tx, record.GoalID, record.RecordedAt)
	if err != nil {
		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return completed, nil
}

func insertRecord(exec sqlx.Execer, record *model.ProgressRecord) error {
	query := `INSERT INTO progress_records (id, goal_id, user_id, percentage, note, recorded_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := exec.Exec(query,
		record.ID,
		record.GoalID,
		record.UserID,
		record.Percentage,
		record.Note,
		record.RecordedAt.UTC(),
	)

	return err
}

// Latest returns the newest record. IDs are UUIDv7, so they break ties between
// records written within the same clock tick.
func (r *progressRepository) Latest(goalID, userID string) (*model.ProgressRecord, error) {
	record := &model.ProgressRecord{}
	query := `SELECT * FROM progress_records
	          WHERE goal_id = $1 AND user_id = $2
	          ORDER BY recorded_at DESC, id DESC
	          LIMIT 1`

	err := r.db.Get(record, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgressRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *progressRepository) History(goalID, userID string) ([]*model.ProgressRecord, error) {
	records := []*model.ProgressRecord{}
	query := `SELECT * FROM progress_records
	          WHERE goal_id = $1 AND user_id = $2
	          ORDER BY recorded_at DESC, id DESC`

	err := r.db.Select(&records, query, goalID, userID)
	if err != nil {
		return nil, err
	}

	return records, nil
}
