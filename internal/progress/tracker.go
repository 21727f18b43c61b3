// Package progress keeps the append-only progress history of goals and
// completes a goal when its progress reaches 100%.
package progress

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/repository"
)

const InitialNote = "Goal created"

// Contract violations. ErrPercentageOutOfRange is an argument error and
// ErrProgressNotFound an invalid-state error; neither ever writes a record.
var (
	ErrPercentageOutOfRange = errors.New("progress percentage must be between 0 and 100")
	ErrProgressNotFound     = errors.New("no progress record found")
)

// GoalFinder is the part of the goal store the tracker needs. Completion is
// written by the progress store together with the record that triggers it.
type GoalFinder interface {
	ByID(goalID string) (*model.Goal, error)
}

// Tracker owns progress for (goal, user) pairs. It does not check that the
// user owns the goal; callers pass consistent ids.
type Tracker struct {
	records repository.ProgressRepository
	goals   GoalFinder
	now     func() time.Time
}

func NewTracker(records repository.ProgressRepository, goals GoalFinder, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		records: records,
		goals:   goals,
		now:     now,
	}
}

// InitializeProgress writes the 0% record. It is called once, when the goal is created.
func (t *Tracker) InitializeProgress(goalID, userID string) (*model.ProgressRecord, error) {
	record := &model.ProgressRecord{
		ID:         newRecordID(),
		GoalID:     goalID,
		UserID:     userID,
		Percentage: model.ProgressMin,
		Note:       InitialNote,
		RecordedAt: t.now().UTC(),
	}

	err := t.records.Create(record)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial progress record: %w", err)
	}

	return record, nil
}

func (t *Tracker) Progress(goalID, userID string) (*model.ProgressRecord, error) {
	record, err := t.records.Latest(goalID, userID)
	if errors.Is(err, repository.ErrProgressRecordNotFound) {
		return nil, fmt.Errorf("%w for goal %s", ErrProgressNotFound, goalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return record, nil
}

// History returns every record for the pair, newest first.
func (t *Tracker) History(goalID, userID string) ([]*model.ProgressRecord, error) {
	records, err := t.records.History(goalID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history: %w", err)
	}

	return records, nil
}

// UpdateProgress appends a record with the new percentage. An empty note is
// replaced by a description of the change. Landing on exactly 100% completes
// the goal unless it already is; the first completion date is kept.
func (t *Tracker) UpdateProgress(goalID, userID string, percentage int, note string) (*model.ProgressRecord, error) {
	if percentage < model.ProgressMin || percentage > model.ProgressMax {
		return nil, fmt.Errorf("%w: got %d", ErrPercentageOutOfRange, percentage)
	}

	latest, err := t.Progress(goalID, userID)
	if err != nil {
		return nil, err
	}

	var completion *CompletionMachine
	if percentage == model.ProgressMax {
		goal, err := t.goals.ByID(goalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load goal %s: %w", goalID, err)
		}

		completion, err = NewCompletionMachine(goal, percentage)
		if err != nil {
			return nil, err
		}
	}

	if note == "" {
		note = fmt.Sprintf("Progress updated from %d%% to %d%%", latest.Percentage, percentage)
	}

	now := t.now().UTC()
	record := &model.ProgressRecord{
		ID:         newRecordID(),
		GoalID:     goalID,
		UserID:     userID,
		Percentage: percentage,
		Note:       note,
		RecordedAt: now,
	}

	if completion == nil || !completion.Complete() {
		err = t.records.Create(record)
		if err != nil {
			return nil, fmt.Errorf("failed to create progress record: %w", err)
		}
		return record, nil
	}

	completed, err := t.records.CreateCompleting(record)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion of goal %s: %w", goalID, err)
	}
	if completed {
		slog.Info("goal completed", "goal_id", goalID, "user_id", userID)
	}

	return record, nil
}

// newRecordID returns a time-ordered id so records sort by creation within
// the same timestamp.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
