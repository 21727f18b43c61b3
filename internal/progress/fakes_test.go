package progress

import (
	"sort"
	"time"

	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/repository"
)

type memRecords struct {
	records     []*model.ProgressRecord
	goals       *memGoals
	createErr   error
	completeErr error // fails CreateCompleting before anything is written
}

func (m *memRecords) Create(record *model.ProgressRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

func (m *memRecords) CreateCompleting(record *model.ProgressRecord) (bool, error) {
	if m.completeErr != nil {
		return false, m.completeErr
	}
	err := m.Create(record)
	if err != nil {
		return false, err
	}
	return m.goals.markCompleted(record.GoalID, record.RecordedAt), nil
}

func (m *memRecords) Latest(goalID, userID string) (*model.ProgressRecord, error) {
	history, _ := m.History(goalID, userID)
	if len(history) == 0 {
		return nil, repository.ErrProgressRecordNotFound
	}
	return history[0], nil
}

func (m *memRecords) History(goalID, userID string) ([]*model.ProgressRecord, error) {
	out := []*model.ProgressRecord{}
	for _, r := range m.records {
		if r.GoalID == goalID && r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type memGoals struct {
	goals       map[string]*model.Goal
	completions int
}

func (m *memGoals) ByID(goalID string) (*model.Goal, error) {
	goal, ok := m.goals[goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (m *memGoals) markCompleted(goalID string, at time.Time) bool {
	goal, ok := m.goals[goalID]
	if !ok || goal.CompletedAt != nil {
		return false
	}
	m.completions++
	goal.CompletedAt = &at
	return true
}

// stepClock advances one minute on every call.
type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestTracker() (*Tracker, *memRecords, *memGoals, *stepClock) {
	goals := &memGoals{goals: map[string]*model.Goal{
		"g1": {ID: "g1", UserID: "u1", Name: "Learn Go"},
	}}
	records := &memRecords{goals: goals}
	clk := &stepClock{t: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	return NewTracker(records, goals, clk.now), records, goals, clk
}
