package pipeline

import (
	"time"

	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/repository"
)

var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeStore struct {
	open     map[string]int
	goals    map[string]*model.Goal
	countErr error
	findErr  error
	counts   int
	lookups  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{open: map[string]int{}, goals: map[string]*model.Goal{}}
}

func (s *fakeStore) CountOpenGoals(userID string) (int, error) {
	s.counts++
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.open[userID], nil
}

func (s *fakeStore) ByID(goalID string) (*model.Goal, error) {
	s.lookups++
	if s.findErr != nil {
		return nil, s.findErr
	}
	goal, ok := s.goals[goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	return goal, nil
}

func validGoal() *model.Goal {
	return &model.Goal{
		Name:       "Run a marathon",
		StartDate:  fixedNow.Add(-24 * time.Hour),
		TargetDate: fixedNow.Add(30 * 24 * time.Hour),
	}
}
