package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/pipeline"
	"github.com/templui/goaltracker/internal/progress"
	"github.com/templui/goaltracker/internal/repository"
)

var (
	ErrNotGoalOwner = errors.New("user does not own this goal")
)

type GoalInput struct {
	Name        string
	Description string
	StartDate   time.Time
	TargetDate  time.Time
}

// GoalProgress pairs a goal with its current progress record.
type GoalProgress struct {
	Goal     *model.Goal           `json:"goal"`
	State    string                `json:"state"`
	Progress *model.ProgressRecord `json:"progress,omitempty"`
}

type GoalService struct {
	repo    repository.GoalRepository
	tracker *progress.Tracker
	chain   *pipeline.Chain
	// progressOwner is nil unless progress updates must pass the ownership check
	progressOwner *pipeline.Authorizer
	now           func() time.Time
}

func NewGoalService(
	repo repository.GoalRepository,
	tracker *progress.Tracker,
	chain *pipeline.Chain,
	progressOwnerCheck bool,
	now func() time.Time,
) *GoalService {
	if now == nil {
		now = time.Now
	}

	s := &GoalService{
		repo:    repo,
		tracker: tracker,
		chain:   chain,
		now:     now,
	}
	if progressOwnerCheck {
		s.progressOwner = pipeline.NewAuthorizer(repo)
	}
	return s
}

// Create runs the chain and, when it passes, stores the goal and its initial
// progress record. A failed chain is reported through the result, not the error.
func (s *GoalService) Create(userID string, in GoalInput) (*model.Goal, pipeline.Result, error) {
	goal := &model.Goal{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate,
		TargetDate:  in.TargetDate,
	}

	result, err := s.chain.Handle(pipeline.GoalRequest{Goal: goal, UserID: userID, Action: pipeline.ActionCreate})
	if err != nil {
		return nil, pipeline.Result{}, fmt.Errorf("failed to check goal: %w", err)
	}
	if !result.Success {
		return nil, result, nil
	}

	now := s.now().UTC()
	goal.ID = uuid.New().String()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err = s.repo.Create(goal)
	if err != nil {
		return nil, pipeline.Result{}, fmt.Errorf("failed to create goal: %w", err)
	}

	_, err = s.tracker.InitializeProgress(goal.ID, userID)
	if err != nil {
		// Rollback: a goal without its initial record cannot take progress updates
		delErr := s.repo.Delete(userID, goal.ID)
		if delErr != nil {
			slog.Error("failed to delete goal during rollback", "error", delErr, "goal_id", goal.ID)
		}
		return nil, pipeline.Result{}, fmt.Errorf("failed to initialize goal progress: %w", err)
	}

	slog.Debug("goal created", "goal_id", goal.ID, "user_id", userID)
	return goal, result, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByOwner(userID, goalID)
}

func (s *GoalService) Goals(userID, sortBy string) ([]*model.Goal, error) {
	return s.repo.Goals(userID, sortBy)
}

func (s *GoalService) CountOpenGoals(userID string) (int, error) {
	return s.repo.CountOpenGoals(userID)
}

// Update replaces the editable fields of a goal the user owns.
func (s *GoalService) Update(userID, goalID string, in GoalInput) (*model.Goal, pipeline.Result, error) {
	snapshot := &model.Goal{
		ID:          goalID,
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate,
		TargetDate:  in.TargetDate,
	}

	result, err := s.chain.Handle(pipeline.GoalRequest{Goal: snapshot, UserID: userID, Action: pipeline.ActionUpdate})
	if err != nil {
		return nil, pipeline.Result{}, fmt.Errorf("failed to check goal: %w", err)
	}
	if !result.Success {
		return nil, result, nil
	}

	goal, err := s.repo.ByOwner(userID, goalID)
	if err != nil {
		return nil, pipeline.Result{}, err
	}

	goal.Name = snapshot.Name
	goal.Description = snapshot.Description
	goal.StartDate = snapshot.StartDate
	goal.TargetDate = snapshot.TargetDate
	goal.UpdatedAt = s.now().UTC()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, pipeline.Result{}, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, result, nil
}

func (s *GoalService) Delete(userID, goalID string) (pipeline.Result, error) {
	req := pipeline.GoalRequest{Goal: &model.Goal{ID: goalID}, UserID: userID, Action: pipeline.ActionDelete}

	result, err := s.chain.Handle(req)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to check goal: %w", err)
	}
	if !result.Success {
		return result, nil
	}

	err = s.repo.Delete(userID, goalID)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to delete goal: %w", err)
	}

	return result, nil
}

// UpdateProgress records a new percentage. Without the ownership check this
// goes straight to the tracker, which only finds records the user created.
func (s *GoalService) UpdateProgress(userID, goalID string, percentage int, note string) (*model.ProgressRecord, error) {
	if s.progressOwner != nil {
		outcome, err := s.progressOwner.Handle(pipeline.GoalRequest{
			Goal:   &model.Goal{ID: goalID},
			UserID: userID,
			Action: pipeline.ActionUpdate,
		})
		if err != nil {
			return nil, err
		}
		if _, stopped := outcome.Stopped(); stopped {
			return nil, ErrNotGoalOwner
		}
	}

	return s.tracker.UpdateProgress(goalID, userID, percentage, strings.TrimSpace(note))
}

func (s *GoalService) Progress(userID, goalID string) (*model.ProgressRecord, error) {
	return s.tracker.Progress(goalID, userID)
}

func (s *GoalService) History(userID, goalID string) ([]*model.ProgressRecord, error) {
	return s.tracker.History(goalID, userID)
}

// GoalsWithProgress lists the user's goals with their current progress. Goals
// without any record are listed with a nil Progress.
func (s *GoalService) GoalsWithProgress(userID, sortBy string) ([]GoalProgress, error) {
	goals, err := s.repo.Goals(userID, sortBy)
	if err != nil {
		return nil, err
	}

	out := make([]GoalProgress, 0, len(goals))
	for _, goal := range goals {
		item := GoalProgress{Goal: goal, State: goal.State()}

		record, err := s.tracker.Progress(goal.ID, userID)
		if err != nil && !errors.Is(err, progress.ErrProgressNotFound) {
			return nil, err
		}
		item.Progress = record

		out = append(out, item)
	}

	return out, nil
}
