package pipeline

import (
	"fmt"
	"log/slog"
	"time"
)

// Handler inspects a request. A returned error means the handler could not
// decide (for example the store is unreachable); it is never used for
// validation, business rule or authorization failures.
type Handler interface {
	Handle(req GoalRequest) (Outcome, error)
}

type HandlerFunc func(req GoalRequest) (Outcome, error)

func (f HandlerFunc) Handle(req GoalRequest) (Outcome, error) {
	return f(req)
}

// Chain runs handlers in order. The first handler that stops ends evaluation;
// the ones after it never run.
type Chain struct {
	handlers []Handler
}

func NewChain(handlers ...Handler) *Chain {
	c := &Chain{}
	for _, h := range handlers {
		c.Then(h)
	}
	return c
}

// Then appends h as the successor of the current last handler.
func (c *Chain) Then(h Handler) *Chain {
	if h != nil {
		c.handlers = append(c.handlers, h)
	}
	return c
}

func (c *Chain) Len() int {
	return len(c.handlers)
}

func (c *Chain) Handle(req GoalRequest) (Result, error) {
	for i, h := range c.handlers {
		outcome, err := h.Handle(req)
		if err != nil {
			return Result{}, fmt.Errorf("handler %d failed: %w", i, err)
		}

		if result, stopped := outcome.Stopped(); stopped {
			slog.Debug("goal request rejected",
				"action", req.Action,
				"user_id", req.UserID,
				"goal_id", req.goalID(),
				"stage", result.Stage,
				"message", result.Message,
			)
			return result, nil
		}
	}

	return Succeeded(), nil
}

// Store is what the default handlers need from the goal store.
type Store interface {
	OpenGoalCounter
	GoalFinder
}

// Default builds the canonical chain: validation, business rules, authorization.
func Default(store Store, maxActiveGoals int, now func() time.Time) *Chain {
	return NewChain(
		NewValidator(now),
		NewBusinessRuleChecker(store, maxActiveGoals),
		NewAuthorizer(store),
	)
}
