package routes

import (
	"net/http"

	"github.com/templui/goaltracker/internal/app"
	"github.com/templui/goaltracker/internal/handler"
	"github.com/templui/goaltracker/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService, app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Goal mutations are rate limited per user
	limit := middleware.RateLimitWrites(app.Cfg.RateLimitWrites, app.Cfg.RateLimitWindow)

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireUser(goal.List))
	mux.HandleFunc("GET /api/goals/export", middleware.RequireUser(goal.Export))
	mux.HandleFunc("POST /api/goals/export/archive", limit(middleware.RequireUser(goal.Archive)))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireUser(goal.Get))
	mux.HandleFunc("POST /api/goals", limit(middleware.RequireUser(goal.Create)))
	mux.HandleFunc("PUT /api/goals/{id}", limit(middleware.RequireUser(goal.Update)))
	mux.HandleFunc("DELETE /api/goals/{id}", limit(middleware.RequireUser(goal.Delete)))

	// Progress
	mux.HandleFunc("GET /api/goals/{id}/progress", middleware.RequireUser(goal.Progress))
	mux.HandleFunc("GET /api/goals/{id}/progress/history", middleware.RequireUser(goal.History))
	mux.HandleFunc("POST /api/goals/{id}/progress", limit(middleware.RequireUser(goal.UpdateProgress)))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Authenticate(app.TokenService),
	)
}
