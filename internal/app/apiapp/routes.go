package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	sweepjob "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/jobs/sweep"
	authsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/auth"
	contentsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/content"
	modsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/moderation"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager        *authsvc.JWTManager
	ContentService    *contentsvc.Service
	ModerationService *modsvc.Service
	SweepJob          *sweepjob.Job
	Logger            *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	contentHandler := handlers.NewContentHandler(deps.ContentService)
	moderationHandler := handlers.NewModerationHandler(deps.ModerationService, deps.ContentService)
	sweepHandler := handlers.NewSweepHandler(deps.SweepJob)

	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)
	reviewerRoleMW := RequireRole("OWNER", "MODERATOR")

	r.Get("/healthz", healthHandler.Get)

	r.With(authMW).Post("/content/upload", contentHandler.Upload)
	r.With(authMW).Get("/content", contentHandler.List)

	r.Route("/moderation", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/stats", moderationHandler.Stats)
		r.With(reviewerRoleMW).Post("/sweep", sweepHandler.Trigger)
		r.Post("/{contentID}/run", moderationHandler.Run)
		r.Get("/{contentID}", moderationHandler.GetRecord)
		r.With(reviewerRoleMW).Post("/records/{id}/review", moderationHandler.SubmitReview)
	})
}
