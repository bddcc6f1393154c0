package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hirehub/internal/middleware"
	"alfredoptarigan/hirehub/internal/models"
)

type Router struct {
	Jobs    *JobHandler
	Resumes *ResumeHandler
	Chat    *ChatHandler
	Tokens  middleware.TokenValidator
	// AILimiter guards routes that call the AI provider. Optional.
	AILimiter fiber.Handler
}

// Register mounts the API under /api.
func (r Router) Register(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HireHub API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"jobs":    "/api/jobs",
				"resumes": "POST /api/resumes/analyze",
				"chat":    "/api/chat",
				"health":  "GET /api/health",
			},
		})
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	auth := middleware.RequireAuth(r.Tokens)
	aiLimiter := r.AILimiter
	if aiLimiter == nil {
		aiLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	jobs := api.Group("/jobs")
	jobs.Get("/", r.Jobs.HandleList)
	// Registered before /:id so "stats" is not read as an id.
	jobs.Get("/stats/overview", auth, middleware.RequireRole(models.RoleAdmin), r.Jobs.HandleStats)
	jobs.Get("/:id/similar", r.Jobs.HandleSimilar)
	jobs.Get("/:id", r.Jobs.HandleGet)
	jobs.Post("/", auth, middleware.RequireRole(models.RoleAdmin, models.RoleRecruiter), r.Jobs.HandleCreate)
	jobs.Put("/:id", auth, r.Jobs.HandleUpdate)
	jobs.Delete("/:id", auth, r.Jobs.HandleDelete)

	api.Post("/resumes/analyze", auth, aiLimiter, r.Resumes.HandleAnalyze)

	chat := api.Group("/chat", auth)
	chat.Post("/messages", aiLimiter, r.Chat.HandleSendMessage)
	chat.Get("/messages", r.Chat.HandleGetMessages)
	chat.Post("/conversations", r.Chat.HandleCreateConversation)
	chat.Get("/conversations/:id", r.Chat.HandleGetConversation)
}
