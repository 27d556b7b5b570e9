package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/reflalabs/refla-backend/internal/config"
	"github.com/reflalabs/refla-backend/internal/handlers"
	"github.com/reflalabs/refla-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	onboardingHandler *handlers.OnboardingHandler,
	checkinHandler *handlers.CheckinHandler,
	planHandler *handlers.PlanHandler,
	sessionHandler *handlers.SessionHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", handlers.Health)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/google", authHandler.GoogleSignIn)

	// Protected auth routes - apply middleware per route so the public
	// auth group stays public
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Everything below requires a valid access token
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Get("/me", profileHandler.Me)
	protected.Patch("/me/profile", profileHandler.Update)

	protected.Get("/onboarding", onboardingHandler.Get)
	protected.Put("/onboarding/goals", onboardingHandler.UpdateGoals)
	protected.Put("/onboarding/current-state", onboardingHandler.UpdateCurrentState)
	protected.Put("/onboarding/routine", onboardingHandler.UpdateRoutine)

	protected.Post("/checkins", checkinHandler.Create)
	protected.Get("/checkins", checkinHandler.List)

	protected.Post("/plans/generate", planHandler.Generate)
	protected.Get("/plans/active", planHandler.GetActive)
	protected.Get("/plans", planHandler.List)

	protected.Post("/sessions", sessionHandler.Create)
	protected.Get("/sessions", sessionHandler.List)
	protected.Get("/sessions/:id/messages", sessionHandler.Messages)
	protected.Post("/sessions/:id/messages", sessionHandler.SendMessage)
}
