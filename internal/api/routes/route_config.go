package routes

import (
	"Compliance-Shield/internal/api/handlers"
	"Compliance-Shield/internal/middleware"
	"Compliance-Shield/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	InventoryHandler handlers.InventoryHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Inventory()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/otp", c.UserHandler.RequestOTP)
		auth.Post("/verify", c.UserHandler.VerifyOTP)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.Middleware.AuthMiddleware(c.JWTService))

	inventory.Post("/scan", c.InventoryHandler.ScanProduct)
	inventory.Get("", c.InventoryHandler.GetInventory)
	inventory.Get("/dashboard", c.InventoryHandler.GetDashboardStats)

	// Reports
	inventory.Get("/report", c.InventoryHandler.DownloadReport)
	inventory.Post("/report/email", c.InventoryHandler.EmailReport)

	inventory.Get("/:id", c.InventoryHandler.GetItem)
	inventory.Delete("/:id", c.InventoryHandler.DeleteItem)
	inventory.Post("/:id/feedback", c.InventoryHandler.SubmitFeedback)
	inventory.Get("/:id/feedback", c.InventoryHandler.GetFeedback)
}
