package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/middleware"
)

type Set struct {
	Auth   *AuthHandler
	Users  *UsersHandler
	Assets *AssetsHandler
	Reset  *ResetHandler
}

func RegisterRoutes(app *fiber.App, h Set) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/version", GetVersion)

	api.Post("/auth/login", h.Auth.Login)

	api.Post("/users", h.Users.Register)
	api.Get("/users", h.Users.List)

	assets := api.Group("/assets", middleware.Authenticate())
	assets.Get("/", h.Assets.List)
	assets.Post("/", h.Assets.Upload)
	assets.Post("/users/:userid", h.Assets.Upload)
	assets.Get("/:assetid", h.Assets.Download)
	assets.Post("/:assetid/likes", h.Assets.Like)
	assets.Get("/:assetid/likes", h.Assets.Likes)
	assets.Post("/:assetid/comments", h.Assets.Comment)
	assets.Get("/:assetid/comments", h.Assets.Comments)

	api.Delete("/reset", h.Reset.Reset)
}
