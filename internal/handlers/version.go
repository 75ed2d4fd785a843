package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/pkg/utils"
)

// Version is the server version, injected at build time:
//
//	go build -ldflags "-X github.com/photoapp/photoapp/internal/handlers.Version=1.2.3"
var Version = "dev"

const apiVersion = "v1"

func GetVersion(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"version":     Version,
		"api_version": apiVersion,
	})
}
