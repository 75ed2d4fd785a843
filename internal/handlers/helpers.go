package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/pkg/logger"
)

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, errvalues.New(errvalues.KindBadRequest, "invalid id")
	}
	return id, nil
}

func assetIDParam(c *fiber.Ctx) (int64, error) {
	id, err := parseID(c.Params("assetid"))
	if err != nil {
		return 0, errvalues.New(errvalues.KindBadRequest, "invalid assetid")
	}
	return id, nil
}

func getRequestID(c *fiber.Ctx) string {
	return logger.GetRequestID(c)
}
