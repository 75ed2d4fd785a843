package utils

import "github.com/gofiber/fiber/v2"

// Message writes {"message": msg} plus any extra fields.
func Message(c *fiber.Ctx, status int, message string, fields fiber.Map) error {
	body := fiber.Map{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func Success(c *fiber.Ctx, status int, fields fiber.Map) error {
	return Message(c, status, "success", fields)
}

// List writes {"message": "success", "data": data}; a nil slice is sent as [].
func List[T any](c *fiber.Ctx, data []T) error {
	if data == nil {
		data = []T{}
	}
	return Success(c, fiber.StatusOK, fiber.Map{"data": data})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return Message(c, status, message, nil)
}
