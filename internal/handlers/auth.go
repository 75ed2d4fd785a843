package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewAuthHandler(db *gorm.DB, audit *services.AuditService) *AuthHandler {
	return &AuthHandler{DB: db, Audit: audit}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	failure := fiber.Map{"userid": -1}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Message(c, fiber.StatusBadRequest, "invalid request body", failure)
	}
	req.Username = strings.TrimSpace(req.Username)

	if req.Username == "" || req.Password == "" {
		return utils.Message(c, fiber.StatusBadRequest, "username and password are required", failure)
	}

	var user models.User
	err := h.DB.WithContext(c.UserContext()).First(&user, "username = ?", req.Username).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, "user_login", errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err), failure)
	}
	if err != nil {
		logger.Warn("login_failed_user_not_found", map[string]interface{}{
			"username": req.Username,
			"ip":       c.IP(),
		})
		return utils.Message(c, fiber.StatusUnauthorized, "invalid credentials", failure)
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.WarnWithUser(user.ID, "login_failed_invalid_password", map[string]interface{}{
			"username": req.Username,
			"ip":       c.IP(),
		})
		return utils.Message(c, fiber.StatusUnauthorized, "invalid credentials", failure)
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		logger.Error("token_generation_failed", err, map[string]interface{}{"user_id": user.ID})
		return utils.Message(c, fiber.StatusInternalServerError, "failed generating token", failure)
	}

	logger.InfoWithUser(user.ID, "user_login", map[string]interface{}{
		"username": user.Username,
		"ip":       c.IP(),
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &user.ID,
		Action:       services.AuditUserLogin,
		ResourceType: "user",
		ResourceID:   &user.ID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"access_token": token, "userid": user.ID})
}
