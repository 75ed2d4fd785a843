package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewUsersHandler(db *gorm.DB, audit *services.AuditService) *UsersHandler {
	return &UsersHandler{DB: db, Audit: audit}
}

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	BucketFolder string `json:"bucketfolder"`
}

func (req *registerRequest) validate() error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.BucketFolder = strings.Trim(strings.TrimSpace(req.BucketFolder), "/")

	if req.Username == "" {
		return errvalues.New(errvalues.KindBadRequest, "username is required")
	}
	if strings.ContainsAny(req.Username, " /") {
		return errvalues.New(errvalues.KindBadRequest, "username may not contain spaces or slashes")
	}
	if len(req.Password) < 8 {
		return errvalues.New(errvalues.KindBadRequest, "password must be at least 8 characters")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errvalues.New(errvalues.KindBadRequest, "invalid email")
	}
	if req.FirstName == "" || req.LastName == "" {
		return errvalues.New(errvalues.KindBadRequest, "firstname and lastname are required")
	}
	if req.BucketFolder == "" {
		req.BucketFolder = uuid.NewString()
	}
	return nil
}

func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Message(c, fiber.StatusBadRequest, "invalid request body", fiber.Map{"userid": -1})
	}
	if err := req.validate(); err != nil {
		return respondError(c, "user_register", err, fiber.Map{"userid": -1})
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ? OR bucketfolder = ?", req.Username, req.BucketFolder).
		Count(&count).Error; err != nil {
		return respondError(c, "user_register", errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err), fiber.Map{"userid": -1})
	}
	if count > 0 {
		return respondError(c, "user_register", errvalues.New(errvalues.KindConflict, "username already registered"), fiber.Map{"userid": -1})
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return respondError(c, "user_register", errvalues.Wrap(errvalues.KindUpstreamFailure, "failed to hash password", err), fiber.Map{"userid": -1})
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BucketFolder: req.BucketFolder,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return respondError(c, "user_register", errvalues.Wrap(errvalues.KindConflict, "username already registered", err), fiber.Map{"userid": -1})
		}
		return respondError(c, "user_register", errvalues.Wrap(errvalues.KindUpstreamFailure, "failed creating user", err), fiber.Map{"userid": -1})
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id":       user.ID,
		"username":      user.Username,
		"bucket_folder": user.BucketFolder,
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &user.ID,
		Action:       services.AuditUserRegister,
		ResourceType: "user",
		ResourceID:   &user.ID,
		Details: map[string]interface{}{
			"username": user.Username,
		},
		IPAddress: c.IP(),
		RequestID: getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"userid": user.ID})
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.WithContext(c.UserContext()).Order("userid ASC").Find(&users).Error; err != nil {
		return respondError(c, "user_list", errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err), ListFailure())
	}
	return utils.List(c, users)
}
