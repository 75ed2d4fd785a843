package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/internal/middleware"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
)

type AssetsHandler struct {
	Transfer *services.TransferService
	Audit    *services.AuditService
}

func NewAssetsHandler(transfer *services.TransferService, audit *services.AuditService) *AssetsHandler {
	return &AssetsHandler{Transfer: transfer, Audit: audit}
}

func (h *AssetsHandler) List(c *fiber.Ctx) error {
	requester := middleware.GetRequester(c)

	assets, err := h.Transfer.List(c.UserContext(), requester)
	if err != nil {
		return respondError(c, "asset_list", err, ListFailure())
	}
	return utils.List(c, assets)
}

type uploadRequest struct {
	AssetName string `json:"assetname"`
	Data      string `json:"data"`
	AssetType string `json:"assettype"`
	UserID    *int64 `json:"userid"`
}

// parse checks the request without touching any store and returns the decoded payload.
func (req *uploadRequest) parse(requester *services.Requester, pathUserID string) ([]byte, error) {
	req.AssetName = strings.TrimSpace(req.AssetName)
	req.AssetType = strings.ToLower(strings.TrimSpace(req.AssetType))

	if req.AssetName == "" {
		return nil, errvalues.New(errvalues.KindBadRequest, "assetname is required")
	}
	if req.Data == "" {
		return nil, errvalues.New(errvalues.KindBadRequest, "data is required")
	}
	if err := services.ValidateAssetName(req.AssetName); err != nil {
		return nil, err
	}
	if _, ok := models.ParseAssetType(req.AssetType); !ok {
		return nil, errvalues.New(errvalues.KindBadRequest, "assettype must be public or private")
	}

	// An explicit userid only names the caller; uploading on behalf of
	// someone else looks like an unknown user.
	if pathUserID != "" {
		id, err := parseID(pathUserID)
		if err != nil {
			return nil, errvalues.New(errvalues.KindBadRequest, "invalid userid")
		}
		if id != requester.UserID {
			return nil, errvalues.New(errvalues.KindUserNotFound, "no such user...")
		}
	}
	if req.UserID != nil && *req.UserID != requester.UserID {
		return nil, errvalues.New(errvalues.KindUserNotFound, "no such user...")
	}

	return services.DecodePayload(req.Data)
}

func (h *AssetsHandler) Upload(c *fiber.Ctx) error {
	requester := middleware.GetRequester(c)
	if requester == nil {
		return respondError(c, "asset_upload", errvalues.New(errvalues.KindUnauthorized, "authentication required"), UploadFailure())
	}

	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "asset_upload", errvalues.Wrap(errvalues.KindBadRequest, "invalid request body", err), UploadFailure())
	}
	data, err := req.parse(requester, c.Params("userid"))
	if err != nil {
		return respondError(c, "asset_upload", err, UploadFailure())
	}

	asset, err := h.Transfer.Upload(c.UserContext(), requester, req.AssetName, req.AssetType, data)
	if err != nil {
		return respondError(c, "asset_upload", err, UploadFailure())
	}

	logger.InfoWithUser(requester.UserID, "asset_uploaded", map[string]interface{}{
		"asset_id":   asset.ID,
		"asset_name": asset.Name,
		"asset_type": string(asset.Type),
		"bucket_key": asset.BucketKey,
		"size":       len(data),
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &requester.UserID,
		Action:       services.AuditAssetUpload,
		ResourceType: "asset",
		ResourceID:   &asset.ID,
		Details: map[string]interface{}{
			"asset_name": asset.Name,
			"asset_type": string(asset.Type),
			"size":       len(data),
		},
		IPAddress: c.IP(),
		RequestID: getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"assetid": asset.ID})
}

func (h *AssetsHandler) Download(c *fiber.Ctx) error {
	requester := middleware.GetRequester(c)

	assetID, err := assetIDParam(c)
	if err != nil {
		return respondError(c, "asset_download", err, DownloadFailure())
	}

	result, err := h.Transfer.Download(c.UserContext(), requester, assetID)
	if err != nil {
		return respondError(c, "asset_download", err, DownloadFailure())
	}

	entry := services.AuditEntry{
		Action:       services.AuditAssetDownload,
		ResourceType: "asset",
		ResourceID:   &result.Asset.ID,
		Details: map[string]interface{}{
			"asset_name": result.Asset.Name,
			"size":       len(result.Data),
		},
		IPAddress: c.IP(),
		RequestID: getRequestID(c),
	}
	if requester != nil {
		entry.UserID = &requester.UserID
	}
	h.Audit.LogAsync(entry)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user_id":    result.Asset.OwnerID,
		"asset_name": result.Asset.Name,
		"bucket_key": result.Asset.BucketKey,
		"data":       services.EncodePayload(result.Data),
	})
}
