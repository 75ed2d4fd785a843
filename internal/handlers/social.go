package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/internal/middleware"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/pkg/utils"
)

func (h *AssetsHandler) Like(c *fiber.Ctx) error {
	requester := middleware.GetRequester(c)
	if requester == nil {
		return respondError(c, "asset_like", errvalues.New(errvalues.KindUnauthorized, "authentication required"), LikeFailure())
	}
	assetID, err := assetIDParam(c)
	if err != nil {
		return respondError(c, "asset_like", err, LikeFailure())
	}

	like, created, err := h.Transfer.Like(c.UserContext(), requester, assetID)
	if err != nil {
		return respondError(c, "asset_like", err, LikeFailure())
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
		h.Audit.LogAsync(services.AuditEntry{
			UserID:       &requester.UserID,
			Action:       services.AuditAssetLike,
			ResourceType: "asset",
			ResourceID:   &assetID,
			IPAddress:    c.IP(),
			RequestID:    getRequestID(c),
		})
	}
	return utils.Success(c, status, fiber.Map{"likeid": like.ID})
}

func (h *AssetsHandler) Likes(c *fiber.Ctx) error {
	assetID, err := assetIDParam(c)
	if err != nil {
		return respondError(c, "asset_likes", err, ListFailure())
	}

	likes, err := h.Transfer.Likes(c.UserContext(), middleware.GetRequester(c), assetID)
	if err != nil {
		return respondError(c, "asset_likes", err, ListFailure())
	}
	return utils.List(c, likes)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *AssetsHandler) Comment(c *fiber.Ctx) error {
	requester := middleware.GetRequester(c)
	if requester == nil {
		return respondError(c, "asset_comment", errvalues.New(errvalues.KindUnauthorized, "authentication required"), CommentFailure())
	}
	assetID, err := assetIDParam(c)
	if err != nil {
		return respondError(c, "asset_comment", err, CommentFailure())
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "asset_comment", errvalues.Wrap(errvalues.KindBadRequest, "invalid request body", err), CommentFailure())
	}

	comment, err := h.Transfer.Comment(c.UserContext(), requester, assetID, req.Comment)
	if err != nil {
		return respondError(c, "asset_comment", err, CommentFailure())
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &requester.UserID,
		Action:       services.AuditAssetComment,
		ResourceType: "asset",
		ResourceID:   &assetID,
		Details: map[string]interface{}{
			"comment_id": comment.ID,
		},
		IPAddress: c.IP(),
		RequestID: getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"commentid": comment.ID})
}

func (h *AssetsHandler) Comments(c *fiber.Ctx) error {
	assetID, err := assetIDParam(c)
	if err != nil {
		return respondError(c, "asset_comments", err, ListFailure())
	}

	comments, err := h.Transfer.Comments(c.UserContext(), middleware.GetRequester(c), assetID)
	if err != nil {
		return respondError(c, "asset_comments", err, ListFailure())
	}
	return utils.List(c, comments)
}
