package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
)

const noSuchAsset = "no such asset..."

// UploadFailure, DownloadFailure and ListFailure are the sentinel fields a
// failed response of that route carries next to its message.
func UploadFailure() fiber.Map {
	return fiber.Map{"assetid": -1}
}

func DownloadFailure() fiber.Map {
	return fiber.Map{
		"user_id":    -1,
		"asset_name": "?",
		"bucket_key": "?",
		"data":       []interface{}{},
	}
}

func ListFailure() fiber.Map {
	return fiber.Map{"data": []interface{}{}}
}

// LikeFailure and CommentFailure mirror UploadFailure for the social writes.
func LikeFailure() fiber.Map {
	return fiber.Map{"likeid": -1}
}

func CommentFailure() fiber.Map {
	return fiber.Map{"commentid": -1}
}

func statusFor(kind errvalues.Kind) int {
	switch kind {
	case errvalues.KindBadRequest, errvalues.KindUnsupportedFormat:
		return fiber.StatusBadRequest
	case errvalues.KindUnauthorized:
		return fiber.StatusUnauthorized
	case errvalues.KindForbidden, errvalues.KindAssetNotFound, errvalues.KindUserNotFound:
		return fiber.StatusNotFound
	case errvalues.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// wireMessage hides the difference between a forbidden and a missing asset.
func wireMessage(kind errvalues.Kind, err error) string {
	if kind == errvalues.KindForbidden {
		return noSuchAsset
	}
	return errvalues.MessageOf(err)
}

// respondError logs err with its kind and writes the mapped status, the
// client-facing message and the route's failure fields.
func respondError(c *fiber.Ctx, action string, err error, failure fiber.Map) error {
	kind := errvalues.KindOf(err)
	status := statusFor(kind)

	details := map[string]interface{}{
		"kind":       string(kind),
		"path":       c.Path(),
		"status":     status,
		"request_id": logger.GetRequestID(c),
	}
	userID := logger.GetUserIDFromContext(c)
	switch {
	case status >= fiber.StatusInternalServerError && userID != nil:
		logger.ErrorWithUser(*userID, action+"_failed", err, details)
	case status >= fiber.StatusInternalServerError:
		logger.Error(action+"_failed", err, details)
	case userID != nil:
		details["error"] = err.Error()
		logger.WarnWithUser(*userID, action+"_rejected", details)
	default:
		details["error"] = err.Error()
		logger.Warn(action+"_rejected", details)
	}

	return utils.Message(c, status, wireMessage(kind, err), failure)
}
