package shared

import (
	"errors"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// serviceErrorCodes 业务哨兵错误到响应码与外部文案的映射
var serviceErrorCodes = []struct {
	err  error
	code int
	msg  string
}{
	{service.ErrNotFound, response.CodeNotFound, "not found"},
	{service.ErrSlugExists, response.CodeConflict, "slug already exists"},
	{service.ErrProductPriceInvalid, response.CodeBadRequest, "invalid product price"},
	{service.ErrProductInactive, response.CodeBadRequest, "product is not available"},
	{service.ErrStockInsufficient, response.CodeConflict, "insufficient stock"},
	{service.ErrCartEmpty, response.CodeBadRequest, "cart is empty"},
	{service.ErrOrderStateInvalid, response.CodeConflict, "order state does not allow this operation"},
	{service.ErrOrderExpired, response.CodeConflict, "order expired"},
	{service.ErrChannelUnavailable, response.CodeBadRequest, "payment channel unavailable"},
	{service.ErrChannelConfigBad, response.CodeBadRequest, "payment channel misconfigured"},
	{service.ErrPaymentStateInvalid, response.CodeConflict, "payment state does not allow this operation"},
	{service.ErrAmountMismatch, response.CodeConflict, "payment amount mismatch"},
	{service.ErrInvalidCredentials, response.CodeUnauthorized, "invalid username or password"},
	{service.ErrInvalidPassword, response.CodeBadRequest, "current password incorrect"},
	{service.ErrCaptchaInvalid, response.CodeBadRequest, "captcha verification failed"},
	{service.ErrCaptchaRequired, response.CodeBadRequest, "captcha required"},
	{service.ErrRateLimited, response.CodeTooManyRequests, "too many requests"},
	{service.ErrBannerPositionBad, response.CodeBadRequest, "invalid banner position"},
	{service.ErrNotifyDisabled, response.CodeBadRequest, "notification service disabled"},
	{service.ErrNotifyChannelBad, response.CodeBadRequest, "invalid notification channel"},
}

// RespondServiceError 将业务错误映射为统一响应；未识别的错误按内部错误处理。
func RespondServiceError(c *gin.Context, err error) {
	for _, item := range serviceErrorCodes {
		if errors.Is(err, item.err) {
			RespondError(c, item.code, item.msg, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, "internal error", err)
}
