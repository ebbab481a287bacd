package shared

import (
	"errors"

	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger carrying the request_id of the call.
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

// RespondError writes an error envelope and logs the underlying error.
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

// RespondServiceError maps service sentinel errors onto business codes.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case err == nil:
		response.Success(c, nil)
	case errors.Is(err, service.ErrNotFound):
		RespondError(c, response.CodeNotFound, "resource not found", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondError(c, response.CodeUnauthorized, "invalid credentials", nil)
	case errors.Is(err, service.ErrForbidden):
		RespondError(c, response.CodeForbidden, "access denied", nil)
	case errors.Is(err, service.ErrVersionConflict):
		RespondError(c, response.CodeConflict, "record was modified concurrently, reload and retry", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		RespondError(c, response.CodeConflict, "status transition not allowed", nil)
	case errors.Is(err, service.ErrLeadAlreadyConverted):
		RespondError(c, response.CodeConflict, "lead already converted", nil)
	case errors.Is(err, service.ErrLeadDiscarded):
		RespondError(c, response.CodeConflict, "lead was discarded", nil)
	case errors.Is(err, service.ErrContractPending):
		RespondError(c, response.CodeConflict, "a contract declaration is already pending", nil)
	case errors.Is(err, service.ErrAlreadyReviewed):
		RespondError(c, response.CodeConflict, "partner already reviewed", nil)
	case errors.Is(err, service.ErrNotEligibleToReview):
		RespondError(c, response.CodeForbidden, "contract approval required before reviewing", nil)
	case errors.Is(err, service.ErrOfferHasReferrals):
		RespondError(c, response.CodeConflict, "checkout split is frozen once the offer has referrals", nil)
	case errors.Is(err, service.ErrWonValueRequired):
		RespondError(c, response.CodeBadRequest, "won value is required", nil)
	case errors.Is(err, service.ErrCNPJInvalid):
		RespondError(c, response.CodeBadRequest, "invalid CNPJ", nil)
	case errors.Is(err, service.ErrCNPJTaken):
		RespondError(c, response.CodeConflict, "CNPJ already registered", nil)
	case errors.Is(err, service.ErrEmailTaken):
		RespondError(c, response.CodeConflict, "email already registered", nil)
	case errors.Is(err, service.ErrSlugTaken):
		RespondError(c, response.CodeConflict, "slug already in use", nil)
	case errors.Is(err, service.ErrPartnerNotActive):
		RespondError(c, response.CodeConflict, "partner is not approved", nil)
	case errors.Is(err, service.ErrWeakPassword):
		RespondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidPassword):
		RespondError(c, response.CodeBadRequest, "current password is incorrect", nil)
	case errors.Is(err, service.ErrCaptchaRequired):
		RespondError(c, response.CodeBadRequest, "captcha is required", nil)
	case errors.Is(err, service.ErrCaptchaInvalid):
		RespondError(c, response.CodeBadRequest, "captcha verification failed", nil)
	case errors.Is(err, service.ErrFeeModelInvalid):
		RespondError(c, response.CodeBadRequest, "fee model is invalid", nil)
	case errors.Is(err, service.ErrValidation):
		RespondError(c, response.CodeBadRequest, err.Error(), nil)
	default:
		RespondError(c, response.CodeInternal, "internal error", err)
	}
}
