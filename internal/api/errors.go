package api

import (
	"errors"
	"net/http"

	"PhoneCompare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor 业务错误映射为 HTTP 状态码，未知错误一律 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidPriceChange),
		errors.Is(err, service.ErrNotEnoughPhones),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrInvalidPhone):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPhoneNotFound),
		errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrAlertNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError 4xx 直接返回错误信息；5xx 记日志，只返回通用信息
func respondError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.FullPath()).Errorf("%s failed", op)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
