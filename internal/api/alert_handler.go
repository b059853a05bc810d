package api

import (
	"net/http"

	"PhoneCompare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AlertHandler 降价提醒订阅与退订
type AlertHandler struct {
	alertService *service.AlertService
	logger       *logrus.Logger
}

// NewAlertHandler 创建 AlertHandler
func NewAlertHandler(alerts *service.AlertService, logger *logrus.Logger) *AlertHandler {
	return &AlertHandler{alertService: alerts, logger: logger}
}

// AlertRequest 订阅 / 退订请求体
type AlertRequest struct {
	PhoneID uint64 `json:"phone_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// Subscribe 订阅降价提醒 POST /api/alerts
func (h *AlertHandler) Subscribe(c *gin.Context) {
	var req AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_id and a valid email are required"})
		return
	}
	if err := h.alertService.Subscribe(c.Request.Context(), req.PhoneID, req.Email); err != nil {
		respondError(c, h.logger, "Subscribe", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

// Unsubscribe 退订 POST /api/alerts/unsubscribe
func (h *AlertHandler) Unsubscribe(c *gin.Context) {
	var req AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_id and a valid email are required"})
		return
	}
	if err := h.alertService.Unsubscribe(c.Request.Context(), req.PhoneID, req.Email); err != nil {
		respondError(c, h.logger, "Unsubscribe", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}

// UnsubscribeByToken 邮件退订链接 GET /api/alerts/unsubscribe?token=...
func (h *AlertHandler) UnsubscribeByToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	if err := h.alertService.UnsubscribeByToken(c.Request.Context(), token); err != nil {
		respondError(c, h.logger, "UnsubscribeByToken", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}
