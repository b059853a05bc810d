package api

import (
	"net/http"
	"strconv"
	"strings"

	"PhoneCompare/internal/repository"
	"PhoneCompare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PhoneHandler 手机列表、详情、对比与后台录入
type PhoneHandler struct {
	phoneService   *service.PhoneService
	compareService *service.CompareService
	priceService   *service.PriceService
	logger         *logrus.Logger
}

// NewPhoneHandler 创建 PhoneHandler
func NewPhoneHandler(phones *service.PhoneService, compare *service.CompareService, price *service.PriceService, logger *logrus.Logger) *PhoneHandler {
	return &PhoneHandler{
		phoneService:   phones,
		compareService: compare,
		priceService:   price,
		logger:         logger,
	}
}

// ListPhones 手机列表
// GET /api/phones?brand=google&min_price=300&max_price=900&sort=price_asc&page=1&page_size=20
func (h *PhoneHandler) ListPhones(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.PhoneFilter{
		Brand: c.Query("brand"),
		Sort:  c.Query("sort"),
	}
	var ok bool
	if filter.MinPrice, ok = optionalFloat(c, "min_price"); !ok {
		return
	}
	if filter.MaxPrice, ok = optionalFloat(c, "max_price"); !ok {
		return
	}

	result, err := h.phoneService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, "ListPhones", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPhone 手机详情 GET /api/phones/:slug
func (h *PhoneHandler) GetPhone(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}
	result, err := h.phoneService.Get(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.logger, "GetPhone", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Compare 手机对比 GET /api/compare?slugs=a,b,c（也支持重复的 slugs 参数）
func (h *PhoneHandler) Compare(c *gin.Context) {
	var slugs []string
	for _, v := range c.QueryArray("slugs") {
		slugs = append(slugs, strings.Split(v, ",")...)
	}
	result, err := h.compareService.Compare(c.Request.Context(), slugs)
	if err != nil {
		respondError(c, h.logger, "Compare", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpsertPhone 后台录入 POST /api/admin/phones
func (h *PhoneHandler) UpsertPhone(c *gin.Context) {
	var req service.PhoneInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	phone, err := h.phoneService.Upsert(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "UpsertPhone", err)
		return
	}
	c.JSON(http.StatusOK, phone)
}

// UpdatePriceRequest 后台改价请求体
type UpdatePriceRequest struct {
	Price *float64 `json:"price"`
}

// UpdatePrice 后台改价并触发降价检测 PUT /api/admin/phones/:id/price
func (h *PhoneHandler) UpdatePrice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone id"})
		return
	}
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}
	result, err := h.priceService.UpdatePrice(c.Request.Context(), id, *req.Price)
	if err != nil {
		respondError(c, h.logger, "UpdatePrice", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PriceDropRequest 手动降价检测请求体；old_price 缺省表示没有基准价。
// 邮件中的手机名称、图片取自数据库，不接受请求方传入
type PriceDropRequest struct {
	PhoneID  uint64   `json:"phone_id"`
	NewPrice *float64 `json:"new_price"`
	OldPrice *float64 `json:"old_price"`
}

// PriceDrop 降价检测 POST /api/admin/price-drop，返回 {"notified": n}
func (h *PhoneHandler) PriceDrop(c *gin.Context) {
	var req PriceDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	result, err := h.priceService.CheckPriceDrop(c.Request.Context(), req.PhoneID, req.OldPrice, req.NewPrice)
	if err != nil {
		respondError(c, h.logger, "PriceDrop", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// optionalFloat 参数缺失返回 nil；格式错误时已写 400，返回 ok=false
func optionalFloat(c *gin.Context, key string) (*float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return nil, false
	}
	return &v, true
}
