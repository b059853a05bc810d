package api

import (
	"net/http"
	"strconv"
	"strings"

	"PhoneCompare/internal/config"
	"PhoneCompare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ArticleHandler 文章、站内搜索与订阅源导入
type ArticleHandler struct {
	articleService *service.ArticleService
	searchService  *service.SearchService
	feeds          []config.FeedConfig
	logger         *logrus.Logger
}

// NewArticleHandler feeds 为后台导入时未指定 url 的默认订阅源
func NewArticleHandler(articles *service.ArticleService, search *service.SearchService, feeds []config.FeedConfig, logger *logrus.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articles,
		searchService:  search,
		feeds:          feeds,
		logger:         logger,
	}
}

// ListArticles GET /api/articles?page=1&page_size=20
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	result, err := h.articleService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, h.logger, "ListArticles", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetArticle GET /api/articles/:slug
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	result, err := h.articleService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, "GetArticle", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search GET /api/search?q=pixel&limit=10
func (h *ArticleHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	result, err := h.searchService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, h.logger, "Search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportRequest 后台导入请求体，url 为空时导入全部已配置订阅源
type ImportRequest struct {
	URL string `json:"url"`
}

// ImportFeed POST /api/admin/articles/import
func (h *ArticleHandler) ImportFeed(c *gin.Context) {
	var req ImportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
	}

	urls := []string{strings.TrimSpace(req.URL)}
	if urls[0] == "" {
		urls = urls[:0]
		for _, f := range h.feeds {
			urls = append(urls, f.URL)
		}
	}
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required (no feeds configured)"})
		return
	}

	results := make([]*service.ImportResult, 0, len(urls))
	for _, u := range urls {
		res, err := h.articleService.ImportFeed(c.Request.Context(), u)
		if err != nil {
			h.logger.WithError(err).WithField("feed", u).Error("ImportFeed failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "import failed: " + u, "results": results})
			return
		}
		results = append(results, res)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
