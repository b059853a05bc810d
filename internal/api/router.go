package api

import (
	"net/http"
	"strings"
	"time"

	"PhoneCompare/internal/config"
	"PhoneCompare/internal/interfaces"
	"PhoneCompare/internal/mailer"
	"PhoneCompare/internal/metrics"
	"PhoneCompare/internal/repository"
	"PhoneCompare/internal/service"
	"PhoneCompare/internal/utils/httpclient"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handlers 路由用到的全部 handler
type Handlers struct {
	Phone     *PhoneHandler
	Alert     *AlertHandler
	Article   *ArticleHandler
	Favorites *FavoritesHandler
}

// NewHandlers 按配置组装仓储、服务与 handler。
// 未配置发信 API Key 或发件人时不创建发信客户端，降价检测只告警不发送
func NewHandlers(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Handlers {
	phoneRepo := repository.NewPhoneRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	articleRepo := repository.NewArticleRepository(db)

	var dispatcher interfaces.PriceDropDispatcher
	if cfg.Mail.Enabled() {
		mailClient := mailer.NewClient(mailer.Config{
			BaseURL: cfg.Mail.BaseURL,
			APIKey:  cfg.Mail.APIKey,
			From:    cfg.Mail.From,
			Timeout: cfg.Mail.Timeout,
			Proxy:   cfg.Mail.Proxy,
		}, logger)
		dispatcher = service.NewAlertDispatcher(alertRepo, mailClient, cfg.Server.SiteURL, logger)
		logger.Info("降价提醒使用邮件发送")
	} else {
		logger.Warn("未配置发信 API Key 或发件人，降价提醒不会发送")
	}
	notifier := service.NewPriceDropNotifier(dispatcher, phoneRepo, cfg.Mail.Enabled(), logger)

	feedClient := httpclient.NewHTTPClient(httpclient.Options{Timeout: 20}, logger)

	return &Handlers{
		Phone: NewPhoneHandler(
			service.NewPhoneService(phoneRepo, logger),
			service.NewCompareService(phoneRepo, logger),
			service.NewPriceService(phoneRepo, notifier, logger),
			logger,
		),
		Alert: NewAlertHandler(service.NewAlertService(alertRepo, phoneRepo, logger), logger),
		Article: NewArticleHandler(
			service.NewArticleService(articleRepo, feedClient, logger),
			service.NewSearchService(phoneRepo, articleRepo, logger),
			cfg.Feeds,
			logger,
		),
		Favorites: NewFavoritesHandler(strings.HasPrefix(cfg.Server.SiteURL, "https://"), logger),
	}
}

// NewRouter 注册全部路由。后台路由仅在配置了管理员账号时注册
func NewRouter(cfg *config.Config, h *Handlers, logger *logrus.Logger) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.GinMiddleware())
	r.Use(corsMiddleware(cfg.Server.AllowOrigins))

	if cfg.Server.Mode == gin.DebugMode {
		// 注册ppof 方便调试和监测性能问题
		pprof.Register(r)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/phones", h.Phone.ListPhones)
		apiGroup.GET("/phones/:slug", h.Phone.GetPhone)
		apiGroup.GET("/compare", h.Phone.Compare)

		apiGroup.GET("/search", h.Article.Search)
		apiGroup.GET("/articles", h.Article.ListArticles)
		apiGroup.GET("/articles/:slug", h.Article.GetArticle)

		apiGroup.POST("/alerts", h.Alert.Subscribe)
		apiGroup.POST("/alerts/unsubscribe", h.Alert.Unsubscribe)
		apiGroup.GET("/alerts/unsubscribe", h.Alert.UnsubscribeByToken)

		apiGroup.GET("/favorites", h.Favorites.List)
		apiGroup.POST("/favorites/:slug", h.Favorites.Add)
		apiGroup.DELETE("/favorites/:slug", h.Favorites.Remove)
		apiGroup.POST("/favorites/:slug/toggle", h.Favorites.Toggle)
	}

	if cfg.Admin.Username == "" {
		logger.Warn("未配置后台账号，后台接口未注册")
		return r
	}
	admin := r.Group("/api/admin", gin.BasicAuth(gin.Accounts{cfg.Admin.Username: cfg.Admin.Password}))
	{
		admin.POST("/phones", h.Phone.UpsertPhone)
		admin.PUT("/phones/:id/price", h.Phone.UpdatePrice)
		admin.POST("/price-drop", h.Phone.PriceDrop)
		admin.POST("/articles/import", h.Article.ImportFeed)
	}
	return r
}

// corsMiddleware 未配置域名时允许所有来源（此时不带 cookie）
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
