package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"PhoneCompare/internal/api"
	"PhoneCompare/internal/config"
	"PhoneCompare/internal/repository"
	"PhoneCompare/internal/service"
	"PhoneCompare/internal/utils/httpclient"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configDir string
	cfg       *config.Config
	logger    *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phonecompare",
	Short: "Smartphone price comparison service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置文件
		var err error
		cfg, err = config.LoadConfigFrom(configDir)
		if err != nil {
			return fmt.Errorf("加载配置文件失败: %w", err)
		}

		// 2. 初始化日志
		logger = logrus.New()
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
		logger.Info("配置文件加载成功")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "./config", "config.yaml 所在目录")
	rootCmd.AddCommand(serveCmd, migrateCmd, importFeedCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		if err := migrate(db); err != nil {
			return fmt.Errorf("数据库表结构迁移失败: %w", err)
		}
		logger.Info("数据库表结构检查完成（不存在则已创建）")

		// Gin运行模式（debug/release）
		gin.SetMode(cfg.Server.Mode)
		r := api.NewRouter(cfg, api.NewHandlers(db, cfg, logger), logger)
		logger.Infof("Gin运行模式: %s", cfg.Server.Mode)

		port := cfg.Server.Port
		logger.Infof("服务启动成功，端口：%d", port)
		if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
			return fmt.Errorf("启动服务失败: %w", err)
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		if err := migrate(db); err != nil {
			return fmt.Errorf("数据库表结构迁移失败: %w", err)
		}
		logger.Info("数据库表结构迁移完成")
		return nil
	},
}

var importFeedCmd = &cobra.Command{
	Use:   "import-feed [url...]",
	Short: "Import articles from RSS/Atom feeds (defaults to configured feeds)",
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := args
		if len(urls) == 0 {
			for _, f := range cfg.Feeds {
				urls = append(urls, f.URL)
			}
		}
		if len(urls) == 0 {
			return errors.New("没有可导入的订阅源")
		}

		db, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		client := httpclient.NewHTTPClient(httpclient.Options{Timeout: 20}, logger)
		svc := service.NewArticleService(repository.NewArticleRepository(db), client, logger)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		failed := 0
		for _, u := range urls {
			res, err := svc.ImportFeed(ctx, u)
			if err != nil {
				failed++
				logger.WithError(err).WithField("feed", u).Error("导入失败")
				continue
			}
			logger.Infof("%s: 导入 %d 篇，跳过 %d 篇", u, res.Imported, res.Skipped)
		}
		if failed > 0 {
			return fmt.Errorf("%d 个订阅源导入失败", failed)
		}
		return nil
	},
}
