package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`    // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"`  // PostgreSQL配置
	Mail     MailConfig     `mapstructure:"mail"`      // 邮件服务配置（降价提醒）
	Admin    AdminConfig    `mapstructure:"admin"`     // 后台管理账号
	Feeds    []FeedConfig   `mapstructure:"feeds"`     // 文章导入源
	LogLevel string         `mapstructure:"log_level"` // 日志级别：debug/info/warn/error
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`          // 服务端口
	Mode         string   `mapstructure:"mode"`          // Gin运行模式：debug/release/test
	SiteURL      string   `mapstructure:"site_url"`      // 前台站点地址，用于邮件中的链接
	AllowOrigins []string `mapstructure:"allow_origins"` // CORS 允许的前端域名
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// MailConfig 发信服务配置（Resend 兼容 REST API）
type MailConfig struct {
	BaseURL string `mapstructure:"base_url"` // API基础地址
	APIKey  string `mapstructure:"api_key"`  // API Key，为空时不发送降价提醒
	From    string `mapstructure:"from"`     // 发件人
	Timeout int    `mapstructure:"timeout"`  // 请求超时（秒）
	Proxy   string `mapstructure:"proxy"`    // 代理地址
}

// Enabled API Key 与发件人都已配置才发信
func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && m.From != ""
}

// Validate 配了 API Key 却没有发件人视为配置错误，启动时直接失败
func (m MailConfig) Validate() error {
	if m.APIKey != "" && strings.TrimSpace(m.From) == "" {
		return errors.New("mail.api_key 已配置但 mail.from 为空")
	}
	return nil
}

// AdminConfig 后台 Basic Auth 账号，用户名为空时不注册后台路由
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// FeedConfig 单个文章订阅源
type FeedConfig struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./config")
}

// LoadConfigFrom 从指定目录加载 config.yaml
func LoadConfigFrom(dir string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	if err := cfg.Mail.Validate(); err != nil {
		return nil, fmt.Errorf("发信配置错误: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.site_url", "http://localhost:3000")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("mail.base_url", "https://api.resend.com")
	v.SetDefault("mail.timeout", 10)
	v.SetDefault("log_level", "info")
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("PG_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("MAIL_API_KEY"); v != "" {
		cfg.Mail.APIKey = v
	}
	if v := os.Getenv("MAIL_FROM"); v != "" {
		cfg.Mail.From = v
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
}
