package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env           string
	AppSecret     string
	DatabaseURL   string
	JWTExpiry     time.Duration
	Port          string
	SiteName      string
	SiteUrl       string
	LogLevel      string
	MoviesPerPage int
	AutoMigrate   bool

	// 定时重算平均分的间隔，0 表示不启用
	RecomputeInterval time.Duration

	// 可信反向代理（IP 或 CIDR）。只有来自这些地址的请求才采信 X-Forwarded-For，
	// 为空时评分来源一律取连接的对端地址
	TrustedProxies []string
}

// fileConfig 配置文件中出现的键才会覆盖环境变量
type fileConfig struct {
	Env            *string `toml:"env"`
	AppSecret      *string `toml:"app_secret"`
	DatabaseURL    *string `toml:"database_url"`
	JWTExpiryHours *int    `toml:"jwt_expiry_hours"`
	Port           *string `toml:"port"`
	SiteName       *string `toml:"site_name"`
	SiteUrl        *string `toml:"site_url"`
	LogLevel       *string `toml:"log_level"`
	MoviesPerPage  *int    `toml:"movies_per_page"`
	AutoMigrate    *bool   `toml:"auto_migrate"`

	RecomputeIntervalMinutes *int     `toml:"recompute_interval_minutes"`
	TrustedProxies           []string `toml:"trusted_proxies"`
}

// Load 加载配置：环境变量（含默认值），再叠加可选的 TOML 配置文件
// path 为空或文件不存在时只使用环境变量
func Load(path string) (*Config, error) {
	cfg := fromEnv()

	if path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.IsProduction() && cfg.AppSecret == defaultSecret {
		fmt.Fprintln(os.Stderr, "【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}
	return cfg, nil
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database_url 不能为空")
	}
	if c.JWTExpiry <= 0 {
		return errors.New("jwt_expiry_hours 必须大于 0")
	}
	if c.MoviesPerPage <= 0 {
		return errors.New("movies_per_page 必须大于 0")
	}
	if c.RecomputeInterval < 0 {
		return errors.New("recompute_interval_minutes 不能为负数")
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("无效的可信代理地址: %s", p)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("未知的日志级别: %s", c.LogLevel)
	}
	return nil
}

func fromEnv() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	perPage, _ := strconv.Atoi(getEnv("MOVIES_PER_PAGE", "5"))
	autoMigrate, _ := strconv.ParseBool(getEnv("AUTO_MIGRATE", "false"))
	recomputeMinutes, _ := strconv.Atoi(getEnv("RECOMPUTE_INTERVAL_MINUTES", "0"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "moviesphere")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		AppSecret:     getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret)),
		DatabaseURL:   dbURL,
		JWTExpiry:     time.Duration(expiryHours) * time.Hour,
		Port:          getEnv("PORT", "5005"),
		SiteName:      getEnv("SITE_NAME", "MovieSphere"),
		SiteUrl:       getEnv("SITE_URL", "http://localhost:5005"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MoviesPerPage: perPage,
		AutoMigrate:   autoMigrate,

		RecomputeInterval: time.Duration(recomputeMinutes) * time.Minute,
		TrustedProxies:    splitList(os.Getenv("TRUSTED_PROXIES")),
	}
}

func (c *Config) overlay(path string) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("打开配置文件: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	if err := toml.NewDecoder(file).Decode(&fc); err != nil {
		return fmt.Errorf("解析配置文件: %w", err)
	}

	setString(&c.Env, fc.Env)
	setString(&c.AppSecret, fc.AppSecret)
	setString(&c.DatabaseURL, fc.DatabaseURL)
	setString(&c.Port, fc.Port)
	setString(&c.SiteName, fc.SiteName)
	setString(&c.SiteUrl, fc.SiteUrl)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.JWTExpiryHours != nil {
		c.JWTExpiry = time.Duration(*fc.JWTExpiryHours) * time.Hour
	}
	if fc.MoviesPerPage != nil {
		c.MoviesPerPage = *fc.MoviesPerPage
	}
	if fc.AutoMigrate != nil {
		c.AutoMigrate = *fc.AutoMigrate
	}
	if fc.RecomputeIntervalMinutes != nil {
		c.RecomputeInterval = time.Duration(*fc.RecomputeIntervalMinutes) * time.Minute
	}
	if fc.TrustedProxies != nil {
		c.TrustedProxies = fc.TrustedProxies
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// splitList 拆分逗号分隔的列表，去掉空项
func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
