package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// 可选的全站 Basic Auth，/health 与 /metrics 不校验
	BasicAuthUser string
	BasicAuthPass string

	// 前端构建产物目录，为空则不托管静态文件
	WebRoot string

	LogLevel string

	UpstreamTimeout time.Duration

	HNBaseURL string

	RedditBaseURL   string
	RedditSubreddit string
	RedditLimit     int

	OpenLibraryBaseURL string
	OpenLibrarySubject string

	GutendexBaseURL string
	GutendexTopic   string

	// 上游探活周期，为空表示不启用
	ProbeCronSpec string

	// 加载过程中的告警，logger 建好之后由 main 输出
	Warnings []string
}

func Load() *Config {
	warnings := loadEnvFiles()

	// 上游地址与过滤条件只读环境变量，留空时由 collector 使用各自的默认值
	cfg := &Config{
		Warnings:           warnings,
		AppPort:            getEnv("APP_PORT", "9000"),
		BasicAuthUser:      os.Getenv("APP_BASIC_USER"),
		BasicAuthPass:      os.Getenv("APP_BASIC_PASS"),
		WebRoot:            os.Getenv("WEB_ROOT"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HNBaseURL:          os.Getenv("HN_BASE_URL"),
		RedditBaseURL:      os.Getenv("REDDIT_BASE_URL"),
		RedditSubreddit:    os.Getenv("REDDIT_SUBREDDIT"),
		OpenLibraryBaseURL: os.Getenv("OPENLIBRARY_BASE_URL"),
		OpenLibrarySubject: os.Getenv("OPENLIBRARY_SUBJECT"),
		GutendexBaseURL:    os.Getenv("GUTENDEX_BASE_URL"),
		GutendexTopic:      os.Getenv("GUTENDEX_TOPIC"),
		ProbeCronSpec:      lookupEnv("PROBE_CRON_SPEC", "*/10 * * * *"),
	}
	cfg.UpstreamTimeout = cfg.getDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	cfg.RedditLimit = cfg.getInt("REDDIT_LIMIT", 10)
	return cfg
}

// loadEnvFiles 依次加载 .env.local 与 .env，已存在的环境变量不会被覆盖；文件不存在时忽略
func loadEnvFiles() []string {
	var warnings []string
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("load %s: %v", f, err))
		}
	}
	return warnings
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// lookupEnv 与 getEnv 不同：显式设置为空字符串时返回空，用于“关闭”某项功能
func lookupEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *Config) getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.warnf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func (c *Config) getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.warnf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
