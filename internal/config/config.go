// Package config はアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Clerk Webhook
	ClerkWebhookSecret string

	// Groq（AI補完）
	GroqAPIKey  string
	GroqModel   string // 空の場合はai.DefaultModelが使われる
	GroqBaseURL string // 主にテスト・プロキシ用の差し替え口
	AITimeout   time.Duration

	// Session
	SessionMaxAge   int
	CleanupInterval time.Duration // ワーカーの期限切れセッション削除間隔

	// Rate Limit（req/min/client）
	RateLimitGeneral  int
	RateLimitGenerate int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す（設定不備は
// リクエスト単位のエラーではなく起動時の失敗として扱う）。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.ClerkWebhookSecret = os.Getenv("CLERK_WEBHOOK_SECRET")
	if cfg.ClerkWebhookSecret == "" {
		missing = append(missing, "CLERK_WEBHOOK_SECRET")
	}

	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	if cfg.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.GroqModel = getEnvString("GROQ_MODEL", "")
	cfg.GroqBaseURL = getEnvString("GROQ_BASE_URL", "")
	cfg.AITimeout = getEnvDuration("AI_TIMEOUT", 60*time.Second)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 3600)
	cfg.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", time.Hour)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGenerate = getEnvInt("RATE_LIMIT_GENERATE", 5)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
