package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// ServerConfig 服务配置
type ServerConfig struct {
	Port string
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// URL Postgres 连接串，缺失时启动必须失败
	URL string
}

// SessionConfig 会话配置
type SessionConfig struct {
	// Secret Cookie 签名密钥
	Secret string
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	Provider  string // "s3" | "vercel" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	CDNDomain string
	BasePath  string
	// VercelToken Vercel Blob 读写令牌
	VercelToken string
	// Endpoint 自定义端点（本地目录 / 测试服务器）
	Endpoint string
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Prefix string
}

// Config 应用配置
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Storage  StorageConfig
	Metrics  MetricsConfig
}

// ErrDatabaseURLMissing 数据库连接串未配置
var ErrDatabaseURLMissing = errors.New("DATABASE_URL (ou POSTGRES_URL) não está definida")

// ==================== 加载 ====================

// Load 从环境变量加载配置，.env 文件存在时先行载入
func Load() (*Config, error) {
	// .env 是可选的，生产环境直接注入环境变量
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SESSION_SECRET", "uma-chave-secreta-muito-segura")
	v.SetDefault("STORAGE_PROVIDER", "s3")
	v.SetDefault("STORAGE_BASE_PATH", "mercado-validade")
	v.SetDefault("METRICS_PREFIX", "mercado_validade")

	// 兼容 Vercel 的 POSTGRES_URL 命名
	dsn := v.GetString("DATABASE_URL")
	if dsn == "" {
		dsn = v.GetString("POSTGRES_URL")
	}
	if dsn == "" {
		return nil, ErrDatabaseURLMissing
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			URL: dsn,
		},
		Session: SessionConfig{
			Secret: v.GetString("SESSION_SECRET"),
		},
		Storage: StorageConfig{
			Provider:    v.GetString("STORAGE_PROVIDER"),
			Bucket:      v.GetString("AWS_BUCKET"),
			Region:      v.GetString("AWS_REGION"),
			AccessKey:   v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
			CDNDomain:   v.GetString("AWS_CDN_DOMAIN"),
			BasePath:    v.GetString("STORAGE_BASE_PATH"),
			VercelToken: v.GetString("BLOB_READ_WRITE_TOKEN"),
			Endpoint:    v.GetString("STORAGE_ENDPOINT"),
		},
		Metrics: MetricsConfig{
			Prefix: v.GetString("METRICS_PREFIX"),
		},
	}
	return cfg, nil
}
