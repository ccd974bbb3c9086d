package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	RecipeStore RecipeStoreConfig `mapstructure:"recipe_store"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Snapshot    SnapshotConfig    `mapstructure:"snapshot"`
	Planner     PlannerConfig     `mapstructure:"planner"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RecipeStoreConfig 外部食譜庫（hosted REST 後端）配置
type RecipeStoreConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig 規劃器持久化使用的 redis 配置
// Enabled 為 false 時退回記憶體儲存（測試、本地開發）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SnapshotConfig 食譜池快照緩存配置
type SnapshotConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// PlannerConfig 規劃器設定
type PlannerConfig struct {
	MaxServings     int `mapstructure:"max_servings"`
	DefaultMaxTime  int `mapstructure:"default_max_time"`
	DefaultPageSize int `mapstructure:"default_page_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("recipe_store.base_url", "RECIPE_STORE_URL")
	viper.BindEnv("recipe_store.api_key", "RECIPE_STORE_API_KEY")
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("snapshot.enabled", "SNAPSHOT_ENABLED")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"recipe_store_url:", viper.GetString("recipe_store.base_url"),
		"recipe_store_api_key:", maskAPIKey(viper.GetString("recipe_store.api_key")))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-planner")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 食譜庫設定
	viper.SetDefault("recipe_store.base_url", "http://localhost:54321/rest/v1")
	viper.SetDefault("recipe_store.timeout", "15s")

	// redis 設定
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// 快照緩存設定
	viper.SetDefault("snapshot.enabled", true)
	viper.SetDefault("snapshot.max_size", 64)
	viper.SetDefault("snapshot.ttl", "10m")
	viper.SetDefault("snapshot.cleanup_interval", "5m")

	// 規劃器設定
	viper.SetDefault("planner.max_servings", 99)
	viper.SetDefault("planner.default_max_time", 60)
	viper.SetDefault("planner.default_page_size", 12)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證食譜庫設定
	if config.RecipeStore.BaseURL == "" {
		return fmt.Errorf("recipe store base url is required")
	}
	if config.RecipeStore.Timeout <= 0 {
		return fmt.Errorf("invalid recipe store timeout")
	}

	// 驗證快照緩存設定
	if config.Snapshot.Enabled {
		if config.Snapshot.MaxSize <= 0 {
			return fmt.Errorf("invalid snapshot max size")
		}
		if config.Snapshot.TTL <= 0 {
			return fmt.Errorf("invalid snapshot ttl")
		}
		if config.Snapshot.CleanupInterval <= 0 {
			return fmt.Errorf("invalid snapshot cleanup interval")
		}
	}

	// 驗證規劃器設定
	if config.Planner.MaxServings <= 0 {
		return fmt.Errorf("invalid planner max servings")
	}
	if config.Planner.DefaultPageSize <= 0 {
		return fmt.Errorf("invalid planner default page size")
	}

	return nil
}
