package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	AI        AIConfig
	Storage   StorageConfig
	Mastery   MasteryConfig   `mapstructure:"mastery"`
	Goal      GoalConfig      `mapstructure:"goal"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

// MasteryConfig 掌握度与推荐算法的调参项。
// 阈值和步长是显式配置而不是代码里的魔法数，方便按学段调整。
type MasteryConfig struct {
	MasteryThreshold       float64 `mapstructure:"mastery_threshold"`        // 达到该掌握度即判定 mastered
	PartialCreditThreshold float64 `mapstructure:"partial_credit_threshold"` // AI部分得分高于该值按答对计
	BaseMasteryGain        float64 `mapstructure:"base_mastery_gain"`        // 答对时的基础掌握度增量
	HintPenalty            float64 `mapstructure:"hint_penalty"`             // 每个提示对增量的衰减系数
	WrongMasteryDrop       float64 `mapstructure:"wrong_mastery_drop"`       // 答错时的基础掌握度降幅
	ReviewWrongStreak      int     `mapstructure:"review_wrong_streak"`      // 连错达到该值进入 needs_review
	LevelUpStreak          int     `mapstructure:"level_up_streak"`          // 连对达到该值上调难度
	LevelDownStreak        int     `mapstructure:"level_down_streak"`        // 连错达到该值下调难度
	MinDifficulty          int     `mapstructure:"min_difficulty"`
	MaxDifficulty          int     `mapstructure:"max_difficulty"`
	PrereqMasteryThreshold float64 `mapstructure:"prereq_mastery_threshold"` // 前置概念加权掌握度低于该值先补前置
}

// GoalConfig 每日目标的默认值
type GoalConfig struct {
	DailyProblems int `mapstructure:"daily_problems"`
	DailyMinutes  int `mapstructure:"daily_minutes"`
	DailyXP       int `mapstructure:"daily_xp"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("MATHPATH")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	applyMasteryDefaults(&cfg.Mastery)
	applyGoalDefaults(&cfg.Goal)

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}

// applyMasteryDefaults 给未配置的调参项兜底，保证算法不会拿到零值阈值
func applyMasteryDefaults(m *MasteryConfig) {
	if m.MasteryThreshold <= 0 {
		m.MasteryThreshold = 0.9
	}
	if m.PartialCreditThreshold <= 0 {
		m.PartialCreditThreshold = 0.7
	}
	if m.BaseMasteryGain <= 0 {
		m.BaseMasteryGain = 0.15
	}
	if m.HintPenalty <= 0 {
		m.HintPenalty = 0.25
	}
	if m.WrongMasteryDrop <= 0 {
		m.WrongMasteryDrop = 0.1
	}
	if m.ReviewWrongStreak <= 0 {
		m.ReviewWrongStreak = 3
	}
	if m.LevelUpStreak <= 0 {
		m.LevelUpStreak = 3
	}
	if m.LevelDownStreak <= 0 {
		m.LevelDownStreak = 2
	}
	if m.MinDifficulty <= 0 {
		m.MinDifficulty = 1
	}
	if m.MaxDifficulty <= 0 {
		m.MaxDifficulty = 5
	}
	if m.PrereqMasteryThreshold <= 0 {
		m.PrereqMasteryThreshold = 0.6
	}
}

func applyGoalDefaults(g *GoalConfig) {
	if g.DailyProblems <= 0 {
		g.DailyProblems = 10
	}
	if g.DailyMinutes <= 0 {
		g.DailyMinutes = 30
	}
	if g.DailyXP <= 0 {
		g.DailyXP = 100
	}
}
