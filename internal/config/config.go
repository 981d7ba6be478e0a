// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Enabled         bool          `yaml:"enabled"` // 关闭时不落库，仅内存运行
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// APIConfig API配置
type APIConfig struct {
	RateLimit int           `yaml:"rate_limit"`
	Timeout   time.Duration `yaml:"timeout"`
	CORS      CORSConfig    `yaml:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Origins []string `yaml:"origins"`
}

// SchedulerConfig 排课引擎配置
type SchedulerConfig struct {
	DefaultTimeout  time.Duration `yaml:"default_timeout"`
	TeacherCapacity int           `yaml:"teacher_capacity"` // 讲师同一时限可带学生数

	// 成本权重
	ConcentratedSameDayBonus   float64 `yaml:"concentrated_same_day_bonus"`
	SpreadSameDayPenalty       float64 `yaml:"spread_same_day_penalty"`
	IdleGapAvoidPenalty        float64 `yaml:"idle_gap_avoid_penalty"`
	IdleGapOnePenalty          float64 `yaml:"idle_gap_one_penalty"`
	IdleGapTwoPenalty          float64 `yaml:"idle_gap_two_penalty"`
	IdleGapWidePenalty         float64 `yaml:"idle_gap_wide_penalty"`
	TeacherDayLoadPenalty      float64 `yaml:"teacher_day_load_penalty"`
	MinDesiredShortfallPenalty float64 `yaml:"min_desired_shortfall_penalty"`
	RegularPairBonus           float64 `yaml:"regular_pair_bonus"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "jukushift"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7031),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "jukushift"),
			User:            getEnv("DB_USER", "jukushift"),
			Password:        getEnv("DB_PASSWORD", "jukushift123"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		API: APIConfig{
			RateLimit: getEnvInt("API_RATE_LIMIT", 100),
			Timeout:   getEnvDuration("API_TIMEOUT", 30*time.Second),
			CORS: CORSConfig{
				Enabled: getEnvBool("API_CORS_ENABLED", true),
				Origins: []string{"*"},
			},
		},
		Scheduler: SchedulerConfig{
			DefaultTimeout:  getEnvDuration("SCHEDULER_TIMEOUT", 30*time.Second),
			TeacherCapacity: getEnvInt("SCHEDULER_TEACHER_CAPACITY", 2),

			ConcentratedSameDayBonus:   getEnvFloat("SCHEDULER_WEIGHT_CONCENTRATED_BONUS", 20),
			SpreadSameDayPenalty:       getEnvFloat("SCHEDULER_WEIGHT_SPREAD_PENALTY", 30),
			IdleGapAvoidPenalty:        getEnvFloat("SCHEDULER_WEIGHT_IDLE_AVOID", 200),
			IdleGapOnePenalty:          getEnvFloat("SCHEDULER_WEIGHT_IDLE_ONE", 10),
			IdleGapTwoPenalty:          getEnvFloat("SCHEDULER_WEIGHT_IDLE_TWO", 50),
			IdleGapWidePenalty:         getEnvFloat("SCHEDULER_WEIGHT_IDLE_WIDE", 1000),
			TeacherDayLoadPenalty:      getEnvFloat("SCHEDULER_WEIGHT_DAY_LOAD", 5),
			MinDesiredShortfallPenalty: getEnvFloat("SCHEDULER_WEIGHT_MIN_DESIRED", 500),
			RegularPairBonus:           getEnvFloat("SCHEDULER_WEIGHT_REGULAR_PAIR", 50),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
