// Package config loads the certquiz configuration file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

type Config struct {
	Storage       StorageConfig       `mapstructure:"storage"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	QuestionBanks QuestionBanksConfig `mapstructure:"question_banks"`
	Progress      ProgressConfig      `mapstructure:"progress"`
	Templates     TemplatesConfig     `mapstructure:"templates"`
	Outputs       OutputsConfig       `mapstructure:"outputs"`
	Log           LogConfig           `mapstructure:"log"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend" validate:"required,oneof=memory file sqlite mysql redis none"`
	Directory  string `mapstructure:"directory" validate:"required_if=Backend file"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
	// QuotaBytes limits memory and file storage. 0 means unlimited.
	QuotaBytes int64  `mapstructure:"quota_bytes" validate:"gte=0"`
	KeyPrefix  string `mapstructure:"key_prefix" validate:"key_prefix"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	ConnectAttempts uint              `mapstructure:"connect_attempts" validate:"gte=1"`
}

type RedisConfig struct {
	Addr            string `mapstructure:"addr" validate:"required"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db" validate:"gte=0"`
	ConnectAttempts uint   `mapstructure:"connect_attempts" validate:"gte=1"`
}

type QuestionBanksConfig struct {
	Directories []string `mapstructure:"directories"`
	// RemoteURL is a JSON question bank fetched in addition to the directories.
	RemoteURL             string `mapstructure:"remote_url" validate:"omitempty,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=1"`
}

type ProgressConfig struct {
	PassThreshold float64         `mapstructure:"pass_threshold" validate:"gt=0,lte=1"`
	WeakAreas     WeakAreasConfig `mapstructure:"weak_areas"`
	HistoryLimit  int             `mapstructure:"history_limit" validate:"gte=0"`
}

type WeakAreasConfig struct {
	MinAttempts int `mapstructure:"min_attempts" validate:"gte=1"`
	Limit       int `mapstructure:"limit" validate:"gte=0"`
}

type TemplatesConfig struct {
	SessionReportTemplate string `mapstructure:"session_report_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
}

type LogConfig struct {
	// File enables logging into a rotated file instead of stderr.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/certquiz")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.directory", "data")
	v.SetDefault("storage.sqlite_path", filepath.Join("data", "certquiz.db"))
	v.SetDefault("storage.quota_bytes", 0)
	v.SetDefault("storage.key_prefix", "certquiz.")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "certquiz")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.connect_attempts", 3)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_attempts", 3)
	v.SetDefault("question_banks.directories", []string{"questions"})
	v.SetDefault("question_banks.request_timeout_seconds", 10)
	v.SetDefault("progress.pass_threshold", 0.75)
	v.SetDefault("progress.weak_areas.min_attempts", 3)
	v.SetDefault("progress.weak_areas.limit", 5)
	v.SetDefault("progress.history_limit", 10)
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.session_report_template", "")
	v.SetDefault("outputs.report_directory", filepath.Join("outputs", "reports"))
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// Secrets are bound to environment variables
	if err := v.BindEnv("database.password", "CERTQUIZ_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind CERTQUIZ_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("redis.password", "CERTQUIZ_REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind CERTQUIZ_REDIS_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every failed rule of cfg in one error, by config key.
func (loader *ConfigLoader) validate(cfg any) error {
	err := loader.validator.Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	errorMsgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, e.Translate(loader.translator))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
}
