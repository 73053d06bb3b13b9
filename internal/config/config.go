package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Models   ModelsConfig
	Detector DetectorConfig
	Database DatabaseConfig
	Activity ActivityConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// ModelsConfig names the pretrained weight files and their class lists.
type ModelsConfig struct {
	WeaponPath       string
	WeaponClasses    []string
	FireSmokePath    string
	FireSmokeClasses []string
}

type DetectorConfig struct {
	LibraryPath         string // onnxruntime shared library, empty for the platform default
	InputSize           int
	ConfidenceThreshold float32
	IOUThreshold        float32
	PoolSize            int
	AcquireTimeout      time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type ActivityConfig struct {
	Capacity int
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)

	v.SetDefault("MODEL_WEAPON_PATH", "models/weapon.onnx")
	v.SetDefault("MODEL_WEAPON_CLASSES", "weapon")
	v.SetDefault("MODEL_FIRE_SMOKE_PATH", "models/fire_smoke.onnx")
	v.SetDefault("MODEL_FIRE_SMOKE_CLASSES", "fire,smoke")

	v.SetDefault("ONNXRUNTIME_LIB_PATH", "")
	v.SetDefault("DETECTOR_INPUT_SIZE", 640)
	v.SetDefault("CONFIDENCE_THRESHOLD", 0.5)
	v.SetDefault("IOU_THRESHOLD", 0.7)
	v.SetDefault("DETECTOR_POOL_SIZE", 2)
	v.SetDefault("DETECTOR_ACQUIRE_TIMEOUT", "5s")

	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "detections")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("ACTIVITY_LOG_CAPACITY", 500)

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	acquireTimeout, err := time.ParseDuration(v.GetString("DETECTOR_ACQUIRE_TIMEOUT"))
	if err != nil {
		acquireTimeout = 5 * time.Second
	}
	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Models: ModelsConfig{
			WeaponPath:       v.GetString("MODEL_WEAPON_PATH"),
			WeaponClasses:    splitClasses(v.GetString("MODEL_WEAPON_CLASSES")),
			FireSmokePath:    v.GetString("MODEL_FIRE_SMOKE_PATH"),
			FireSmokeClasses: splitClasses(v.GetString("MODEL_FIRE_SMOKE_CLASSES")),
		},
		Detector: DetectorConfig{
			LibraryPath:         v.GetString("ONNXRUNTIME_LIB_PATH"),
			InputSize:           v.GetInt("DETECTOR_INPUT_SIZE"),
			ConfidenceThreshold: float32(v.GetFloat64("CONFIDENCE_THRESHOLD")),
			IOUThreshold:        float32(v.GetFloat64("IOU_THRESHOLD")),
			PoolSize:            v.GetInt("DETECTOR_POOL_SIZE"),
			AcquireTimeout:      acquireTimeout,
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Activity: ActivityConfig{
			Capacity: v.GetInt("ACTIVITY_LOG_CAPACITY"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func splitClasses(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
