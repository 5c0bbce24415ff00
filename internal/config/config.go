package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret        string `yaml:"secret"`
		RefreshSecret string `yaml:"refresh_secret"`
		TTLMinutes    int    `yaml:"ttl_minutes"`
		RefreshDays   int    `yaml:"refresh_days"`
	} `yaml:"jwt"`

	Storage struct {
		Type      string `yaml:"type"`       // s3, memory
		Bucket    string `yaml:"bucket"`     // For S3
		Region    string `yaml:"region"`     // For S3
		AccessKey string `yaml:"access_key"` // For S3
		SecretKey string `yaml:"secret_key"` // For S3
		Endpoint  string `yaml:"endpoint"`   // For S3-compatible stores
		BaseURL   string `yaml:"base_url"`   // Public URL base for stored objects
	} `yaml:"storage"`

	Upload struct {
		MaxSize           int64 `yaml:"max_size"`           // Per-file ceiling in bytes
		CompressThreshold int64 `yaml:"compress_threshold"` // Files above this are transcoded
		SignedURLTTL      int   `yaml:"signed_url_ttl"`     // Seconds
		ImageMaxDimension int   `yaml:"image_max_dimension"`
		ImageQuality      int   `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test and container deployments).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.RefreshSecret = os.Getenv("JWT_REFRESH_SECRET")

	cfg.Storage.Type = "memory"
	applyDefaults(&cfg)

	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.JWT.TTLMinutes == 0 {
		cfg.JWT.TTLMinutes = 20
	}
	if cfg.JWT.RefreshDays == 0 {
		cfg.JWT.RefreshDays = 7
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if cfg.Upload.CompressThreshold == 0 {
		cfg.Upload.CompressThreshold = 2 * 1024 * 1024 // 2MB
	}
	if cfg.Upload.SignedURLTTL == 0 {
		cfg.Upload.SignedURLTTL = 3600
	}
	if cfg.Upload.ImageMaxDimension == 0 {
		cfg.Upload.ImageMaxDimension = 1024
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 80
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
