package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	JWT      JWTConfig      `yaml:"jwt"`
	Security SecurityConfig `yaml:"security"`
	Access   AccessConfig   `yaml:"access"`
	Notify   NotifyConfig   `yaml:"notify"`
	Events   EventsConfig   `yaml:"events"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type StoreConfig struct {
	Backend      string         `yaml:"backend"` // sheets or local
	RecordsSheet string         `yaml:"records_sheet"`
	RosterSheet  string         `yaml:"roster_sheet"`
	CadetsSheet  string         `yaml:"cadets_sheet"`
	Timeout      string         `yaml:"timeout"`
	Sheets       SheetsConfig   `yaml:"sheets"`
	Database     DatabaseConfig `yaml:"database"`
}

type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type DatabaseConfig struct {
	Type   string       `yaml:"type"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn string `yaml:"expires_in"`
	Issuer    string `yaml:"issuer"`
}

type SecurityConfig struct {
	BcryptCost int    `yaml:"bcrypt_cost"`
	APIKeyHash string `yaml:"api_key_hash"`
}

type AccessConfig struct {
	EditLimitMinutes    int `yaml:"edit_limit_minutes"`
	EditLimitCount      int `yaml:"edit_limit_count"`
	RoleCacheTTLSeconds int `yaml:"role_cache_ttl_seconds"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Timeout    string `yaml:"timeout"`
}

type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration file and applies environment overrides
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables
	if jwtSecret := os.Getenv("CADETBOARD_JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if backend := os.Getenv("CADETBOARD_STORE_BACKEND"); backend != "" {
		cfg.Store.Backend = backend
	}

	if spreadsheetID := os.Getenv("CADETBOARD_SPREADSHEET_ID"); spreadsheetID != "" {
		cfg.Store.Sheets.SpreadsheetID = spreadsheetID
	}

	if credentials := os.Getenv("CADETBOARD_CREDENTIALS_FILE"); credentials != "" {
		cfg.Store.Sheets.CredentialsFile = credentials
	}

	if dbPath := os.Getenv("CADETBOARD_DB_PATH"); dbPath != "" {
		cfg.Store.Database.SQLite.Path = dbPath
	}

	if mysqlPass := os.Getenv("CADETBOARD_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Store.Database.MySQL.Password = mysqlPass
	}

	if webhookURL := os.Getenv("CADETBOARD_WEBHOOK_URL"); webhookURL != "" {
		cfg.Notify.WebhookURL = webhookURL
	}

	if brokers := os.Getenv("CADETBOARD_KAFKA_BROKERS"); brokers != "" {
		cfg.Events.Brokers = strings.Split(brokers, ",")
	}

	applyDefaults(&cfg)

	switch cfg.Store.Backend {
	case "sheets":
		if cfg.Store.Sheets.SpreadsheetID == "" {
			return nil, fmt.Errorf("spreadsheet_id is required for the sheets backend")
		}
		if cfg.Store.Sheets.CredentialsFile == "" {
			return nil, fmt.Errorf("credentials_file is required for the sheets backend")
		}
	case "local":
		if cfg.Store.Database.Type == "sqlite" {
			dataDir := filepath.Dir(cfg.Store.Database.SQLite.Path)
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		if cfg.Store.Database.Type == "mysql" {
			if cfg.Store.Database.MySQL.Username == "" {
				return nil, fmt.Errorf("MySQL username is required")
			}
			if cfg.Store.Database.MySQL.Database == "" {
				return nil, fmt.Errorf("MySQL database name is required")
			}
		}
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.RecordsSheet == "" {
		cfg.Store.RecordsSheet = "Экзамены LVPD"
	}
	if cfg.Store.RosterSheet == "" {
		cfg.Store.RosterSheet = "ScriptUserAuth"
	}
	if cfg.Store.CadetsSheet == "" {
		cfg.Store.CadetsSheet = "CadetsSysLog"
	}
	if cfg.Access.EditLimitMinutes == 0 {
		cfg.Access.EditLimitMinutes = 5
	}
	if cfg.Access.EditLimitCount == 0 {
		cfg.Access.EditLimitCount = 2
	}
	if cfg.Access.RoleCacheTTLSeconds == 0 {
		cfg.Access.RoleCacheTTLSeconds = 300
	}
	if cfg.Security.BcryptCost == 0 {
		cfg.Security.BcryptCost = 10
	}
}

// StoreTimeout returns the bound applied to every outbound store call.
func (c *Config) StoreTimeout() time.Duration {
	d, err := time.ParseDuration(c.Store.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// NotifyTimeout returns the bound applied to webhook sends.
func (c *Config) NotifyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Notify.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// RoleCacheTTL returns the role cache eviction horizon.
func (c *Config) RoleCacheTTL() time.Duration {
	return time.Duration(c.Access.RoleCacheTTLSeconds) * time.Second
}
