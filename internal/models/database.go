package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cadetboard/internal/config"
)

// InitDB opens the database backing the local store emulation. The sheets
// backend does not use it.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Store.Database.Type {
	case "sqlite":
		dialector = sqlite.Open(cfg.Store.Database.SQLite.Path)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Store.Database.MySQL.Username,
			cfg.Store.Database.MySQL.Password,
			cfg.Store.Database.MySQL.Host,
			cfg.Store.Database.MySQL.Port,
			cfg.Store.Database.MySQL.Database,
			cfg.Store.Database.MySQL.Charset,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Store.Database.Type)
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&SheetRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SheetRow is one spreadsheet row in the local store emulation. Position is
// 1-based and includes the header row, matching sheet addressing.
type SheetRow struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	Sheet    string      `json:"sheet" gorm:"type:varchar(255);not null;index:idx_sheet_position,unique"`
	Position int64       `json:"position" gorm:"not null;index:idx_sheet_position,unique"`
	Cells    StringArray `json:"cells" gorm:"type:json"`
	Notes    StringMap   `json:"notes" gorm:"type:json"`
}

// StringArray is a custom type for JSON array storage
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// StringMap is a custom type for JSON object storage
type StringMap map[string]string

// Value implements the driver.Valuer interface
func (m StringMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = map[string]string{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}
