package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"mail-pdf-archiver/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	defaultMailbox     = "INBOX"
	defaultConfigSheet = "main"
	defaultTimeout     = 30 * time.Second
)

// Load reads the configuration from the specified YAML file and returns a Config struct.
// Variables from an optional .env file next to the working directory are loaded first
// and ${VAR} references in the YAML are expanded from the environment.
func Load(filepath string) (*models.Config, error) {
	config, err := read(filepath)
	if err != nil {
		return nil, err
	}
	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadWorkbook reads the configuration like Load but only validates the
// workbook section, for commands that never touch mail or storage.
func LoadWorkbook(filepath string) (*models.Config, error) {
	config, err := read(filepath)
	if err != nil {
		return nil, err
	}
	if err := ValidateWorkbook(config); err != nil {
		return nil, err
	}
	return config, nil
}

func read(filepath string) (*models.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(configFile))), &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(cfg *models.Config) {
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "gmail"
	}
	if cfg.Mail.Imap.MailBox == "" {
		cfg.Mail.Imap.MailBox = defaultMailbox
	}
	if cfg.Mail.Imap.Timeout == 0 {
		cfg.Mail.Imap.Timeout = defaultTimeout
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "drive"
	}
	if cfg.Workbook.Provider == "" {
		cfg.Workbook.Provider = "sheets"
	}
	if cfg.Workbook.ConfigSheet == "" {
		cfg.Workbook.ConfigSheet = defaultConfigSheet
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = defaultTimeout
	}
	if cfg.Google.Credentials == "" {
		cfg.Google.Credentials = "credentials.json"
	}
	if cfg.Google.Token == "" {
		cfg.Google.Token = "token.json"
	}
}

// Validate checks provider names and the fields each provider needs
func Validate(cfg *models.Config) error {
	switch cfg.Mail.Provider {
	case "gmail":
	case "imap":
		if cfg.Mail.Imap.Server == "" {
			return &models.ConfigError{Reason: "mail.imap.server is required for the imap provider"}
		}
	default:
		return &models.ConfigError{Reason: fmt.Sprintf("unknown mail provider %q", cfg.Mail.Provider)}
	}

	switch cfg.Storage.Provider {
	case "drive":
		if cfg.Storage.FolderID == "" {
			return &models.ConfigError{Reason: "storage.folderId is required for the drive provider"}
		}
	case "local":
		if cfg.Storage.Dir == "" {
			return &models.ConfigError{Reason: "storage.dir is required for the local provider"}
		}
	default:
		return &models.ConfigError{Reason: fmt.Sprintf("unknown storage provider %q", cfg.Storage.Provider)}
	}

	if err := ValidateWorkbook(cfg); err != nil {
		return err
	}

	if _, err := Location(cfg.Run.TimeZone); err != nil {
		return &models.ConfigError{Reason: "run.timeZone", Err: err}
	}

	return nil
}

// ValidateWorkbook checks only the workbook provider and its fields
func ValidateWorkbook(cfg *models.Config) error {
	switch cfg.Workbook.Provider {
	case "sheets":
		if cfg.Workbook.SpreadsheetID == "" {
			return &models.ConfigError{Reason: "workbook.spreadsheetId is required for the sheets provider"}
		}
	case "csv":
		if cfg.Workbook.Dir == "" {
			return &models.ConfigError{Reason: "workbook.dir is required for the csv provider"}
		}
	default:
		return &models.ConfigError{Reason: fmt.Sprintf("unknown workbook provider %q", cfg.Workbook.Provider)}
	}
	return nil
}

// Location resolves the configured time zone name, falling back to the local zone
func Location(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// UsesGoogle reports whether any configured provider talks to a Google API
func UsesGoogle(cfg *models.Config) bool {
	return cfg.Mail.Provider == "gmail" || cfg.Storage.Provider == "drive" || cfg.Workbook.Provider == "sheets"
}
