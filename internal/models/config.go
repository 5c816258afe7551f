package models

import "time"

// Config represents the application configuration
type Config struct {
	LogLevel string         `yaml:"logLevel"`
	Run      RunConfig      `yaml:"run"`
	Mail     MailConfig     `yaml:"mail"`
	Google   GoogleConfig   `yaml:"google"`
	Storage  StorageConfig  `yaml:"storage"`
	Workbook WorkbookConfig `yaml:"workbook"`
	Renderer RendererConfig `yaml:"renderer"`
}

// RunConfig holds the static run parameters. Zero year or month means "unset".
type RunConfig struct {
	TargetYear        int    `yaml:"targetYear"`
	TargetMonth       int    `yaml:"targetMonth"`
	TimeZone          string `yaml:"timeZone"`
	NormalizeRollover bool   `yaml:"normalizeRollover"`
}

// MailConfig selects the mailbox provider
type MailConfig struct {
	Provider string     `yaml:"provider"` // "gmail" or "imap"
	Imap     ImapConfig `yaml:"imap"`
}

// ImapConfig represents IMAP email configuration
type ImapConfig struct {
	Server   string        `yaml:"server"`
	Login    string        `yaml:"login"`
	Password string        `yaml:"password"`
	MailBox  string        `yaml:"mailbox"`
	Timeout  time.Duration `yaml:"timeout"`
}

// GoogleConfig points at the OAuth client secret and a previously saved token
type GoogleConfig struct {
	Credentials string `yaml:"credentials"`
	Token       string `yaml:"token"`
}

// StorageConfig selects where saved PDFs go
type StorageConfig struct {
	Provider string `yaml:"provider"` // "drive" or "local"
	FolderID string `yaml:"folderId"`
	Dir      string `yaml:"dir"`
}

// WorkbookConfig selects the spreadsheet holding the configuration and log sheets
type WorkbookConfig struct {
	Provider      string `yaml:"provider"` // "sheets" or "csv"
	SpreadsheetID string `yaml:"spreadsheetId"`
	Dir           string `yaml:"dir"`
	ConfigSheet   string `yaml:"configSheet"`
}

// RendererConfig configures the headless browser used for HTML to PDF conversion
type RendererConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	NoSandbox bool          `yaml:"noSandbox"`
	Bin       string        `yaml:"bin"`
}
