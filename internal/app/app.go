// Package app wires the providers selected in the configuration into a batch run.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mail-pdf-archiver/internal/batch"
	"mail-pdf-archiver/internal/config"
	"mail-pdf-archiver/internal/gmail"
	"mail-pdf-archiver/internal/googleauth"
	imapclient "mail-pdf-archiver/internal/imap"
	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"
	"mail-pdf-archiver/internal/render"
	"mail-pdf-archiver/internal/storage"
	"mail-pdf-archiver/internal/workbook"
)

// App holds the providers of one run and releases them on Close
type App struct {
	Deps    batch.Deps
	closers []func() error
}

// New builds every provider named in cfg. The Google HTTP client is only
// created when a Google provider is selected.
func New(ctx context.Context, cfg *models.Config) (*App, error) {
	a := &App{}

	httpClient, err := googleClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if a.Deps.Workbook, err = newWorkbook(ctx, cfg, httpClient); err != nil {
		return nil, err
	}
	if a.Deps.Folder, err = newFolder(ctx, cfg, httpClient); err != nil {
		return nil, err
	}

	switch cfg.Mail.Provider {
	case "imap":
		searcher := imapclient.NewSearcher(imapclient.NewStandardClient(cfg.Mail.Imap.Timeout), cfg.Mail.Imap)
		if err := searcher.Open(); err != nil {
			_ = searcher.Close()
			return nil, fmt.Errorf("IMAP connection error: %w", err)
		}
		a.closers = append(a.closers, searcher.Close)
		a.Deps.Mail = searcher
	default:
		client, err := gmail.NewClient(ctx, httpClient)
		if err != nil {
			return nil, err
		}
		a.Deps.Mail = client
	}

	renderer := render.NewRodRenderer(cfg.Renderer)
	a.closers = append(a.closers, renderer.Close)
	a.Deps.Renderer = renderer
	a.Deps.Now = time.Now

	return a, nil
}

// Close releases the mail connection and the browser
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logging.Log.Warnf("Error releasing provider: %v", err)
		}
	}
	a.closers = nil
}

// OpenWorkbook builds only the workbook provider, for the setup command
func OpenWorkbook(ctx context.Context, cfg *models.Config) (workbook.Workbook, error) {
	var httpClient *http.Client
	if cfg.Workbook.Provider == "sheets" {
		var err error
		if httpClient, err = googleauth.HTTPClient(ctx, cfg.Google.Credentials, cfg.Google.Token, googleauth.Scopes...); err != nil {
			return nil, err
		}
	}
	return newWorkbook(ctx, cfg, httpClient)
}

// Params turns the run section of cfg into batch parameters
func Params(cfg *models.Config) (batch.Params, error) {
	loc, err := config.Location(cfg.Run.TimeZone)
	if err != nil {
		return batch.Params{}, &models.ConfigError{Reason: "run.timeZone", Err: err}
	}
	return batch.Params{
		Year:              cfg.Run.TargetYear,
		Month:             cfg.Run.TargetMonth,
		Location:          loc,
		ConfigSheet:       cfg.Workbook.ConfigSheet,
		NormalizeRollover: cfg.Run.NormalizeRollover,
	}, nil
}

func googleClient(ctx context.Context, cfg *models.Config) (*http.Client, error) {
	if !config.UsesGoogle(cfg) {
		return nil, nil
	}
	return googleauth.HTTPClient(ctx, cfg.Google.Credentials, cfg.Google.Token, googleauth.Scopes...)
}

func newWorkbook(ctx context.Context, cfg *models.Config, httpClient *http.Client) (workbook.Workbook, error) {
	if cfg.Workbook.Provider == "csv" {
		return workbook.NewCSVBook(cfg.Workbook.Dir)
	}
	return workbook.NewSheets(ctx, httpClient, cfg.Workbook.SpreadsheetID)
}

func newFolder(ctx context.Context, cfg *models.Config, httpClient *http.Client) (batch.FolderChecker, error) {
	if cfg.Storage.Provider == "local" {
		return storage.NewLocalFolder(cfg.Storage.Dir), nil
	}
	return storage.NewDriveFolder(ctx, httpClient, cfg.Storage.FolderID)
}
