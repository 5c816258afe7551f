// Package render turns HTML message bodies into PDF documents with a headless browser.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const profilePattern = "rod-mailpdf-*"

var activeRodSessions atomic.Int32

// RodRenderer prints HTML to PDF with a headless Chromium driven by Rod.
// The browser is launched on first use and reused until Close.
type RodRenderer struct {
	cfg models.RendererConfig

	launcher *launcher.Launcher
	browser  *rod.Browser
	tmpDir   string
}

// NewRodRenderer creates a renderer; no browser is started until the first RenderPDF
func NewRodRenderer(cfg models.RendererConfig) *RodRenderer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &RodRenderer{cfg: cfg}
}

// start launches the browser with a fresh profile directory
func (r *RodRenderer) start() error {
	if r.browser != nil {
		return nil
	}

	tmpDir, err := os.MkdirTemp("", profilePattern)
	if err != nil {
		return fmt.Errorf("failed to create temp user data dir: %w", err)
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(r.cfg.NoSandbox).
		UserDataDir(tmpDir)
	if r.cfg.Bin != "" {
		l = l.Bin(r.cfg.Bin)
	}

	u, err := l.Launch()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	activeRodSessions.Add(1)
	r.launcher = l
	r.browser = browser
	r.tmpDir = tmpDir
	logging.Log.Info("Headless browser started for PDF rendering")
	return nil
}

// RenderPDF loads the HTML into a blank page and prints it
func (r *RodRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if err := r.start(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load message body: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for message body: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF stream: %w", err)
	}
	return data, nil
}

// Close shuts the browser down and removes its profile directory
func (r *RodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	defer activeRodSessions.Add(-1)

	err := r.browser.Close()
	r.launcher.Cleanup()
	if rmErr := os.RemoveAll(r.tmpDir); rmErr != nil {
		logging.Log.WithError(rmErr).Warn("failed to remove temp user data dir")
	}

	r.browser = nil
	r.launcher = nil
	return err
}

// CleanupStale removes browser profile directories left behind by runs that did not exit cleanly.
// It does nothing while a renderer in this process is active.
func CleanupStale() {
	if activeRodSessions.Load() > 0 {
		logging.Log.Info("Skipping temp cleanup: active Rod sessions detected")
		return
	}

	pattern := filepath.Join(os.TempDir(), profilePattern)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logging.Log.WithError(err).Warn("Failed to glob temp directories")
		return
	}

	for _, dir := range matches {
		if err := os.RemoveAll(dir); err != nil {
			logging.Log.WithError(err).Warnf("Failed to remove temp dir: %s", dir)
		} else {
			logging.Log.Infof("Cleaned up temp dir: %s", dir)
		}
	}
}

// GetActiveSessionCount returns the current number of running browsers (for testing)
func GetActiveSessionCount() int32 {
	return activeRodSessions.Load()
}
