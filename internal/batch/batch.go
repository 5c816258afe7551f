// Package batch runs one monthly extraction: it loads the configured titles,
// resolves the target month, checks the destination and drives the engine.
package batch

import (
	"context"
	"fmt"
	"time"

	"mail-pdf-archiver/internal/extractor"
	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"
	"mail-pdf-archiver/internal/period"
	"mail-pdf-archiver/internal/settings"
	"mail-pdf-archiver/internal/sheetlog"
	"mail-pdf-archiver/internal/workbook"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FolderChecker is a destination folder whose accessibility can be verified
// before any mail is processed
type FolderChecker interface {
	extractor.Folder
	Check(ctx context.Context) error
}

// Deps are the providers a run talks to
type Deps struct {
	Workbook workbook.Workbook
	Mail     extractor.MailSearcher
	Folder   FolderChecker
	Renderer extractor.Renderer
	Now      func() time.Time
}

// Params select the target month and where the configuration lives
type Params struct {
	Year              int
	Month             int
	Location          *time.Location
	ConfigSheet       string
	NormalizeRollover bool
}

// Result describes a finished run
type Result struct {
	Period    models.Period
	SheetName string
	Summary   *extractor.Summary
}

// Run performs one extraction run. Configuration problems are returned as
// *models.ConfigError and an unusable destination or log sheet as
// *models.FatalError; per-title failures only show up in the log sheet.
func Run(ctx context.Context, deps Deps, params Params) (*Result, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}

	if err := period.Validate(params.Year, params.Month); err != nil {
		return nil, err
	}

	p := period.Resolve(now().In(loc), params.Year, params.Month, period.Options{NormalizeRollover: params.NormalizeRollover})
	rng := period.Range(p, loc)

	runlog := logging.Log.WithFields(logrus.Fields{
		"run_id": uuid.New().String(),
		"target": p.String(),
	})
	runlog.Infof("Target month %s (%s to %s)", p, rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))

	list, err := settings.Load(ctx, deps.Workbook, params.ConfigSheet)
	if err != nil {
		return nil, err
	}

	if err := deps.Folder.Check(ctx); err != nil {
		return nil, &models.FatalError{Err: fmt.Errorf("storage folder is not accessible: %w", err)}
	}

	sheet, err := sheetlog.Open(ctx, deps.Workbook, p, loc)
	if err != nil {
		return nil, &models.FatalError{Err: fmt.Errorf("unable to open log sheet %s: %w", p.SheetName(), err)}
	}

	engine := extractor.NewEngine(deps.Mail, deps.Folder, deps.Renderer, sheet, loc)
	summary, err := engine.Run(ctx, list, rng)

	result := &Result{Period: p, SheetName: sheet.Name(), Summary: summary}
	if err != nil {
		return result, err
	}

	if err := sheet.AutoResize(ctx); err != nil {
		runlog.WithError(err).Warn("Unable to resize log columns")
	}

	runlog.WithFields(logrus.Fields{
		"titles":   summary.Titles,
		"saved":    summary.Saved,
		"rows":     summary.Rows,
		"errors":   summary.Errors,
		"no_match": summary.NoMatch,
	}).Infof("Run complete, %d PDF(s) saved, see log sheet %s", summary.Saved, sheet.Name())

	return result, nil
}
