package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mail-pdf-archiver/internal/app"
	"mail-pdf-archiver/internal/batch"
	"mail-pdf-archiver/internal/config"
	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"
	"mail-pdf-archiver/internal/render"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logging.Log.Fatalf("Error reading configuration file: %v", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Log.Fatalf("Invalid log level: %v", err)
	}

	// Remove browser profiles left behind by crashed runs
	render.CleanupStale()

	params, err := app.Params(cfg)
	if err != nil {
		abort(err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		abort(err)
	}

	result, err := batch.Run(ctx, a.Deps, params)
	a.Close()
	if err != nil {
		abort(err)
	}

	logging.Log.Infof("Extraction for %s finished: %d PDF(s) saved, %d error(s)", result.Period, result.Summary.Saved, result.Summary.Errors)
}

// abort logs the failure and shows a notice the operator cannot miss
func abort(err error) {
	logging.Log.WithError(err).Error("Run aborted")

	title := "Error"
	var configErr *models.ConfigError
	if errors.As(err, &configErr) {
		title = "Configuration error"
	}
	fmt.Fprintf(os.Stderr, "\n*** %s ***\n%v\n\n", title, err)
	os.Exit(1)
}
