package main

import (
	"context"
	"fmt"

	"mail-pdf-archiver/internal/app"
	"mail-pdf-archiver/internal/config"
	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/settings"
)

func main() {
	cfg, err := config.LoadWorkbook("config.yaml")
	if err != nil {
		logging.Log.Fatalf("Error reading configuration file: %v", err)
	}

	ctx := context.Background()
	book, err := app.OpenWorkbook(ctx, cfg)
	if err != nil {
		logging.Log.Fatalf("Unable to open workbook: %v", err)
	}

	created, err := settings.Setup(ctx, book, cfg.Workbook.ConfigSheet)
	if err != nil {
		logging.Log.Fatalf("Unable to set up configuration sheet: %v", err)
	}

	if created {
		fmt.Printf("Setup complete. Edit the %q sheet to list the email titles to extract.\n", cfg.Workbook.ConfigSheet)
	} else {
		fmt.Printf("The %q sheet already exists, nothing to do.\n", cfg.Workbook.ConfigSheet)
	}
}
