// Package storage persists extracted PDF files into a destination folder.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"mail-pdf-archiver/internal/logging"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveFolder saves files into a Google Drive folder
type DriveFolder struct {
	srv      *drive.Service
	folderID string
}

// NewDriveFolder creates a Drive-backed folder using an authorized HTTP client
func NewDriveFolder(ctx context.Context, httpClient *http.Client, folderID string, opts ...option.ClientOption) (*DriveFolder, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}
	return &DriveFolder{srv: srv, folderID: folderID}, nil
}

// Check verifies that the folder exists and is a folder
func (d *DriveFolder) Check(ctx context.Context) error {
	f, err := d.srv.Files.Get(d.folderID).
		Fields("id", "name", "mimeType", "trashed").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive folder %s is not accessible: %w", d.folderID, err)
	}
	if f.MimeType != folderMimeType {
		return fmt.Errorf("drive item %s (%s) is not a folder", d.folderID, f.Name)
	}
	if f.Trashed {
		return fmt.Errorf("drive folder %s (%s) is in the trash", d.folderID, f.Name)
	}
	return nil
}

// Save creates a new file in the folder and returns its name as stored by Drive.
// Drive allows duplicate names, so a rerun adds another copy.
func (d *DriveFolder) Save(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{d.folderID},
	}
	f, err := d.srv.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id", "name").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", name, err)
	}
	logging.Log.Debugf("Uploaded %s as Drive file %s", f.Name, f.Id)
	if f.Name == "" {
		return name, nil
	}
	return f.Name, nil
}
