// Package googleauth builds an authorized HTTP client for the Gmail, Drive and Sheets APIs
// from an OAuth client secret file and a previously saved token file.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"
)

// Scopes needed by the archiver: read mail, write into an existing user-chosen
// Drive folder, edit the log spreadsheet. drive.file cannot see a folder the
// app did not create, so the full Drive scope is required.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	drive.DriveScope,
	sheets.SpreadsheetsScope,
}

// HTTPClient returns a client that refreshes the saved token as needed.
// Obtaining the first token is outside this program; the token file must exist.
func HTTPClient(ctx context.Context, credentialsPath, tokenPath string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := TokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read token file %s: %w", tokenPath, err)
	}

	return config.Client(ctx, tok), nil
}

// TokenFromFile retrieves a Token from a given file path.
func TokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
