package commands

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/bigquery/v2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/bigfoot-data/bigfoot/config"
)

type clients struct {
	sheets *sheets.Service
	drive  *drive.Service
}

// connect authorises access to the Sheets and Drive APIs. The clients share an HTTP client
// and the cached OAuth2 tokens.
func connect(ctx context.Context, cfg *config.Config, credentials string) (*clients, error) {
	if strings.TrimSpace(credentials) == "" {
		credentials = cfg.Google.Credentials
	}

	if strings.TrimSpace(credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	tokens := tokensFile(tokensDir(cfg.Workdir, cfg.Google.Tokens), credentials)

	client, err := authorize(ctx, credentials, tokens, SHEETS, DRIVE)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	s, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	d, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return &clients{
		sheets: s,
		drive:  d,
	}, nil
}

// warehouse creates a BigQuery client using either the configured service account credentials
// or the application default credentials.
func warehouse(ctx context.Context, cfg *config.Config) (*bigquery.Service, error) {
	options := []option.ClientOption{
		option.WithScopes(bigquery.BigqueryScope),
	}

	if strings.TrimSpace(cfg.BigQuery.Credentials) != "" {
		options = append(options, option.WithCredentialsFile(cfg.BigQuery.Credentials))
	}

	bq, err := bigquery.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new BigQuery client (%w)", err)
	}

	return bq, nil
}

// moveToFolder replaces the Drive parent folders of a file.
func moveToFolder(ctx context.Context, gdrive *drive.Service, fileID string, folder string) error {
	file, err := gdrive.Files.Get(fileID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve spreadsheet folders (%w)", err)
	}

	call := gdrive.Files.Update(fileID, &drive.File{}).AddParents(folder).Fields("id, parents")
	if len(file.Parents) > 0 {
		call.RemoveParents(strings.Join(file.Parents, ","))
	}

	if _, err := call.Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to move spreadsheet to folder %v (%w)", folder, err)
	}

	return nil
}
