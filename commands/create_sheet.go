package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bigfoot-data/bigfoot/schema"
	"github.com/bigfoot-data/bigfoot/spreadsheet"
)

var CreateSheetCmd = CreateSheet{
	command: command{
		workdir: "",
		data:    "",
		prefix:  "",
		debug:   false,
	},
	credentials: "",
	name:        "",
	folder:      "",
}

// CreateSheet creates a Google Sheets spreadsheet listing the columns of a local schema file,
// with the nested fields of each RECORD in a collapsible row group.
type CreateSheet struct {
	command
	credentials string
	name        string
	folder      string
}

func (cmd *CreateSheet) Name() string {
	return "create-sheet"
}

func (cmd *CreateSheet) Description() string {
	return "Creates a Google Sheets spreadsheet from a local schema file"
}

func (cmd *CreateSheet) Usage() string {
	return "--name <schema>"
}

func (cmd *CreateSheet) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] create-sheet [options] --name <schema>\n", APP)
	fmt.Println()
	fmt.Println("  Creates a Google Sheets spreadsheet from <data>/<prefix>__<name>.json, with a row for each")
	fmt.Println("  column and the nested columns of each RECORD grouped under the RECORD row")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot create-sheet --name orders`)
	fmt.Println(`    bigfoot --debug create-sheet --credentials "credentials.json" --name orders --folder 0B1a2b3c4d5e6f`)
	fmt.Println()
}

func (cmd *CreateSheet) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("create-sheet")

	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the OAuth2 client 'credentials.json' file")
	flagset.StringVar(&cmd.name, "name", cmd.name, "Schema name")
	flagset.StringVar(&cmd.prefix, "prefix", cmd.prefix, "Schema file prefix. Defaults to the configured 'prefix'")
	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Google Drive folder ID for the created spreadsheet")

	return flagset
}

func (cmd *CreateSheet) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.name)
	if name == "" {
		return fmt.Errorf("--name is a required option")
	}

	folder := cfg.Sheets.Folder
	if strings.TrimSpace(cmd.folder) != "" {
		folder = strings.TrimSpace(cmd.folder)
	}

	fields, err := schema.Load(cfg.Data, cfg.Prefix, name)
	if err != nil {
		return err
	}

	rows, groups := schema.Walk(fields)

	document, err := spreadsheet.Build(name, cfg.Sheets.Header, rows)
	if err != nil {
		return fmt.Errorf("error creating spreadsheet for %v (%w)", name, err)
	}

	if cmd.debug {
		debugf("schema %v - rows:%v  groups:%v", name, len(rows), len(groups))
	}

	gclient, err := connect(ctx, cfg, cmd.credentials)
	if err != nil {
		return err
	}

	created, err := gclient.sheets.Spreadsheets.Create(document).
		Fields("spreadsheetId,spreadsheetUrl,sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to create spreadsheet (%w)", err)
	}

	if len(created.Sheets) == 0 || created.Sheets[0].Properties == nil {
		return fmt.Errorf("created spreadsheet %v has no worksheet", created.SpreadsheetId)
	}

	if len(groups) > 0 {
		sheetID := created.Sheets[0].Properties.SheetId
		rq := spreadsheet.GroupRequest(sheetID, groups)

		if _, err := gclient.sheets.Spreadsheets.BatchUpdate(created.SpreadsheetId, rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("error grouping RECORD rows (%w)", err)
		}
	}

	if folder != "" {
		if err := moveToFolder(ctx, gclient.drive, created.SpreadsheetId, folder); err != nil {
			return err
		}
	}

	infof("Created spreadsheet %v", created.SpreadsheetUrl)

	return nil
}
