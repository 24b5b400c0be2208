package commands

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir: "",
		debug:   false,
	},
	credentials: "",
}

// Authorise runs the OAuth2 flow for the Sheets and Drive APIs and caches the resulting tokens,
// replacing any existing tokens.
type Authorise struct {
	command
	credentials string
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises bigfoot to create and read Google Sheets spreadsheets"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] authorise [options]\n", APP)
	fmt.Println()
	fmt.Println("  Authorises bigfoot to create and read Google Sheets spreadsheets. The OAuth2 tokens are")
	fmt.Println("  stored in the working directory and refreshed automatically.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot authorise --credentials "credentials.json"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("authorise")

	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the OAuth2 client 'credentials.json' file")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	credentials := cfg.Google.Credentials
	if strings.TrimSpace(cmd.credentials) != "" {
		credentials = cmd.credentials
	}

	if strings.TrimSpace(credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	config, err := oauthConfig(credentials, SHEETS, DRIVE)
	if err != nil {
		return fmt.Errorf("invalid OAuth2 credentials (%w)", err)
	}

	token, err := getTokenFromWeb(ctx, config)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	tokens := tokensFile(tokensDir(cfg.Workdir, cfg.Google.Tokens), credentials)
	if err := saveToken(tokens, token); err != nil {
		return err
	}

	infof("Saved OAuth2 tokens to %v", tokens)

	return nil
}

func tokensDir(workdir, tokens string) string {
	if strings.TrimSpace(tokens) != "" {
		return tokens
	}

	return filepath.Join(workdir, ".google")
}
