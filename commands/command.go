package commands

import (
	"context"
	"flag"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/bigfoot-data/bigfoot/config"
)

const APP = "bigfoot"

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive.file"
)

type Options struct {
	Config string
	Debug  bool
}

// command holds the options common to all commands. Options left empty default to the
// values in the configuration file.
type command struct {
	workdir string
	data    string
	prefix  string
	debug   bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&c.data, "data", c.data, "Directory for local schema files")

	return flagset
}

func (c *command) configure(args []any) (context.Context, *config.Config, error) {
	ctx, options := parse(args)

	c.debug = options.Debug

	workdir := DEFAULT_WORKDIR
	if strings.TrimSpace(c.workdir) != "" {
		workdir = c.workdir
	}

	cfg, err := config.Load(options.Config, config.Default(workdir))
	if err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(c.workdir) != "" {
		cfg.Workdir = c.workdir
	}

	if strings.TrimSpace(c.data) != "" {
		cfg.Data = c.data
	}

	if strings.TrimSpace(c.prefix) != "" {
		cfg.Prefix = c.prefix
	}

	if c.debug {
		debugf("config - workdir:%v  data:%v  prefix:%v", cfg.Workdir, cfg.Data, cfg.Prefix)
	}

	return ctx, cfg, nil
}

// parse extracts the context and global options passed to Execute by main.
func parse(args []any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{}

	for _, arg := range args {
		switch v := arg.(type) {
		case context.Context:
			ctx = v
		case *Options:
			options = v
		}
	}

	return ctx, options
}

func spreadsheetID(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

func helpOptions(flagset *flag.FlagSet) {
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Options:")
	fmt.Println()
	fmt.Printf("    --%-13s %s\n", "config", "Configuration file path")
	fmt.Printf("    --%-13s %s\n", "debug", "Displays internal information for diagnosing errors")
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
