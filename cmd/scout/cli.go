package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/scout/internal/config"
	"github.com/hpungsan/scout/internal/errors"
	"github.com/hpungsan/scout/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "scout",
		Usage:   "Recruitment intake bot and review tools",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg),
			listCmd(db),
			showCmd(db),
			statusCmd(db),
			deleteCmd(db),
			exportCmd(db, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the Telegram bot (long polling, or webhook when webhook_url is set)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Log at debug level"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("debug") {
				cfg.Debug = true
			}
			if err := runServe(c.Context, db, cfg); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List applications, newest first",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "referrer", Aliases: []string{"r"}, Usage: "Only referrals of this operator id (0 = organic)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Usage: "Skip first N results"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}
			if c.IsSet("referrer") {
				referrer := c.Int64("referrer")
				input.ReferrerID = &referrer
			}

			output, err := ops.List(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one application",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Fetch(c.Context, db, ops.FetchInput{ID: id})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Set the status of an application (new, rejected, interview, training, working)",
		ArgsUsage: "<id> <status>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("usage: scout status <id> <status>"))
			}
			id, err := parseID(c.Args().Get(0))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.SetStatus(c.Context, db, ops.SetStatusInput{ID: id, Status: c.Args().Get(1)})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete an application",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the deletion"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Delete(c.Context, db, ops.DeleteInput{ID: id, Confirm: c.Bool("yes")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export applications to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output .jsonl path (default: ~/.scout/exports/applications-<timestamp>.jsonl)"},
			&cli.Int64Flag{Name: "referrer", Aliases: []string{"r"}, Usage: "Only referrals of this operator id (0 = organic)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:    c.String("path"),
				BaseDir: baseDir,
			}
			if c.IsSet("referrer") {
				referrer := c.Int64("referrer")
				input.ReferrerID = &referrer
			}

			output, err := ops.Export(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.ScoutError
	if stderrors.As(err, &sErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseID parses a positional application id.
func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewInvalidRequest("application id is required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("invalid application id: %q", s))
	}
	return id, nil
}
