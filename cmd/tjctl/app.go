package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"tradejournal/internal/client"
	"tradejournal/internal/output"
	"tradejournal/internal/serialize"
	"tradejournal/internal/service"
)

const defaultServer = "http://localhost:8080"

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tjctl",
		Usage:     "analyze trade journal spreadsheets locally or through a tradejournal server",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   defaultServer,
				Usage:   "tradejournal server base URL",
				EnvVars: []string{"TJ_SERVER"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   string(output.FormatJSON),
				Usage:   "output format: json|text",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "run the analysis locally and print the report",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "stats", Usage: "include cleaning stats next to the report"},
				},
				Action: analyzeAction,
			},
			{
				Name:      "upload",
				Usage:     "upload a journal to the server and print the report",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "user id the entries belong to", Required: true},
				},
				Action: uploadAction,
			},
			{
				Name:      "report",
				Usage:     "fetch a cached report by upload id",
				ArgsUsage: "UPLOAD_ID",
				Action:    reportAction,
			},
		},
	}
}

func outputFormat(c *cli.Context) (output.Format, error) {
	return output.ParseFormat(c.String("output"))
}

func fileArg(c *cli.Context) (string, error) {
	path := strings.TrimSpace(c.Args().First())
	if path == "" {
		return "", errors.New("missing FILE argument")
	}
	return path, nil
}

func newClient(c *cli.Context) *client.Client {
	return &client.Client{BaseURL: c.String("server")}
}

func analyzeAction(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	path, err := fileArg(c)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	analysis, err := service.AnalyzeFile(c.Context, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	var v any = serialize.Value(analysis.Report)
	if c.Bool("stats") {
		v = map[string]any{
			"stats": map[string]any{
				"rows":               analysis.Stats.Rows,
				"dropped":            analysis.Stats.Dropped,
				"invalid_dates":      analysis.Stats.InvalidDates,
				"invalid_open_times": analysis.Stats.InvalidOpens,
			},
			"report": v,
		}
	}
	return output.Write(c.App.Writer, format, v)
}

func uploadAction(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	path, err := fileArg(c)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	env, err := newClient(c).Upload(c.Context, filepath.Base(path), f, c.String("user"))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Env != nil && apiErr.Env.Meta["upload_id"] != nil {
			fmt.Fprintf(c.App.ErrWriter, "upload %v analyzed but not stored\n", apiErr.Env.Meta["upload_id"])
		}
		return err
	}
	if id, ok := env.Meta["upload_id"]; ok {
		fmt.Fprintf(c.App.ErrWriter, "upload_id: %v\n", id)
	}
	return output.Write(c.App.Writer, format, env.Data)
}

func reportAction(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return errors.New("missing UPLOAD_ID argument")
	}
	env, err := newClient(c).Report(c.Context, id)
	if err != nil {
		return err
	}
	return output.Write(c.App.Writer, format, env.Data)
}
