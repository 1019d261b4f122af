// Command parsekit tags, parses and dependency-parses English text from the
// command line, serves a session over HTTP and scores output against gold
// files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/parsekit/internal/config"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	if err := newApp(ui).RunContext(context.Background(), os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "parsekit: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "parsekit",
		Usage:     "part-of-speech tagging, constituency and dependency parsing",
		Reader:    ui.In,
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML settings file", EnvVars: []string{"PARSEKIT_CONFIG"}},
			&cli.StringSliceFlag{Name: "env-file", Usage: "dotenv files to load"},
			&cli.StringFlag{Name: "model-dir", Aliases: []string{"m"}, Usage: "directory holding tagger, conparser and depparser files"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "json, text or zap"},
			&cli.StringFlag{Name: "length-policy", Usage: "skip, error or truncate sentences at the length ceiling"},
			&cli.IntFlag{Name: "max-sentence-size", Usage: "length ceiling in tokens"},
		},
		Commands: []*cli.Command{
			annotateCommand(ui, opTag),
			annotateCommand(ui, opParse),
			annotateCommand(ui, opDepParse),
			serveCommand(ui),
			evalCommand(ui),
		},
	}
}

// loadConfig merges the config file, env files and global flags.
func loadConfig(cCtx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(cCtx.String("config"), cCtx.StringSlice("env-file")...)
	if err != nil {
		return cfg, err
	}
	if cCtx.IsSet("model-dir") {
		cfg.ModelDir = cCtx.String("model-dir")
	}
	if cCtx.IsSet("log-level") {
		cfg.LogLevel = cCtx.String("log-level")
	}
	if cCtx.IsSet("log-format") {
		cfg.LogFormat = cCtx.String("log-format")
	}
	if cCtx.IsSet("length-policy") {
		cfg.LengthPolicy = cCtx.String("length-policy")
	}
	if cCtx.IsSet("max-sentence-size") {
		cfg.MaxSentenceSize = cCtx.Int("max-sentence-size")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.ModelDir == "" {
		return cfg, fmt.Errorf("no model directory: set --model-dir, model_dir or %s", config.EnvModelDir)
	}
	return cfg, nil
}
