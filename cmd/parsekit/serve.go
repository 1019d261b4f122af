package main

import (
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/parsekit"
	"github.com/hupe1980/parsekit/internal/config"
	"github.com/hupe1980/parsekit/lemma"
	"github.com/hupe1980/parsekit/server"
	"github.com/hupe1980/parsekit/session"
)

func serveCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the loaded models over HTTP until POST /v1/stop",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (default " + config.DefaultAddr + ")"},
			&cli.StringSliceFlag{Name: "models", Usage: "models to load: tagger, parser, depparser"},
			&cli.BoolFlag{Name: "log-requests", Usage: "log every request"},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := loadConfig(cCtx)
			if err != nil {
				return err
			}
			if cCtx.IsSet("addr") {
				cfg.Addr = cCtx.String("addr")
			}
			if cCtx.IsSet("models") {
				cfg.Models = cCtx.StringSlice("models")
			}
			srv, err := newServer(cfg, ui, cCtx.Bool("log-requests"))
			if err != nil {
				return err
			}
			return srv.Listen(cfg.Addr)
		},
	}
}

func newServer(cfg config.Config, ui UI, logRequests bool) (*server.Server, error) {
	kinds, err := cfg.Kinds()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger(ui.Err)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	defaults := []func(o *session.Options){
		parsekit.WithLogger(logger),
		parsekit.WithLengthPolicy(policy),
		parsekit.WithMaxSentenceSize(cfg.MaxSentenceSize),
		parsekit.WithLemmatizer(lemma.New(nil)),
	}
	sess, err := parsekit.Open(cfg.ModelDir, kinds, defaults...)
	if err != nil {
		return nil, err
	}
	return server.New(sess, func(o *server.Options) {
		o.Logger = logger
		o.LogRequests = logRequests
		o.Sessions = session.NewInMemoryRegistry(defaults...)
		o.ModelDir = cfg.ModelDir
	}), nil
}
