package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/parsekit"
	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/internal/config"
	"github.com/hupe1980/parsekit/lemma"
	"github.com/hupe1980/parsekit/pipeline"
	"github.com/hupe1980/parsekit/session"
)

type operation struct {
	op    pipeline.Op
	usage string
}

var (
	opTag      = operation{op: pipeline.OpTag, usage: "print word/tag pairs"}
	opParse    = operation{op: pipeline.OpParse, usage: "print bracketed constituency trees"}
	opDepParse = operation{op: pipeline.OpDepParse, usage: "print word, tag, head and label rows"}
)

func annotateCommand(ui UI, o operation) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{Name: "tokenize", Value: true, Usage: "segment raw text; --tokenize=false splits on whitespace"},
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "read one sentence per line from this file"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write one record per input line to this file"},
		&cli.BoolFlag{Name: "progress", Usage: "show a progress bar in file mode"},
	}
	if o.op != pipeline.OpTag {
		flags = append(flags,
			&cli.BoolFlag{Name: "tagged", Usage: "input is word<sep>tag pairs; the tagger is not run"},
			&cli.StringFlag{Name: "sep", Value: "/", Usage: "word/tag separator of tagged input"},
		)
	}
	if o.op == pipeline.OpDepParse {
		flags = append(flags, &cli.BoolFlag{Name: "lemmas", Usage: "append a lemma column"})
	}

	return &cli.Command{
		Name:      string(o.op),
		Usage:     o.usage,
		ArgsUsage: "[sentence]",
		Flags:     flags,
		Action: func(cCtx *cli.Context) error {
			cfg, err := loadConfig(cCtx)
			if err != nil {
				return err
			}
			sess, err := openSession(cfg, ui, o.op.Required(), cCtx.Bool("lemmas"))
			if err != nil {
				return err
			}
			defer func() { _ = sess.Unload() }()
			return annotate(cCtx, ui, sess, o.op)
		},
	}
}

// openSession creates a session with kind (and its tagger) loaded.
func openSession(cfg config.Config, ui UI, kind core.ModelKind, lemmas bool) (*session.Session, error) {
	logger, err := cfg.Logger(ui.Err)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	optFns := []func(o *parsekit.Options){
		parsekit.WithLogger(logger),
		parsekit.WithLengthPolicy(policy),
		parsekit.WithMaxSentenceSize(cfg.MaxSentenceSize),
	}
	if lemmas {
		optFns = append(optFns, parsekit.WithLemmatizer(lemma.New(nil)))
	}
	return parsekit.Open(cfg.ModelDir, []core.ModelKind{kind}, optFns...)
}

func annotate(cCtx *cli.Context, ui UI, sess *session.Session, op pipeline.Op) error {
	stream := func(o *session.StreamOptions) {
		o.Tokenize = cCtx.Bool("tokenize")
		o.Tagged = cCtx.Bool("tagged")
		o.Sep = cCtx.String("sep")
		o.WithLemmas = cCtx.Bool("lemmas")
	}

	if in := cCtx.String("input"); in != "" {
		out := cCtx.String("output")
		if out == "" {
			return errors.New("--input requires --output")
		}
		return annotateFile(cCtx, ui, sess, op, in, out, stream)
	}

	if cCtx.Args().Len() > 0 {
		text := strings.Join(cCtx.Args().Slice(), " ")
		report, err := sess.Stream(cCtx.Context, op, strings.NewReader(text), ui.Out, stream)
		if err != nil {
			return err
		}
		return report.Err()
	}

	report, err := sess.Stream(cCtx.Context, op, ui.In, ui.Out, stream)
	if err != nil {
		return err
	}
	return report.Err()
}

func annotateFile(cCtx *cli.Context, ui UI, sess *session.Session, op pipeline.Op, in, out string, stream func(o *session.StreamOptions)) error {
	optFns := []func(o *session.StreamOptions){stream}
	stop := func() {}

	if cCtx.Bool("progress") {
		total, err := countLines(in)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrInputUnavailable, err)
		}
		progress := uiprogress.New()
		progress.SetOut(ui.Err)
		bar := progress.AddBar(total)
		bar.AppendCompleted()
		bar.PrependElapsed()
		progress.Start()
		stop = progress.Stop
		optFns = append(optFns, func(o *session.StreamOptions) {
			o.OnLine = func(int) { bar.Incr() }
		})
	}

	report, err := sess.RunFile(cCtx.Context, op, in, out, optFns...)
	stop()
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		fprintErr(ui.Err, f)
	}
	_, _ = fmt.Fprintf(ui.Err, "%s: %d sentences, %d skipped, %d failed\n", op, report.Sentences, report.Skipped, len(report.Failures))
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			n++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
	}
}
