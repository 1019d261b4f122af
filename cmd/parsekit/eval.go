package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/parsekit/evaluation"
)

func evalCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "eval",
		Usage: "score a tagged or dependency output file against gold",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "gold", Required: true, Usage: "gold file"},
			&cli.StringFlag{Name: "test", Required: true, Usage: "file to score"},
			&cli.StringFlag{Name: "kind", Value: "tag", Usage: "tag or dep"},
			&cli.StringFlag{Name: "sep", Value: "/", Usage: "word/tag separator of tagged files"},
			&cli.BoolFlag{Name: "ignore-punct", Usage: "skip tokens whose gold tag is punctuation"},
		},
		Action: func(cCtx *cli.Context) error {
			opt := func(o *evaluation.Options) { o.IgnorePunct = cCtx.Bool("ignore-punct") }
			gold, test := cCtx.String("gold"), cCtx.String("test")

			switch cCtx.String("kind") {
			case "tag":
				score, err := evaluation.TagFiles(gold, test, cCtx.String("sep"), opt)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(ui.Out, "tokens:    %d/%d %.2f%%\n", score.Tokens.Correct, score.Tokens.Total, 100*score.Tokens.Accuracy())
				_, _ = fmt.Fprintf(ui.Out, "sentences: %d/%d %.2f%%\n", score.Sentences.Correct, score.Sentences.Total, 100*score.Sentences.Accuracy())
				_, _ = fmt.Fprintf(ui.Out, "missing:   %d\n", score.Missing)
			case "dep":
				score, err := evaluation.DependencyFiles(gold, test, opt)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(ui.Out, "UAS:     %d/%d %.2f%%\n", score.Unlabeled.Correct, score.Unlabeled.Total, 100*score.UAS())
				_, _ = fmt.Fprintf(ui.Out, "LAS:     %d/%d %.2f%%\n", score.Labeled.Correct, score.Labeled.Total, 100*score.LAS())
				_, _ = fmt.Fprintf(ui.Out, "exact:   %d/%d %.2f%%\n", score.Exact.Correct, score.Exact.Total, 100*score.Exact.Accuracy())
				_, _ = fmt.Fprintf(ui.Out, "missing: %d\n", score.Missing)
			default:
				return fmt.Errorf("unknown kind %q: choices are tag and dep", cCtx.String("kind"))
			}
			return nil
		},
	}
}
