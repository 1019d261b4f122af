package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/pipeline"
	"github.com/hupe1980/parsekit/tokenizer"
)

// LineError records a sentence that failed inside a batch run. The line still
// gets an empty output record.
type LineError struct {
	Line int   // 1-based input line number
	Err  error // Underlying cause
}

// Error implements the error interface.
func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// Unwrap returns the underlying cause.
func (e LineError) Unwrap() error { return e.Err }

// BatchReport summarizes a batch run.
type BatchReport struct {
	Sentences int         // Records written, one per input line
	Skipped   int         // Sentences dropped by the length guard
	Failures  []LineError // Per-line model or input failures
}

// Err joins the per-line failures, or returns nil when there were none.
func (r *BatchReport) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// StreamOptions configures a batch run.
type StreamOptions struct {
	// Tokenize segments raw lines; otherwise lines are split on whitespace.
	Tokenize bool

	// Tagged reads "word<sep>tag" lines and bypasses the tagger.
	Tagged bool

	// Sep separates word and tag in tagged input. Defaults to "/".
	Sep string

	// WithLemmas appends a lemma column to dependency rows.
	WithLemmas bool

	// OnLine, when set, is called after each record is written.
	OnLine func(line int)
}

// Stream annotates r line by line and writes one record per input line to w.
// Every record ends with "\n", so an empty record is a bare newline and a
// dependency record ends with a blank line. Write failures abort the run;
// model failures are collected in the report.
func (s *Session) Stream(ctx context.Context, op pipeline.Op, r io.Reader, w io.Writer, optFns ...func(o *StreamOptions)) (*BatchReport, error) {
	opts := streamOptions(optFns)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &BatchReport{}, core.ErrSessionClosed
	}
	if err := s.models().Check(op, opts.Tagged); err != nil {
		return &BatchReport{}, err
	}

	start := time.Now()
	report, err := s.stream(ctx, op, r, w, opts)
	logging.LogBatch(s.logger, string(op), "", "", report.Sentences, report.Skipped, len(report.Failures), time.Since(start), err)
	return report, err
}

// TagFile tags every line of inputPath into outputPath.
func (s *Session) TagFile(ctx context.Context, inputPath, outputPath string, tokenize bool) (*BatchReport, error) {
	return s.runFile(ctx, pipeline.OpTag, inputPath, outputPath, StreamOptions{Tokenize: tokenize})
}

// ParseFile writes one bracketed tree per line of inputPath.
func (s *Session) ParseFile(ctx context.Context, inputPath, outputPath string, tokenize bool) (*BatchReport, error) {
	return s.runFile(ctx, pipeline.OpParse, inputPath, outputPath, StreamOptions{Tokenize: tokenize})
}

// DepParseFile writes one block of dependency rows per line of inputPath.
func (s *Session) DepParseFile(ctx context.Context, inputPath, outputPath string, tokenize bool, optFns ...func(o *DepParseOptions)) (*BatchReport, error) {
	return s.runFile(ctx, pipeline.OpDepParse, inputPath, outputPath, StreamOptions{
		Tokenize:   tokenize,
		WithLemmas: depParseOptions(optFns).WithLemmas,
	})
}

// ParseTaggedFile parses pre-tagged lines of inputPath.
func (s *Session) ParseTaggedFile(ctx context.Context, inputPath, outputPath, sep string) (*BatchReport, error) {
	return s.runFile(ctx, pipeline.OpParse, inputPath, outputPath, StreamOptions{Tagged: true, Sep: sep})
}

// DepParseTaggedFile dependency-parses pre-tagged lines of inputPath.
func (s *Session) DepParseTaggedFile(ctx context.Context, inputPath, outputPath, sep string, optFns ...func(o *DepParseOptions)) (*BatchReport, error) {
	return s.runFile(ctx, pipeline.OpDepParse, inputPath, outputPath, StreamOptions{
		Tagged:     true,
		Sep:        sep,
		WithLemmas: depParseOptions(optFns).WithLemmas,
	})
}

// RunFile runs op over a file with explicit stream options.
func (s *Session) RunFile(ctx context.Context, op pipeline.Op, inputPath, outputPath string, optFns ...func(o *StreamOptions)) (*BatchReport, error) {
	return s.runFile(ctx, op, inputPath, outputPath, streamOptions(optFns))
}

func streamOptions(optFns []func(o *StreamOptions)) StreamOptions {
	var opts StreamOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

func (s *Session) runFile(ctx context.Context, op pipeline.Op, inputPath, outputPath string, opts StreamOptions) (*BatchReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &BatchReport{}, core.ErrSessionClosed
	}

	start := time.Now()
	report, err := s.runFileLocked(ctx, op, inputPath, outputPath, opts)
	logging.LogBatch(s.logger, string(op), inputPath, outputPath, report.Sentences, report.Skipped, len(report.Failures), time.Since(start), err)
	return report, err
}

func (s *Session) runFileLocked(ctx context.Context, op pipeline.Op, inputPath, outputPath string, opts StreamOptions) (*BatchReport, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return &BatchReport{}, fmt.Errorf("%w: %v", core.ErrInputUnavailable, err)
	}
	defer in.Close()

	// Fail on a missing model before the output file is created.
	if err := s.models().Check(op, opts.Tagged); err != nil {
		return &BatchReport{}, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return &BatchReport{}, fmt.Errorf("%w: %v", core.ErrOutputDestinationUnavailable, err)
	}

	bw := bufio.NewWriter(out)
	report, err := s.stream(ctx, op, in, bw, opts)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("%w: %v", core.ErrOutputDestinationUnavailable, ferr)
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: %v", core.ErrOutputDestinationUnavailable, cerr)
	}
	return report, err
}

// stream is the batch loop. The caller holds s.mu. The output slot serves as
// the per-line scratch buffer and is left empty afterwards.
func (s *Session) stream(ctx context.Context, op pipeline.Op, r io.Reader, w io.Writer, opts StreamOptions) (*BatchReport, error) {
	report := &BatchReport{}
	defer func() { s.buf = s.buf[:0] }()

	tok := s.pipe.Tokenizer(opts.Tokenize)
	if opts.Tagged {
		tok = tokenizer.Whitespace
	}
	models := s.models()
	rd := tokenizer.NewReader(r, tok)

	for rd.Next() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		line := rd.Line()

		req := pipeline.Request{Op: op, Lemmas: opts.WithLemmas}
		var err error
		if opts.Tagged {
			req.Tagged, err = pipeline.ParseTaggedInput(rd.Text(), opts.Sep)
		} else {
			req.Sentence = pipeline.StripSentinel(rd.Sentence())
		}

		out := s.buf[:0]
		if err == nil {
			var skipped bool
			out, skipped, err = s.pipe.Run(ctx, models, req, out)
			if skipped && err == nil {
				report.Skipped++
			}
		}
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return report, cerr
			}
			report.Failures = append(report.Failures, LineError{Line: line, Err: err})
			out = s.buf[:0]
		}

		s.buf = append(out, '\n')
		if _, err := w.Write(s.buf); err != nil {
			return report, fmt.Errorf("%w: %v", core.ErrOutputDestinationUnavailable, err)
		}
		report.Sentences++
		if opts.OnLine != nil {
			opts.OnLine(line)
		}
	}
	if err := rd.Err(); err != nil {
		return report, fmt.Errorf("%w: %v", core.ErrInputUnavailable, err)
	}
	return report, nil
}
