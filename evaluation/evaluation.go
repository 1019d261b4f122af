// Package evaluation scores annotation output against gold files: tagging
// accuracy and unlabeled/labeled attachment scores for dependency parses.
// Gold and test are aligned sentence by sentence; an empty test record (a
// skipped sentence) counts every gold token of that sentence as wrong.
package evaluation

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/format"
	"github.com/hupe1980/parsekit/tokenizer"
)

// ErrMisaligned is returned when gold and test do not line up.
var ErrMisaligned = errors.New("gold and test are misaligned")

// Result counts correct decisions over a population.
type Result struct {
	Correct, Total int
}

// Accuracy returns Correct/Total, or 0 for an empty population.
func (r Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Add merges o into r.
func (r *Result) Add(o Result) {
	r.Correct += o.Correct
	r.Total += o.Total
}

// TagScore summarizes a tagging evaluation.
type TagScore struct {
	Tokens    Result // Per-token tag accuracy
	Sentences Result // Sentences with every tag right
	Missing   int    // Sentences without test output
}

// AttachmentScore summarizes a dependency evaluation.
type AttachmentScore struct {
	Unlabeled Result // Correct heads
	Labeled   Result // Correct heads and labels
	Exact     Result // Sentences with every head and label right
	Missing   int    // Sentences without test output
}

// UAS is the unlabeled attachment score.
func (s *AttachmentScore) UAS() float64 { return s.Unlabeled.Accuracy() }

// LAS is the labeled attachment score.
func (s *AttachmentScore) LAS() float64 { return s.Labeled.Accuracy() }

// Options tunes an evaluation.
type Options struct {
	// IgnorePunct drops tokens whose gold tag is punctuation.
	IgnorePunct bool
}

var punctTags = map[string]bool{
	".": true, ",": true, ":": true, "``": true, "''": true, "-LRB-": true, "-RRB-": true, "#": true, "$": true,
}

func counted(tag string, opts Options) bool { return !opts.IgnorePunct || !punctTags[tag] }

// Tags scores test against gold. Both slices must have the same length and a
// non-empty test sentence must match its gold sentence word for word.
func Tags(gold, test []core.TaggedSentence, optFns ...func(o *Options)) (*TagScore, error) {
	opts := options(optFns)
	if len(gold) != len(test) {
		return nil, fmt.Errorf("%w: %d gold sentences, %d test sentences", ErrMisaligned, len(gold), len(test))
	}
	score := &TagScore{}
	for i, g := range gold {
		t := test[i]
		if len(t) == 0 && len(g) > 0 {
			score.Missing++
		} else if len(t) != len(g) {
			return nil, fmt.Errorf("%w: sentence %d has %d gold and %d test tokens", ErrMisaligned, i+1, len(g), len(t))
		}
		var r Result
		for j, gw := range g {
			if !counted(gw.Tag, opts) {
				continue
			}
			r.Total++
			if len(t) == 0 {
				continue
			}
			if t[j].Word != gw.Word {
				return nil, fmt.Errorf("%w: sentence %d token %d is %q in gold and %q in test", ErrMisaligned, i+1, j+1, gw.Word, t[j].Word)
			}
			if t[j].Tag == gw.Tag {
				r.Correct++
			}
		}
		score.Tokens.Add(r)
		score.Sentences.Add(exact(r))
	}
	return score, nil
}

// Dependencies scores test parses against gold parses.
func Dependencies(gold, test []core.DependencyParse, optFns ...func(o *Options)) (*AttachmentScore, error) {
	opts := options(optFns)
	if len(gold) != len(test) {
		return nil, fmt.Errorf("%w: %d gold sentences, %d test sentences", ErrMisaligned, len(gold), len(test))
	}
	score := &AttachmentScore{}
	for i, g := range gold {
		t := test[i]
		if len(t) == 0 && len(g) > 0 {
			score.Missing++
		} else if len(t) != len(g) {
			return nil, fmt.Errorf("%w: sentence %d has %d gold and %d test tokens", ErrMisaligned, i+1, len(g), len(t))
		}
		var u, l Result
		for j, gn := range g {
			if !counted(gn.Tag, opts) {
				continue
			}
			u.Total++
			l.Total++
			if len(t) == 0 {
				continue
			}
			if t[j].Head == gn.Head {
				u.Correct++
				if t[j].Label == gn.Label {
					l.Correct++
				}
			}
		}
		score.Unlabeled.Add(u)
		score.Labeled.Add(l)
		score.Exact.Add(exact(l))
	}
	return score, nil
}

func exact(r Result) Result {
	if r.Correct == r.Total {
		return Result{Correct: 1, Total: 1}
	}
	return Result{Total: 1}
}

func options(optFns []func(o *Options)) Options {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// ReadTaggedRecords reads one tagged sentence per line, keeping empty lines
// as empty sentences so batch output stays aligned with its input.
func ReadTaggedRecords(r io.Reader, sep string) ([]core.TaggedSentence, error) {
	var out []core.TaggedSentence
	rd := tokenizer.NewReader(r, tokenizer.Whitespace)
	for rd.Next() {
		ts, err := format.ParseTagged(rd.Text(), sep)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rd.Line(), err)
		}
		out = append(out, ts)
	}
	return out, rd.Err()
}

// TagFiles scores a tagged test file against a gold file in the same format.
func TagFiles(goldPath, testPath, sep string, optFns ...func(o *Options)) (*TagScore, error) {
	gold, err := readFile(goldPath, func(r io.Reader) ([]core.TaggedSentence, error) { return ReadTaggedRecords(r, sep) })
	if err != nil {
		return nil, err
	}
	test, err := readFile(testPath, func(r io.Reader) ([]core.TaggedSentence, error) { return ReadTaggedRecords(r, sep) })
	if err != nil {
		return nil, err
	}
	return Tags(gold, test, optFns...)
}

// DependencyFiles scores a dependency test file against a gold file.
func DependencyFiles(goldPath, testPath string, optFns ...func(o *Options)) (*AttachmentScore, error) {
	gold, err := readFile(goldPath, format.ReadDependencyRecords)
	if err != nil {
		return nil, err
	}
	test, err := readFile(testPath, format.ReadDependencyRecords)
	if err != nil {
		return nil, err
	}
	return Dependencies(gold, test, optFns...)
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInputUnavailable, err)
	}
	defer f.Close()
	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
