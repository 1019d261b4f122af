package tokenizer

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/hupe1980/parsekit/core"
)

// Reader streams one sentence per input line. Lines are read without a length
// cap so overlong sentences reach the length guard instead of failing here.
type Reader struct {
	r    *bufio.Reader
	tok  Tokenizer
	line int
	text string
	sent core.Sentence
	err  error
	done bool
}

// NewReader returns a Reader that segments each line with tok. A nil tok
// splits on whitespace.
func NewReader(r io.Reader, tok Tokenizer) *Reader {
	if tok == nil {
		tok = Whitespace
	}
	return &Reader{r: bufio.NewReader(r), tok: tok}
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	text, err := r.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
			r.done = true
			return false
		}
		r.done = true
		if text == "" {
			return false
		}
	}
	r.line++
	r.text = strings.TrimRight(text, "\r\n")
	r.sent = r.tok.Tokenize(r.text)
	return true
}

// Sentence returns the tokens of the current line. An empty line yields an
// empty sentence.
func (r *Reader) Sentence() core.Sentence { return r.sent }

// Text returns the current line without its line terminator.
func (r *Reader) Text() string { return r.text }

// Line returns the 1-based number of the current line.
func (r *Reader) Line() int { return r.line }

// Err returns the first non-EOF read error.
func (r *Reader) Err() error { return r.err }
