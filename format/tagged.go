// Package format renders annotations into their plain-text surface forms and
// reads them back: "word/tag" tagged sentences, tab separated dependency rows
// and bracketed constituency trees.
//
// Append* variants write into a caller supplied buffer so a session can reuse
// its output slot across calls.
package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/parsekit/core"
)

// DefaultSeparator joins a word and its tag.
const DefaultSeparator = "/"

// ErrMalformed is returned when text does not follow the expected format.
var ErrMalformed = errors.New("malformed annotation")

// AppendTagged appends "word/tag" pairs joined by single spaces to dst.
// Words are not escaped.
func AppendTagged(dst []byte, s core.TaggedSentence) []byte {
	for i, tw := range s {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = append(dst, tw.Word...)
		dst = append(dst, DefaultSeparator...)
		dst = append(dst, tw.Tag...)
	}
	return dst
}

// Tagged renders a tagged sentence as "word/tag" pairs.
func Tagged(s core.TaggedSentence) string {
	return string(AppendTagged(nil, s))
}

// ParseTagged reads a whitespace separated sequence of word<sep>tag tokens.
// Each token is split on the last occurrence of sep so words may contain the
// separator. An empty sep means DefaultSeparator.
func ParseTagged(text, sep string) (core.TaggedSentence, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	fields := strings.Fields(text)
	out := make(core.TaggedSentence, 0, len(fields))
	for _, f := range fields {
		i := strings.LastIndex(f, sep)
		if i <= 0 || i+len(sep) >= len(f) {
			return nil, fmt.Errorf("%w: untagged token %q", ErrMalformed, f)
		}
		out = append(out, core.TaggedWord{Word: f[:i], Tag: f[i+len(sep):]})
	}
	return out, nil
}

// ReadTagged reads one tagged sentence per non-empty line.
func ReadTagged(r io.Reader, sep string) ([]core.TaggedSentence, error) {
	var out []core.TaggedSentence
	br := bufio.NewReader(r)
	line := 0
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			line++
			if strings.TrimSpace(text) != "" {
				s, perr := ParseTagged(text, sep)
				if perr != nil {
					return nil, fmt.Errorf("line %d: %w", line, perr)
				}
				out = append(out, s)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
	}
}
