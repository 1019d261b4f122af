package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/parsekit/core"
)

// AppendDependency appends one "word\ttag\thead\tlabel\n" row per node to dst.
// Head is the 0-based index of the governing token, -1 for the root. With
// lemmas set a fifth lemma column is added.
func AppendDependency(dst []byte, p core.DependencyParse, lemmas bool) []byte {
	for _, n := range p {
		dst = append(dst, n.Word...)
		dst = append(dst, '\t')
		dst = append(dst, n.Tag...)
		dst = append(dst, '\t')
		dst = strconv.AppendInt(dst, int64(n.Head), 10)
		dst = append(dst, '\t')
		dst = append(dst, n.Label...)
		if lemmas {
			dst = append(dst, '\t')
			dst = append(dst, n.Lemma...)
		}
		dst = append(dst, '\n')
	}
	return dst
}

// Dependency renders a dependency parse as tab separated rows.
func Dependency(p core.DependencyParse) string {
	return string(AppendDependency(nil, p, false))
}

// ParseDependency reads rows produced by AppendDependency. Blank lines are
// ignored. Rows carry four columns or five when a lemma is present.
func ParseDependency(text string) (core.DependencyParse, error) {
	var out core.DependencyParse
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		n, err := parseRow(line)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseRow(line string) (core.DependencyNode, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 4 && len(cols) != 5 {
		return core.DependencyNode{}, fmt.Errorf("%w: expected 4 or 5 columns, got %d in %q", ErrMalformed, len(cols), line)
	}
	head, err := strconv.Atoi(cols[2])
	if err != nil {
		return core.DependencyNode{}, fmt.Errorf("%w: bad head %q", ErrMalformed, cols[2])
	}
	n := core.DependencyNode{Word: cols[0], Tag: cols[1], Head: head, Label: cols[3]}
	if len(cols) == 5 {
		n.Lemma = cols[4]
	}
	return n, nil
}

// ReadDependencies reads dependency parses separated by blank lines. Runs of
// blank lines (empty batch records) are collapsed.
func ReadDependencies(r io.Reader) ([]core.DependencyParse, error) {
	var (
		out []core.DependencyParse
		cur core.DependencyParse
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		line := strings.TrimRight(text, "\r\n")
		switch {
		case text == "":
		case strings.TrimSpace(line) == "":
			flush()
		default:
			n, perr := parseRow(line)
			if perr != nil {
				return nil, perr
			}
			cur = append(cur, n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				flush()
				return out, nil
			}
			return nil, err
		}
	}
}

// ReadDependencyRecords reads batch output record by record. Every blank line
// ends one record, so an empty record (a sentence that produced no parse)
// comes back as a nil parse at its position. Rows left at end of input form a
// final record.
func ReadDependencyRecords(r io.Reader) ([]core.DependencyParse, error) {
	var (
		out []core.DependencyParse
		cur core.DependencyParse
	)
	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		line := strings.TrimRight(text, "\r\n")
		switch {
		case text == "":
		case strings.TrimSpace(line) == "":
			out = append(out, cur)
			cur = nil
		default:
			n, perr := parseRow(line)
			if perr != nil {
				return nil, perr
			}
			cur = append(cur, n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(cur) > 0 {
					out = append(out, cur)
				}
				return out, nil
			}
			return nil, err
		}
	}
}
