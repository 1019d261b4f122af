package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hupe1980/parsekit/core"
)

// temporaryMark suffixes labels of binarization nodes in raw renderings.
const temporaryMark = "*"

// AppendTree appends the bracketed surface form of t to dst. The tree is
// unbinarized first, so temporary nodes never appear in the output.
func AppendTree(dst []byte, t *core.Tree) []byte {
	if t == nil {
		return dst
	}
	return appendNode(dst, t.Unbinarize(), false)
}

// Tree renders the unbinarized bracketed form, e.g. "(S (NP (PRP I)) (VP ...))".
func Tree(t *core.Tree) string {
	return string(AppendTree(nil, t))
}

// RawTree renders t without unbinarizing it. Temporary node labels carry a
// trailing "*".
func RawTree(t *core.Tree) string {
	if t == nil {
		return ""
	}
	return string(appendNode(nil, t, true))
}

func appendNode(dst []byte, t *core.Tree, raw bool) []byte {
	dst = append(dst, '(')
	dst = append(dst, t.Label...)
	if raw && t.Temporary {
		dst = append(dst, temporaryMark...)
	}
	if t.IsPreterminal() {
		dst = append(dst, ' ')
		dst = append(dst, t.Word...)
		return append(dst, ')')
	}
	for _, c := range t.Children {
		dst = append(dst, ' ')
		dst = appendNode(dst, c, raw)
	}
	return append(dst, ')')
}

// ParseTree reads a bracketed tree. Labels ending in "*" mark temporary
// nodes. A PTB style unlabeled outer wrapper "( (S ...))" is removed.
func ParseTree(text string) (*core.Tree, error) {
	p := &treeParser{toks: lexTree(text)}
	if len(p.toks) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrMalformed)
	}
	t, err := p.node()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("%w: trailing input after tree", ErrMalformed)
	}
	if t.Label == "" && len(t.Children) == 1 {
		t = t.Children[0]
	}
	return t, nil
}

type treeParser struct {
	toks []string
	pos  int
}

func (p *treeParser) next() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, true
}

func (p *treeParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *treeParser) node() (*core.Tree, error) {
	if tok, ok := p.next(); !ok || tok != "(" {
		return nil, fmt.Errorf("%w: expected '(' at token %d", ErrMalformed, p.pos)
	}
	t := &core.Tree{}
	if tok := p.peek(); tok != "(" && tok != ")" && tok != "" {
		p.pos++
		t.Label = tok
		if len(tok) > len(temporaryMark) && strings.HasSuffix(tok, temporaryMark) {
			t.Label = strings.TrimSuffix(tok, temporaryMark)
			t.Temporary = true
		}
	}
	switch tok := p.peek(); {
	case tok == "":
		return nil, fmt.Errorf("%w: unexpected end of tree", ErrMalformed)
	case tok != "(" && tok != ")":
		p.pos++
		t.Word = tok
	default:
		for p.peek() == "(" {
			c, err := p.node()
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, c)
		}
	}
	if tok, ok := p.next(); !ok || tok != ")" {
		return nil, fmt.Errorf("%w: expected ')' at token %d", ErrMalformed, p.pos)
	}
	if t.Word == "" && len(t.Children) == 0 {
		return nil, fmt.Errorf("%w: empty constituent %q", ErrMalformed, t.Label)
	}
	return t, nil
}

func lexTree(text string) []string {
	var (
		toks []string
		cur  strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
