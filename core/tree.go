package core

// Tree is a constituency tree node. Preterminals carry a Word and no children.
// Temporary marks nodes introduced by binarization; they are spliced back into
// their parent when the tree is unbinarized.
type Tree struct {
	Label     string
	Word      string
	Children  []*Tree
	Temporary bool
}

// Leaf constructs a preterminal node (tag over word).
func Leaf(tag, word string) *Tree {
	return &Tree{Label: tag, Word: word}
}

// Node constructs a phrase node over the given children.
func Node(label string, children ...*Tree) *Tree {
	return &Tree{Label: label, Children: children}
}

// IsPreterminal reports whether the node is a tag over a single word.
func (t *Tree) IsPreterminal() bool {
	return len(t.Children) == 0
}

// Words returns the yield of the tree in order.
func (t *Tree) Words() Sentence {
	var words Sentence
	t.walk(func(n *Tree) { words = append(words, n.Word) })
	return words
}

// TaggedYield returns the preterminals of the tree as a tagged sentence.
func (t *Tree) TaggedYield() TaggedSentence {
	var out TaggedSentence
	t.walk(func(n *Tree) { out = append(out, TaggedWord{Word: n.Word, Tag: n.Label}) })
	return out
}

func (t *Tree) walk(leaf func(*Tree)) {
	if t.IsPreterminal() {
		leaf(t)
		return
	}
	for _, c := range t.Children {
		c.walk(leaf)
	}
}

// Binarize returns a right-binarized copy of the tree. A node with more than
// two children keeps its first child and pushes the rest under a temporary
// node carrying the same label.
func (t *Tree) Binarize() *Tree {
	if t.IsPreterminal() {
		return &Tree{Label: t.Label, Word: t.Word, Temporary: t.Temporary}
	}
	children := make([]*Tree, len(t.Children))
	for i, c := range t.Children {
		children[i] = c.Binarize()
	}
	return binarizeChildren(t.Label, t.Temporary, children)
}

func binarizeChildren(label string, temporary bool, children []*Tree) *Tree {
	if len(children) <= 2 {
		return &Tree{Label: label, Children: children, Temporary: temporary}
	}
	rest := binarizeChildren(label, true, children[1:])
	return &Tree{Label: label, Children: []*Tree{children[0], rest}, Temporary: temporary}
}

// Unbinarize returns a copy with every temporary node spliced into its parent,
// restoring the grammar's original branching factor.
func (t *Tree) Unbinarize() *Tree {
	if t.IsPreterminal() {
		return &Tree{Label: t.Label, Word: t.Word}
	}
	out := &Tree{Label: t.Label}
	for _, c := range t.Children {
		u := c.Unbinarize()
		if c.Temporary && !c.IsPreterminal() {
			out.Children = append(out.Children, u.Children...)
			continue
		}
		out.Children = append(out.Children, u)
	}
	return out
}
