package core

// Sentence is an ordered token sequence produced per call.
type Sentence []string

// TaggedWord pairs a word with its part-of-speech tag.
type TaggedWord struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

// TaggedSentence is the tagger output; its length equals the token count.
type TaggedSentence []TaggedWord

// Words returns the word column of the sentence.
func (s TaggedSentence) Words() Sentence {
	words := make(Sentence, len(s))
	for i, tw := range s {
		words[i] = tw.Word
	}
	return words
}

// Tags returns the tag column of the sentence.
func (s TaggedSentence) Tags() []string {
	tags := make([]string, len(s))
	for i, tw := range s {
		tags[i] = tw.Tag
	}
	return tags
}

// DependencyNode is one token of a dependency parse. Head is the 0-based index
// of the governing token, or -1 for the root.
type DependencyNode struct {
	Word  string `json:"word"`
	Tag   string `json:"tag"`
	Head  int    `json:"head"`
	Label string `json:"label"`
	Lemma string `json:"lemma,omitempty"`
}

// DependencyParse holds one node per token in sentence order.
type DependencyParse []DependencyNode

// Root returns the index of the first root node or -1.
func (p DependencyParse) Root() int {
	for i, n := range p {
		if n.Head == -1 {
			return i
		}
	}
	return -1
}
