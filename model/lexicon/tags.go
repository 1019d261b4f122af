package lexicon

import "strings"

func isVerb(tag string) bool { return strings.HasPrefix(tag, "VB") || tag == "MD" }

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN") || tag == "PRP" || tag == "EX" || tag == "WP"
}

func isCommonNoun(tag string) bool { return strings.HasPrefix(tag, "NN") }

func isPrep(tag string) bool { return tag == "IN" || tag == "TO" }

func isAdverb(tag string) bool { return strings.HasPrefix(tag, "RB") }

// isPreModifier reports tags that attach to the noun on their right.
func isPreModifier(tag string) bool {
	switch tag {
	case "DT", "PDT", "PRP$", "CD", "POS", "WDT", "WP$":
		return true
	}
	return strings.HasPrefix(tag, "JJ")
}

func isPunct(tag string) bool {
	switch tag {
	case ".", ",", ":", "``", "''", "-LRB-", "-RRB-", "#":
		return true
	}
	return false
}
