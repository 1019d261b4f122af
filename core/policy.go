package core

import (
	"fmt"
	"strings"
)

// MaxSentenceSize is the token count at which the length guard triggers.
const MaxSentenceSize = 512

// LengthPolicy selects what the length guard does with an overlong sentence.
type LengthPolicy int

const (
	// LengthPolicySkip substitutes an empty result and logs a warning.
	LengthPolicySkip LengthPolicy = iota
	// LengthPolicyError fails the call with ErrSentenceTooLong.
	LengthPolicyError
	// LengthPolicyTruncate keeps the first Max-1 tokens and annotates them.
	LengthPolicyTruncate
)

// String returns the configuration name of the policy.
func (p LengthPolicy) String() string {
	switch p {
	case LengthPolicySkip:
		return "skip"
	case LengthPolicyError:
		return "error"
	case LengthPolicyTruncate:
		return "truncate"
	default:
		return "unknown"
	}
}

// ParseLengthPolicy maps a configuration name to a policy.
func ParseLengthPolicy(s string) (LengthPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return LengthPolicySkip, nil
	case "error":
		return LengthPolicyError, nil
	case "truncate":
		return LengthPolicyTruncate, nil
	default:
		return LengthPolicySkip, fmt.Errorf("unknown length policy %q", s)
	}
}

// Guard enforces the sentence length ceiling.
type Guard struct {
	Max    int // Ceiling; MaxSentenceSize when <= 0
	Policy LengthPolicy
}

// Limit returns the effective ceiling.
func (g Guard) Limit() int {
	if g.Max <= 0 {
		return MaxSentenceSize
	}
	return g.Max
}

// Apply checks a sentence against the ceiling. It returns the tokens to
// annotate and skip=true when the caller must produce an empty result instead.
// Under LengthPolicyError the error wraps ErrSentenceTooLong.
func (g Guard) Apply(sent Sentence) (Sentence, bool, error) {
	limit := g.Limit()
	if len(sent) < limit {
		return sent, false, nil
	}
	switch g.Policy {
	case LengthPolicyTruncate:
		return sent[:limit-1], false, nil
	case LengthPolicyError:
		return nil, true, fmt.Errorf("%w: %d tokens, limit %d", ErrSentenceTooLong, len(sent), limit)
	default:
		return nil, true, nil
	}
}
