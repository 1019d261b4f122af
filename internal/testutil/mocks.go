package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hupe1980/parsekit/core"
)

// MockTagger is a testify mock implementing core.Tagger.
type MockTagger struct {
	mock.Mock
}

// Tag implements core.Tagger.
func (m *MockTagger) Tag(ctx context.Context, sent core.Sentence) (core.TaggedSentence, error) {
	args := m.Called(ctx, sent)
	ts, _ := args.Get(0).(core.TaggedSentence)
	return ts, args.Error(1)
}

// MockConParser is a testify mock implementing core.ConParser.
type MockConParser struct {
	mock.Mock
}

// Parse implements core.ConParser.
func (m *MockConParser) Parse(ctx context.Context, sent core.TaggedSentence) (*core.Tree, error) {
	args := m.Called(ctx, sent)
	t, _ := args.Get(0).(*core.Tree)
	return t, args.Error(1)
}

// MockDepParser is a testify mock implementing core.DepParser.
type MockDepParser struct {
	mock.Mock
}

// Parse implements core.DepParser.
func (m *MockDepParser) Parse(ctx context.Context, sent core.TaggedSentence) (core.DependencyParse, error) {
	args := m.Called(ctx, sent)
	p, _ := args.Get(0).(core.DependencyParse)
	return p, args.Error(1)
}

// ClosingTagger tags every token with FixedTag and counts Close calls.
type ClosingTagger struct {
	FixedTag string
	Closed   int
}

// Tag implements core.Tagger.
func (c *ClosingTagger) Tag(_ context.Context, sent core.Sentence) (core.TaggedSentence, error) {
	out := make(core.TaggedSentence, len(sent))
	for i, w := range sent {
		out[i] = core.TaggedWord{Word: w, Tag: c.FixedTag}
	}
	return out, nil
}

// Close releases the tagger.
func (c *ClosingTagger) Close() error {
	c.Closed++
	return nil
}

var (
	_ core.Tagger    = (*MockTagger)(nil)
	_ core.Tagger    = (*ClosingTagger)(nil)
	_ core.ConParser = (*MockConParser)(nil)
	_ core.DepParser = (*MockDepParser)(nil)
)
