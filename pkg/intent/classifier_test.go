package intent

import (
	"context"
	"errors"
	"testing"

	"ai-tutoring-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRuleBased(t *testing.T) {
	cases := []struct {
		text string
		want Category
	}{
		{"yes", Affirmative},
		{"Yeah, I got it", Affirmative},
		{"of course, absolutely", Affirmative},
		{"nope", Negative},
		{"I don't understand", Negative},
		{"never heard of it", Negative},
		{"maybe, I'm not sure", Partial},
		{"kind of", Partial},
		{"bit rusty on this", Partial},
		{"what do you mean by slope", Question},
		{"can you explain the second part", Question},
		{"just tell me the answer", Skip},
		{"skip the explanation please", Skip},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			category, confidence, patterns := classifyRuleBased(tc.text)
			assert.Equal(t, tc.want, category)
			assert.Greater(t, confidence, 0.0)
			assert.NotEmpty(t, patterns)
		})
	}
}

func TestClassifyRuleBasedSingleCategoryIsNearCertain(t *testing.T) {
	category, confidence, _ := classifyRuleBased("definitely")
	assert.Equal(t, Affirmative, category)
	assert.Equal(t, 0.95, confidence)
}

func TestClassifyRuleBasedCompetingCategoriesSplitConfidence(t *testing.T) {
	// "yes" and "why" pull in different directions.
	category, confidence, _ := classifyRuleBased("yes but why")
	assert.Contains(t, []Category{Affirmative, Question}, category)
	assert.Less(t, confidence, 0.95)
}

func TestClassifyRuleBasedNoMatch(t *testing.T) {
	category, confidence, patterns := classifyRuleBased("the weather is nice today")
	assert.Equal(t, Category(""), category)
	assert.Equal(t, 0.0, confidence)
	assert.Empty(t, patterns)
}

func TestClassifyWithoutProviderUsesRulesOnly(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify(context.Background(), "yes", "")
	assert.Equal(t, Affirmative, result.Intent)
	assert.Equal(t, MethodRuleBased, result.Method)

	result = c.Classify(context.Background(), "the weather is nice", "")
	assert.Equal(t, OffTopic, result.Intent)
	assert.Equal(t, 0.3, result.Confidence)
}

type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func TestClassifyConfidentRuleSkipsLLM(t *testing.T) {
	stub := &stubLLM{response: "NEGATIVE"}
	c := NewClassifier(stub)

	result := c.Classify(context.Background(), "yes", "")
	assert.Equal(t, Affirmative, result.Intent)
	assert.Equal(t, 0, stub.calls)
}

func TestClassifyLLMFallbackOnNoRuleMatch(t *testing.T) {
	stub := &stubLLM{response: "PARTIAL"}
	c := NewClassifier(stub)

	result := c.Classify(context.Background(), "the weather is nice", "did you follow?")
	assert.Equal(t, Partial, result.Intent)
	assert.Equal(t, MethodLLMBased, result.Method)
	assert.Equal(t, 0.8, result.Confidence)
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyHybridAgreementBoostsConfidence(t *testing.T) {
	stub := &stubLLM{response: "AFFIRMATIVE"}
	c := NewClassifier(stub, WithRuleThreshold(0.99))

	result := c.Classify(context.Background(), "yes", "")
	assert.Equal(t, Affirmative, result.Intent)
	assert.Equal(t, MethodHybrid, result.Method)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestClassifyLLMFailureDegradesToOffTopic(t *testing.T) {
	stub := &stubLLM{err: errors.New("model offline")}
	c := NewClassifier(stub)

	result := c.Classify(context.Background(), "the weather is nice", "")
	assert.Equal(t, OffTopic, result.Intent)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestClassifyLLMStripsThinkBlock(t *testing.T) {
	stub := &stubLLM{response: "<think>the user seems unsure</think>\nPARTIAL"}
	c := NewClassifier(stub)

	result := c.Classify(context.Background(), "complete mystery to me", "")
	assert.Equal(t, Partial, result.Intent)
}

func TestClassifyUnrecognizedLLMReplyIsOffTopic(t *testing.T) {
	stub := &stubLLM{response: "banana"}
	c := NewClassifier(stub)

	result := c.Classify(context.Background(), "the weather is nice", "")
	assert.Equal(t, OffTopic, result.Intent)
}
