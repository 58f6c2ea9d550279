package intent

import (
	"context"
	"fmt"
	"strings"

	"ai-tutoring-be/pkg/llm"
)

// Classifier resolves a student utterance to an intent category using
// pattern rules first and an LLM fallback when the rules are not
// confident enough.
type Classifier struct {
	provider       llm.LLMProvider
	ruleThreshold  float64
	useLLMFallback bool
	temperature    float64
	maxTokens      int
}

type ClassifierOption func(*Classifier)

func WithRuleThreshold(threshold float64) ClassifierOption {
	return func(c *Classifier) { c.ruleThreshold = threshold }
}

func WithoutLLMFallback() ClassifierOption {
	return func(c *Classifier) { c.useLLMFallback = false }
}

func NewClassifier(provider llm.LLMProvider, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		provider:       provider,
		ruleThreshold:  0.7,
		useLLMFallback: true,
		temperature:    0.0,
		maxTokens:      10,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.provider == nil {
		c.useLLMFallback = false
	}
	return c
}

// classifyRuleBased scores the utterance against the pattern table. A
// single matching category is near certain; competing categories split
// confidence by match share.
func classifyRuleBased(text string) (Category, float64, []string) {
	textLower := strings.ToLower(strings.TrimSpace(text))

	matches := map[Category][]string{}
	for category, patterns := range intentPatterns {
		for _, pattern := range patterns {
			if pattern.MatchString(textLower) {
				matches[category] = append(matches[category], pattern.String())
			}
		}
	}

	if len(matches) == 0 {
		return "", 0.0, nil
	}
	if len(matches) == 1 {
		for category, matched := range matches {
			return category, 0.95, matched
		}
	}

	var best Category
	bestCount, total := 0, 0
	for category, matched := range matches {
		total += len(matched)
		if len(matched) > bestCount {
			best = category
			bestCount = len(matched)
		}
	}
	confidence := float64(bestCount) / float64(total) * 0.8
	return best, confidence, matches[best]
}

func (c *Classifier) classifyLLMBased(ctx context.Context, text, tutorQuestion string) (Category, error) {
	prompt := fmt.Sprintf(classificationPrompt, text)
	if tutorQuestion != "" {
		prompt = fmt.Sprintf("Tutor's question: %q\n\n%s", tutorQuestion, prompt)
	}

	response, err := c.provider.Generate(ctx, prompt,
		llm.WithTemperature(c.temperature),
		llm.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", err
	}

	resultText := strings.ToUpper(strings.TrimSpace(response))
	if idx := strings.LastIndex(resultText, "</THINK>"); idx >= 0 {
		resultText = strings.TrimSpace(resultText[idx+len("</THINK>"):])
	}

	for _, candidate := range []struct {
		key      string
		category Category
	}{
		{"AFFIRMATIVE", Affirmative},
		{"NEGATIVE", Negative},
		{"PARTIAL", Partial},
		{"QUESTION", Question},
		{"SKIP", Skip},
		{"OFF_TOPIC", OffTopic},
	} {
		if strings.Contains(resultText, candidate.key) {
			return candidate.category, nil
		}
	}
	return OffTopic, nil
}

// Classify runs the hybrid pipeline. It never returns an error: any
// failure degrades to a low-confidence off_topic result.
func (c *Classifier) Classify(ctx context.Context, text, tutorQuestion string) Result {
	category, confidence, patterns := classifyRuleBased(text)

	if category != "" && confidence >= c.ruleThreshold {
		return Result{Intent: category, Confidence: confidence, Method: MethodRuleBased, MatchedPatterns: patterns}
	}

	if c.useLLMFallback {
		llmCategory, err := c.classifyLLMBased(ctx, text, tutorQuestion)
		switch {
		case err != nil && category != "":
			return Result{Intent: category, Confidence: confidence, Method: MethodRuleBased, MatchedPatterns: patterns}
		case err != nil:
			return Result{Intent: OffTopic, Confidence: 0.3, Method: MethodRuleBased}
		case category != "" && category == llmCategory:
			return Result{Intent: category, Confidence: 0.9, Method: MethodHybrid, MatchedPatterns: patterns}
		case category != "":
			return Result{Intent: llmCategory, Confidence: 0.7, Method: MethodHybrid}
		default:
			return Result{Intent: llmCategory, Confidence: 0.8, Method: MethodLLMBased}
		}
	}

	if category != "" {
		return Result{Intent: category, Confidence: confidence, Method: MethodRuleBased, MatchedPatterns: patterns}
	}
	return Result{Intent: OffTopic, Confidence: 0.3, Method: MethodRuleBased}
}
