package intent

// Category is the recognized intent of a student utterance during a
// tutoring exchange.
type Category string

const (
	Affirmative Category = "affirmative"
	Negative    Category = "negative"
	Partial     Category = "partial"
	Question    Category = "question"
	Skip        Category = "skip"
	OffTopic    Category = "off_topic"
)

// Method records how a classification was produced.
type Method string

const (
	MethodRuleBased Method = "rule_based"
	MethodLLMBased  Method = "llm_based"
	MethodHybrid    Method = "hybrid"
)

type Result struct {
	Intent          Category
	Confidence      float64
	Method          Method
	MatchedPatterns []string
}
