package constant

// Confidence tiers, ordered from highest cache confidence to none.
const (
	TierValidate  = "tier1_validate"
	TierContext   = "tier2_context"
	TierFineTuned = "tier3_fine_tuned"
	TierLargeLLM  = "tier4_large_llm"
)

// Source suffixes appended to the tier label in the response source field.
const (
	SourceSuffixCacheReused = "_cache_reused"
	SourceSuffixGenerated   = "_generated"
	SourceSuffixFallback    = "_fallback"
)

// Question entry provenance.
const (
	SourceExternalModel = "external-model"
	SourceSmallModel    = "lightweight-model"
	SourceFineTuned     = "fine-tuned-model"
	SourceHuman         = "human"
	SourceAuto          = "auto"
)

// Session phases.
const (
	PhaseInitial       = "initial"
	PhaseReformulation = "reformulation"
	PhaseRetrieval     = "retrieval"
	PhaseTutoring      = "tutoring"
	PhaseCompleted     = "completed"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Default confidence assigned to freshly generated cache entries.
const DefaultWriteBackConfidence = 0.9

// NextStepPrompt is appended to tutoring turns that expect another exchange.
const NextStepPrompt = "Do you understand this step? Would you like me to explain further?"

// CachedStepPrompt is the follow-up used when a turn was answered from
// the interaction tree instead of a model.
const CachedStepPrompt = "Do you understand? Would you like me to explain further?"

// IntentCached marks a turn answered from the interaction tree.
const IntentCached = "cached"
