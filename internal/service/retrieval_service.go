package service

import (
	"context"
	"fmt"
	"strings"

	"ai-tutoring-be/internal/config"
	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/apperror"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/pkg/metrics"
	"ai-tutoring-be/internal/repository/contract"
	"ai-tutoring-be/pkg/embedding"
	"ai-tutoring-be/pkg/llm"

	"github.com/google/uuid"
)

// RetrievalResult is the outcome of one pass through the tiered
// answer pipeline. CacheReused is non-nil only for tier 1, where the
// validator explicitly accepted or rejected the cached answer.
type RetrievalResult struct {
	Answer      string
	Source      string
	Tier        string
	Confidence  float64
	UsedCache   bool
	CacheReused *bool
	QuestionId  *uuid.UUID
}

type RetrievalService struct {
	questionRepo contract.QuestionRepository
	embedder     embedding.Provider
	smallLLM     llm.LLMProvider
	fineTuned    llm.LLMProvider
	largeLLM     llm.LLMProvider
	tiers        config.TierConfig
	smallCfg     config.ModelConfig
	fineTunedCfg config.ModelConfig
	largeCfg     config.ModelConfig
	logger       logger.ILogger
}

func NewRetrievalService(
	questionRepo contract.QuestionRepository,
	embedder embedding.Provider,
	smallLLM llm.LLMProvider,
	fineTuned llm.LLMProvider,
	largeLLM llm.LLMProvider,
	cfg *config.Config,
	log logger.ILogger,
) *RetrievalService {
	return &RetrievalService{
		questionRepo: questionRepo,
		embedder:     embedder,
		smallLLM:     smallLLM,
		fineTuned:    fineTuned,
		largeLLM:     largeLLM,
		tiers:        cfg.Tiers,
		smallCfg:     cfg.SmallLLM,
		fineTunedCfg: cfg.FineTuned,
		largeCfg:     cfg.LargeLLM,
		logger:       log,
	}
}

// determineTier maps the top cache similarity to a routing tier.
func (s *RetrievalService) determineTier(confidence float64) string {
	switch {
	case confidence >= s.tiers.Tier1Threshold:
		return constant.TierValidate
	case confidence >= s.tiers.Tier2Threshold:
		return constant.TierContext
	case confidence >= s.tiers.Tier3Threshold:
		return constant.TierFineTuned
	default:
		return constant.TierLargeLLM
	}
}

// stripThink removes <think> reasoning blocks emitted by
// DeepSeek-R1 style models.
func stripThink(response string) string {
	if idx := strings.LastIndex(response, "</think>"); idx >= 0 {
		return strings.TrimSpace(response[idx+len("</think>"):])
	}
	if idx := strings.Index(response, "<think>"); idx >= 0 {
		return strings.TrimSpace(response[:idx])
	}
	return response
}

func modelOptions(cfg config.ModelConfig) []llm.Option {
	opts := []llm.Option{
		llm.WithTemperature(cfg.Temperature),
		llm.WithTopP(cfg.TopP),
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(cfg.MaxTokens))
	}
	return opts
}

// RetrieveAnswer runs the tiered pipeline: embed, search the question
// cache, route by the top similarity, answer with the cheapest model
// the confidence allows, and write fresh answers back to the cache.
func (s *RetrievalService) RetrieveAnswer(ctx context.Context, query, originalQuery string) (*RetrievalResult, error) {
	if originalQuery == "" {
		originalQuery = query
	}
	s.logger.Info("retrieval", "Tiered answer pipeline started", map[string]interface{}{
		"query_length": len(query),
	})

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("embedding_error").Inc()
		return nil, apperror.UpstreamUnavailable("embedding service failed", err)
	}

	cachedResults := s.searchCache(ctx, queryEmbedding)

	topConfidence := 0.0
	if len(cachedResults) > 0 {
		topConfidence = cachedResults[0].Similarity
	}
	tier := s.determineTier(topConfidence)
	metrics.Confidence.Observe(topConfidence)
	metrics.TierRequestsTotal.WithLabelValues(tier).Inc()

	s.logger.Info("retrieval", "Routing decision", map[string]interface{}{
		"confidence": topConfidence,
		"tier":       tier,
	})

	result := &RetrievalResult{
		Tier:       tier,
		Source:     tier,
		Confidence: topConfidence,
	}

	switch tier {
	case constant.TierValidate:
		err = s.runTier1(ctx, query, originalQuery, queryEmbedding, cachedResults[0], result)
	case constant.TierContext:
		err = s.runTier2(ctx, query, originalQuery, queryEmbedding, cachedResults, result)
	case constant.TierFineTuned:
		err = s.runTier3(ctx, query, originalQuery, queryEmbedding, result)
	default:
		err = s.runTier4(ctx, query, originalQuery, queryEmbedding, result)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("retrieval", "Tiered answer pipeline completed", map[string]interface{}{
		"source":        result.Source,
		"answer_length": len(result.Answer),
	})
	return result, nil
}

// searchCache is non-critical: a store failure degrades to an empty
// result set and the pipeline routes to tier 4.
func (s *RetrievalService) searchCache(ctx context.Context, queryEmbedding []float32) []*entity.ScoredQuestion {
	results, err := s.questionRepo.SearchSimilar(ctx, queryEmbedding, s.tiers.CacheTopK, 0, nil)
	if err != nil {
		s.logger.Warn("retrieval", "Cache search failed (non-critical)", map[string]interface{}{
			"error": err,
		})
		return nil
	}
	return results
}

func (s *RetrievalService) runTier1(ctx context.Context, query, originalQuery string, queryEmbedding []float32, top *entity.ScoredQuestion, result *RetrievalResult) error {
	answer, cacheReused, err := s.validateOrGenerate(ctx, query, top.Question.QuestionText, top.Question.AnswerText)
	if err != nil {
		s.logger.Warn("retrieval", "Tier 1 validator failed, falling back to large model", map[string]interface{}{
			"error": err,
		})
		metrics.CacheMissesTotal.Inc()
		fallbackAnswer, fallbackErr := s.queryLargeLLM(ctx, query)
		if fallbackErr != nil {
			return fallbackErr
		}
		result.Answer = fallbackAnswer
		result.Source = result.Tier + constant.SourceSuffixFallback
		s.saveToCache(ctx, originalQuery, query, fallbackAnswer, queryEmbedding, constant.SourceExternalModel, result)
		return nil
	}

	result.Answer = answer
	result.CacheReused = &cacheReused
	if cacheReused {
		metrics.CacheHitsTotal.Inc()
		result.UsedCache = true
		result.Source = result.Tier + constant.SourceSuffixCacheReused
		id := top.Question.Id
		result.QuestionId = &id
		if err := s.questionRepo.IncrementUsage(ctx, top.Question.Id); err != nil {
			s.logger.Warn("retrieval", "Usage increment failed (non-critical)", map[string]interface{}{
				"error": err,
			})
		}
	} else {
		metrics.CacheMissesTotal.Inc()
		result.Source = result.Tier + constant.SourceSuffixGenerated
		s.saveToCache(ctx, originalQuery, query, answer, queryEmbedding, constant.SourceSmallModel, result)
	}
	return nil
}

func (s *RetrievalService) runTier2(ctx context.Context, query, originalQuery string, queryEmbedding []float32, cachedResults []*entity.ScoredQuestion, result *RetrievalResult) error {
	metrics.CacheMissesTotal.Inc()
	answer, err := s.querySmallLLMWithContext(ctx, query, cachedResults)
	if err != nil {
		return err
	}
	result.Answer = answer
	s.saveToCache(ctx, originalQuery, query, answer, queryEmbedding, constant.SourceSmallModel, result)
	return nil
}

func (s *RetrievalService) runTier3(ctx context.Context, query, originalQuery string, queryEmbedding []float32, result *RetrievalResult) error {
	metrics.CacheMissesTotal.Inc()
	answer, err := s.queryFineTuned(ctx, query)
	source := constant.SourceFineTuned
	if err != nil {
		s.logger.Warn("retrieval", "Tier 3 fine-tuned model failed, falling back to large model", map[string]interface{}{
			"error": err,
		})
		answer, err = s.queryLargeLLM(ctx, query)
		if err != nil {
			return err
		}
		result.Source = result.Tier + constant.SourceSuffixFallback
		source = constant.SourceExternalModel
	}
	result.Answer = answer
	s.saveToCache(ctx, originalQuery, query, answer, queryEmbedding, source, result)
	return nil
}

func (s *RetrievalService) runTier4(ctx context.Context, query, originalQuery string, queryEmbedding []float32, result *RetrievalResult) error {
	metrics.CacheMissesTotal.Inc()
	answer, err := s.queryLargeLLM(ctx, query)
	if err != nil {
		return err
	}
	result.Answer = answer
	s.saveToCache(ctx, originalQuery, query, answer, queryEmbedding, constant.SourceExternalModel, result)
	return nil
}

// validateOrGenerate asks the small model whether the cached answer
// fits the query. The first response line carries the verdict.
func (s *RetrievalService) validateOrGenerate(ctx context.Context, query, cachedQuestion, cachedAnswer string) (string, bool, error) {
	history := []llm.Message{
		{Role: constant.RoleSystem, Content: constant.ValidateOrGenerateSystemPrompt},
		{Role: constant.RoleUser, Content: fmt.Sprintf(
			"User's Question: %s\n\nCached Question: %s\n\nCached Answer: %s",
			query, cachedQuestion, cachedAnswer,
		)},
	}

	response, err := s.smallLLM.Chat(ctx, history, modelOptions(s.smallCfg)...)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("small_llm_validate_or_generate_error").Inc()
		return "", false, err
	}
	metrics.LLMCallsTotal.WithLabelValues("small_llm_validate_or_generate").Inc()

	response = stripThink(response)
	prefix, answerText, found := strings.Cut(strings.TrimSpace(response), "\n")
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if found {
		answerText = strings.TrimSpace(answerText)
	} else {
		answerText = ""
	}

	if prefix == "CACHE_VALID" {
		if answerText == "" {
			answerText = cachedAnswer
		}
		return answerText, true, nil
	}
	if answerText == "" {
		answerText = response
	}
	return answerText, false, nil
}

func (s *RetrievalService) querySmallLLMWithContext(ctx context.Context, query string, cachedResults []*entity.ScoredQuestion) (string, error) {
	var sb strings.Builder
	sb.WriteString(constant.Tier2ContextPrefix)
	for i, cached := range cachedResults {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, "%d. Q: %s\n   A: %s\n\n", i+1, cached.Question.QuestionText, cached.Question.AnswerText)
	}
	sb.WriteString(constant.Tier2ContextSuffix)

	history := []llm.Message{
		{Role: constant.RoleSystem, Content: sb.String()},
		{Role: constant.RoleUser, Content: query},
	}

	response, err := s.smallLLM.Chat(ctx, history, modelOptions(s.smallCfg)...)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("small_llm_context_error").Inc()
		return "", apperror.UpstreamUnavailable("small model with context failed", err)
	}
	metrics.LLMCallsTotal.WithLabelValues("small_llm_context").Inc()
	return stripThink(response), nil
}

func (s *RetrievalService) queryFineTuned(ctx context.Context, query string) (string, error) {
	history := []llm.Message{
		{Role: constant.RoleSystem, Content: constant.Tier3SystemPrompt},
		{Role: constant.RoleUser, Content: query},
	}

	response, err := s.fineTuned.Chat(ctx, history, modelOptions(s.fineTunedCfg)...)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("fine_tuned_error").Inc()
		return "", err
	}
	metrics.LLMCallsTotal.WithLabelValues("fine_tuned").Inc()
	return stripThink(response), nil
}

func (s *RetrievalService) queryLargeLLM(ctx context.Context, query string) (string, error) {
	history := []llm.Message{
		{Role: constant.RoleSystem, Content: constant.Tier4SystemPrompt},
		{Role: constant.RoleUser, Content: query},
	}

	response, err := s.largeLLM.Chat(ctx, history, modelOptions(s.largeCfg)...)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("large_llm_error").Inc()
		return "", apperror.UpstreamUnavailable("large model failed", err)
	}
	metrics.LLMCallsTotal.WithLabelValues("large_llm").Inc()
	return stripThink(response), nil
}

// saveToCache is non-critical: a store failure is logged and the answer
// still reaches the caller. Successful saves record the new entry id on
// the result so tutoring can attach to it.
func (s *RetrievalService) saveToCache(ctx context.Context, originalQuery, reformulatedQuery, answer string, queryEmbedding []float32, source string, result *RetrievalResult) {
	question := &entity.Question{
		QuestionText:     originalQuery,
		ReformulatedText: reformulatedQuery,
		AnswerText:       answer,
		Embedding:        queryEmbedding,
		Source:           source,
		Confidence:       constant.DefaultWriteBackConfidence,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		s.logger.Warn("retrieval", "Cache save failed (non-critical)", map[string]interface{}{
			"error": err,
		})
		return
	}
	id := question.Id
	result.QuestionId = &id
}
